package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/clawnch/clawctl/pkg/clawnch"
	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/integrations/molten"
)

// moltenCommand creates the molten command group.
func (c *CLI) moltenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "molten",
		Short: "Agent-to-agent matching via the Molten network",
		Long: `Find partner agents on the Molten network.

Register once to get an API key, then export it as MOLTEN_API_KEY. Publish
offers and requests as intents; Molten pairs them into matches you can
accept, reject or message.`,
	}

	cmd.AddCommand(c.moltenRegisterCommand())
	cmd.AddCommand(c.moltenIntentCommand())
	cmd.AddCommand(c.moltenIntentsCommand())
	cmd.AddCommand(c.moltenMatchesCommand())
	cmd.AddCommand(c.moltenAcceptCommand())
	cmd.AddCommand(c.moltenRejectCommand())
	cmd.AddCommand(c.moltenMessageCommand())
	cmd.AddCommand(c.moltenEventsCommand())

	return cmd
}

// moltenClient builds a client and fails early when no Molten key is set.
func (c *CLI) moltenClient(cmd *cobra.Command) (*clawnch.Client, func(), error) {
	client, cleanup, err := c.newClient(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	if !client.Molten().HasKey() {
		cleanup()
		return nil, nil, clawerr.New(clawerr.ErrCodeMoltenKeyRequired, "MOLTEN_API_KEY environment variable is required")
	}
	return client, cleanup, nil
}

// moltenRegisterCommand creates the "molten register" subcommand.
func (c *CLI) moltenRegisterCommand() *cobra.Command {
	params := molten.RegisterParams{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register your agent on Molten",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, cleanup, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			spinner := c.spin(cmd, "Registering agent...")
			res, err := client.MoltenRegister(ctx, params)
			if err != nil {
				spinner.StopWithError("Registration failed")
				return err
			}
			spinner.Stop()

			if err := c.render(cmd, res, func(p *printer) {
				if !res.Success {
					return
				}
				p.success("Agent registered on Molten!")
				if res.AgentID != "" {
					p.keyValue("Agent ID", res.AgentID)
				}
				if res.APIKey != "" {
					p.newline()
					p.println(StyleDanger.Render("  " + iconWarning + " SAVE YOUR API KEY (shown only once):"))
					p.println("  " + StyleValue.Render(res.APIKey))
					p.newline()
					p.detail("Set it as MOLTEN_API_KEY env var for future commands.")
				}
			}); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("registration failed: %s", orDash(res.Error))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.Name, "name", "", "agent name")
	f.StringVar(&params.Description, "description", "", "agent description")
	f.StringVar(&params.Telegram, "telegram", "", "Telegram handle")
	f.StringVar(&params.Email, "email", "", "email address")
	f.StringVar(&params.Webhook, "webhook", "", "webhook URL for Molten events")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

// moltenIntentCommand creates the "molten intent" subcommand.
func (c *CLI) moltenIntentCommand() *cobra.Command {
	var (
		intentType string
		category   string
		metadata   map[string]string
	)
	in := molten.Intent{}

	categories := make([]string, len(molten.Categories))
	for i, cat := range molten.Categories {
		categories[i] = string(cat)
	}

	cmd := &cobra.Command{
		Use:   "intent",
		Short: "Create an offer or request intent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = molten.IntentType(intentType)
			in.Category = molten.Category(category)
			if len(metadata) > 0 {
				in.Metadata = make(map[string]any, len(metadata))
				for k, v := range metadata {
					in.Metadata[k] = v
				}
			}

			ctx := cmd.Context()
			client, cleanup, err := c.moltenClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			spinner := c.spin(cmd, "Creating intent...")
			res, err := client.MoltenCreateIntent(ctx, in)
			if err != nil {
				spinner.StopWithError("Intent creation failed")
				return err
			}
			spinner.Stop()

			return c.render(cmd, res, func(p *printer) {
				p.success("Intent created! ID: %s", res.IntentID)
				p.nextStep("Find matches", "clawctl molten matches")
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&intentType, "type", "", "intent type: offer or request")
	f.StringVar(&category, "category", "", "category: "+strings.Join(categories, ", "))
	f.StringVar(&in.Title, "title", "", "intent title")
	f.StringVar(&in.Description, "description", "", "intent description")
	f.StringToStringVar(&metadata, "meta", nil, "extra metadata as key=value pairs")
	for _, name := range []string{"type", "category", "title", "description"} {
		_ = cmd.MarkFlagRequired(name)
	}
	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(
		[]string{string(molten.IntentOffer), string(molten.IntentRequest)}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("category", cobra.FixedCompletions(categories, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// moltenIntentsCommand creates the "molten intents" subcommand.
func (c *CLI) moltenIntentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "List your intents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, cleanup, err := c.moltenClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			spinner := c.spin(cmd, "Fetching intents...")
			intents, err := client.MoltenListIntents(ctx)
			if err != nil {
				spinner.StopWithError("Failed to fetch intents")
				return err
			}
			spinner.Stop()

			return c.render(cmd, intents, func(p *printer) {
				if len(intents) == 0 {
					p.warning("No intents yet.")
					p.nextStep("Create one", "clawctl molten intent --type offer ...")
					return
				}
				p.title("Intents (%d)", len(intents))
				rows := make([][]string, 0, len(intents))
				for _, in := range intents {
					rows = append(rows, []string{string(in.Type), string(in.Category), in.Title})
				}
				p.table([]string{"Type", "Category", "Title"}, rows)
			})
		},
	}
}

// moltenMatchesCommand creates the "molten matches" subcommand.
func (c *CLI) moltenMatchesCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Show potential agent matches",
		Long: `Show potential agent matches.

With --interactive, pick a match from a list and accept or reject it in
place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMatches(cmd, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a match to accept or reject")

	return cmd
}

func (c *CLI) runMatches(cmd *cobra.Command, interactive bool) error {
	ctx := cmd.Context()
	client, cleanup, err := c.moltenClient(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	spinner := c.spin(cmd, "Fetching matches...")
	matches, err := client.MoltenMatches(ctx)
	if err != nil {
		spinner.StopWithError("Failed to fetch matches")
		return err
	}
	spinner.Stop()

	if !interactive || c.structured() || len(matches) == 0 {
		return c.render(cmd, matches, func(p *printer) {
			printMatches(p, matches)
		})
	}

	prog := tea.NewProgram(NewMatchListModel(matches),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()))
	final, err := prog.Run()
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout())
	fm, ok := final.(MatchListModel)
	if !ok || fm.Selected == nil {
		p.detail("No selection made")
		return nil
	}

	switch fm.Action {
	case matchActionAccept:
		return c.acceptMatch(cmd, client, fm.Selected.MatchID)
	case matchActionReject:
		return c.rejectMatch(cmd, client, fm.Selected.MatchID)
	}
	return nil
}

func printMatches(p *printer, matches []molten.Match) {
	if len(matches) == 0 {
		p.warning("No matches found yet. Create intents to find matches!")
		return
	}
	p.title("Matches (%d)", len(matches))
	for _, m := range matches {
		name := m.Agent.Name
		if name == "" {
			name = "Unknown Agent"
		}
		p.println(fmt.Sprintf("  %s  Score: %s", StyleValue.Bold(true).Render(name), StyleSuccess.Render(formatScore(m.Score))))
		p.detail("Match ID: %s", m.MatchID)
		if m.Agent.Description != "" {
			p.detail("%s", m.Agent.Description)
		}
		if m.Intent.Title != "" {
			p.detail("%s %s: %s", m.Intent.Type, m.Intent.Category, m.Intent.Title)
		}
		p.newline()
	}
	p.nextStep("Accept", "clawctl molten accept <matchId>")
}

func formatScore(s float64) string {
	return fmt.Sprintf("%g", s)
}

// moltenAcceptCommand creates the "molten accept" subcommand.
func (c *CLI) moltenAcceptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <matchId>",
		Short: "Accept a match and exchange contact info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := c.moltenClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return c.acceptMatch(cmd, client, args[0])
		},
	}
}

func (c *CLI) acceptMatch(cmd *cobra.Command, client *clawnch.Client, matchID string) error {
	spinner := c.spin(cmd, "Accepting match...")
	res, err := client.MoltenAcceptMatch(cmd.Context(), matchID)
	if err != nil {
		spinner.StopWithError("Failed to accept match")
		return err
	}
	spinner.Stop()

	return c.render(cmd, res, func(p *printer) {
		p.success("Match accepted!")
		if len(res.ContactInfo) == 0 {
			return
		}
		p.newline()
		p.println(StyleTitle.Render("Contact info"))
		keys := make([]string, 0, len(res.ContactInfo))
		for k := range res.ContactInfo {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.keyValue(k, res.ContactInfo[k])
		}
	})
}

// moltenRejectCommand creates the "molten reject" subcommand.
func (c *CLI) moltenRejectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <matchId>",
		Short: "Reject a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := c.moltenClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return c.rejectMatch(cmd, client, args[0])
		},
	}
}

func (c *CLI) rejectMatch(cmd *cobra.Command, client *clawnch.Client, matchID string) error {
	spinner := c.spin(cmd, "Rejecting match...")
	res, err := client.MoltenRejectMatch(cmd.Context(), matchID)
	if err != nil {
		spinner.StopWithError("Failed to reject match")
		return err
	}
	spinner.Stop()

	return c.render(cmd, res, func(p *printer) {
		p.success("Match rejected")
	})
}

// moltenMessageCommand creates the "molten message" subcommand.
func (c *CLI) moltenMessageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "message <matchId> <message...>",
		Short: "Send a message to a matched agent",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := c.moltenClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			text := strings.Join(args[1:], " ")
			spinner := c.spin(cmd, "Sending message...")
			res, err := client.MoltenSendMessage(cmd.Context(), args[0], text)
			if err != nil {
				spinner.StopWithError("Failed to send message")
				return err
			}
			spinner.Stop()

			return c.render(cmd, res, func(p *printer) {
				p.success("Message sent")
			})
		},
	}
}

// moltenEventsCommand creates the "molten events" subcommand.
func (c *CLI) moltenEventsCommand() *cobra.Command {
	var ack bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show pending Molten events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, cleanup, err := c.moltenClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			spinner := c.spin(cmd, "Fetching events...")
			events, err := client.MoltenEvents(ctx)
			if err != nil {
				spinner.StopWithError("Failed to fetch events")
				return err
			}
			spinner.Stop()

			if err := c.render(cmd, events, func(p *printer) {
				if len(events) == 0 {
					p.info("No pending events")
					return
				}
				p.title("Events (%d)", len(events))
				rows := make([][]string, 0, len(events))
				for _, e := range events {
					rows = append(rows, []string{e.ID, e.Type, orDash(formatRelativeTime(e.CreatedAt))})
				}
				p.table([]string{"ID", "Type", "Created"}, rows)
			}); err != nil {
				return err
			}

			if !ack || len(events) == 0 {
				return nil
			}
			ids := make([]string, len(events))
			for i, e := range events {
				ids[i] = e.ID
			}
			if _, err := client.MoltenAckEvents(ctx, ids); err != nil {
				return err
			}
			loggerFromContext(ctx).Info("acknowledged events", "count", len(ids))
			return nil
		},
	}

	cmd.Flags().BoolVar(&ack, "ack", false, "acknowledge the listed events")

	return cmd
}
