package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clawnch/clawctl/pkg/integrations/platform"
)

const defaultTokenLimit = 10

// tokensFlags holds the filters of the tokens command.
type tokensFlags struct {
	limit   int
	offset  int
	source  string
	agent   string
	address string
	symbol  string
	refresh bool
}

// tokensCommand creates the tokens command.
func (c *CLI) tokensCommand() *cobra.Command {
	flags := tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "List tokens launched via Clawnch",
		Long: `List tokens launched via Clawnch, newest first.

Examples:
  clawctl tokens
  clawctl tokens -l 25 -s moltbook
  clawctl tokens --symbol CLAW -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTokens(cmd, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "l", defaultTokenLimit, "number of tokens to return")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "number of tokens to skip")
	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "filter by platform (moltbook, moltx, 4claw)")
	cmd.Flags().StringVarP(&flags.agent, "agent", "a", "", "filter by agent name")
	cmd.Flags().StringVar(&flags.address, "address", "", "filter by token address")
	cmd.Flags().StringVar(&flags.symbol, "symbol", "", "filter by symbol")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runTokens(cmd *cobra.Command, flags tokensFlags) error {
	ctx := cmd.Context()
	opts := platform.TokenListOptions{
		Limit:   flags.limit,
		Offset:  flags.offset,
		Agent:   flags.agent,
		Address: flags.address,
		Symbol:  flags.symbol,
	}
	if flags.source != "" {
		src, err := platform.ParseSource(flags.source)
		if err != nil {
			return err
		}
		opts.Source = src
	}

	client, cleanup, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	spinner := c.spin(cmd, "Fetching tokens...")
	page, err := client.ListTokens(ctx, opts, flags.refresh)
	if err != nil {
		spinner.StopWithError("Failed to fetch tokens")
		return err
	}
	spinner.Stop()

	return c.render(cmd, page, func(p *printer) {
		if len(page.Tokens) == 0 {
			p.warning("No tokens found.")
			return
		}
		p.title("Launched Tokens (showing %d of %d)", len(page.Tokens), page.Total())
		rows := make([][]string, 0, len(page.Tokens))
		for _, t := range page.Tokens {
			rows = append(rows, []string{
				orDash(t.Symbol),
				orDash(t.Name),
				orDash(t.Address),
				orDash(t.Platform),
				orDash(t.Deployer),
				orDash(formatRelativeTime(t.CreatedAt)),
			})
		}
		p.table([]string{"Symbol", "Name", "Address", "Platform", "Agent", "Launched"}, rows)
		if page.Pagination != nil && page.Pagination.HasMore {
			p.newline()
			p.nextStep("More", fmt.Sprintf("clawctl tokens --offset %d", flags.offset+len(page.Tokens)))
		}
	})
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show $CLAWNCH price, market stats and platform metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd, refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runStats(cmd *cobra.Command, refresh bool) error {
	ctx := cmd.Context()
	client, cleanup, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	spinner := c.spin(cmd, "Fetching stats...")
	stats, err := client.GetStats(ctx, refresh)
	if err != nil {
		spinner.StopWithError("Failed to fetch stats")
		return err
	}
	spinner.Stop()

	return c.render(cmd, stats, func(p *printer) {
		printStats(p, stats)
	})
}

// maxTopTokens caps the leaderboard shown by the stats command.
const maxTopTokens = 5

// printStats prints the non-zero metrics and the top of the leaderboard.
func printStats(p *printer, s *platform.Stats) {
	p.title("Clawnch Stats")

	usd := func(label string, n platform.Number) {
		if n != 0 {
			p.keyValue(label, StyleSuccess.Render(formatUSD(n.Float64())))
		}
	}
	count := func(label string, n platform.Number) {
		if n != 0 {
			p.keyValue(label, formatNumber(n.Float64()))
		}
	}

	usd("Price", s.Price)
	usd("Market Cap", s.MarketCap)
	usd("Total Market Cap", s.TotalMarketCap)
	usd("Volume (24h)", s.Volume24h)
	count("Total Tokens", s.TokenCount)
	count("Total Launches", s.TotalLaunches)
	count("Launched (24h)", s.TokenCount24h)
	usd("Agent Fees (24h)", s.AgentFees24h)
	if s.BurnedClawnchFormatted != "" {
		p.keyValue("CLAWNCH Burned", StyleWarning.Render(s.BurnedClawnchFormatted))
	}

	if len(s.TopTokens) == 0 {
		return
	}
	p.newline()
	p.println(StyleTitle.Render("Top Tokens"))
	for i, t := range s.TopTokens {
		if i == maxTopTokens {
			break
		}
		change := "N/A"
		if t.PriceChange24h != 0 {
			style := StyleSuccess
			if t.PriceChange24h < 0 {
				style = StyleDanger
			}
			change = style.Render(formatPercent(t.PriceChange24h.Float64()))
		}
		p.println(fmt.Sprintf("  %-10s $%.10f (%s) mcap: %s",
			t.Symbol, t.PriceUSD.Float64(), change, formatUSD(t.MarketCap.Float64())))
	}
}

// formatRelativeTime renders an RFC 3339 timestamp relative to now, falling
// back to the input when it does not parse.
func formatRelativeTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}

	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// withTimeout bounds ctx when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
