package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/integrations/platform"
)

// maxUploadBytes bounds local files read by the upload command.
const maxUploadBytes = 10 << 20

// =============================================================================
// upload
// =============================================================================

// uploadCommand creates the upload command.
func (c *CLI) uploadCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload <imageUrlOrBase64|file>",
		Short: "Upload an image and get a direct hosting link",
		Long: `Upload an image given as a URL, base64 data or a local file.

A local file is read and base64-encoded before upload.

Examples:
  clawctl upload https://example.com/logo.png
  clawctl upload ./logo.png -n lobster`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUpload(cmd, args[0], name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "optional image name")

	return cmd
}

func (c *CLI) runUpload(cmd *cobra.Command, image, name string) error {
	ctx := cmd.Context()
	image, err := readImageArg(image)
	if err != nil {
		return err
	}

	client, cleanup, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	spinner := c.spin(cmd, "Uploading image...")
	res, err := client.UploadImage(ctx, image, name)
	if err != nil {
		spinner.StopWithError("Upload failed")
		return err
	}
	spinner.Stop()

	if err := c.render(cmd, res, func(p *printer) {
		if !res.Success {
			return
		}
		p.success("Image uploaded successfully!")
		p.keyValue("URL", StyleLink.Render(res.URL))
		if res.Hint != "" {
			p.detail("%s", res.Hint)
		}
	}); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("upload failed: %s", orDash(res.Error))
	}
	return nil
}

// readImageArg returns arg unchanged unless it names a local file, in which
// case the file is read and base64-encoded.
func readImageArg(arg string) (string, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "data:") {
		return arg, nil
	}
	info, err := os.Stat(arg)
	if err != nil || info.IsDir() {
		return arg, nil
	}
	if info.Size() > maxUploadBytes {
		return "", clawerr.New(clawerr.ErrCodeInvalidInput, "%s is too large (max %d MiB)", arg, maxUploadBytes>>20)
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// =============================================================================
// launch
// =============================================================================

// launchCommand creates the launch command group.
func (c *CLI) launchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Build, validate and submit !clawnch launch posts",
	}

	cmd.AddCommand(c.launchValidateCommand())
	cmd.AddCommand(c.launchSubmitCommand())
	cmd.AddCommand(c.launchBuildCommand())

	return cmd
}

// launchValidateCommand creates the "launch validate" subcommand.
func (c *CLI) launchValidateCommand() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "validate <content|->",
		Short: "Validate launch content before posting",
		Long: `Validate launch post content with the platform.

Pass "-" to read the post from stdin. --offline checks the post locally
without contacting the platform.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContentArg(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if offline {
				return c.runValidateOffline(cmd, content)
			}
			return c.runValidate(cmd, content)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "validate locally without calling the API")

	return cmd
}

func readContentArg(stdin io.Reader, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func (c *CLI) runValidate(cmd *cobra.Command, content string) error {
	ctx := cmd.Context()
	client, cleanup, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	spinner := c.spin(cmd, "Validating...")
	res, err := client.ValidateLaunch(ctx, content)
	if err != nil {
		spinner.StopWithError("Validation failed")
		return err
	}
	spinner.Stop()

	return c.reportValidation(cmd, res)
}

func (c *CLI) runValidateOffline(cmd *cobra.Command, content string) error {
	res := &platform.ValidateResult{Valid: true}
	params, err := platform.ParseLaunchPost(content)
	if err == nil {
		err = params.Validate()
	}
	if err != nil {
		res.Valid = false
		res.Errors = strings.Split(clawerr.UserMessage(err), "; ")
	} else {
		res.Parsed = &params
	}
	return c.reportValidation(cmd, res)
}

func (c *CLI) reportValidation(cmd *cobra.Command, res *platform.ValidateResult) error {
	if err := c.render(cmd, res, func(p *printer) {
		if res.Valid {
			p.success("Launch content is valid!")
			if res.Parsed != nil {
				p.newline()
				printLaunchParams(p, res.Parsed)
			}
			return
		}
		p.failure("Validation errors:")
		for _, e := range res.Errors {
			p.detail("• %s", e)
		}
	}); err != nil {
		return err
	}
	if !res.Valid {
		return clawerr.New(clawerr.ErrCodeInvalidTokenDetails, "launch content is invalid")
	}
	return nil
}

func printLaunchParams(p *printer, params *platform.TokenLaunchParams) {
	kv := func(k, v string) {
		if v != "" {
			p.keyValue(k, v)
		}
	}
	kv("Name", params.Name)
	kv("Symbol", params.Symbol)
	kv("Wallet", params.Wallet)
	kv("Description", params.Description)
	kv("Image", params.Image)
	kv("Website", params.Website)
	kv("Twitter", params.Twitter)
	kv("Burn TX", params.BurnTxHash)
	kv("Molten Intents", params.MoltenIntents)
	for _, fs := range params.FeeSplit {
		p.keyValue("Fee Split", fmt.Sprintf("%s %s (%s)", fs.Wallet, fs.Share, fs.Role))
	}
}

// launchSubmitCommand creates the "launch submit" subcommand.
func (c *CLI) launchSubmitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <platform> <postId>",
		Short: "Submit a post for processing (fallback if the scanner missed it)",
		Long: `Ask the platform to process a launch post it has not picked up.

Platforms: moltbook, moltx, 4claw.

Examples:
  clawctl launch submit moltbook 3f2c5a9e-1d2b-4c3a-9f8e-7d6c5b4a3f2e`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSubmit(cmd, args[0], args[1])
		},
	}
}

func (c *CLI) runSubmit(cmd *cobra.Command, source, postID string) error {
	ctx := cmd.Context()
	src, err := platform.ParseSource(source)
	if err != nil {
		return err
	}

	client, cleanup, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	op := startOp(ctx, "submit", "source", src, "post", postID)
	spinner := c.spin(cmd, "Submitting post...")
	res, err := client.SubmitPost(ctx, src, postID)
	op.finish(err)
	if err != nil {
		spinner.StopWithError("Submission failed")
		return err
	}
	spinner.Stop()

	if err := c.render(cmd, res, func(p *printer) {
		if !res.Success {
			return
		}
		msg := res.Message
		if msg == "" {
			msg = "Post submitted"
		}
		p.success("%s", msg)
		if res.Token != nil {
			p.keyValue("Symbol", res.Token.Symbol)
			p.keyValue("Address", res.Token.Address)
			if res.Token.TxHash != "" {
				p.keyValue("TX Hash", res.Token.TxHash)
			}
		}
		if res.URLs != nil {
			p.newline()
			p.link("Clanker", res.URLs.Clanker)
			p.link("BaseScan", res.URLs.Basescan)
			p.link("DexScreener", res.URLs.Dexscreener)
		}
	}); err != nil {
		return err
	}
	if !res.Success {
		return &clawerr.APIError{
			Code:       clawerr.Code(res.Code),
			Message:    res.Error,
			Details:    res.Details,
			Suggestion: res.Suggestion,
		}
	}
	return nil
}

// buildFlags holds the post fields of "launch build".
type buildFlags struct {
	params   platform.TokenLaunchParams
	feeSplit []string
}

// launchBuildCommand creates the "launch build" subcommand.
func (c *CLI) launchBuildCommand() *cobra.Command {
	flags := buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a !clawnch launch post",
		Long: `Build a !clawnch launch post from flags and print it.

Fee splits are given as wallet:share:role and may be repeated.

Examples:
  clawctl launch build --name "Lobster" --symbol LOB \
    --wallet 0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12 \
    --description "The lobster token" \
    --fee-split 0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12:80:creator`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.params.Name, "name", "", "token name")
	f.StringVar(&flags.params.Symbol, "symbol", "", "token symbol")
	f.StringVar(&flags.params.Wallet, "wallet", "", "your Base wallet address")
	f.StringVar(&flags.params.Description, "description", "", "token description")
	f.StringVar(&flags.params.Image, "image", "", "image URL")
	f.StringVar(&flags.params.Website, "website", "", "website URL")
	f.StringVar(&flags.params.Twitter, "twitter", "", "Twitter handle")
	f.StringVar(&flags.params.BurnTxHash, "burn-tx", "", "burn transaction hash for the dev allocation")
	f.StringVar(&flags.params.MoltenIntents, "molten-intents", "", "Molten intents to publish with the launch")
	f.StringArrayVar(&flags.feeSplit, "fee-split", nil, "fee split as wallet:share:role (repeatable)")
	for _, name := range []string{"name", "symbol", "wallet", "description"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, flags buildFlags) error {
	params := flags.params
	for _, raw := range flags.feeSplit {
		entry, err := platform.ParseFeeSplitFlag(raw)
		if err != nil {
			return err
		}
		params.FeeSplit = append(params.FeeSplit, entry)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	post := platform.BuildLaunchPost(params)
	out := struct {
		Post   string                      `json:"post"`
		Params *platform.TokenLaunchParams `json:"params"`
	}{post, &params}

	return c.render(cmd, out, func(p *printer) {
		p.title("Your launch post:")
		p.println(post)
		p.newline()
		p.detail("Copy and post this to Moltbook (m/clawnch), Moltx, or 4claw!")
	})
}

// =============================================================================
// ratelimit
// =============================================================================

// rateLimitCommand creates the ratelimit command.
func (c *CLI) rateLimitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit [agent]",
		Short: "Check an agent's launch cooldown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent := ""
			if len(args) == 1 {
				agent = args[0]
			}
			return c.runRateLimit(cmd, agent)
		},
	}
}

func (c *CLI) runRateLimit(cmd *cobra.Command, agent string) error {
	ctx := cmd.Context()
	client, cleanup, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	spinner := c.spin(cmd, "Checking rate limit...")
	st, err := client.CheckRateLimit(ctx, agent)
	if err != nil {
		spinner.StopWithError("Rate limit check failed")
		return err
	}
	spinner.Stop()

	return c.render(cmd, st, func(p *printer) {
		if agent != "" {
			p.keyValue("Agent", agent)
		}
		if st.Limited {
			p.keyValue("Status", StyleWarning.Render(st.String()))
			return
		}
		p.keyValue("Status", StyleSuccess.Render(st.String()))
	})
}
