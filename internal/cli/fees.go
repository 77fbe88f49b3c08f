package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/onchain"
)

// defaultTxTimeout bounds how long a write waits for its receipt.
const defaultTxTimeout = 5 * time.Minute

// =============================================================================
// fees
// =============================================================================

// feesCommand creates the fees command group.
func (c *CLI) feesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Check and claim trading fees",
	}

	cmd.AddCommand(c.feesCheckCommand())
	cmd.AddCommand(c.feesClaimCommand())

	return cmd
}

// feesCheckCommand creates the "fees check" subcommand.
func (c *CLI) feesCheckCommand() *cobra.Command {
	var wallet string

	cmd := &cobra.Command{
		Use:   "check <tokenAddress>",
		Short: "Check pending WETH and token fees",
		Long: `Check the WETH and token fees waiting in the fee locker.

--wallet defaults to the wallet derived from PRIVATE_KEY.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFeesCheck(cmd, args[0], wallet)
		},
	}

	cmd.Flags().StringVarP(&wallet, "wallet", "w", "", "wallet address that deployed the token")

	return cmd
}

func (c *CLI) runFeesCheck(cmd *cobra.Command, token, wallet string) error {
	ctx := cmd.Context()
	client, cleanup, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	spinner := c.spin(cmd, "Checking fees on Base...")
	fees, err := client.CheckFees(ctx, wallet, token)
	if err != nil {
		spinner.StopWithError("Fee check failed")
		return err
	}
	spinner.Stop()

	return c.render(cmd, feeView(fees), func(p *printer) {
		p.title("Pending Fees")
		p.keyValue("WETH fees", StyleSuccess.Render(fees.WethFormatted)+" WETH")
		p.keyValue("Token fees", StyleSuccess.Render(fees.TokenFormatted)+" tokens")
		if !fees.HasFees() {
			p.newline()
			p.detail("No fees to claim yet. Keep promoting your token!")
			return
		}
		p.newline()
		p.nextStep("Claim", "clawctl fees claim "+fees.Token)
	})
}

// feeInfoView is the structured form of a fee check; raw amounts are
// decimal strings so they survive JSON and YAML intact.
type feeInfoView struct {
	Wallet         string `json:"wallet"`
	Token          string `json:"token"`
	WethFees       string `json:"wethFees"`
	TokenFees      string `json:"tokenFees"`
	WethFormatted  string `json:"wethFormatted"`
	TokenFormatted string `json:"tokenFormatted"`
}

func feeView(f *onchain.FeeInfo) feeInfoView {
	return feeInfoView{
		Wallet:         f.Wallet,
		Token:          f.Token,
		WethFees:       f.WethFees.String(),
		TokenFees:      f.TokenFees.String(),
		WethFormatted:  f.WethFormatted,
		TokenFormatted: f.TokenFormatted,
	}
}

// feesClaimCommand creates the "fees claim" subcommand.
func (c *CLI) feesClaimCommand() *cobra.Command {
	var (
		wethOnly bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "claim <tokenAddress>",
		Short: "Claim all pending fees (requires PRIVATE_KEY)",
		Long: `Claim WETH fees, then token fees, for the wallet derived from PRIVATE_KEY.

Both claims are attempted even if the first one fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFeesClaim(cmd, args[0], wethOnly, timeout)
		},
	}

	cmd.Flags().BoolVar(&wethOnly, "weth-only", false, "claim only the WETH fees")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTxTimeout, "how long to wait for receipts")

	return cmd
}

func (c *CLI) runFeesClaim(cmd *cobra.Command, token string, wethOnly bool, timeout time.Duration) error {
	ctx, cancel := withTimeout(cmd.Context(), timeout)
	defer cancel()

	client, cleanup, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	if _, ok := client.WalletAddress(); !ok {
		return clawerr.New(clawerr.ErrCodeWalletRequired, "PRIVATE_KEY environment variable is required for claiming fees")
	}

	op := startOp(ctx, "claim", "token", token, "wethOnly", wethOnly)
	spinner := c.spin(cmd, "Claiming fees on Base...")
	var res *onchain.ClaimAllResult
	if wethOnly {
		var weth *onchain.ClaimResult
		weth, err = client.ClaimWethFees(ctx, token)
		if err == nil {
			res = &onchain.ClaimAllResult{Weth: weth}
		}
	} else {
		res, err = client.ClaimFees(ctx, token)
	}
	op.finish(err)
	if err != nil {
		spinner.StopWithError("Claim failed")
		return err
	}
	spinner.Stop()

	if err := c.render(cmd, res, func(p *printer) {
		p.title("Fee Claim Results")
		printClaim(p, "WETH", res.Weth)
		if res.Token != nil {
			printClaim(p, "Token", res.Token)
		}
	}); err != nil {
		return err
	}

	// A cancelled receipt wait is only reported inside the results.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("claim interrupted: %w", err)
	}
	if !claimed(res.Weth) && !claimed(res.Token) {
		return clawerr.New(clawerr.ErrCodeChain, "no fees were claimed")
	}
	return nil
}

func claimed(r *onchain.ClaimResult) bool { return r != nil && r.Success }

func printClaim(p *printer, label string, r *onchain.ClaimResult) {
	if r.Success {
		p.success("%s claimed, tx: %s", label, r.TxHash)
		return
	}
	p.warning("%s: %s", label, r.Error)
	if r.TxHash != "" {
		p.detail("tx: %s", r.TxHash)
	}
}

// =============================================================================
// burn
// =============================================================================

// burnCommand creates the burn command.
func (c *CLI) burnCommand() *cobra.Command {
	var (
		yes     bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "burn <amount>",
		Short: "Burn $CLAWNCH for a dev supply allocation (requires PRIVATE_KEY)",
		Long: `Send <amount> whole $CLAWNCH to the burn address.

The transaction hash can be quoted as burnTxHash in a launch post within
24 hours. Burning is irreversible; you are asked to confirm unless --yes
is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBurn(cmd, args[0], yes, timeout)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTxTimeout, "how long to wait for the receipt")

	return cmd
}

func (c *CLI) runBurn(cmd *cobra.Command, amount string, yes bool, timeout time.Duration) error {
	value, err := onchain.ParseEther(amount)
	if err != nil {
		return err
	}
	if value.Sign() <= 0 {
		return clawerr.New(clawerr.ErrCodeInvalidAmount, "burn amount must be positive, got %q", amount)
	}

	ctx, cancel := withTimeout(cmd.Context(), timeout)
	defer cancel()

	client, cleanup, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	if _, ok := client.WalletAddress(); !ok {
		return clawerr.New(clawerr.ErrCodeWalletRequired, "PRIVATE_KEY environment variable is required for burning")
	}

	prompt := newPrinter(cmd.ErrOrStderr())
	prompt.newline()
	prompt.println(StyleDanger.Render(fmt.Sprintf("%s You are about to burn %s CLAWNCH tokens. This is irreversible!", iconWarning, amount)))
	prompt.newline()
	if !yes {
		if !confirm(cmd, "Type 'yes' to continue: ") {
			prompt.info("Burn cancelled")
			return nil
		}
	}

	op := startOp(ctx, "burn", "amount", amount)
	spinner := c.spin(cmd, fmt.Sprintf("Burning %s CLAWNCH...", amount))
	res, err := client.BurnForAllocation(ctx, amount)
	op.finish(err)
	if err != nil {
		spinner.StopWithError("Burn failed")
		return err
	}
	spinner.Stop()

	if err := c.render(cmd, res, func(p *printer) {
		if !res.Success {
			return
		}
		p.success("Burned %s CLAWNCH!", amount)
		p.keyValue("TX Hash", res.TxHash)
		p.detail("Use this hash as burnTxHash in your launch post within 24 hours.")
		p.newline()
		p.nextStep("Next", "clawctl launch build ... --burn-tx "+res.TxHash)
	}); err != nil {
		return err
	}
	if !res.Success {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("burn interrupted: %w", err)
		}
		return clawerr.New(clawerr.ErrCodeChain, "burn failed: %s", res.Error)
	}
	return nil
}

// confirm writes question to stderr and reads one line from stdin.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprint(cmd.ErrOrStderr(), question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// =============================================================================
// wallet
// =============================================================================

// walletCommand creates the wallet command.
func (c *CLI) walletCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Print the wallet address derived from PRIVATE_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			addr, ok := client.WalletAddress()
			if !ok {
				return clawerr.New(clawerr.ErrCodeWalletRequired, "no wallet configured; set the PRIVATE_KEY environment variable")
			}
			out := struct {
				Address string `json:"address"`
			}{addr}
			return c.render(cmd, out, func(p *printer) {
				p.println(addr)
			})
		},
	}
}
