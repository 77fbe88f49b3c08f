package cli

import (
	"github.com/spf13/cobra"

	"github.com/clawnch/clawctl/pkg/history"
)

const defaultHistoryLimit = 20

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent claims, burns and submissions",
		Long: `Show the local ledger of writes made through clawctl, newest first.

The ledger lives in ~/.local/share/clawctl/history.jsonl unless the
[history] section of the config selects another backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, cleanup, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := client.History(ctx, limit)
			if err != nil {
				return err
			}
			if records == nil {
				records = []history.Record{}
			}
			return c.render(cmd, records, func(p *printer) {
				printHistory(p, records)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", defaultHistoryLimit, "number of records to show (0 for all)")

	return cmd
}

func printHistory(p *printer, records []history.Record) {
	if len(records) == 0 {
		p.info("No history yet")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		status := StyleSuccess.Render(iconSuccess)
		if !r.Success {
			status = styleIconError.Render(iconError)
		}
		subject := r.Token
		if r.Kind == history.KindSubmit {
			subject = r.Platform + "/" + r.PostID
		}
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(r.Kind),
			orDash(shortHex(subject)),
			orDash(r.Amount),
			orDash(shortHex(r.TxHash)),
			status,
		})
	}
	p.table([]string{"Time", "Action", "Subject", "Amount", "TX", ""}, rows)
}
