package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bitmaura/finscore/internal/analysis"
	"github.com/bitmaura/finscore/internal/id"
	"github.com/bitmaura/finscore/internal/ledger"
	"github.com/bitmaura/finscore/internal/logger"
)

func newParseCommand(g *globalOptions) *cobra.Command {
	var bank, jobID, userID string

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Extract a statement's transactions as ledger CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			defer logger.Sync(log)

			svc := analysis.NewService(cfg, log)
			in := analysis.Input{
				Bank:    bank,
				Options: analysis.Options{JobID: id.JobID(jobID), UserID: userID},
			}
			res, err := loadStatement(svc, args[0], in)
			if err != nil {
				return err
			}
			if len(res.Transactions) == 0 {
				return fmt.Errorf("%s: %w", args[0], analysis.ErrNoTransactions)
			}
			return ledger.WriteCSV(cmd.OutOrStdout(), res.Transactions)
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "force a bank extractor")
	cmd.Flags().StringVar(&jobID, "job-id", "", "job ID (generated when empty)")
	cmd.Flags().StringVar(&userID, "user-id", "", "user ID tagged on every transaction")

	return cmd
}
