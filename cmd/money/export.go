package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wapinheiro/money/internal/export"
	"github.com/wapinheiro/money/internal/service"
)

func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export captured transactions",
	}
	cmd.AddCommand(exportOFXCmd(a))
	return cmd
}

func exportOFXCmd(a *app) *cobra.Command {
	var (
		outPath   string
		since     string
		accountID string
		currency  string
	)

	cmd := &cobra.Command{
		Use:   "ofx",
		Short: "Write transactions as an OFX bank statement",
		Long: `Write captured transactions as an OFX 2.0 bank statement that
accounting tools can import. Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, err := parseDay(since, "since")
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.ListTransactions(ctx, service.TransactionFilter{StartDate: start})
			if err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outPath, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			opts := export.Options{AccountID: accountID, Currency: currency}
			if err := export.WriteOFX(w, txns, opts); err != nil {
				return fmt.Errorf("failed to write OFX: %w", err)
			}

			if outPath != "-" {
				fmt.Fprintln(cmd.ErrOrStderr(), SuccessStyle.Render(
					fmt.Sprintf("✓ Exported %d transaction(s) to %s", len(txns), outPath)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "money.ofx", "output file, or - for stdout")
	cmd.Flags().StringVar(&since, "since", "", "only transactions on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&accountID, "account-id", "", "account ID written to the statement")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency code")

	return cmd
}
