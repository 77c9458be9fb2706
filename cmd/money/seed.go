package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/wapinheiro/money/internal/seed"
)

func seedCmd(a *app) *cobra.Command {
	var (
		file       string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
		Long: `Upsert merchants, categories, accounts and tags by name.

Without --file the built-in reference set is used. Running seed again
updates existing records instead of duplicating them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			data, err := loadSeed(file)
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.ErrOrStderr()
			var bar *progressbar.ProgressBar
			if !noProgress {
				bar = progressbar.NewOptions(data.Len(),
					progressbar.OptionSetWriter(out),
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("[cyan][bold]Seeding...[reset]"),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "[green]=[reset]",
						SaucerHead:    "[green]>[reset]",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
					progressbar.OptionOnCompletion(func() {
						fmt.Fprintln(out)
					}),
				)
			}

			err = store.ApplySeed(ctx, data, func(kind, name string) {
				slog.Debug("seeded record", "kind", kind, "name", name)
				if bar != nil {
					_ = bar.Add(1)
				}
			})
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf(
				"✓ Seeded %d categories, %d merchants, %d accounts, %d tags",
				len(data.Categories), len(data.Merchants), len(data.Accounts), len(data.Tags))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (default: built-in reference data)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")

	return cmd
}

func loadSeed(path string) (*seed.Data, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return seed.Load(f)
}
