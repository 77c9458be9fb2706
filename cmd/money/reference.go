package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wapinheiro/money/internal/model"
	"github.com/wapinheiro/money/internal/storage"
)

// referenceKind describes one kind of wheel option for the list, add,
// rename and delete subcommands.
type referenceKind struct {
	plural   string
	singular string
	headers  []string
	rows     func(ctx context.Context, store *storage.SQLiteStorage) ([][]string, error)
	create   func(ctx context.Context, store *storage.SQLiteStorage, name string) (string, error)
	rename   func(store *storage.SQLiteStorage, ctx context.Context, oldName, newName string) error
	remove   func(store *storage.SQLiteStorage, ctx context.Context, name string) error
}

func referenceCmd(a *app, kind referenceKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.plural,
		Short: fmt.Sprintf("Manage %s offered on the capture wheel", kind.plural),
	}
	cmd.AddCommand(listReferenceCmd(a, kind))
	if kind.create != nil {
		cmd.AddCommand(addReferenceCmd(a, kind))
	}
	cmd.AddCommand(renameReferenceCmd(a, kind), deleteReferenceCmd(a, kind))
	return cmd
}

func listReferenceCmd(a *app, kind referenceKind) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %s", kind.plural),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rows, err := kind.rows(ctx, store)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", kind.plural, err)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, InfoStyle.Render(fmt.Sprintf(
					"No %s found. Use 'money %s add' or 'money seed' to create some.", kind.plural, kind.plural)))
				return nil
			}
			return printTable(out, kind.headers, rows)
		},
	}
}

func addReferenceCmd(a *app, kind referenceKind) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: fmt.Sprintf("Add a %s", kind.singular),
		Long: fmt.Sprintf(`Create a %s. Adding a name that already exists leaves the
existing record unchanged.`, kind.singular),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("%s name cannot be empty", kind.singular)
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			created, err := kind.create(ctx, store, name)
			if err != nil {
				return fmt.Errorf("failed to add %s: %w", kind.singular, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf("✓ %s %q ready", kind.singular, created)))
			return nil
		},
	}
}

func renameReferenceCmd(a *app, kind referenceKind) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: fmt.Sprintf("Rename a %s", kind.singular),
		Long: fmt.Sprintf(`Rename a %s. Transactions already captured keep the name they
were saved with.`, kind.singular),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := kind.rename(store, ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to rename %s: %w", kind.singular, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf(
				"✓ Renamed %s %q to %q", kind.singular, strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))))
			return nil
		},
	}
}

func deleteReferenceCmd(a *app, kind referenceKind) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: fmt.Sprintf("Delete a %s", kind.singular),
		Long: fmt.Sprintf(`Delete a %s so it is no longer offered on the capture wheel.
Transactions already captured are kept.`, kind.singular),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.TrimSpace(args[0])
			out := cmd.OutOrStdout()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !force {
				ok, err := confirm(cmd.InOrStdin(), out,
					fmt.Sprintf("Are you sure you want to delete %s %q? (y/N): ", kind.singular, name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Deletion cancelled.")
					return nil
				}
			}

			if err := kind.remove(store, ctx, name); err != nil {
				return fmt.Errorf("failed to delete %s: %w", kind.singular, err)
			}

			fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("✓ Deleted %s %q", kind.singular, name)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")

	return cmd
}

func merchantsCmd(a *app) *cobra.Command {
	return referenceCmd(a, referenceKind{
		plural:   "merchants",
		singular: "merchant",
		headers:  []string{"ID", "Name", "Category", "MCC", "Aliases"},
		rows: func(ctx context.Context, store *storage.SQLiteStorage) ([][]string, error) {
			merchants, err := store.ListMerchants(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(merchants))
			for _, m := range merchants {
				rows = append(rows, []string{
					fmt.Sprint(m.ID),
					strings.TrimSpace(m.Icon + " " + m.Name),
					orDash(m.DefaultCategory),
					orDash(m.MCC),
					orDash(strings.Join(m.Aliases, ", ")),
				})
			}
			return rows, nil
		},
		create: func(ctx context.Context, store *storage.SQLiteStorage, name string) (string, error) {
			m, err := store.CreateMerchant(ctx, name)
			if err != nil {
				return "", err
			}
			return m.Name, nil
		},
		rename: (*storage.SQLiteStorage).RenameMerchant,
		remove: (*storage.SQLiteStorage).DeleteMerchant,
	})
}

func categoriesCmd(a *app) *cobra.Command {
	return referenceCmd(a, referenceKind{
		plural:   "categories",
		singular: "category",
		headers:  []string{"ID", "Name", "Type"},
		rows: func(ctx context.Context, store *storage.SQLiteStorage) ([][]string, error) {
			categories, err := store.ListCategories(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(categories))
			for _, c := range categories {
				rows = append(rows, []string{
					fmt.Sprint(c.ID),
					strings.TrimSpace(c.Icon + " " + c.Name),
					string(c.Type),
				})
			}
			return rows, nil
		},
		create: func(ctx context.Context, store *storage.SQLiteStorage, name string) (string, error) {
			c, err := store.CreateCategory(ctx, name)
			if err != nil {
				return "", err
			}
			return c.Name, nil
		},
		rename: (*storage.SQLiteStorage).RenameCategory,
		remove: (*storage.SQLiteStorage).DeleteCategory,
	})
}

func accountsCmd(a *app) *cobra.Command {
	return referenceCmd(a, referenceKind{
		plural:   "accounts",
		singular: "account",
		headers:  []string{"ID", "Name", "Institution", "Type"},
		rows: func(ctx context.Context, store *storage.SQLiteStorage) ([][]string, error) {
			accounts, err := store.ListAccounts(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(accounts))
			for _, acct := range accounts {
				rows = append(rows, []string{
					fmt.Sprint(acct.ID),
					acct.Name,
					orDash(acct.Institution),
					orDash(string(acct.Type)),
				})
			}
			return rows, nil
		},
		create: func(ctx context.Context, store *storage.SQLiteStorage, name string) (string, error) {
			acct, err := store.CreateAccount(ctx, name)
			if err != nil {
				return "", err
			}
			return acct.Name, nil
		},
		rename: (*storage.SQLiteStorage).RenameAccount,
		remove: (*storage.SQLiteStorage).DeleteAccount,
	})
}

func tagsCmd(a *app) *cobra.Command {
	cmd := referenceCmd(a, referenceKind{
		plural:   "tags",
		singular: "tag",
		headers:  []string{"ID", "Name", "Type", "Start", "End"},
		rows: func(ctx context.Context, store *storage.SQLiteStorage) ([][]string, error) {
			tags, err := store.ListTags(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(tags))
			for _, t := range tags {
				rows = append(rows, []string{
					fmt.Sprint(t.ID),
					t.Name,
					string(t.Type),
					formatDay(t.StartDate),
					formatDay(t.EndDate),
				})
			}
			return rows, nil
		},
		rename: (*storage.SQLiteStorage).RenameTag,
		remove: (*storage.SQLiteStorage).DeleteTag,
	})
	cmd.AddCommand(addTagCmd(a))
	return cmd
}

func addTagCmd(a *app) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a tag",
		Long: `Create a tag. With --start and --end the tag is temporary and is only
offered on the wheel between those dates, inclusive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			draft := model.OptionDraft{
				Name:    strings.TrimSpace(args[0]),
				TagType: model.TagTypePermanent,
			}
			if start != "" || end != "" {
				var err error
				if draft.StartDate, err = parseDay(start, "start"); err != nil {
					return err
				}
				if draft.EndDate, err = parseDay(end, "end"); err != nil {
					return err
				}
				draft.TagType = model.TagTypeTemporary
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			tag, err := store.CreateTag(ctx, draft)
			if err != nil {
				return fmt.Errorf("failed to add tag: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf("✓ tag %q ready (%s)", tag.Name, tag.Type)))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day the tag is offered (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day the tag is offered (YYYY-MM-DD)")

	return cmd
}

func orDash(s string) string {
	if s == "" {
		return SubtleStyle.Render("-")
	}
	return s
}
