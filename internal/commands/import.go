package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/carson-networks/budget-import/internal/reconciler"
	"github.com/carson-networks/budget-import/internal/staging"
)

type importOptions struct {
	editsPath string
	dryRun    bool
	dump      bool
}

func newImportCommand(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <account> <statement.csv>",
		Short: "Stage a CSV statement, apply review edits and import the selected rows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.editsPath, "edits", "", "YAML file of review edits (select_all, toggle, set)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate the selection without importing")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "dump the staged entries after edits")

	return cmd
}

func (a *app) runImport(cmd *cobra.Command, accountRef, path string, opts importOptions) error {
	ctx := cmd.Context()

	var edits *Edits
	if opts.editsPath != "" {
		var err error
		if edits, err = LoadEdits(opts.editsPath); err != nil {
			return err
		}
	}

	acc, err := a.selectAccount(ctx, accountRef)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening statement: %w", err)
	}
	defer file.Close()

	if _, err := a.session.Preview(ctx, filepath.Base(path), file); err != nil {
		return err
	}

	var (
		projectErr error
		selected   int
	)
	err = a.session.Edit(func(b *staging.Batch) {
		if edits != nil {
			if projectErr = edits.Apply(b); projectErr != nil {
				return
			}
		}
		selected = b.SelectedCount()
		_, projectErr = b.Project(acc.ID)
	})
	if err != nil {
		return err
	}

	entries, err := a.session.Entries()
	if err != nil {
		return err
	}
	if err := printEntries(a.out, entries); err != nil {
		return err
	}
	if opts.dump {
		spew.Fdump(a.out, entries)
	}

	if projectErr != nil {
		var verr *staging.ValidationError
		if errors.As(projectErr, &verr) {
			for _, e := range verr.Entries {
				fmt.Fprintf(a.out, "  entry %d %s: %v\n", e.SequenceID, e.Field, e.Err)
			}
		}
		return projectErr
	}

	if opts.dryRun {
		fmt.Fprintf(a.out, "dry run: %d of %d entries would be imported into %s\n", selected, len(entries), acc.Name)
		return a.session.Cancel()
	}

	result, err := a.session.Commit(ctx)
	if err != nil && !errors.Is(err, reconciler.ErrRefreshFailed) {
		return err
	}
	if result == nil || result.Committed == 0 {
		fmt.Fprintln(a.out, "nothing selected; no transactions imported")
		return nil
	}

	fmt.Fprintf(a.out, "imported %d transactions into %s\n", result.Committed, acc.Name)
	if result.Account != nil {
		fmt.Fprintf(a.out, "balance is now %s\n", money(result.Account.Balance))
	}
	// The rows landed; only the follow-up refresh failed.
	return err
}
