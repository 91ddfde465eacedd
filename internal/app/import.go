package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/snapshot"
	"github.com/blackwell-systems/shelfmap/internal/state"
)

func newImportCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "import <file.csv|->",
		Short: "Replace the catalog with a CSV file",
		Long: `Import a CSV catalog, replacing the current one.

Every library is rebuilt. A library whose rule and set of books are
unchanged keeps its manual arrangement. Location columns recorded in the
file are honored by libraries grouped by physical bookcase.

Use "-" to read from standard input. --reset discards the saved snapshot
first, so every library is rebuilt from the config and the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if reset {
				return resetImport(text)
			}
			st, changed, err := mutate("import", func(cur *state.State) (*state.State, error) {
				return cur.ImportText(text)
			})
			if err != nil {
				return err
			}
			if !changed {
				ok("Catalog unchanged (%d books)", st.Catalog.Len())
				return nil
			}
			ok("Imported %d books into %d libraries", st.Catalog.Len(), len(st.Libraries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Discard saved arrangements and libraries before importing")

	return cmd
}

// resetImport drops the snapshot and its undo copy and builds a fresh state
// from the configured libraries and text alone.
func resetImport(text string) error {
	for _, p := range []string{cfg.Snapshot.Path, undoPath()} {
		if err := snapshot.Remove(p); err != nil {
			return fmt.Errorf("removing snapshot: %w", err)
		}
	}
	logger.Debug("discarded snapshot", "path", cfg.Snapshot.Path)

	st, err := state.New(schema, cfg.Definitions())
	if err != nil {
		return err
	}
	next, err := st.ImportText(text)
	if err != nil {
		return err
	}
	if err := saveState(nil, next); err != nil {
		return err
	}
	ok("Imported %d books into %d libraries", next.Catalog.Len(), len(next.Libraries))
	return nil
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
