package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/snapshot"
)

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last change",
		Long: `Restore the catalog and layouts saved before the last change. Running
undo twice redoes the change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := snapshot.Load(undoPath(), schema)
			if errors.GetCode(err) == errors.CodeNotFound {
				warn("Nothing to undo")
				return nil
			}
			if err != nil {
				return err
			}
			cur, err := loadState()
			if err != nil {
				return err
			}
			if err := saveState(cur, prev); err != nil {
				return err
			}
			ok("Reverted to the previous state (%d books, library %s)", prev.Catalog.Len(), prev.ActiveLibrary().Name)
			return nil
		},
	}
}
