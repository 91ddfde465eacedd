package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/util"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as CSV, locations included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState()
			if err != nil {
				return err
			}
			text := st.ExportText() + "\n"
			if output == "" || output == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			if err := util.WriteFileAtomic(output, []byte(text), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			ok("Exported %d books to %s", st.Catalog.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
