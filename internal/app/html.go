package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/report"
)

func newHTMLCmd() *cobra.Command {
	var (
		output    string
		libraryID string
	)

	cmd := &cobra.Command{
		Use:   "html",
		Short: "Write a library as a static HTML page",
		Long: `Render a library's bookcases as a standalone HTML page with search
and tag filters.

Examples:
  shelfmap html -o library.html
  shelfmap html --library tags -o tags.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState()
			if err != nil {
				return err
			}
			def, l, err := resolveLibrary(st, libraryID)
			if err != nil {
				return err
			}
			if err := report.WriteHTML(output, def, l, st.Catalog); err != nil {
				return err
			}
			ok("Wrote %s (%d bookcases)", output, len(l.Bookcases))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "library.html", "Output file")
	cmd.Flags().StringVar(&libraryID, "library", "", "Library to render (default: active)")

	return cmd
}
