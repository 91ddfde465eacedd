package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
)

type bookResult struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author,omitempty"`
	Year     string   `json:"year,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Status   string   `json:"status,omitempty"`
	Bookcase string   `json:"bookcase,omitempty"`
	Shelf    int      `json:"shelf,omitempty"`
	Position int      `json:"position,omitempty"`
}

func newBooksCmd() *cobra.Command {
	var (
		tag     string
		status  string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "books [query]",
		Short: "List books, optionally filtered",
		Long: `List the books in the catalog with their location in the active
library. A query matches title, author, and tags (case-insensitive).

Examples:
  shelfmap books
  shelfmap books "le guin"
  shelfmap books --tag fiction --status unread
  shelfmap books --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			st, err := loadState()
			if err != nil {
				return err
			}

			f := catalog.Filter{Tag: tag, Status: status, Search: query}
			books := f.Apply(st.Catalog.Books())

			if jsonOut {
				results := make([]bookResult, 0, len(books))
				for _, b := range books {
					results = append(results, toBookResult(b))
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			if len(books) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No books found.")
				return nil
			}

			headers := []string{"ID", "Title", "Author", "Tags", "Status", "Location"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, bookRows(books), nil))
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d books  (library: %s)\n",
				len(books), st.Catalog.Len(), st.ActiveLibrary().Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&status, "status", "", "Filter by use status")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func toBookResult(b catalog.Book) bookResult {
	return bookResult{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.Author,
		Year:     b.Year,
		Tags:     b.Tags,
		Status:   b.UseStatus,
		Bookcase: b.Location.Bookcase,
		Shelf:    b.Location.Shelf,
		Position: b.Location.Position,
	}
}
