package app

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/config"
	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/state"
)

func newLibrariesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "List libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"", "ID", "Name", "Field", "Mode", "Bookcases", "Placements"},
				libraryRows(st),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func libraryRows(st *state.State) [][]string {
	rows := make([][]string, 0, len(st.Libraries))
	for _, d := range st.Libraries {
		l := st.Layouts[d.ID]
		active := ""
		if d.ID == st.ActiveLibraryID {
			active = color.GreenString("●")
		}
		field := d.CategorizeField
		if field == "" {
			field = "-"
		}
		rows = append(rows, []string{
			active,
			d.ID,
			d.Name,
			field,
			string(d.Mode()),
			strconv.Itoa(len(l.Bookcases)),
			strconv.Itoa(len(l.Placements())),
		})
	}
	return rows
}

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Create, switch or delete libraries",
	}
	cmd.AddCommand(
		newLibraryCreateCmd(),
		newLibraryUseCmd(),
		newLibraryDeleteCmd(),
	)
	return cmd
}

func newLibraryCreateCmd() *cobra.Command {
	var (
		id    string
		field string
		mode  string
		use   bool
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a library grouped by a field",
		Long: `Create a library. --field picks what each bookcase stands for:
tags, author, year, useStatus, locationBookcase, or any raw CSV column.
Without --field every book goes into one bookcase.

--mode decides where a book with several values (tags) goes:
  duplicate  one placement per value
  first      the first value only (default)
  split      the value shared by the fewest books

Examples:
  shelfmap library create "By author" --field author
  shelfmap library create Topics --field tags --mode split --use

--save also records the library in the config file, so it is created
again if the snapshot is lost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def := layout.Definition{
				ID:                id,
				Name:              args[0],
				CategorizeField:   field,
				MultiCategoryMode: layout.Mode(mode),
			}

			st, err := loadState()
			if err != nil {
				return err
			}
			store := state.NewStore(st, state.WithLogger(logger))
			created, err := store.CreateLibrary(def)
			if err != nil {
				return err
			}
			if use {
				if _, err := store.Apply("use-library", func(cur *state.State) (*state.State, error) {
					return cur.UseLibrary(created.ID)
				}); err != nil {
					return err
				}
			}
			if err := saveState(st, store.State()); err != nil {
				return err
			}
			ok("Created library %s (%s)", created.Name, created.ID)

			if save {
				if err := saveLibraryConfig(created); err != nil {
					return err
				}
				ok("Saved %s to %s", created.ID, cfgPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Library id (default: generated)")
	cmd.Flags().StringVar(&field, "field", "", "Field to group bookcases by")
	cmd.Flags().StringVar(&mode, "mode", "", "Multi-value mode: duplicate, first or split")
	cmd.Flags().BoolVar(&use, "use", false, "Make the new library active")
	cmd.Flags().BoolVar(&save, "save", false, "Also add the library to the config file")

	return cmd
}

// saveLibraryConfig adds def to the config file unless a library with the
// same id is already configured.
func saveLibraryConfig(def layout.Definition) error {
	if cfg.LibraryByID(def.ID) != nil {
		return nil
	}
	cfg.Libraries = append(cfg.Libraries, config.LibraryConfig{
		ID:                def.ID,
		Name:              def.Name,
		CategorizeField:   def.CategorizeField,
		MultiCategoryMode: string(def.MultiCategoryMode),
	})
	if err := config.SaveFile(cfgPath, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func newLibraryUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a library active",
		Long:  "Make a library active. Every book's Location is rewritten from its layout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, changed, err := mutate("use-library", func(cur *state.State) (*state.State, error) {
				return cur.UseLibrary(args[0])
			})
			if err != nil {
				return err
			}
			if !changed {
				ok("%s is already active", st.ActiveLibrary().Name)
				return nil
			}
			ok("Now using %s", st.ActiveLibrary().Name)
			return nil
		},
	}
}

func newLibraryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := mutate("delete-library", func(cur *state.State) (*state.State, error) {
				return cur.DeleteLibrary(args[0])
			})
			if err != nil {
				return err
			}
			ok("Deleted library %s; active library is %s", args[0], st.ActiveLibrary().Name)
			return nil
		},
	}
}
