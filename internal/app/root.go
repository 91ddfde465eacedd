package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/config"
	"github.com/blackwell-systems/shelfmap/internal/util"
)

var (
	cfg     *config.Config
	cfgPath string
	schema  catalog.Schema
	logger  = log.New(os.Stderr)

	flagNoColor       bool
	flagNoInteractive bool
	flagVerbose       bool
	flagConfig        string
)

var rootCmd = &cobra.Command{
	Use:   "shelfmap",
	Short: "Arrange a CSV book catalog into libraries of bookcases and shelves",
	Long: `shelfmap reads a CSV catalog of books and lays it out on virtual
bookcases. Each library groups the catalog by one field (tags, author,
a raw column, or the physical location recorded in the CSV).

The CSV stays the source of truth: every move rewrites the Location
columns of the moved books. A snapshot next to the catalog keeps manual
arrangements between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Never prompt; require all arguments")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/shelfmap/config.yml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		if cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}

		path := config.Path()
		if flagConfig != "" {
			path = flagConfig
		}
		return configure(path)
	}

	rootCmd.AddCommand(
		newImportCmd(),
		newExportCmd(),
		newBooksCmd(),
		newBookCmd(),
		newTagsCmd(),
		newLibrariesCmd(),
		newLibraryCmd(),
		newShowCmd(),
		newMoveCmd(),
		newResizeCmd(),
		newLabelCmd(),
		newUndoCmd(),
		newVerifyCmd(),
		newHTMLCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
}

// configure loads the config at path and sets up the schema and logger.
func configure(path string) error {
	var err error
	cfg, err = config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfgPath = path
	schema, err = cfg.Schema()
	if err != nil {
		return err
	}

	level := cfg.LogLevel()
	if flagVerbose {
		level = log.DebugLevel
	}
	logger = newLogger(os.Stderr, level)
	logger.Debug("loaded config", "path", path, "catalog", cfg.Catalog.Path, "libraries", len(cfg.Libraries))
	return nil
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
