package tui

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/util"
)

// ShouldUseTUI returns true if the command should prompt interactively:
// stdout is a terminal and --no-interactive is not set.
func ShouldUseTUI(cmd *cobra.Command) bool {
	if !util.IsTTY() {
		return false
	}
	noInteractive, _ := cmd.Flags().GetBool("no-interactive")
	return !noInteractive
}
