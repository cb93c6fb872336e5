// =============================================================================
// Requerimento - Form Command
// =============================================================================
//
// Explicit entry point for the interactive form. Identical to running the
// bare binary; it exists so scripts and docs can be explicit about the mode.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

// formCmd represents the 'form' command.
var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the interactive form (the default mode)",
	Long: `The form command opens the interactive terminal form: fill the fields,
press Enter on the last field (or Ctrl+S anywhere) to record the request in
the ledger and generate its document.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runForm()
	},
}

func init() {
	rootCmd.AddCommand(formCmd)
}
