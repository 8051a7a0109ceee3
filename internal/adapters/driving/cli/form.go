package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/koshinokanbai330/oof-cli/internal/adapters/driving/tui"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Fill the leave request interactively",
	Long: `Open the interactive terminal form. Pick the leave type, adjust the
derived meeting subject and the recipients, review the auto-reply preview,
then send or save a draft.`,
	RunE: runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, _ []string) error {
	if submitService == nil {
		return errors.New("submit service not initialised")
	}
	return tui.RunForm(cmd.Context(), submitService)
}
