package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// applyCmd is a named placeholder: applying model-suggested edits to the
// working tree is not implemented. The command exists so scripts probing the
// surface get a stable answer instead of an unknown-command error.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply suggested edits to the workspace (not implemented)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("apply is not implemented: copy suggestions from the panel instead")
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
