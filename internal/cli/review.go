package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidenote/sidenote/internal/review"
	"github.com/sidenote/sidenote/pkg/chat"
	"github.com/sidenote/sidenote/pkg/scm"
)

var reviewPersona string

// reviewCmd asks the backend to review the most recent commit in the
// workspace repository.
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the last commit with the configured model",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := chat.New(cfg.Chat, logger)
		client := scm.NewClient(cfg.Workspace.Root, logger)

		reviewer := review.New(client, backend, cfg.Chat.DefaultModel, reviewPersona, logger)
		_, err := reviewer.LastCommit(cmd.Context(), func(text string) {
			fmt.Fprint(os.Stdout, text)
		})
		if err != nil {
			return fmt.Errorf("review failed: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewPersona, "gpt", "", "custom GPT id to review as (default gertrude)")
}
