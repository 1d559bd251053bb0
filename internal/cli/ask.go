package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sidenote/sidenote/pkg/chat"
)

// askCmd sends a single prompt through the configured backend and streams
// the answer to stdout. The same snapshot, persona and backend selection
// rules apply as in the panel.
var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send a single prompt and print the response",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		return runAsk(cmd.Context(), prompt)
	},
}

func runAsk(ctx context.Context, prompt string) error {
	backend := chat.New(cfg.Chat, logger)

	builder := newSnapshotBuilder()

	req := chat.Request{
		Model:   cfg.Chat.DefaultModel,
		Mode:    chat.ModeChat,
		Prompt:  prompt,
		Context: builder.Build(ctx),
	}

	_, err := backend.Chat(ctx, req, func(text string) {
		fmt.Fprint(os.Stdout, text)
	})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	fmt.Fprintln(os.Stdout)
	return nil
}
