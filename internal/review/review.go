// Package review implements the review-last-commit command: it feeds the
// most recent commit's diff through the chat backend and streams the
// resulting review.
package review

import (
	"context"
	"fmt"

	"github.com/sidenote/sidenote/pkg/chat"
	"github.com/sidenote/sidenote/pkg/logging"
	"github.com/sidenote/sidenote/pkg/scm"
	"github.com/sidenote/sidenote/pkg/workspace"
)

// SCM is the source-control collaborator consumed by the review command.
type SCM interface {
	Log(ctx context.Context, maxEntries int) ([]scm.Commit, error)
	Diff(ctx context.Context, ref string) (string, error)
}

// Reviewer runs one review turn against the configured backend.
type Reviewer struct {
	scm     SCM
	backend chat.Backend
	model   string
	persona string
	logger  logging.Logger
}

// New creates a reviewer. The persona defaults to the review-oriented
// built-in when empty.
func New(s SCM, backend chat.Backend, model, persona string, logger logging.Logger) *Reviewer {
	if persona == "" {
		persona = "gertrude"
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Reviewer{scm: s, backend: backend, model: model, persona: persona, logger: logger}
}

// LastCommit reviews the most recent commit, streaming the response through
// onChunk and returning the full review text.
func (r *Reviewer) LastCommit(ctx context.Context, onChunk chat.ChunkFunc) (string, error) {
	commits, err := r.scm.Log(ctx, 1)
	if err != nil {
		return "", fmt.Errorf("failed to read commit log: %w", err)
	}
	if len(commits) == 0 {
		return "", fmt.Errorf("repository has no commits to review")
	}
	head := commits[0]

	diff, err := r.scm.Diff(ctx, head.Hash)
	if err != nil {
		return "", fmt.Errorf("failed to read diff for %s: %w", head.Hash, err)
	}

	r.logger.Info("reviewing commit",
		logging.String("hash", head.Hash),
		logging.String("subject", head.Subject),
		logging.Int("diffChars", len(diff)),
	)

	prompt := fmt.Sprintf(
		"Review the following commit.\n\nCommit: %s\nSubject: %s\n\nDiff:\n%s",
		head.Hash, head.Subject, diff,
	)

	req := chat.Request{
		Model:   r.model,
		Mode:    chat.ModeChat,
		Persona: r.persona,
		Prompt:  prompt,
		Context: workspace.Snapshot{WorkspaceName: "review", Files: []string{}, OpenFiles: []workspace.OpenFile{}},
	}

	return r.backend.Chat(ctx, req, onChunk)
}
