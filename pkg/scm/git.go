// Package scm is the read-only source-control collaborator: commit log and
// diff retrieval for the review command. It shells out to git and keeps no
// state of its own.
package scm

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sidenote/sidenote/pkg/logging"
)

// DiffWarnChars is the size guard for diffs handed to the chat backend.
// Oversized diffs are passed through unchanged; the guard only warns.
const DiffWarnChars = 200000

// Commit is one log entry.
type Commit struct {
	Hash    string
	Subject string
}

// runner executes a git invocation and returns its stdout. Tests swap it
// out; the default shells out to the git binary.
type runner func(ctx context.Context, dir string, args ...string) (string, error)

func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Client reads from a git repository rooted at Dir.
type Client struct {
	dir    string
	run    runner
	logger logging.Logger
}

// NewClient creates a git client for the repository at dir.
func NewClient(dir string, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Client{dir: dir, run: execGit, logger: logger}
}

// Log returns up to maxEntries commits, newest first.
func (c *Client) Log(ctx context.Context, maxEntries int) ([]Commit, error) {
	if maxEntries <= 0 {
		maxEntries = 1
	}

	out, err := c.run(ctx, c.dir, "log", fmt.Sprintf("-n%d", maxEntries), "--pretty=format:%H%x09%s")
	if err != nil {
		return nil, err
	}

	var commits []Commit
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		hash, subject, _ := strings.Cut(line, "\t")
		commits = append(commits, Commit{Hash: hash, Subject: subject})
	}
	return commits, nil
}

// Diff returns the patch for ref. Diffs above DiffWarnChars trigger a
// warning but are never truncated.
func (c *Client) Diff(ctx context.Context, ref string) (string, error) {
	out, err := c.run(ctx, c.dir, "show", "--pretty=format:", "--patch", ref)
	if err != nil {
		return "", err
	}

	if len(out) > DiffWarnChars {
		c.logger.Warn("diff exceeds size guard",
			logging.String("ref", ref),
			logging.Int("chars", len(out)),
		)
	}
	return out, nil
}
