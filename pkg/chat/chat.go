// Package chat defines the backend abstraction for a single conversational
// turn. Exactly one implementation is selected at construction: a live HTTP
// backend when a credential is configured, otherwise a local simulated one.
package chat

import (
	"context"
	"errors"

	"github.com/sidenote/sidenote/pkg/config"
	"github.com/sidenote/sidenote/pkg/logging"
	"github.com/sidenote/sidenote/pkg/workspace"
)

var (
	// ErrNoContent is returned when the live backend answers successfully
	// but carries no message content.
	ErrNoContent = errors.New("chat backend returned no content")

	// ErrBackendFailed wraps non-2xx responses from the live backend.
	ErrBackendFailed = errors.New("chat request failed")
)

// Mode is a coarse behavioral setting forwarded to the backend. The core
// does not interpret it beyond embedding it in the request.
type Mode string

const (
	ModeChat      Mode = "chat"
	ModeAgent     Mode = "agent"
	ModeFullAgent Mode = "full-agent"
)

// ParseMode maps a wire value onto a Mode, defaulting to chat.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeAgent:
		return ModeAgent
	case ModeFullAgent:
		return ModeFullAgent
	default:
		return ModeChat
	}
}

// Request is a single chat turn. It is constructed once per turn and passed
// by value; the embedded snapshot is never mutated.
type Request struct {
	Model   string
	Mode    Mode
	Persona string // custom GPT id, empty when none selected
	Prompt  string
	Context workspace.Snapshot
}

// ChunkFunc receives incremental response text. Chunks concatenate to the
// final returned text.
type ChunkFunc func(text string)

// Backend produces a response for a chat request, optionally delivering it
// incrementally through onChunk before returning the final text.
type Backend interface {
	Name() string
	Chat(ctx context.Context, req Request, onChunk ChunkFunc) (string, error)
}

// New selects the backend from configuration. Selection is a pure function
// of credential presence and is not re-evaluated mid-session.
func New(cfg config.ChatConfig, logger logging.Logger) Backend {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if cfg.APIKey == "" {
		logger.Info("no API key configured, using simulated chat backend")
		return NewSimulatedBackend(logger)
	}
	logger.Info("API key configured, using live chat backend",
		logging.String("baseUrl", cfg.BaseURL))
	return NewLiveBackend(cfg, logger)
}
