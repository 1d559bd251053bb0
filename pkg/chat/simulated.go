package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sidenote/sidenote/pkg/logging"
)

const (
	simulatedFileLimit = 5
	defaultChunkDelay  = 30 * time.Millisecond
)

// SimulatedBackend echoes a deterministic summary of the request, delivered
// line by line with a small delay to exercise the incremental UI path. It is
// selected when no credential is configured.
type SimulatedBackend struct {
	delay  time.Duration
	logger logging.Logger
}

// NewSimulatedBackend creates the simulated backend with the default chunk
// delay.
func NewSimulatedBackend(logger logging.Logger) *SimulatedBackend {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &SimulatedBackend{delay: defaultChunkDelay, logger: logger}
}

// Name implements Backend.
func (b *SimulatedBackend) Name() string { return "simulated" }

// SetChunkDelay overrides the inter-chunk delay; tests set it to zero.
func (b *SimulatedBackend) SetChunkDelay(d time.Duration) { b.delay = d }

// Chat implements Backend. The concatenation of all delivered chunks equals
// the returned text exactly; each chunk is one summary line including its
// trailing newline.
func (b *SimulatedBackend) Chat(ctx context.Context, req Request, onChunk ChunkFunc) (string, error) {
	lines := b.summarize(req)

	var full strings.Builder
	for i, line := range lines {
		if i > 0 && b.delay > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(b.delay):
			}
		}
		chunk := line + "\n"
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	b.logger.Debug("simulated response delivered", logging.Int("chunks", len(lines)))
	return full.String(), nil
}

func (b *SimulatedBackend) summarize(req Request) []string {
	persona := req.Persona
	if persona == "" {
		persona = "none"
	}

	files := req.Context.Files
	if len(files) > simulatedFileLimit {
		files = files[:simulatedFileLimit]
	}

	openPaths := make([]string, 0, len(req.Context.OpenFiles))
	for _, f := range req.Context.OpenFiles {
		openPaths = append(openPaths, f.Path)
	}

	return []string{
		fmt.Sprintf("Model: %s", req.Model),
		fmt.Sprintf("Mode: %s", req.Mode),
		fmt.Sprintf("Custom GPT: %s", persona),
		fmt.Sprintf("Workspace: %s", req.Context.WorkspaceName),
		fmt.Sprintf("Files: %s", strings.Join(files, ", ")),
		fmt.Sprintf("Open files: %s", strings.Join(openPaths, ", ")),
		fmt.Sprintf("Prompt: %s", req.Prompt),
		"(simulated response: configure an API key to reach a live model)",
	}
}
