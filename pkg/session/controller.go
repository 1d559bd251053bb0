// Package session owns the panel's conversational state machine: current
// model, persona and mode selections, and the chat turn pipeline from UI
// event to streamed response.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sidenote/sidenote/pkg/chat"
	"github.com/sidenote/sidenote/pkg/logging"
	"github.com/sidenote/sidenote/pkg/metrics"
	"github.com/sidenote/sidenote/pkg/persona"
	"github.com/sidenote/sidenote/pkg/transport"
	"github.com/sidenote/sidenote/pkg/workspace"
)

// PersonaSource resolves the selectable personas. Load never fails; the
// second return names the source that won (remote, list, defaults).
type PersonaSource interface {
	Load(ctx context.Context) ([]persona.Persona, string)
}

// SnapshotBuilder collects a fresh context snapshot per chat turn.
type SnapshotBuilder interface {
	Build(ctx context.Context) workspace.Snapshot
}

// Options configures a Controller. All collaborators are injected; the
// controller reads no configuration of its own.
type Options struct {
	Models       []string
	DefaultModel string
	Backend      chat.Backend
	Snapshots    SnapshotBuilder
	Personas     PersonaSource
	Transport    transport.Transport
	Logger       logging.Logger
	Metrics      metrics.Recorder
}

// Controller is the session state machine. State transitions happen only on
// inbound UI events and on persona reload completion; every visible change
// re-emits the full state snapshot. A mutex serializes state access because
// events and reloads arrive from different goroutines.
type Controller struct {
	mu     sync.Mutex
	turnMu sync.Mutex // serializes chat turns per session

	models          []string
	selectedModel   string
	personas        []persona.Persona
	selectedPersona string
	mode            chat.Mode
	lastContext     *workspace.Snapshot

	backend   chat.Backend
	snapshots SnapshotBuilder
	source    PersonaSource
	transport transport.Transport
	logger    logging.Logger
	metrics   metrics.Recorder
}

// New creates a controller with the initial selections: the default model
// (falling back to the first configured one), chat mode, and no personas
// until the first reload completes.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	recorder := opts.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	selected := opts.DefaultModel
	if selected == "" && len(opts.Models) > 0 {
		selected = opts.Models[0]
	}

	return &Controller{
		models:        opts.Models,
		selectedModel: selected,
		mode:          chat.ModeChat,
		backend:       opts.Backend,
		snapshots:     opts.Snapshots,
		source:        opts.Personas,
		transport:     opts.Transport,
		logger:        logger,
		metrics:       recorder,
	}
}

// Start kicks off the background persona reload. It returns immediately so
// the first UI render is never blocked; reload completion triggers a second,
// authoritative state emission.
func (c *Controller) Start(ctx context.Context) {
	go c.ReloadPersonas(ctx)
}

// ReloadPersonas resolves personas and replaces the session's set wholesale.
// Selection resets to the first entry, or clears when the list is empty.
func (c *Controller) ReloadPersonas(ctx context.Context) {
	personas, source := c.source.Load(ctx)
	c.metrics.PersonasResolved(source, len(personas))

	c.mu.Lock()
	c.personas = personas
	if len(personas) > 0 {
		c.selectedPersona = personas[0].ID
	} else {
		c.selectedPersona = ""
	}
	c.mu.Unlock()

	c.logger.Info("personas reloaded",
		logging.Int("count", len(personas)),
		logging.String("source", source),
	)
	c.emitState()
}

// HandleEvent processes one inbound UI event. Failures inside a chat turn
// are contained and surfaced as terminal error events; HandleEvent itself
// never returns an error for them.
func (c *Controller) HandleEvent(ctx context.Context, ev transport.Inbound) {
	switch msg := ev.(type) {
	case transport.Ready:
		c.emitState()
	case transport.ModelChanged:
		c.mu.Lock()
		c.selectedModel = msg.Model
		c.mu.Unlock()
		c.emitState()
	case transport.CustomGPTChanged:
		c.selectPersona(msg.ID)
		c.emitState()
	case transport.ModeChanged:
		c.mu.Lock()
		c.mode = chat.ParseMode(msg.Mode)
		c.mu.Unlock()
		c.emitState()
	case transport.Chat:
		c.runChatTurn(ctx, msg.Content)
	default:
		c.logger.Warn("unhandled inbound event", logging.Any("event", ev))
	}
}

// selectPersona applies a persona selection only when the id exists in the
// current set, preserving the selection invariant.
func (c *Controller) selectPersona(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.personas {
		if p.ID == id {
			c.selectedPersona = id
			return
		}
	}
	c.logger.Warn("ignoring unknown custom GPT selection", logging.String("id", id))
}

// runChatTurn executes one complete chat turn: fresh snapshot, context
// preview, response streaming, terminal event. Turns are serialized so two
// submissions never interleave chunks on the transport.
func (c *Controller) runChatTurn(ctx context.Context, prompt string) {
	c.turnMu.Lock()
	defer c.turnMu.Unlock()

	turnID := uuid.New().String()
	log := c.logger.With(logging.String("turn", turnID))

	snap := c.snapshots.Build(ctx)

	c.mu.Lock()
	c.lastContext = &snap
	req := chat.Request{
		Model:   c.selectedModel,
		Mode:    c.mode,
		Persona: c.selectedPersona,
		Prompt:  prompt,
		Context: snap,
	}
	c.mu.Unlock()

	openRefs := make([]transport.OpenFileRef, 0, len(snap.OpenFiles))
	for _, f := range snap.OpenFiles {
		openRefs = append(openRefs, transport.OpenFileRef{Path: f.Path})
	}
	c.send(transport.Context{Files: snap.Files, OpenFiles: openRefs})
	c.send(transport.ResponseStart{})

	backend := c.backend.Name()
	c.metrics.ChatTurnStarted(backend)
	log.Info("chat turn started",
		logging.String("model", req.Model),
		logging.String("mode", string(req.Mode)),
		logging.String("customGpt", req.Persona),
	)

	final, err := c.backend.Chat(ctx, req, func(text string) {
		c.metrics.ChunkDelivered(backend)
		c.send(transport.ResponseChunk{Text: text})
	})
	if err != nil {
		c.metrics.ChatTurnFailed(backend)
		log.Error("chat turn failed", logging.Err(err))
		c.send(transport.Error{Message: err.Error()})
		return
	}

	c.metrics.ChatTurnCompleted(backend)
	log.Info("chat turn completed", logging.Int("bytes", len(final)))
	c.send(transport.ResponseDone{Text: final})
}

// emitState sends the full state snapshot to the UI.
func (c *Controller) emitState() {
	c.mu.Lock()
	personas := make([]persona.Persona, len(c.personas))
	copy(personas, c.personas)
	state := transport.State{
		Models:            c.models,
		SelectedModel:     c.selectedModel,
		CustomGPTs:        personas,
		SelectedCustomGPT: c.selectedPersona,
		Mode:              string(c.mode),
	}
	c.mu.Unlock()

	c.send(state)
}

func (c *Controller) send(msg transport.Outbound) {
	if err := c.transport.Send(msg); err != nil {
		c.logger.Warn("transport send failed", logging.Err(err))
	}
}

// LastContext returns the snapshot from the most recent chat turn, or nil
// before the first turn.
func (c *Controller) LastContext() *workspace.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastContext
}
