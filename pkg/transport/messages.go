// Package transport defines the message protocol between the panel UI and
// the session controller. Both directions are closed sets of tagged
// messages; the JSON envelope carries the tag in a "type" field.
package transport

import "github.com/sidenote/sidenote/pkg/persona"

// Inbound is a UI-originated event. The set is closed: the decoder rejects
// unknown types so every handler switch stays exhaustive.
type Inbound interface {
	inbound()
}

// Ready signals that the panel view finished loading.
type Ready struct{}

// Chat submits a prompt for the current model, persona and mode.
type Chat struct {
	Content string `json:"content"`
}

// ModelChanged selects a different backend model.
type ModelChanged struct {
	Model string `json:"model"`
}

// CustomGPTChanged selects a different persona by id.
type CustomGPTChanged struct {
	ID string `json:"id"`
}

// ModeChanged switches between chat, agent and full-agent modes.
type ModeChanged struct {
	Mode string `json:"mode"`
}

func (Ready) inbound()            {}
func (Chat) inbound()             {}
func (ModelChanged) inbound()     {}
func (CustomGPTChanged) inbound() {}
func (ModeChanged) inbound()      {}

// Outbound is a controller-originated event for the UI.
type Outbound interface {
	outbound()
}

// State is the full session snapshot, re-emitted after every visible
// transition; the UI never receives diffs.
type State struct {
	Models            []string          `json:"models"`
	SelectedModel     string            `json:"selectedModel"`
	CustomGPTs        []persona.Persona `json:"customGpts"`
	SelectedCustomGPT string            `json:"selectedCustomGpt,omitempty"`
	Mode              string            `json:"mode"`
}

// OpenFileRef names an open document without its content.
type OpenFileRef struct {
	Path string `json:"path"`
}

// Context previews the snapshot attached to the chat turn being processed.
type Context struct {
	Files     []string      `json:"files"`
	OpenFiles []OpenFileRef `json:"openFiles"`
}

// ResponseStart signals that a response is about to stream.
type ResponseStart struct{}

// ResponseChunk carries one incremental unit of response text.
type ResponseChunk struct {
	Text string `json:"text"`
}

// ResponseDone terminates a successful turn with the full response text.
type ResponseDone struct {
	Text string `json:"text"`
}

// Error terminates a failed turn with a human-readable message.
type Error struct {
	Message string `json:"message"`
}

func (State) outbound()         {}
func (Context) outbound()       {}
func (ResponseStart) outbound() {}
func (ResponseChunk) outbound() {}
func (ResponseDone) outbound()  {}
func (Error) outbound()         {}

// Transport delivers outbound messages to the UI surface.
type Transport interface {
	Send(msg Outbound) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(msg Outbound) error

// Send implements Transport.
func (f TransportFunc) Send(msg Outbound) error { return f(msg) }
