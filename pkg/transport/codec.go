package transport

import (
	"encoding/json"
	"fmt"
)

// Wire tags for both directions.
const (
	TypeReady            = "ready"
	TypeChat             = "chat"
	TypeModelChanged     = "modelChanged"
	TypeCustomGPTChanged = "customGptChanged"
	TypeModeChanged      = "modeChanged"

	TypeState         = "state"
	TypeContext       = "context"
	TypeResponseStart = "responseStart"
	TypeResponseChunk = "responseChunk"
	TypeResponseDone  = "responseDone"
	TypeError         = "error"
)

type envelope struct {
	Type string `json:"type"`
}

// DecodeInbound parses a UI event from its JSON envelope. Unknown types are
// an error, keeping the inbound set closed.
func DecodeInbound(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	switch env.Type {
	case TypeReady:
		return Ready{}, nil
	case TypeChat:
		var msg Chat
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeModelChanged:
		var msg ModelChanged
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeCustomGPTChanged:
		var msg CustomGPTChanged
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeModeChanged:
		var msg ModeChanged
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("unknown inbound message type %q", env.Type)
	}
}

// EncodeOutbound serializes a controller event into its JSON envelope.
func EncodeOutbound(msg Outbound) ([]byte, error) {
	switch v := msg.(type) {
	case State:
		return json.Marshal(struct {
			Type string `json:"type"`
			State
		}{TypeState, v})
	case Context:
		return json.Marshal(struct {
			Type string `json:"type"`
			Context
		}{TypeContext, v})
	case ResponseStart:
		return json.Marshal(envelope{Type: TypeResponseStart})
	case ResponseChunk:
		return json.Marshal(struct {
			Type string `json:"type"`
			ResponseChunk
		}{TypeResponseChunk, v})
	case ResponseDone:
		return json.Marshal(struct {
			Type string `json:"type"`
			ResponseDone
		}{TypeResponseDone, v})
	case Error:
		return json.Marshal(struct {
			Type string `json:"type"`
			Error
		}{TypeError, v})
	default:
		return nil, fmt.Errorf("unknown outbound message type %T", msg)
	}
}

// DecodeOutbound parses a controller event from its JSON envelope. Used by
// transports that cross a process boundary and by tests.
func DecodeOutbound(data []byte) (Outbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	switch env.Type {
	case TypeState:
		var msg State
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeContext:
		var msg Context
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeResponseStart:
		return ResponseStart{}, nil
	case TypeResponseChunk:
		var msg ResponseChunk
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeResponseDone:
		var msg ResponseDone
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeError:
		var msg Error
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("unknown outbound message type %q", env.Type)
	}
}
