package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidenote/sidenote/pkg/persona"
)

func TestDecodeInbound(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"ready"}`))
		require.NoError(t, err)
		assert.IsType(t, Ready{}, msg)
	})

	t.Run("Chat", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"chat","content":"hello"}`))
		require.NoError(t, err)
		assert.Equal(t, Chat{Content: "hello"}, msg)
	})

	t.Run("ModelChanged", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"modelChanged","model":"gpt-4o"}`))
		require.NoError(t, err)
		assert.Equal(t, ModelChanged{Model: "gpt-4o"}, msg)
	})

	t.Run("CustomGPTChanged", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"customGptChanged","id":"ida"}`))
		require.NoError(t, err)
		assert.Equal(t, CustomGPTChanged{ID: "ida"}, msg)
	})

	t.Run("ModeChanged", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"modeChanged","mode":"agent"}`))
		require.NoError(t, err)
		assert.Equal(t, ModeChanged{Mode: "agent"}, msg)
	})

	t.Run("Unknown Type Rejected", func(t *testing.T) {
		_, err := DecodeInbound([]byte(`{"type":"telemetry"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown inbound message type")
	})

	t.Run("Malformed JSON Rejected", func(t *testing.T) {
		_, err := DecodeInbound([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestOutboundRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		msg  Outbound
	}{
		{"State", State{
			Models:            []string{"gpt-4o"},
			SelectedModel:     "gpt-4o",
			CustomGPTs:        []persona.Persona{{ID: "ida", Label: "Ida"}},
			SelectedCustomGPT: "ida",
			Mode:              "chat",
		}},
		{"Context", Context{
			Files:     []string{"a.go"},
			OpenFiles: []OpenFileRef{{Path: "a.go"}},
		}},
		{"ResponseStart", ResponseStart{}},
		{"ResponseChunk", ResponseChunk{Text: "partial"}},
		{"ResponseDone", ResponseDone{Text: "full"}},
		{"Error", Error{Message: "status 500"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := EncodeOutbound(tc.msg)
			require.NoError(t, err)

			decoded, err := DecodeOutbound(data)
			require.NoError(t, err)
			assert.Equal(t, tc.msg, decoded)
		})
	}

	t.Run("Unknown Type Rejected", func(t *testing.T) {
		_, err := DecodeOutbound([]byte(`{"type":"metrics"}`))
		assert.Error(t, err)
	})
}

func TestChannelTransportOrder(t *testing.T) {
	bus := NewChannelTransport(4)

	go func() {
		for i := 0; i < 10; i++ {
			_ = bus.Send(ResponseChunk{Text: string(rune('a' + i))})
		}
		bus.Close()
	}()

	var got []string
	for msg := range bus.Messages() {
		got = append(got, msg.(ResponseChunk).Text)
	}

	require.Len(t, got, 10)
	for i, s := range got {
		assert.Equal(t, string(rune('a'+i)), s)
	}
}
