package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	p := NewPrometheus()

	p.ChatTurnStarted("simulated")
	p.ChatTurnCompleted("simulated")
	p.ChatTurnFailed("live")
	p.ChunkDelivered("simulated")
	p.ChunkDelivered("simulated")
	p.PersonasResolved("load", 2)

	server := httptest.NewServer(p.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, `sidenote_chat_turns_started_total{backend="simulated"} 1`)
	assert.Contains(t, text, `sidenote_chat_turns_completed_total{backend="simulated"} 1`)
	assert.Contains(t, text, `sidenote_chat_turns_failed_total{backend="live"} 1`)
	assert.Contains(t, text, `sidenote_response_chunks_total{backend="simulated"} 2`)
	assert.Contains(t, text, `sidenote_personas_resolved_total{source="load"} 2`)
}

func TestNopRecorderIsRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.ChatTurnStarted("x")
	r.PersonasResolved("load", 1)
}
