package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidenote/sidenote/pkg/config"
	"github.com/sidenote/sidenote/pkg/workspace"
)

func configWithKey(key string) config.ChatConfig {
	return config.ChatConfig{APIKey: key, BaseURL: ""}
}

func liveRequest() Request {
	return Request{
		Model:  "gpt-4o",
		Mode:   ModeChat,
		Prompt: "explain the diff",
		Context: workspace.Snapshot{
			WorkspaceName: "demo",
			Files:         []string{"main.go"},
			OpenFiles:     []workspace.OpenFile{{Path: "main.go", Content: "package main"}},
		},
	}
}

func liveServer(t *testing.T, handler func(w http.ResponseWriter, body completionRequest)) (*httptest.Server, *LiveBackend) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		var body completionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		handler(w, body)
	}))
	backend := NewLiveBackend(config.ChatConfig{APIKey: "sk-test", BaseURL: server.URL}, nil)
	return server, backend
}

func respondWith(w http.ResponseWriter, content string) {
	fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, content)
}

func TestLiveBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("Request Shape", func(t *testing.T) {
		server, backend := liveServer(t, func(w http.ResponseWriter, body completionRequest) {
			assert.Equal(t, "gpt-4o", body.Model)
			assert.False(t, body.Stream)
			assert.Equal(t, 0.2, body.Temperature)
			require.Len(t, body.Messages, 2)
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.Equal(t, "user", body.Messages[1].Role)
			assert.Contains(t, body.Messages[1].Content, "Workspace: demo")
			assert.Contains(t, body.Messages[1].Content, "- main.go")
			assert.Contains(t, body.Messages[1].Content, "package main")
			assert.Contains(t, body.Messages[1].Content, "explain the diff")
			respondWith(w, "looks fine")
		})
		defer server.Close()

		final, err := backend.Chat(ctx, liveRequest(), nil)
		require.NoError(t, err)
		assert.Equal(t, "looks fine", final)
	})

	t.Run("Custom Endpoint Model Is Rewritten", func(t *testing.T) {
		server, backend := liveServer(t, func(w http.ResponseWriter, body completionRequest) {
			assert.Equal(t, "gpt-4o-mini", body.Model)
			respondWith(w, "ok")
		})
		defer server.Close()

		req := liveRequest()
		req.Model = "custom-endpoint"
		_, err := backend.Chat(ctx, req, nil)
		require.NoError(t, err)
	})

	t.Run("Persona Appears In System Message", func(t *testing.T) {
		server, backend := liveServer(t, func(w http.ResponseWriter, body completionRequest) {
			assert.Contains(t, body.Messages[0].Content, "Custom GPT: ida")
			respondWith(w, "ok")
		})
		defer server.Close()

		req := liveRequest()
		req.Persona = "ida"
		_, err := backend.Chat(ctx, req, nil)
		require.NoError(t, err)
	})

	t.Run("Single Chunk Equals Final Text", func(t *testing.T) {
		server, backend := liveServer(t, func(w http.ResponseWriter, body completionRequest) {
			respondWith(w, "the whole answer")
		})
		defer server.Close()

		var chunks []string
		final, err := backend.Chat(ctx, liveRequest(), func(text string) {
			chunks = append(chunks, text)
		})

		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, final, chunks[0])
	})

	t.Run("Status Code Embedded In Error", func(t *testing.T) {
		server, backend := liveServer(t, func(w http.ResponseWriter, body completionRequest) {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, "rate limited")
		})
		defer server.Close()

		_, err := backend.Chat(ctx, liveRequest(), nil)
		require.ErrorIs(t, err, ErrBackendFailed)
		assert.Contains(t, err.Error(), "status 429")
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("Empty Content Is ErrNoContent", func(t *testing.T) {
		server, backend := liveServer(t, func(w http.ResponseWriter, body completionRequest) {
			fmt.Fprint(w, `{"choices":[]}`)
		})
		defer server.Close()

		_, err := backend.Chat(ctx, liveRequest(), nil)
		assert.ErrorIs(t, err, ErrNoContent)
	})
}
