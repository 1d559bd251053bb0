package persona

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sidenote/sidenote/pkg/config"
	"github.com/sidenote/sidenote/pkg/logging"
)

func observedLogger() (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return logging.NewFromZap(zap.New(core)), logs
}

func hasLog(logs *observer.ObservedLogs, substr string) bool {
	for _, entry := range logs.All() {
		if strings.Contains(entry.Message, substr) {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

func TestSourceChain(t *testing.T) {
	ctx := context.Background()

	t.Run("No Endpoint Falls To Defaults", func(t *testing.T) {
		logger, logs := observedLogger()
		src := NewSource(config.PersonaConfig{}, "key", logger)

		personas, source := src.Load(ctx)

		require.Len(t, personas, 2)
		assert.Equal(t, "gertrude", personas[0].ID)
		assert.Equal(t, "ida", personas[1].ID)
		assert.Equal(t, SourceDefaults, source)
		assert.True(t, hasLog(logs, "no custom GPT endpoint configured"))
		assert.True(t, hasLog(logs, "built-in default custom GPTs"))
	})

	t.Run("Empty Endpoint Override Skips Remote", func(t *testing.T) {
		logger, logs := observedLogger()
		src := NewSource(config.PersonaConfig{Endpoint: strPtr("")}, "key", logger)

		src.Load(ctx)

		assert.True(t, hasLog(logs, "custom GPT endpoint override is empty"))
	})

	t.Run("No Credential Skips Remote", func(t *testing.T) {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))
		defer server.Close()

		logger, logs := observedLogger()
		src := NewSource(config.PersonaConfig{Endpoint: strPtr(server.URL)}, "", logger)

		src.Load(ctx)

		assert.Equal(t, 0, hits)
		assert.True(t, hasLog(logs, "no credential configured"))
	})

	t.Run("Remote Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer secret" {
				t.Errorf("unexpected authorization header: %q", got)
			}
			fmt.Fprint(w, `{"data":[
				{"id":"alpha","name":"Alpha","display_name":"Alpha GPT"},
				{"id":"beta","name":"Beta"},
				{"id":"gamma"},
				{"id":"","name":"dropped"}
			]}`)
		}))
		defer server.Close()

		logger, logs := observedLogger()
		src := NewSource(config.PersonaConfig{Endpoint: strPtr(server.URL), List: "x,y"}, "secret", logger)

		personas, source := src.Load(ctx)

		require.Len(t, personas, 3)
		assert.Equal(t, Persona{ID: "alpha", Label: "Alpha GPT"}, personas[0])
		assert.Equal(t, Persona{ID: "beta", Label: "Beta"}, personas[1])
		assert.Equal(t, Persona{ID: "gamma", Label: "gamma"}, personas[2])
		assert.Equal(t, SourceRemote, source)
		assert.True(t, hasLog(logs, "loaded 3 custom GPTs from remote endpoint"))
	})

	t.Run("Remote Failure Falls To List", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer server.Close()

		logger, logs := observedLogger()
		src := NewSource(config.PersonaConfig{Endpoint: strPtr(server.URL), List: "pair, solo"}, "secret", logger)

		personas, source := src.Load(ctx)

		require.Len(t, personas, 2)
		assert.Equal(t, "pair", personas[0].ID)
		assert.Equal(t, "solo", personas[1].ID)
		assert.Equal(t, SourceList, source)
		assert.True(t, hasLog(logs, "custom GPT fetch failed"))
		assert.True(t, hasLog(logs, "loaded 2 custom GPTs from configured list"))
	})

	t.Run("Remote Empty Falls Through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":[]}`)
		}))
		defer server.Close()

		logger, _ := observedLogger()
		src := NewSource(config.PersonaConfig{Endpoint: strPtr(server.URL)}, "secret", logger)

		personas, source := src.Load(ctx)

		require.Len(t, personas, 2)
		assert.Equal(t, "gertrude", personas[0].ID)
		assert.Equal(t, SourceDefaults, source)
	})
}

func TestParseList(t *testing.T) {
	t.Run("Trims And Drops Empties", func(t *testing.T) {
		personas := ParseList(" a , ,b,, c ")
		require.Len(t, personas, 3)
		assert.Equal(t, "a", personas[0].ID)
		assert.Equal(t, "b", personas[1].ID)
		assert.Equal(t, "c", personas[2].ID)
	})

	t.Run("Preserves Duplicates", func(t *testing.T) {
		personas := ParseList("dup,dup")
		require.Len(t, personas, 2)
	})

	t.Run("Empty Input", func(t *testing.T) {
		assert.Nil(t, ParseList(""))
	})
}

// Property: joining N non-empty tokens with commas parses back to N personas
// in the same order, with id == label.
func TestParseListProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	token := gen.RegexMatch(`[a-z0-9_-]{1,12}`)

	properties.Property("round-trips token lists", prop.ForAll(
		func(tokens []string) bool {
			personas := ParseList(strings.Join(tokens, ","))
			if len(personas) != len(tokens) {
				return false
			}
			for i, tok := range tokens {
				if personas[i].ID != tok || personas[i].Label != tok {
					return false
				}
			}
			return true
		},
		gen.SliceOf(token),
	))

	properties.TestingRun(t)
}
