package persona

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sidenote/sidenote/pkg/config"
	"github.com/sidenote/sidenote/pkg/logging"
)

const fetchTimeout = 10 * time.Second

// Source resolves personas from the configured chain. It is safe for
// concurrent use; each Load is independent.
type Source struct {
	endpoint   *string // nil: no override; non-nil empty: explicitly disabled
	apiKey     string
	list       string
	httpClient *http.Client
	logger     logging.Logger
}

// NewSource creates a persona source from configuration. The API key is the
// same credential used by the chat backend.
func NewSource(cfg config.PersonaConfig, apiKey string, logger logging.Logger) *Source {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Source{
		endpoint:   cfg.Endpoint,
		apiKey:     apiKey,
		list:       cfg.List,
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger,
	}
}

// Labels for the winning chain step, reported alongside the loaded set.
const (
	SourceRemote   = "remote"
	SourceList     = "list"
	SourceDefaults = "defaults"
)

// Load resolves the persona list and names the chain step that produced it.
// It never returns an error: any underlying failure falls through to the
// next source, ending at the built-in defaults.
func (s *Source) Load(ctx context.Context) ([]Persona, string) {
	if remote := s.loadRemote(ctx); len(remote) > 0 {
		return remote, SourceRemote
	}

	if fromList := ParseList(s.list); len(fromList) > 0 {
		s.logger.Info(fmt.Sprintf("loaded %d custom GPTs from configured list", len(fromList)))
		return fromList, SourceList
	}

	defaults := Defaults()
	s.logger.Info(fmt.Sprintf("loaded %d built-in default custom GPTs", len(defaults)))
	return defaults, SourceDefaults
}

func (s *Source) loadRemote(ctx context.Context) []Persona {
	switch {
	case s.endpoint == nil:
		// Deliberate conservative default: most providers have no custom GPT
		// listing, so an unconfigured endpoint means no remote call at all.
		s.logger.Info("no custom GPT endpoint configured, skipping remote resolution")
		return nil
	case *s.endpoint == "":
		s.logger.Info("custom GPT endpoint override is empty, skipping remote resolution")
		return nil
	case s.apiKey == "":
		s.logger.Info("no credential configured, skipping remote custom GPT resolution")
		return nil
	}

	personas, err := s.fetch(ctx, *s.endpoint)
	if err != nil {
		s.logger.Warn("custom GPT fetch failed, falling through to next source", logging.Err(err))
		return nil
	}

	s.logger.Info(fmt.Sprintf("loaded %d custom GPTs from remote endpoint", len(personas)))
	return personas
}

// remoteEntry mirrors the endpoint's data array items.
type remoteEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

func (s *Source) fetch(ctx context.Context, endpoint string) ([]Persona, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("custom GPT request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []remoteEntry `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	personas := make([]Persona, 0, len(result.Data))
	for _, e := range result.Data {
		if e.ID == "" {
			continue
		}
		label := e.DisplayName
		if label == "" {
			label = e.Name
		}
		if label == "" {
			label = e.ID
		}
		personas = append(personas, Persona{ID: e.ID, Label: label})
	}
	return personas, nil
}

// ParseList splits a comma-separated persona list into trimmed, non-empty
// tokens. Each token becomes a persona with id == label. Duplicates are
// preserved.
func ParseList(list string) []Persona {
	if list == "" {
		return nil
	}

	var personas []Persona
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		personas = append(personas, Persona{ID: token, Label: token})
	}
	return personas
}
