package chat

import (
	"bytes"
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

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 2 * time.Minute

	// customEndpointModel is the selector value for a user-supplied endpoint;
	// it is never a valid remote model id and is rewritten before dispatch.
	customEndpointModel = "custom-endpoint"
	// fallbackModel replaces the custom-endpoint selector on the wire.
	fallbackModel = "gpt-4o-mini"

	liveFileLimit   = 10
	liveTemperature = 0.2
	contentFence    = "---"
)

// LiveBackend issues a single synchronous completion request per turn. The
// full response text is delivered as one chunk; protocol-level streaming is
// deliberately not used so a custom endpoint only needs the plain completion
// route.
type LiveBackend struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewLiveBackend creates the live backend from chat configuration.
func NewLiveBackend(cfg config.ChatConfig, logger logging.Logger) *LiveBackend {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &LiveBackend{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Name implements Backend.
func (b *LiveBackend) Name() string { return "live" }

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat implements Backend.
func (b *LiveBackend) Chat(ctx context.Context, req Request, onChunk ChunkFunc) (string, error) {
	body := completionRequest{
		Model: mapModel(req.Model),
		Messages: []wireMessage{
			{Role: "system", Content: systemInstruction(req)},
			{Role: "user", Content: userInstruction(req)},
		},
		Stream:      false,
		Temperature: liveTemperature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w with status %d: %s", ErrBackendFailed, resp.StatusCode, string(raw))
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}

	text := result.Choices[0].Message.Content
	if onChunk != nil {
		onChunk(text)
	}
	b.logger.Debug("live response received", logging.Int("bytes", len(text)))
	return text, nil
}

// mapModel rewrites the custom-endpoint selector to the fixed fallback model
// id; every other model value passes through verbatim.
func mapModel(model string) string {
	if model == customEndpointModel {
		return fallbackModel
	}
	return model
}

func systemInstruction(req Request) string {
	var sb strings.Builder
	sb.WriteString("You are sidenote, an assistant embedded in the user's editor.\n")
	fmt.Fprintf(&sb, "Mode: %s\n", req.Mode)
	if req.Persona != "" {
		fmt.Fprintf(&sb, "Custom GPT: %s\n", req.Persona)
	}
	sb.WriteString("Answer using the workspace context provided by the user message.")
	return sb.String()
}

func userInstruction(req Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Workspace: %s\n", req.Context.WorkspaceName)

	files := req.Context.Files
	if len(files) > liveFileLimit {
		files = files[:liveFileLimit]
	}
	sb.WriteString("Files:\n")
	for _, f := range files {
		fmt.Fprintf(&sb, "- %s\n", f)
	}

	if len(req.Context.OpenFiles) > 0 {
		sb.WriteString("Open files:\n")
		for _, f := range req.Context.OpenFiles {
			fmt.Fprintf(&sb, "- %s\n", f.Path)
			if f.Content != "" {
				sb.WriteString(contentFence + "\n")
				sb.WriteString(f.Content)
				if !strings.HasSuffix(f.Content, "\n") {
					sb.WriteString("\n")
				}
				sb.WriteString(contentFence + "\n")
			}
		}
	}

	sb.WriteString("\n")
	sb.WriteString(req.Prompt)
	return sb.String()
}
