package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ExternalServiceError reports a failure of the LLM collaborator (network
// error, non-2xx status, malformed response). The pipeline surfaces it
// without retrying.
type ExternalServiceError struct {
	Message string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("external service error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("external service error: %s", e.Message)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// Completer maps a prompt string to raw completion text. The call is
// synchronous from the caller's point of view.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HTTPCompleter talks to an OpenAI-style chat-completions endpoint.
type HTTPCompleter struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

// NewHTTPCompleter creates a completer for the given endpoint and model.
// A zero timeout means no client-side timeout.
func NewHTTPCompleter(endpoint, model, apiKey string, timeout time.Duration) *HTTPCompleter {
	return &HTTPCompleter{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the raw completion text.
func (c *HTTPCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", &ExternalServiceError{Message: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &ExternalServiceError{Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ExternalServiceError{Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ExternalServiceError{Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ExternalServiceError{Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ExternalServiceError{Message: "malformed response", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &ExternalServiceError{Message: "response contains no choices"}
	}

	return parsed.Choices[0].Message.Content, nil
}
