package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chikka-backend/internal/models"
)

const (
	// DefaultMaxTokens caps generated output when no valid cap is configured.
	DefaultMaxTokens = 16384

	fixedTopP          = 1.0
	upstreamTimeout    = 30 * time.Second
	defaultConcurrency = 5
)

// MistralClient talks to an OpenAI-compatible chat-completion endpoint over
// plain HTTP. It is safe for concurrent use; in-flight requests are bounded
// by a channel token bucket.
type MistralClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	rateChan   chan struct{}
}

func NewMistralClient(baseURL, apiKey, model string, maxTokens, concurrentReqs int) *MistralClient {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if concurrentReqs <= 0 {
		concurrentReqs = defaultConcurrency
	}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &MistralClient{
		httpClient: &http.Client{Timeout: upstreamTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		rateChan:   rateChan,
	}
}

// acquireRate blocks until a request slot is available.
func (c *MistralClient) acquireRate(ctx context.Context) error {
	select {
	case <-c.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *MistralClient) releaseRate() {
	c.rateChan <- struct{}{}
}

// Complete sends the turn sequence upstream and returns the extracted reply.
// Configuration is checked before any network I/O, so an unconfigured
// deployment never dials out. model overrides the configured default when
// non-empty.
func (c *MistralClient) Complete(ctx context.Context, turns []models.ChatTurn, temperature float64, model string) (*models.UpstreamReply, error) {
	if missing := c.missingConfig(); len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}

	if model == "" {
		model = c.model
	}
	if turns == nil {
		turns = []models.ChatTurn{}
	}

	if err := c.acquireRate(ctx); err != nil {
		return nil, &TransportError{Err: err}
	}
	defer c.releaseRate()

	body, err := json.Marshal(map[string]any{
		"model":           model,
		"messages":        turns,
		"max_tokens":      c.maxTokens,
		"temperature":     temperature,
		"top_p":           fixedTopP,
		"stream":          false,
		"enable_thinking": true,
	})
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamStatusError{Status: resp.StatusCode, Body: string(raw)}
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	content := extractReplyText(decoded)
	if content == "" {
		return nil, &EmptyContentError{}
	}

	return &models.UpstreamReply{ID: replyID(decoded), Content: content}, nil
}

func (c *MistralClient) missingConfig() []string {
	var missing []string
	if c.baseURL == "" {
		missing = append(missing, "MISTRAL_BASE_URL")
	}
	if c.apiKey == "" {
		missing = append(missing, "MISTRAL_API_KEY")
	}
	if c.model == "" {
		missing = append(missing, "MISTRAL_MODEL")
	}
	return missing
}

// replyExtractors are tried in order; the first one yielding a non-empty
// string wins. Providers disagree on where the reply text lives, so every
// known response shape gets its own extractor.
var replyExtractors = []func(map[string]any) string{
	chatCompletionContent, // choices[0].message.content
	completionText,        // choices[0].text
	flatOutputText,        // output_text
	nestedOutputText,      // output[0].content[0].text
}

func extractReplyText(body map[string]any) string {
	for _, extract := range replyExtractors {
		if text := extract(body); text != "" {
			return text
		}
	}
	return ""
}

func chatCompletionContent(body map[string]any) string {
	choice, ok := firstElement(body["choices"])
	if !ok {
		return ""
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return ""
	}
	text, _ := message["content"].(string)
	return text
}

func completionText(body map[string]any) string {
	choice, ok := firstElement(body["choices"])
	if !ok {
		return ""
	}
	text, _ := choice["text"].(string)
	return text
}

func flatOutputText(body map[string]any) string {
	text, _ := body["output_text"].(string)
	return text
}

func nestedOutputText(body map[string]any) string {
	item, ok := firstElement(body["output"])
	if !ok {
		return ""
	}
	part, ok := firstElement(item["content"])
	if !ok {
		return ""
	}
	text, _ := part["text"].(string)
	return text
}

func firstElement(v any) (map[string]any, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	obj, ok := list[0].(map[string]any)
	return obj, ok
}

func replyID(body map[string]any) string {
	if id, ok := body["id"].(string); ok && id != "" {
		return id
	}
	return fmt.Sprintf("response-%d", time.Now().UnixMilli())
}

// Upstream failure taxonomy. Every one of these triggers the fallback path;
// none may escape the chat service.

type ConfigurationError struct{ Missing []string }

func (e *ConfigurationError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ")
}

type TransportError struct{ Err error }

func (e *TransportError) Error() string { return "upstream transport failure: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

type UpstreamStatusError struct {
	Status int
	Body   string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

type MalformedResponseError struct{ Err error }

func (e *MalformedResponseError) Error() string {
	return "unparsable upstream response: " + e.Err.Error()
}
func (e *MalformedResponseError) Unwrap() error { return e.Err }

type EmptyContentError struct{}

func (e *EmptyContentError) Error() string {
	return "upstream response contained no usable text"
}
