package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chikka-backend/internal/models"
)

type stubUpstream struct {
	reply *models.UpstreamReply
	err   error
	calls int

	gotTurns       []models.ChatTurn
	gotTemperature float64
	gotModel       string
}

func (s *stubUpstream) Complete(ctx context.Context, turns []models.ChatTurn, temperature float64, model string) (*models.UpstreamReply, error) {
	s.calls++
	s.gotTurns = turns
	s.gotTemperature = temperature
	s.gotModel = model
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func newTestChatService(upstream *stubUpstream) *ChatService {
	augmenter := NewAugmenter(nil, nil, "")
	fallback := NewFallbackResolverWithPicker(func(n int) int { return 0 })
	return NewChatService(upstream, augmenter, fallback)
}

func chatRequest(t *testing.T, raw string) *models.ChatRequest {
	t.Helper()
	var req models.ChatRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return &req
}

func TestChatService_SuccessPath(t *testing.T) {
	upstream := &stubUpstream{reply: &models.UpstreamReply{ID: "cmpl-1", Content: "Kumusta! How can I help?"}}
	svc := newTestChatService(upstream)

	env := svc.Respond(context.Background(), chatRequest(t, `{"messages":[{"role":"user","content":"hi"}]}`))

	require.NotNil(t, env)
	assert.Equal(t, "cmpl-1", env.ID)
	assert.Equal(t, models.RoleAssistant, env.Role)
	assert.Equal(t, "Kumusta! How can I help?", env.Content)
	assert.NotContains(t, env.Content, "(Fallback Mode)")
}

func TestChatService_TotalityOnUpstreamFailure(t *testing.T) {
	failures := []error{
		&ConfigurationError{Missing: []string{"MISTRAL_API_KEY"}},
		&TransportError{Err: fmt.Errorf("dial tcp: connection refused")},
		&UpstreamStatusError{Status: 500, Body: "internal"},
		&MalformedResponseError{Err: fmt.Errorf("invalid character '<'")},
		&EmptyContentError{},
	}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			svc := newTestChatService(&stubUpstream{err: failure})

			env := svc.Respond(context.Background(), chatRequest(t, `{"messages":[{"role":"user","content":"xyzzy"}]}`))

			require.NotNil(t, env)
			assert.Equal(t, models.RoleAssistant, env.Role)
			assert.True(t, strings.HasPrefix(env.ID, "fallback-"), "got id %q", env.ID)
			assert.True(t, strings.HasSuffix(env.Content, " (Fallback Mode)"), "got content %q", env.Content)
		})
	}
}

func TestChatService_FallbackUsesKeywordMatch(t *testing.T) {
	svc := newTestChatService(&stubUpstream{err: &EmptyContentError{}})

	env := svc.Respond(context.Background(), chatRequest(t, `{"messages":[{"role":"user","content":"hello there, can you help?"}]}`))

	assert.Contains(t, env.Content, "Hello! I'm currently in fallback mode")
}

func TestChatService_FallbackUsesSkillMessage(t *testing.T) {
	svc := newTestChatService(&stubUpstream{err: &TransportError{Err: fmt.Errorf("timeout")}})

	env := svc.Respond(context.Background(), chatRequest(t,
		`{"messages":[{"role":"user","content":"search please"}],"searchQuery":"latest news"}`))

	assert.Contains(t, env.Content, "couldn't complete the web search")
}

func TestChatService_MalformedMessagesStillAnswered(t *testing.T) {
	upstream := &stubUpstream{reply: &models.UpstreamReply{ID: "r", Content: "ok"}}
	svc := newTestChatService(upstream)

	env := svc.Respond(context.Background(), chatRequest(t, `{"messages":"not an array"}`))

	require.NotNil(t, env)
	assert.Equal(t, 1, upstream.calls)
	assert.Empty(t, upstream.gotTurns, "malformed messages normalize to an empty sequence")
}

func TestChatService_TemperatureForwarding(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected float64
	}{
		{"explicit", `{"temperature":0.2}`, 0.2},
		{"omitted", `{}`, DefaultTemperature},
		{"non-numeric string", `{"temperature":"abc"}`, DefaultTemperature},
		{"numeric string", `{"temperature":"0.9"}`, 0.9},
		{"null", `{"temperature":null}`, DefaultTemperature},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			upstream := &stubUpstream{reply: &models.UpstreamReply{ID: "r", Content: "ok"}}
			svc := newTestChatService(upstream)

			svc.Respond(context.Background(), chatRequest(t, tc.body))

			assert.Equal(t, tc.expected, upstream.gotTemperature)
		})
	}
}

func TestChatService_ModelForwarding(t *testing.T) {
	upstream := &stubUpstream{reply: &models.UpstreamReply{ID: "r", Content: "ok"}}
	svc := newTestChatService(upstream)

	svc.Respond(context.Background(), chatRequest(t, `{"model":"mistral-medium"}`))

	assert.Equal(t, "mistral-medium", upstream.gotModel)
}

func TestChatService_FallbackEnvelopeWithoutRequest(t *testing.T) {
	svc := newTestChatService(&stubUpstream{})

	env := svc.FallbackEnvelope()

	require.NotNil(t, env)
	assert.Equal(t, models.RoleAssistant, env.Role)
	// No user text is available, so the generic rotation must be used.
	assert.Equal(t, fallbackRotation[0]+" (Fallback Mode)", env.Content)
}

func TestChatService_EnvelopeShapeInvariance(t *testing.T) {
	cases := map[string]*ChatService{
		"success":  newTestChatService(&stubUpstream{reply: &models.UpstreamReply{ID: "r", Content: "ok"}}),
		"fallback": newTestChatService(&stubUpstream{err: &EmptyContentError{}}),
	}

	for name, svc := range cases {
		t.Run(name, func(t *testing.T) {
			env := svc.Respond(context.Background(), chatRequest(t, `{"messages":[{"role":"user","content":"q"}]}`))

			raw, err := json.Marshal(env)
			require.NoError(t, err)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(raw, &decoded))

			assert.Len(t, decoded, 3, "envelope must have exactly id, role, content")
			assert.IsType(t, "", decoded["id"])
			assert.Equal(t, "assistant", decoded["role"])
			assert.IsType(t, "", decoded["content"])
			assert.NotEmpty(t, decoded["content"])
		})
	}
}

func TestResolveTemperature(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{"finite float", 0.3, 0.3},
		{"zero is valid", 0.0, 0.0},
		{"nil", nil, DefaultTemperature},
		{"NaN", math.NaN(), DefaultTemperature},
		{"positive infinity", math.Inf(1), DefaultTemperature},
		{"negative infinity", math.Inf(-1), DefaultTemperature},
		{"numeric string", "1.5", 1.5},
		{"non-numeric string", "abc", DefaultTemperature},
		{"infinite string", "Inf", DefaultTemperature},
		{"bool", true, DefaultTemperature},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveTemperature(tc.input))
		})
	}
}
