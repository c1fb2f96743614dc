package services

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"

	"chikka-backend/internal/models"
)

const (
	// DefaultTemperature is used when the client omits the temperature or
	// sends something that isn't a finite number.
	DefaultTemperature = 0.7

	fallbackSuffix = " (Fallback Mode)"
)

// completionClient is the slice of the upstream client the orchestrator
// depends on.
type completionClient interface {
	Complete(ctx context.Context, turns []models.ChatTurn, temperature float64, model string) (*models.UpstreamReply, error)
}

// ChatService glues normalization, augmentation, the upstream call and the
// fallback path together. Respond is total: every failure ends in a valid
// envelope, never in an error surfaced to the client.
type ChatService struct {
	upstream  completionClient
	augmenter *Augmenter
	fallback  *FallbackResolver
}

func NewChatService(upstream completionClient, augmenter *Augmenter, fallback *FallbackResolver) *ChatService {
	return &ChatService{upstream: upstream, augmenter: augmenter, fallback: fallback}
}

// Respond handles one chat request end to end.
func (s *ChatService) Respond(ctx context.Context, req *models.ChatRequest) *models.ResponseEnvelope {
	turns := NormalizeTurns(req.Messages)
	augmented := s.augmenter.Augment(ctx, turns, req)
	temperature := ResolveTemperature(req.Temperature)

	reply, err := s.upstream.Complete(ctx, augmented, temperature, req.Model)
	if err != nil {
		logUpstreamFailure(err)
		return s.fallbackEnvelope(LastUserContent(turns), auxKind(req))
	}

	return &models.ResponseEnvelope{
		ID:      reply.ID,
		Role:    models.RoleAssistant,
		Content: reply.Content,
	}
}

// FallbackEnvelope produces a degraded reply without any request context,
// for callers whose input could not even be parsed.
func (s *ChatService) FallbackEnvelope() *models.ResponseEnvelope {
	return s.fallbackEnvelope("", AuxNone)
}

func (s *ChatService) fallbackEnvelope(userText, aux string) *models.ResponseEnvelope {
	reply := s.fallback.Resolve(userText, aux)
	return &models.ResponseEnvelope{
		ID:      reply.ID,
		Role:    models.RoleAssistant,
		Content: reply.Content + fallbackSuffix,
	}
}

// auxKind names the skill payload a request carried, using the same
// precedence the augmenter applies.
func auxKind(req *models.ChatRequest) string {
	switch {
	case strings.TrimSpace(req.SearchQuery) != "":
		return AuxSearch
	case strings.TrimSpace(req.PDFText) != "":
		return AuxDocument
	case strings.TrimSpace(req.URL) != "":
		return AuxLink
	}
	return AuxNone
}

// Diagnostic detail stays in the server log; the raw status and body are
// never shown to the end user.
func logUpstreamFailure(err error) {
	switch e := err.(type) {
	case *ConfigurationError:
		log.Printf("upstream call skipped: %v", e)
	case *UpstreamStatusError:
		log.Printf("upstream error: status=%d body=%s", e.Status, truncateForLog(e.Body))
	default:
		log.Printf("upstream call failed: %v", err)
	}
}

func truncateForLog(s string) string {
	if len(s) > 512 {
		return s[:512] + "..."
	}
	return s
}

// ResolveTemperature validates a loosely-typed temperature value, falling
// back to the default when it is absent, non-numeric, or not finite.
func ResolveTemperature(v any) float64 {
	switch t := v.(type) {
	case float64:
		if isFinite(t) {
			return t
		}
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil && isFinite(f) {
			return f
		}
	}
	return DefaultTemperature
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
