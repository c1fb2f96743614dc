package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"chikka-backend/internal/models"
)

// Rotation served when no keyword rule matches. Wording is carried from the
// frontend copy, Taglish included.
var fallbackRotation = []string{
	"I'm currently operating in fallback mode. The AI service is temporarily unavailable.",
	"Sorry, I can't access my full capabilities right now. Please try again later.",
	"Pasensya na po, may problema sa connection ko sa AI service. I'm using limited responses.",
	"Hello! I'm currently using pre-programmed responses as the AI service is down.",
	"Kumusta! I'm in fallback mode right now. My responses are limited.",
	"The AI service is currently unavailable. I'm using basic responses for now.",
	"Sorry for the inconvenience, but I'm currently operating with limited functionality.",
	"Pasensya na po, hindi ako makaka-access ng AI service ngayon. I'm using fallback responses.",
	"I'm currently in offline mode. My responses are pre-programmed.",
	"The connection to my AI brain is temporarily down. I'll be back to full capacity soon!",
}

// Fixed degraded replies for requests that carried a skill payload. The user
// asked for a specific capability, so a capability-specific apology reads
// better than a keyword match on their message.
const (
	searchFallbackMessage = "I couldn't complete the web search. The search service might be unavailable or the query was too complex."
	pdfFallbackMessage    = "I couldn't analyze that PDF properly. The file might be too large, complex, or in a format I can't process."
	linkFallbackMessage   = "I couldn't analyze that link properly. The content might be too complex or the website might be inaccessible."
)

// FallbackResolver produces a degraded reply whenever the upstream client
// fails. It must never fail itself. pick selects an index into the rotation
// and is injectable so tests can walk the whole table deterministically.
type FallbackResolver struct {
	pick func(n int) int
}

func NewFallbackResolver() *FallbackResolver {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &FallbackResolver{pick: rng.Intn}
}

// NewFallbackResolverWithPicker injects a rotation selector. Tests use this
// to make the random branch deterministic.
func NewFallbackResolverWithPicker(pick func(n int) int) *FallbackResolver {
	return &FallbackResolver{pick: pick}
}

// Resolve builds a degraded reply for the user's last message. aux names the
// skill payload the failed request carried (AuxSearch, AuxDocument, AuxLink
// or AuxNone).
func (f *FallbackResolver) Resolve(userText, aux string) models.FallbackReply {
	return models.FallbackReply{
		ID:      fmt.Sprintf("fallback-%d", time.Now().UnixMilli()),
		Content: f.content(userText, aux),
	}
}

func (f *FallbackResolver) content(userText, aux string) string {
	switch aux {
	case AuxSearch:
		return searchFallbackMessage
	case AuxDocument:
		return pdfFallbackMessage
	case AuxLink:
		return linkFallbackMessage
	}

	if reply := keywordReply(userText); reply != "" {
		return reply
	}

	return fallbackRotation[f.pick(len(fallbackRotation))]
}

// keywordReply applies the fixed rules in order; first match wins.
func keywordReply(text string) string {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "hello"), strings.Contains(lower, "hi"), strings.Contains(lower, "kumusta"):
		return "Hello! I'm currently in fallback mode, but I can still chat with you using basic responses."
	case strings.Contains(lower, "help"), strings.Contains(lower, "tulong"):
		return "I'm in fallback mode right now. The AI service is temporarily unavailable. You can try again later or ask simple questions."
	case strings.Contains(lower, "thank"), strings.Contains(lower, "salamat"):
		return "You're welcome! I'm happy to help even in fallback mode."
	case strings.Contains(lower, "what") && strings.Contains(lower, "wrong"),
		strings.Contains(lower, "not working"),
		strings.Contains(lower, "offline"):
		return "I'm currently operating in fallback mode because the connection to the AI service is unavailable. This could be due to network issues, API limits, or service maintenance."
	}

	return ""
}
