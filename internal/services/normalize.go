package services

import "chikka-backend/internal/models"

// NormalizeTurns coerces an arbitrary decoded JSON value into a well-formed
// turn sequence. The payload comes straight from the browser, so anything
// that is not an array is treated as empty, and individual malformed entries
// are dropped silently instead of failing the whole request.
func NormalizeTurns(input any) []models.ChatTurn {
	raw, ok := input.([]any)
	if !ok {
		return nil
	}

	turns := make([]models.ChatTurn, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		role, ok := obj["role"].(string)
		if !ok {
			continue
		}
		content, ok := obj["content"].(string)
		if !ok {
			continue
		}
		switch role {
		case models.RoleUser, models.RoleAssistant, models.RoleSystem:
			turns = append(turns, models.ChatTurn{Role: role, Content: content})
		}
	}

	return turns
}

// LastUserContent returns the content of the most recent user turn, or ""
// when the conversation has none. The fallback resolver keyword-matches
// against this text.
func LastUserContent(turns []models.ChatTurn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == models.RoleUser {
			return turns[i].Content
		}
	}
	return ""
}
