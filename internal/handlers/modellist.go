package handlers

import (
	"net/http"

	"chikka-backend/internal/models"
)

// ModelsHandler exposes the models the settings panel can offer.
type ModelsHandler struct {
	defaultModel string
	modelIDs     []string
}

func NewModelsHandler(defaultModel string, modelIDs []string) *ModelsHandler {
	return &ModelsHandler{defaultModel: defaultModel, modelIDs: modelIDs}
}

func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	seen := map[string]bool{}
	infos := make([]models.ModelInfo, 0, len(h.modelIDs)+1)

	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		infos = append(infos, models.ModelInfo{ID: id, Default: id == h.defaultModel})
	}

	add(h.defaultModel)
	for _, id := range h.modelIDs {
		add(id)
	}

	writeJSON(w, http.StatusOK, map[string]any{"models": infos})
}
