package handlers

import (
	"net/http"
	"strings"

	"chikka-backend/internal/models"
	"chikka-backend/internal/services"
)

const maxUploadBytes = 25 * 1024 * 1024 // 25MB

type ExtractHandler struct {
	extract *services.FileExtractService
}

func NewExtractHandler(extract *services.FileExtractService) *ExtractHandler {
	return &ExtractHandler{extract: extract}
}

// Extract receives a multipart document upload and returns its plain text.
// The browser client feeds the result back into the chat endpoint as pdfText.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds 25MB limit", r))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	text, err := h.extract.ExtractText(header.Filename, file)
	if err != nil {
		if strings.Contains(err.Error(), "unsupported file type") {
			writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", "File type not supported", r))
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", "Could not extract text from file", r))
		return
	}

	writeJSON(w, http.StatusOK, models.ExtractResponse{
		FileName:  header.Filename,
		Text:      text,
		WordCount: len(strings.Fields(text)),
	})
}
