package models

// Roles accepted in a conversation. Turns carrying any other role are
// discarded during normalization.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatTurn is a single role-tagged message. Order within a sequence is
// chronological; the last user turn is the active query.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload the browser client sends to the chat endpoint.
// Messages and Temperature are deliberately loose: the client is untrusted,
// and malformed entries are tolerated during normalization instead of
// failing the whole request.
type ChatRequest struct {
	Messages    any    `json:"messages"`
	PDFText     string `json:"pdfText"`
	FileName    string `json:"fileName"`
	SearchQuery string `json:"searchQuery"`
	URL         string `json:"url"`
	Model       string `json:"model"`
	Temperature any    `json:"temperature"`
}

// UpstreamReply is a successfully parsed model response.
type UpstreamReply struct {
	ID      string
	Content string
}

// FallbackReply is a degraded reply produced locally. Constructing one can
// never fail.
type FallbackReply struct {
	ID      string
	Content string
}

// ResponseEnvelope is the only shape the client ever receives back. It is
// identical whether the content came from the model or the fallback path, so
// the frontend needs no branching logic.
type ResponseEnvelope struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ExtractResponse is returned by the document extraction endpoint.
type ExtractResponse struct {
	FileName  string `json:"file_name"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

// ModelInfo describes one selectable upstream model.
type ModelInfo struct {
	ID      string `json:"id"`
	Default bool   `json:"default"`
}
