package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestSearchService_UnconfiguredIsAnError(t *testing.T) {
	s := NewSearchService("", "", nil)

	if _, err := s.Search(context.Background(), "anything"); err == nil {
		t.Error("Expected error when search provider is unconfigured")
	}
}

func TestFormatSearchResults_FullResponse(t *testing.T) {
	raw := `{
		"organic_results": [
			{"title": "First Hit", "url": "https://example.com/1", "description": "First description"},
			{"title": "Second Hit", "url": "https://example.com/2", "description": "Second description"}
		],
		"knowledge_graph": {"title": "Topic", "description": "Topic description"},
		"related_searches": [{"query": "related one"}, {"query": "related two"}]
	}`

	var data searchResponse
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}

	out := formatSearchResults("test query", &data)

	for _, want := range []string{
		`# Search Results for "test query"`,
		"## 1. First Hit",
		"URL: https://example.com/1",
		"First description",
		"## 2. Second Hit",
		"## Knowledge Graph",
		"Title: Topic",
		"Description: Topic description",
		"## Related Searches",
		"- related one",
		"- related two",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatSearchResults_EmptyResponse(t *testing.T) {
	out := formatSearchResults("obscure query", &searchResponse{})

	if !strings.Contains(out, `No specific results found for "obscure query"`) {
		t.Errorf("Expected no-results notice, got:\n%s", out)
	}
	if strings.Contains(out, "## Knowledge Graph") || strings.Contains(out, "## Related Searches") {
		t.Errorf("Empty sections must be omitted, got:\n%s", out)
	}
}

func TestFormatSearchResults_MissingFields(t *testing.T) {
	var data searchResponse
	if err := json.Unmarshal([]byte(`{"organic_results":[{}]}`), &data); err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}

	out := formatSearchResults("q", &data)

	for _, want := range []string{"No title", "URL: #", "No description available"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected placeholder %q, got:\n%s", want, out)
		}
	}
}
