package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractTextFromHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"strips tags",
			"<html><body><h1>Title</h1><p>Some text</p></body></html>",
			"Title Some text",
		},
		{
			"removes scripts and styles",
			"<script>var x = 1;</script><style>.a{color:red}</style><p>kept</p>",
			"kept",
		},
		{
			"multiline script",
			"<script>\nfunction f() {\n  return 1;\n}\n</script>visible",
			"visible",
		},
		{
			"unescapes entities",
			"<p>fish &amp; chips &lt;3</p>",
			"fish & chips <3",
		},
		{
			"collapses whitespace",
			"<div>  a \n\n  b\t c  </div>",
			"a b c",
		},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractTextFromHTML(tc.input); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestLinkService_ReadText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><script>ignored()</script></head><body><p>Article body here.</p></body></html>"))
	}))
	defer server.Close()

	s := NewLinkService()
	text, err := s.ReadText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}

	if text != "Article body here." {
		t.Errorf("Expected extracted article text, got %q", text)
	}
	if strings.Contains(text, "ignored") {
		t.Errorf("Script content leaked into text: %q", text)
	}
}

func TestLinkService_RejectsBadLinks(t *testing.T) {
	s := NewLinkService()

	for _, link := range []string{"ftp://example.com/file", "not a url at all", "javascript:alert(1)"} {
		if _, err := s.ReadText(context.Background(), link); err == nil {
			t.Errorf("Expected error for link %q", link)
		}
	}
}

func TestLinkService_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewLinkService()
	if _, err := s.ReadText(context.Background(), server.URL); err == nil {
		t.Error("Expected error for 404 page")
	}
}

func TestLinkService_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><script>only(code)</script></html>"))
	}))
	defer server.Close()

	s := NewLinkService()
	if _, err := s.ReadText(context.Background(), server.URL); err == nil {
		t.Error("Expected error when page has no readable text")
	}
}
