package services

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	maxPageBytes     = 2 << 20 // 2MB of HTML is plenty for grounding
	maxPageTextChars = 16000
)

// LinkService fetches a web page and reduces it to plain text the augmenter
// can embed in a grounding turn.
type LinkService struct {
	httpClient *http.Client
}

func NewLinkService() *LinkService {
	return &LinkService{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// ReadText fetches pageURL and strips it down to readable text.
func (s *LinkService) ReadText(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("unsupported link: %s", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}

	text := ExtractTextFromHTML(string(body))
	if text == "" {
		return "", fmt.Errorf("no readable text found at %s", pageURL)
	}

	if len(text) > maxPageTextChars {
		text = strings.ToValidUTF8(text[:maxPageTextChars], "")
	}

	return text, nil
}

var (
	scriptPattern = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// ExtractTextFromHTML strips scripts, styles and markup, unescapes entities
// and collapses whitespace.
func ExtractTextFromHTML(src string) string {
	s := scriptPattern.ReplaceAllString(src, " ")
	s = stylePattern.ReplaceAllString(s, " ")
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
