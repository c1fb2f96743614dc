package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const searchCacheTTL = 15 * time.Minute

// SearchService queries DuckDuckGo through RapidAPI and renders the results
// into the markdown blob the augmenter embeds in a grounding turn. Results
// are cached in Redis per query so repeated questions don't burn API quota.
type SearchService struct {
	httpClient *http.Client
	host       string
	apiKey     string
	redis      *redis.Client // nil disables caching
}

func NewSearchService(host, apiKey string, redisClient *redis.Client) *SearchService {
	return &SearchService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		host:       host,
		apiKey:     apiKey,
		redis:      redisClient,
	}
}

type searchResponse struct {
	OrganicResults []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
	} `json:"organic_results"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"knowledge_graph"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"related_searches"`
}

// Search returns a formatted result blob for the query. Any failure is
// returned as an error; the augmenter decides to proceed without grounding.
func (s *SearchService) Search(ctx context.Context, query string) (string, error) {
	if s.host == "" || s.apiKey == "" {
		return "", fmt.Errorf("search provider is not configured")
	}

	cacheKey := "search:" + strings.ToLower(strings.TrimSpace(query))
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	endpoint := fmt.Sprintf("https://%s/?q=%s", s.host, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-rapidapi-host", s.host)
	req.Header.Set("x-rapidapi-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch search results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read search results: %w", err)
	}

	var data searchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to parse search results: %w", err)
	}

	formatted := formatSearchResults(query, &data)

	if s.redis != nil {
		if err := s.redis.Set(ctx, cacheKey, formatted, searchCacheTTL).Err(); err != nil {
			log.Printf("failed to cache search results for %q: %v", query, err)
		}
	}

	return formatted, nil
}

func formatSearchResults(query string, data *searchResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Search Results for %q\n\n", query)

	if len(data.OrganicResults) > 0 {
		for i, result := range data.OrganicResults {
			title := result.Title
			if title == "" {
				title = "No title"
			}
			link := result.URL
			if link == "" {
				link = "#"
			}
			description := result.Description
			if description == "" {
				description = "No description available"
			}
			fmt.Fprintf(&b, "## %d. %s\n", i+1, title)
			fmt.Fprintf(&b, "URL: %s\n", link)
			fmt.Fprintf(&b, "%s\n\n", description)
		}
	} else {
		fmt.Fprintf(&b, "No specific results found for %q. ", query)
	}

	if data.KnowledgeGraph != nil {
		title := data.KnowledgeGraph.Title
		if title == "" {
			title = "Unknown"
		}
		description := data.KnowledgeGraph.Description
		if description == "" {
			description = "No description available"
		}
		b.WriteString("## Knowledge Graph\n")
		fmt.Fprintf(&b, "Title: %s\n", title)
		fmt.Fprintf(&b, "Description: %s\n\n", description)
	}

	if len(data.RelatedSearches) > 0 {
		b.WriteString("## Related Searches\n")
		for _, related := range data.RelatedSearches {
			fmt.Fprintf(&b, "- %s\n", related.Query)
		}
		b.WriteString("\n")
	}

	return b.String()
}
