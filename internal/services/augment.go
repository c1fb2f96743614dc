package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"chikka-backend/internal/models"
)

// Auxiliary payload kinds, in precedence order.
const (
	AuxNone     = ""
	AuxSearch   = "search"
	AuxDocument = "document"
	AuxLink     = "link"
)

type webSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type linkReader interface {
	ReadText(ctx context.Context, url string) (string, error)
}

// Augmenter prepends at most one synthesized grounding turn to a normalized
// conversation. Existing turns are never reordered or rewritten, and a failed
// retrieval falls through to the unaugmented sequence so the request still
// reaches the model.
type Augmenter struct {
	searcher webSearcher
	links    linkReader
	persona  string
}

// NewAugmenter wires the retrieval collaborators. persona, when non-empty, is
// prepended as a system turn on requests that carry no skill payload.
func NewAugmenter(searcher webSearcher, links linkReader, persona string) *Augmenter {
	return &Augmenter{searcher: searcher, links: links, persona: persona}
}

// Augment applies the single highest-precedence augmentation the request
// asks for: search, then document, then link.
func (a *Augmenter) Augment(ctx context.Context, turns []models.ChatTurn, req *models.ChatRequest) []models.ChatTurn {
	if strings.TrimSpace(req.SearchQuery) != "" && a.searcher != nil {
		results, err := a.searcher.Search(ctx, req.SearchQuery)
		if err != nil {
			log.Printf("search augmentation failed, continuing without grounding: %v", err)
		} else {
			return prepend(turns, models.ChatTurn{
				Role:    models.RoleSystem,
				Content: searchInstruction(req.SearchQuery, results),
			})
		}
	}

	if strings.TrimSpace(req.PDFText) != "" {
		return prepend(turns, models.ChatTurn{
			Role:    models.RoleUser,
			Content: documentInstruction(req.FileName, req.PDFText),
		})
	}

	if strings.TrimSpace(req.URL) != "" && a.links != nil {
		text, err := a.links.ReadText(ctx, req.URL)
		if err != nil {
			log.Printf("link augmentation failed, continuing without page text: %v", err)
		} else {
			return prepend(turns, models.ChatTurn{
				Role:    models.RoleSystem,
				Content: linkInstruction(req.URL, text),
			})
		}
	}

	if a.persona != "" {
		return prepend(turns, models.ChatTurn{Role: models.RoleSystem, Content: a.persona})
	}

	return turns
}

func prepend(turns []models.ChatTurn, lead models.ChatTurn) []models.ChatTurn {
	out := make([]models.ChatTurn, 0, len(turns)+1)
	out = append(out, lead)
	return append(out, turns...)
}

func searchInstruction(query, results string) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI assistant tasked with providing accurate information based on web search results.\n\n")
	fmt.Fprintf(&b, "I've searched for: %q and found the following information:\n\n", query)
	b.WriteString(results)
	b.WriteString(`

IMPORTANT INSTRUCTIONS:
1. Base your response PRIMARILY on the search results provided above.
2. DO NOT make up information or rely on your training data if the search results don't contain relevant information.
3. If the search results don't fully address the query, acknowledge this limitation clearly.
4. Quote specific sources from the search results when providing information.
5. Format your response in a clear, organized manner with headings and bullet points where appropriate.
6. If search results contain conflicting information, present multiple perspectives and indicate the sources.
7. Prioritize information from more authoritative sources when available.
8. Summarize the key points from the search results rather than your general knowledge.
9. If the search results are insufficient, suggest alternative search queries the user might try.

Your response MUST be based on the search results above, not your general knowledge.`)

	return b.String()
}

func documentInstruction(fileName, text string) string {
	var b strings.Builder

	if fileName != "" {
		fmt.Fprintf(&b, "I've shared a document named %q. ", fileName)
	} else {
		b.WriteString("I've shared a document. ")
	}
	b.WriteString("Here is its extracted text:\n\n")
	b.WriteString(text)
	b.WriteString("\n\nPlease analyze this content and answer my questions about it. If the content seems incomplete or unclear, let me know what you can understand from it.")

	return b.String()
}

func linkInstruction(url, text string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user has shared a link: %s\n", url)
	b.WriteString("I've extracted the readable text from that page:\n\n")
	b.WriteString(text)
	b.WriteString("\n\nAnswer the user's questions about this page based on the extracted text above. If the text seems truncated or unclear, say what you can understand from it.")

	return b.String()
}
