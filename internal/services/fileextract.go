package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FileExtractService turns uploaded documents into plain text. The chat core
// only ever sees the resulting string; extraction failures stay at the
// extraction endpoint.
type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

// ExtractText dispatches on the file extension of fileName.
func (s *FileExtractService) ExtractText(fileName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".txt":
		return s.extractTXT(data)
	case ".pdf":
		return s.extractPDF(data)
	case ".docx":
		return s.extractDOCX(data)
	default:
		return "", fmt.Errorf("unsupported file type for text extraction: %s", ext)
	}
}

func (s *FileExtractService) extractTXT(data []byte) (string, error) {
	text := normalizeExtractedText(string(data))
	if text == "" {
		return "", fmt.Errorf("text file is empty")
	}
	return text, nil
}

func (s *FileExtractService) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := normalizeExtractedText(b.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text found in pdf")
	}

	return text, nil
}

func (s *FileExtractService) extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var documentXML []byte
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", err
			}
			break
		}
	}

	if len(documentXML) == 0 {
		return "", fmt.Errorf("docx document.xml not found")
	}

	text := normalizeExtractedText(stripDOCXML(documentXML))
	if text == "" {
		return "", fmt.Errorf("no extractable text found in docx")
	}

	return text, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
