// Package normalize converts vendor HTML fragments into the plain, single-line
// text stored on canonical records.
package normalize

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// TextNormalizer converts HTML fragments to collapsed text via Markdown,
// which keeps list items and line breaks readable once flattened.
type TextNormalizer struct{}

// New creates a TextNormalizer.
func New() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize converts an HTML fragment into collapsed text.
func (n *TextNormalizer) Normalize(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.Join(strings.Fields(markdown), " "), nil
}

// Fragment normalizes html, falling back to fallback when conversion fails.
func (n *TextNormalizer) Fragment(html, fallback string) string {
	text, err := n.Normalize(html)
	if err != nil {
		return fallback
	}
	return text
}
