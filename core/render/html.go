// Package render — HTML renderer.
// Converts the Markdown review sheet to a standalone HTML page with
// gomarkdown, so tables survive in a browser.
package render

import (
	"bytes"
	"fmt"
	stdhtml "html"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTMLRenderer renders the review sheet as HTML.
type HTMLRenderer struct {
	md *MarkdownRenderer
}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{md: NewMarkdownRenderer()}
}

// Render builds the Markdown sheet and converts it to HTML.
func (r *HTMLRenderer) Render(records []core.ProductRecord, meta core.ReviewMetadata) ([]byte, error) {
	source, err := r.md.Render(records, meta)
	if err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	// A parser holds state, so one is built per call.
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	body := markdown.Render(p.Parse(source), renderer)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		stdhtml.EscapeString(title(meta)))
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}
