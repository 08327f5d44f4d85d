// Package document is the read-only, selector-queryable view of a vendor
// product page. It wraps goquery and never mutates the parsed tree.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ErrUnparseable is returned when the input is not markup at all.
var ErrUnparseable = errors.New("document could not be parsed")

// markupPattern matches the start of any tag, comment or doctype.
var markupPattern = regexp.MustCompile(`<[A-Za-z!?/]`)

// Document is a parsed page plus the decoded text it was parsed from.
type Document struct {
	doc *goquery.Document
	raw string
}

// Parse decodes raw bytes to UTF-8 (honouring a BOM or <meta charset>) and
// parses them into a document tree.
func Parse(raw []byte) (*Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnparseable)
	}

	r, err := charset.NewReader(bytes.NewReader(raw), "text/html")
	if err != nil {
		return nil, fmt.Errorf("%w: detecting encoding: %v", ErrUnparseable, err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrUnparseable, err)
	}

	if bytes.IndexByte(decoded, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content", ErrUnparseable)
	}
	if !markupPattern.Match(decoded) {
		return nil, fmt.Errorf("%w: no markup found", ErrUnparseable)
	}

	root, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	return &Document{
		doc: goquery.NewDocumentFromNode(root),
		raw: string(decoded),
	}, nil
}

// Raw returns the decoded document text.
func (d *Document) Raw() string {
	return d.raw
}

// Root returns the root node of the parsed tree.
func (d *Document) Root() *html.Node {
	return d.doc.Nodes[0]
}

// All returns every element matching m.
func (d *Document) All(m goquery.Matcher) *goquery.Selection {
	return d.doc.FindMatcher(m)
}

// First returns the first element matching m (possibly empty).
func (d *Document) First(m goquery.Matcher) *goquery.Selection {
	return d.doc.FindMatcher(m).First()
}

// FirstOf tries each matcher in order and returns the first hit.
func (d *Document) FirstOf(ms ...goquery.Matcher) *goquery.Selection {
	return FirstOf(d.doc.Selection, ms...)
}

// Text returns the collapsed text of the first element matching m.
func (d *Document) Text(m goquery.Matcher) string {
	return Text(d.First(m))
}

// Attr returns attribute name of the first element matching m, or "".
func (d *Document) Attr(m goquery.Matcher, name string) string {
	v, _ := d.First(m).Attr(name)
	return strings.TrimSpace(v)
}

// Compile compiles a CSS selector once. It panics on an invalid selector,
// so it is meant for package-level selector tables.
func Compile(selector string) goquery.Matcher {
	return cascadia.MustCompile(selector)
}

// FirstOf searches below s with each matcher in order and returns the first
// non-empty result.
func FirstOf(s *goquery.Selection, ms ...goquery.Matcher) *goquery.Selection {
	for _, m := range ms {
		if m == nil {
			continue
		}
		if found := s.FindMatcher(m); found.Length() > 0 {
			return found.First()
		}
	}
	return s.FindMatcher(none).First()
}

// Text returns the inner text of s with runs of whitespace collapsed.
func Text(s *goquery.Selection) string {
	return Collapse(s.Text())
}

// TextExcluding returns the collapsed text of the first element of s,
// leaving out every descendant element that matches m together with its
// subtree. Element boundaries count as whitespace.
func TextExcluding(s *goquery.Selection, m goquery.Matcher) string {
	if s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				if !m.Match(c) {
					walk(c)
				}
				b.WriteByte(' ')
			}
		}
	}
	walk(s.Get(0))
	return Collapse(b.String())
}

// Collapse trims s and folds every whitespace run into a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// none never matches; it yields empty selections.
var none = matchNothing{}

type matchNothing struct{}

func (matchNothing) Match(*html.Node) bool            { return false }
func (matchNothing) MatchAll(*html.Node) []*html.Node { return nil }
func (matchNothing) Filter([]*html.Node) []*html.Node { return nil }
