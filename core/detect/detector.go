// Package detect classifies a raw vendor page as one of the known formats.
// Whole-text signatures are checked first; structural probes on the parsed
// tree only run when no signature matches. Detection never fails: an
// unrecognized page resolves to the WIX fallback.
package detect

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
	"golang.org/x/net/html"
)

// Fallback is returned for pages no signature or probe recognizes.
const Fallback = core.FormatWIX

// signature is a vendor's whole-text fingerprint, matched against the
// upper-cased document text.
type signature struct {
	format  core.Format
	markers []string
	pattern *regexp.Regexp
}

// probe is a vendor-unique structural marker in the document tree.
type probe struct {
	format core.Format
	match  func(n *html.Node) bool
}

var signatures = []signature{
	{
		format:  core.FormatWIX,
		markers: []string{"WIXEUROPE.COM", "WIXFILTERS.COM", "WIX FILTERS"},
		// Internal asset names carry a _WIX suffix, e.g. "WL7476_WIX".
		pattern: regexp.MustCompile(`\b[A-Z]{1,4}\d{2,}[A-Z0-9]*_WIX\b`),
	},
	{
		format:  core.FormatFiltron,
		markers: []string{"FILTRON.EU", "FILTRON.COM", "FILTRON FILTERS"},
	},
	{
		format:  core.FormatAzumi,
		markers: []string{"AZFILTER.JP", "AZUMI"},
	},
}

var probes = []probe{
	{format: core.FormatWIX, match: linkContains("wixeurope")},
	{format: core.FormatFiltron, match: linkContains("filtron")},
	{format: core.FormatAzumi, match: hasClass("search-res-card")},
}

// Detector classifies documents. The zero value is not usable; call New.
type Detector struct {
	signatures []signature
	probes     []probe
	fallback   core.Format
}

// New creates a Detector with the built-in vendor tables.
func New() *Detector {
	return &Detector{
		signatures: signatures,
		probes:     probes,
		fallback:   Fallback,
	}
}

// Detect classifies a parsed document.
func (d *Detector) Detect(doc *document.Document) core.Format {
	if f, ok := d.matchText(doc.Raw()); ok {
		return f
	}
	if f, ok := d.matchStructure(doc.Root()); ok {
		return f
	}
	return d.fallback
}

// DetectText classifies raw page text. The tree is only parsed when the
// text signatures fail; an unparseable page gets the fallback.
func (d *Detector) DetectText(raw string) core.Format {
	if f, ok := d.matchText(raw); ok {
		return f
	}
	doc, err := document.Parse([]byte(raw))
	if err != nil {
		return d.fallback
	}
	if f, ok := d.matchStructure(doc.Root()); ok {
		return f
	}
	return d.fallback
}

func (d *Detector) matchText(raw string) (core.Format, bool) {
	text := strings.ToUpper(raw)
	for _, sig := range d.signatures {
		for _, marker := range sig.markers {
			if strings.Contains(text, marker) {
				return sig.format, true
			}
		}
		if sig.pattern != nil && sig.pattern.MatchString(text) {
			return sig.format, true
		}
	}
	return "", false
}

func (d *Detector) matchStructure(root *html.Node) (core.Format, bool) {
	if root == nil {
		return "", false
	}
	for _, p := range d.probes {
		if dom.FindFirstNode(root, p.match) != nil {
			return p.format, true
		}
	}
	return "", false
}

func linkContains(fragment string) func(n *html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || dom.NodeName(n) != "a" {
			return false
		}
		href := strings.ToLower(dom.GetAttributeOr(n, "href", ""))
		return strings.Contains(href, fragment)
	}
}

func hasClass(class string) func(n *html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && dom.HasClass(n, class)
	}
}
