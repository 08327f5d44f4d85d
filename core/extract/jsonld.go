package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
)

var linkedDataScripts = sel(`script[type="application/ld+json"]`)

// linkedData is the subset of schema.org metadata the extractors use.
type linkedData struct {
	sku     string
	gtin    string
	company string
	address string
	vatID   string
}

// readLinkedData merges every JSON-LD block on the page. Malformed blocks
// are ignored; the first value seen for each field wins.
func readLinkedData(doc *document.Document) linkedData {
	var ld linkedData
	doc.All(linkedDataScripts).Each(func(_ int, s *goquery.Selection) {
		dec := json.NewDecoder(strings.NewReader(s.Text()))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return
		}
		ld.walk(v)
	})
	return ld
}

func (ld *linkedData) walk(v any) {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			ld.walk(item)
		}
	case map[string]any:
		if graph, ok := t["@graph"]; ok {
			ld.walk(graph)
		}
		switch {
		case hasType(t, "Product"):
			ld.product(t)
		case hasType(t, "Organization"), hasType(t, "Corporation"):
			ld.organization(t)
		}
	}
}

func (ld *linkedData) product(p map[string]any) {
	setOnce(&ld.sku, stringField(p, "sku"))
	for _, key := range []string{"gtin13", "gtin", "gtin14", "gtin12", "gtin8"} {
		setOnce(&ld.gtin, stringField(p, key))
	}
	if m, ok := p["manufacturer"].(map[string]any); ok {
		ld.organization(m)
	}
}

func (ld *linkedData) organization(o map[string]any) {
	setOnce(&ld.company, stringField(o, "legalName"))
	setOnce(&ld.company, stringField(o, "name"))
	setOnce(&ld.vatID, stringField(o, "vatID"))
	setOnce(&ld.vatID, stringField(o, "taxID"))

	switch addr := o["address"].(type) {
	case string:
		setOnce(&ld.address, strings.TrimSpace(addr))
	case map[string]any:
		var parts []string
		for _, key := range []string{"streetAddress", "postalCode", "addressLocality", "addressRegion", "addressCountry"} {
			if s := stringField(addr, key); s != "" {
				parts = append(parts, s)
			}
		}
		setOnce(&ld.address, strings.Join(parts, ", "))
	}
}

func hasType(obj map[string]any, name string) bool {
	switch t := obj["@type"].(type) {
	case string:
		return t == name
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == name {
				return true
			}
		}
	}
	return false
}

// stringField reads a string, number or {"name": ...} value.
func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case map[string]any:
		return stringField(v, "name")
	}
	return ""
}

func setOnce(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}
