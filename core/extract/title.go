package extract

import (
	"strings"

	"github.com/gaurav-prasanna/catalogpipe/core/document"
)

// identity is what a product title yields.
type identity struct {
	category string
	sku      string
	name     string
}

var pluralMarkers = []struct {
	plural, singular string
}{
	{"filtros", "filtro"},
	{"elementos", "elemento"},
	{"cartuchos", "cartucho"},
	{"juegos", "juego"},
	{"filters", "filter"},
}

// readTitle locates the product heading and splits it into category and SKU.
func readTitle(doc *document.Document, rule titleRule) identity {
	if rule.name != nil {
		if sku := sanitizeSKU(doc.Text(rule.name)); sku != "" {
			var category string
			if rule.family != nil {
				category = doc.Text(rule.family)
			}
			return newIdentity(category, sku, rule)
		}
	}
	title := document.Text(doc.FirstOf(rule.selectors...))
	if title == "" {
		return identity{}
	}
	return splitTitle(title, rule)
}

func splitTitle(title string, rule titleRule) identity {
	title = document.Collapse(strings.ReplaceAll(title, "...", ""))

	idx := strings.Index(title, rule.delimiter)
	if rule.delimiter == "" || idx < 0 {
		return identity{sku: sanitizeSKU(title), name: title}
	}

	category := strings.TrimSpace(title[:idx])
	rest := strings.TrimSpace(title[idx+len(rule.delimiter):])
	if rule.skuSeparator != "" {
		if j := strings.LastIndex(rest, rule.skuSeparator); j >= 0 {
			rest = strings.TrimSpace(rest[j+len(rule.skuSeparator):])
		}
	}
	return newIdentity(category, sanitizeSKU(rest), rule)
}

// newIdentity names a part "<singular category> <sku>".
func newIdentity(category, sku string, rule titleRule) identity {
	display := category
	if alias, ok := rule.aliases[strings.ToUpper(category)]; ok {
		display = alias
	}
	name := strings.TrimSpace(singularize(display) + " " + sku)

	return identity{category: category, sku: sku, name: name}
}

// sanitizeSKU makes a part number safe to use as a path segment.
func sanitizeSKU(sku string) string {
	return strings.TrimSpace(strings.ReplaceAll(sku, "/", "-"))
}

// singularize turns a plural category heading into the singular used in
// product names, e.g. "Filtros de aceite" into "Filtro de aceite".
func singularize(category string) string {
	for _, m := range pluralMarkers {
		n := len(m.plural)
		if len(category) < n || !strings.EqualFold(category[:n], m.plural) {
			continue
		}
		if len(category) > n && category[n] != ' ' {
			continue
		}
		return matchCase(category[:n], m.singular) + category[n:]
	}

	lower := strings.ToLower(category)
	if strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") {
		return category[:len(category)-1]
	}
	return category
}

// matchCase renders word in the letter case of like.
func matchCase(like, word string) string {
	switch {
	case like == strings.ToUpper(like):
		return strings.ToUpper(word)
	case like[:1] == strings.ToUpper(like[:1]):
		return strings.ToUpper(word[:1]) + word[1:]
	default:
		return word
	}
}
