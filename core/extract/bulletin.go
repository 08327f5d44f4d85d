package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
	"github.com/gaurav-prasanna/catalogpipe/core/normalize"
)

// extractBulletin joins every news item as "[title] description".
func extractBulletin(doc *document.Document, rule bulletinRule, norm *normalize.TextNormalizer) string {
	if rule.items == nil {
		return ""
	}

	var entries []string
	doc.All(rule.items).Each(func(_ int, item *goquery.Selection) {
		title := document.Text(item.FindMatcher(rule.title).First())
		desc := bulletinText(item.FindMatcher(rule.desc).First(), norm)

		switch {
		case title != "" && desc != "":
			entries = append(entries, "["+title+"] "+desc)
		case title != "":
			entries = append(entries, "["+title+"]")
		case desc != "":
			entries = append(entries, desc)
		}
	})
	return strings.Join(entries, "\n\n")
}

func bulletinText(desc *goquery.Selection, norm *normalize.TextNormalizer) string {
	if desc.Length() == 0 {
		return ""
	}
	plain := document.Text(desc)
	inner, err := desc.Html()
	if err != nil {
		return plain
	}
	return norm.Fragment(inner, plain)
}
