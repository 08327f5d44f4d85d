package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
)

// extractEquivalences reads cross references from the equivalence area.
// Brand panels are tried first; flat brand/code rows only when the panels
// yield nothing.
func extractEquivalences(doc *document.Document, rule equivalenceRule) []core.Equivalence {
	area := equivalenceArea(doc, rule)
	if area == nil {
		return []core.Equivalence{}
	}
	if eqs := panelEquivalences(area, rule); len(eqs) > 0 {
		return eqs
	}
	return flatEquivalences(area, rule)
}

func equivalenceArea(doc *document.Document, rule equivalenceRule) *goquery.Selection {
	if found := doc.FirstOf(rule.areas...); found.Length() > 0 {
		return found
	}
	if rule.panes == nil {
		return nil
	}
	var area *goquery.Selection
	doc.All(rule.panes).EachWithBreak(func(_ int, pane *goquery.Selection) bool {
		if paneKeywords.MatchString(strings.ToUpper(pane.Text())) {
			area = pane
			return false
		}
		return true
	})
	return area
}

func panelEquivalences(area *goquery.Selection, rule equivalenceRule) []core.Equivalence {
	eqs := []core.Equivalence{}
	if rule.panels == nil {
		return eqs
	}

	area.FindMatcher(rule.panels).Each(func(_ int, panel *goquery.Selection) {
		brand := strings.ToUpper(document.Text(panel.FindMatcher(rule.panelBrand).First()))
		if brand == "" || panelBlacklist.MatchString(brand) {
			return
		}
		body := panel.FindMatcher(rule.panelBody).First()
		if body.Length() == 0 {
			body = panel
		}
		body.FindMatcher(rule.panelRows).Each(func(_ int, row *goquery.Selection) {
			cell := row.FindMatcher(rule.cells).First()
			if cell.Length() == 0 {
				cell = row
			}
			code := strings.ToUpper(document.Text(cell))
			if len(code) < 2 || headerWords.MatchString(code) || code == brand {
				return
			}
			eqs = append(eqs, newEquivalence(brand, code))
		})
	})
	return eqs
}

func flatEquivalences(area *goquery.Selection, rule equivalenceRule) []core.Equivalence {
	eqs := []core.Equivalence{}

	area.FindMatcher(rule.flatRows).Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.FindMatcher(rule.cells).Each(func(_ int, c *goquery.Selection) {
			cells = append(cells, document.Text(c))
		})
		if len(cells) < 2 {
			return
		}
		if flatHeaderFirst.MatchString(cells[0]) || flatHeaderSecond.MatchString(cells[1]) {
			return
		}

		brand, code := cells[0], cells[1]
		if len(cells) >= 3 && isIndexCell(cells[0]) {
			brand, code = cells[1], cells[2]
		}
		if len(brand) < 2 || len(code) < 2 {
			return
		}
		eqs = append(eqs, newEquivalence(strings.ToUpper(brand), strings.ToUpper(code)))
	})
	return eqs
}

// isIndexCell reports whether a leading cell is a row number rather than
// a brand.
func isIndexCell(s string) bool {
	if len(s) <= 3 {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func newEquivalence(brand, code string) core.Equivalence {
	return core.Equivalence{
		Brand:      brand,
		Code:       code,
		IsOriginal: IsOriginal(brand),
	}
}
