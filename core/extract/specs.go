package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
)

// extractSpecs reads the rows of the first rule that finds any.
func extractSpecs(doc *document.Document, rules []specRule) []core.Spec {
	for _, rule := range rules {
		if rule.rows == nil {
			continue
		}
		if rows := doc.All(rule.rows); rows.Length() > 0 {
			return rule.read(rows)
		}
	}
	return []core.Spec{}
}

func (r specRule) read(rows *goquery.Selection) []core.Spec {
	specs := []core.Spec{}
	rows.Each(func(_ int, row *goquery.Selection) {
		label, value := r.cellsOf(row)
		if label == "" || value == "" || specBlacklist.MatchString(label) {
			return
		}
		specs = append(specs, core.Spec{
			Label:       label,
			MeasureType: r.classify(label),
			Value:       value,
		})
	})
	return specs
}

func (r specRule) cellsOf(row *goquery.Selection) (string, string) {
	if r.label != nil && r.value != nil {
		return document.Text(row.FindMatcher(r.label).First()),
			r.trimUnit(document.Text(row.FindMatcher(r.value).First()))
	}
	cells := row.Children()
	if r.cells != nil {
		cells = row.ChildrenMatcher(r.cells)
	}
	if cells.Length() < 2 {
		return "", ""
	}
	return document.Text(cells.Eq(0)), r.trimUnit(document.Text(cells.Eq(1)))
}

func (r specRule) trimUnit(value string) string {
	if r.unit == "" {
		return value
	}
	return strings.TrimSpace(strings.TrimSuffix(value, r.unit))
}

func (r specRule) classify(label string) core.MeasureType {
	if threadPattern.MatchString(label) {
		return core.MeasureThread
	}
	if r.dimensions != nil && r.dimensions[strings.ToLower(label)] {
		return core.MeasureMM
	}
	return r.fallback
}
