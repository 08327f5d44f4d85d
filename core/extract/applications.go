package extract

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
)

// accordionApplications walks the make > model > engine-table accordion.
// Rules are tried in order and the first one whose roots yield level-1
// panels is used.
func accordionApplications(doc *document.Document, rules ...accordionRule) []core.Application {
	for _, rule := range rules {
		for _, m := range rule.makes {
			if makes := doc.All(m); makes.Length() > 0 {
				return rule.walk(makes)
			}
		}
	}
	return []core.Application{}
}

func (r accordionRule) walk(makes *goquery.Selection) []core.Application {
	apps := []core.Application{}
	makes.Each(func(_ int, panel *goquery.Selection) {
		vehicle, body, ok := r.panel(panel)
		if !ok || groupBlacklist.MatchString(vehicle) {
			return
		}
		body.FindMatcher(r.models).Each(func(_ int, modelPanel *goquery.Selection) {
			model, modelBody, ok := r.panel(modelPanel)
			if !ok {
				return
			}
			modelBody.FindMatcher(r.rows).Each(func(_ int, row *goquery.Selection) {
				if leadingRow(row) || row.FindMatcher(r.header).Length() > 0 {
					return
				}
				if app, ok := r.engine(cellTexts(row.ChildrenMatcher(r.cells))); ok {
					app.Make = vehicle
					app.Model = model
					apps = append(apps, app)
				}
			})
		})
	})
	return apps
}

// panel returns the toggle title and collapsible body of an accordion panel.
func (r accordionRule) panel(p *goquery.Selection) (string, *goquery.Selection, bool) {
	toggle := p.ChildrenMatcher(r.heading).FindMatcher(r.toggle).First()
	if toggle.Length() == 0 {
		return "", nil, false
	}
	body := p.ChildrenMatcher(r.body).First()
	if body.Length() == 0 {
		return "", nil, false
	}
	return document.Text(toggle), body, true
}

var (
	tableTag = sel("table")
	tableRow = sel("tr")
)

// leadingRow reports whether row is the first row of its table. That row
// holds the column headings whether they are written in th or td cells.
func leadingRow(row *goquery.Selection) bool {
	first := row.ClosestMatcher(tableTag).FindMatcher(tableRow).First()
	return first.Length() > 0 && first.Get(0) == row.Get(0)
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		texts = append(texts, document.Text(c))
	})
	return texts
}

// panelEngine maps description, code, cc, kW, HP and a trailing year column.
func panelEngine(texts []string) (core.Application, bool) {
	if len(texts) < 2 {
		return core.Application{}, false
	}

	desc, code := texts[0], texts[1]
	var year string
	var middle []string
	if len(texts) >= 3 {
		year = texts[len(texts)-1]
		middle = texts[2 : len(texts)-1]
	}
	column := func(i int) string {
		if i < len(middle) {
			return middle[i]
		}
		return ""
	}

	return core.Application{
		Engine: engineLabel(desc, code, column(0), column(2)),
		Year:   year,
		Notes:  code,
	}, true
}

// componentEngine maps type, body, engine code, ccm, kW, HP and year.
func componentEngine(texts []string) (core.Application, bool) {
	if len(texts) < 6 {
		return core.Application{}, false
	}
	var year string
	if len(texts) > 6 {
		year = texts[6]
	}
	code := texts[2]
	return core.Application{
		Engine: engineLabel(texts[0], code, texts[3], texts[5]),
		Year:   year,
		Notes:  code,
	}, true
}

// engineLabel renders "<desc> (<code>) <cc>ccm <hp>HP", leaving out empty parts.
func engineLabel(desc, code, cc, hp string) string {
	engine := desc
	if code != "" {
		engine += " (" + code + ")"
	}
	if cc != "" {
		engine += " " + cc + "ccm"
	}
	if hp != "" {
		engine += " " + hp + "HP"
	}
	return strings.TrimSpace(engine)
}

// groupedApplications reads flat "make » model" groups, one line per engine.
func groupedApplications(doc *document.Document, rule groupRule) []core.Application {
	apps := []core.Application{}

	doc.All(rule.groups).Each(func(_ int, group *goquery.Selection) {
		title := group.FindMatcher(rule.title).First()
		if title.Length() == 0 {
			return
		}
		vehicle, model := splitMakeModel(document.Text(title), rule.separator)

		group.FindMatcher(rule.lines).Each(func(_ int, line *goquery.Selection) {
			year := strings.Map(dropSpace, line.FindMatcher(rule.date).First().Text())
			article := document.TextExcluding(line.FindMatcher(rule.article).First(), rule.date)
			article = strings.TrimSpace(strings.Trim(article, ","))
			note := document.Text(line.FindMatcher(rule.note).First())

			apps = append(apps, core.Application{
				Make:   vehicle,
				Model:  model,
				Engine: strings.TrimSpace(article + " " + note),
				Year:   year,
				Notes:  note,
			})
		})
	})
	return apps
}

func splitMakeModel(title, separator string) (string, string) {
	vehicle, model, found := strings.Cut(title, separator)
	if !found {
		return title, ""
	}
	return strings.TrimSpace(vehicle), strings.TrimSpace(model)
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}
