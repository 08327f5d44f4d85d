package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
)

// Base domains used to absolutize links and expand URL templates.
const (
	DomainWIX     = "https://wixeurope.com"
	DomainFiltron = "https://filtron.eu"
	DomainAzumi   = "https://azfilter.jp"
)

// URL templates for predicted assets when a page only embeds a 3D viewer.
const (
	imageTemplate   = "{domain}/website/images/filters/large/{sku}.jpg"
	drawingTemplate = "{domain}/website/images/filters/largeExtra/{sku}.jpg"
)

// profile is the per-vendor selector set. A nil matcher disables the step
// it belongs to.
type profile struct {
	format       core.Format
	title        titleRule
	ean          goquery.Matcher
	eanDigits    *regexp.Regexp // nil: eanPattern
	viewer       goquery.Matcher
	image        assetRule
	drawing      assetRule
	manuals      []goquery.Matcher
	specs        []specRule // the first rule that yields rows wins
	equivalences equivalenceRule
	bulletin     bulletinRule
}

type titleRule struct {
	// name and family read a heading split over two elements, the part
	// number and its category. selectors are used when name is absent.
	name      goquery.Matcher
	family    goquery.Matcher
	selectors []goquery.Matcher
	delimiter string
	// skuSeparator splits "<brand> - <sku>" after the delimiter.
	skuSeparator string
	// aliases translate upper-cased categories before singularization.
	aliases map[string]string
}

type assetRule struct {
	selectors []goquery.Matcher
	template  string
}

type specRule struct {
	rows  goquery.Matcher
	label goquery.Matcher // nil: first cell
	value goquery.Matcher // nil: second cell
	cells goquery.Matcher // nil: every child element is a cell
	// unit is trimmed from the end of values.
	unit string
	// fallback applies to labels that are neither threads nor listed
	// in dimensions.
	fallback core.MeasureType
	// dimensions are lower-cased labels measured in mm. Nil means every
	// non-thread label gets fallback.
	dimensions map[string]bool
}

type accordionRule struct {
	makes   []goquery.Matcher
	heading goquery.Matcher
	toggle  goquery.Matcher
	body    goquery.Matcher
	models  goquery.Matcher
	rows    goquery.Matcher
	header  goquery.Matcher
	cells   goquery.Matcher
	// engine maps the cell texts of one engine row.
	engine func(cells []string) (core.Application, bool)
}

type groupRule struct {
	groups    goquery.Matcher
	title     goquery.Matcher
	separator string
	lines     goquery.Matcher
	date      goquery.Matcher
	article   goquery.Matcher
	note      goquery.Matcher
}

type equivalenceRule struct {
	areas      []goquery.Matcher
	panes      goquery.Matcher
	panels     goquery.Matcher
	panelBrand goquery.Matcher
	panelBody  goquery.Matcher
	panelRows  goquery.Matcher
	cells      goquery.Matcher
	flatRows   goquery.Matcher
}

type bulletinRule struct {
	items goquery.Matcher
	title goquery.Matcher
	desc  goquery.Matcher
}

var (
	threadPattern    = regexp.MustCompile(`(?i)(rosca|thread|unf|\bg\d)`)
	specBlacklist    = regexp.MustCompile(`(?i)^(aplicaci|application|estado|status|producto|product|imagen|image)`)
	groupBlacklist   = regexp.MustCompile(`(?i)aplicaciones|noticias|cambios|dimensions|applications|oe-numbers|downloads`)
	panelBlacklist   = regexp.MustCompile(`(?i)referencia|cross|cruzada|aplicaciones`)
	headerWords      = regexp.MustCompile(`(?i)producent|marca|brand|code|numer`)
	flatHeaderFirst  = regexp.MustCompile(`(?i)marca|brand|producent|maker|numer|sustituto`)
	flatHeaderSecond = regexp.MustCompile(`(?i)marca|brand|producent|maker`)
	paneKeywords     = regexp.MustCompile(`SUSTITUTOS|REPLACEMENTS|CROSS REFERENCE`)
	eanPattern       = regexp.MustCompile(`\d{8,14}`)
)

// oemBrands are vehicle-manufacturer tokens. An equivalence whose brand
// contains one of them as a whole word is an original part.
var oemBrands = []string{
	"OE", "OEM", "VAG", "VW", "VOLKSWAGEN", "AUDI", "SEAT", "SKODA", "BMW",
	"MERCEDES", "FORD", "TOYOTA", "LEXUS", "HYUNDAI", "KIA", "PSA", "PEUGEOT",
	"CITROEN", "RENAULT", "DACIA", "NISSAN", "HONDA", "MAZDA", "MITSUBISHI",
	"GM", "CHEVROLET", "OPEL", "VAUXHALL", "FIAT", "ALFA ROMEO", "LANCIA",
	"CHRYSLER", "JEEP", "DODGE", "SUBARU", "SUZUKI", "VOLVO", "ISUZU",
	"DAEWOO", "LAND ROVER", "JAGUAR", "PORSCHE",
}

var oemPattern = compileTokens(oemBrands)

func compileTokens(tokens []string) *regexp.Regexp {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// IsOriginal reports whether an equivalence brand names a vehicle
// manufacturer rather than an aftermarket brand. Tokens match as whole
// words, not substrings: "HENGST GMBH" does not match GM and "KIAN" does
// not match KIA.
func IsOriginal(brand string) bool {
	return oemPattern.MatchString(strings.ToUpper(brand))
}

var (
	sel = document.Compile

	// The product-table template. FILTRON pages use it throughout and older
	// WIX pages still carry it; the current WIX layout is in wix.go.
	tableTitle = []goquery.Matcher{sel(".inside h1"), sel(".product-table-info h2"), sel("h1")}
	tableEAN   = sel(".product-table-code")
	viewer3D   = sel(`[id="3dModelContainer"], .model-container`)
	tableImage = []goquery.Matcher{
		sel("#productImage-large"),
		sel(".product-table-image img"),
		sel(`.productImageButton[data-image="large"] img`),
	}
	tableDrawing = []goquery.Matcher{
		sel("#productImage-largeExtra"),
		sel("#productImage-largePlain"),
		sel(`.productImageButton[data-image="largeExtra"] img`),
		sel(`.productImageButton[data-image="largePlain"] img`),
	}
	tableSpecs = specRule{
		rows:     sel(".product-table-sizes > div"),
		fallback: core.MeasureMM,
	}
	tableBulletin = bulletinRule{
		items: sel(".news-item"),
		title: sel(".title-top, .news-item-title"),
		desc:  sel(".news-item-desc"),
	}
	tableEquivalences = func(areas ...string) equivalenceRule {
		r := equivalenceRule{
			panes:      sel(".tab-pane, .panel, .panel-group"),
			panels:     sel(".panel-default"),
			panelBrand: sel("a"),
			panelBody:  sel(".panel-collapse"),
			panelRows:  sel("tr, .tr, li"),
			cells:      sel("td, .td"),
			flatRows:   sel("tr, .tr"),
		}
		for _, a := range areas {
			r.areas = append(r.areas, sel(a))
		}
		return r
	}
	tableApplications = func(roots ...string) accordionRule {
		r := accordionRule{
			heading: sel(".panel-heading"),
			toggle:  sel(`a[data-toggle="collapse"]`),
			body:    sel(".panel-collapse"),
			models:  sel(".panel"),
			rows:    sel("tr"),
			header:  sel("th"),
			cells:   sel("td"),
			engine:  panelEngine,
		}
		for _, root := range roots {
			r.makes = append(r.makes, sel(root+" > .panel, "+root+" > .panel-group > .panel"))
		}
		return r
	}
)
