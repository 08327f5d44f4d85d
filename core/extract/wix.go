package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
	"github.com/gaurav-prasanna/catalogpipe/core/normalize"
)

// WIX pages are built from cmp-* components: a split title, an accordion
// with #dimensions, #applications and #oeNumbers items, and a gallery whose
// items are listed as JSON. Older pages still use the product-table
// template and are read through it when no component matches.
var wixProfile = profile{
	format: core.FormatWIX,
	title: titleRule{
		name:      sel(".cmp-product__title-name"),
		family:    sel(".cmp-product__title-family"),
		selectors: tableTitle,
		delimiter: ":",
	},
	ean:       sel(".cmp-product__sku-value, .product-table-code"),
	eanDigits: regexp.MustCompile(`\d{10,13}`),
	viewer:    viewer3D,
	image:     assetRule{selectors: tableImage, template: imageTemplate},
	drawing:   assetRule{selectors: tableDrawing, template: drawingTemplate},
	manuals:   []goquery.Matcher{sel(`#downloads a[href*=".pdf"]`), sel(`a[href*=".pdf"]`)},
	specs: []specRule{
		{
			rows:     sel("#dimensions .cmp-table table tr"),
			cells:    sel("td"),
			unit:     "mm",
			fallback: core.MeasureMM,
		},
		tableSpecs,
	},
	equivalences: tableEquivalences("#tab2", "#tab_2", `[id*="tab2"]`, "#oeNumbers"),
	bulletin:     tableBulletin,
}

var (
	wixComponentApplications = accordionRule{
		makes:   []goquery.Matcher{sel("#applications .cmp-accordion__item:has(.cmp-accordion__item)")},
		heading: sel(".cmp-accordion__header"),
		toggle:  sel(".cmp-accordion__title"),
		body:    sel(".cmp-accordion__panel"),
		models:  sel(".cmp-accordion__item"),
		rows:    sel(".cmp-table tbody tr"),
		header:  sel("th"),
		cells:   sel("td"),
		engine:  componentEngine,
	}
	wixApplications = tableApplications("#tab1", "#applications")
)

const (
	galleryAttr   = "data-g-binding-gallery-items"
	boxShotMarker = "box"
)

var (
	wixGallery   = sel(".cmp-product__gallery")
	drawingLabel = regexp.MustCompile(`(?i)dim`)
)

// galleryItem is one entry of the gallery component's item list.
type galleryItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

func (g galleryItem) drawing() bool {
	return strings.Contains(g.Path, "-dim") || drawingLabel.MatchString(g.Label)
}

// readGallery returns the product photo and the dimension drawing listed by
// the gallery component. Box shots and drawings are passed over for the
// photo unless nothing else is listed.
func readGallery(doc *document.Document) (image, drawing string) {
	raw := doc.Attr(wixGallery, galleryAttr)
	if raw == "" {
		return "", ""
	}
	var items []galleryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil || len(items) == 0 {
		return "", ""
	}

	image = items[0].Path
	for _, it := range items {
		if it.Path != "" && !it.drawing() && !strings.Contains(it.Path, boxShotMarker) {
			image = it.Path
			break
		}
	}
	for _, it := range items {
		if it.Path != "" && it.drawing() {
			drawing = it.Path
			break
		}
	}
	return strings.TrimSpace(image), strings.TrimSpace(drawing)
}

// WIX extracts product pages from the WIX Filters catalogue.
type WIX struct {
	norm *normalize.TextNormalizer
}

// NewWIX creates a WIX extractor.
func NewWIX() *WIX {
	return &WIX{norm: normalize.New()}
}

func (w *WIX) Format() core.Format {
	return core.FormatWIX
}

func (w *WIX) Extract(doc *document.Document, baseDomain string) *core.ProductRecord {
	if baseDomain == "" {
		baseDomain = DomainWIX
	}
	rec := wixProfile.extract(doc, baseDomain, w.norm)

	image, drawing := readGallery(doc)
	if image != "" {
		rec.ImageURL = absolutize(image, baseDomain)
	}
	if drawing != "" {
		rec.TechDrawingURL = absolutize(drawing, baseDomain)
	}

	rec.Applications = accordionApplications(doc, wixComponentApplications, wixApplications)
	return rec
}
