package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
	"github.com/gaurav-prasanna/catalogpipe/core/normalize"
)

var filtronProfile = profile{
	format:       core.FormatFiltron,
	title:        titleRule{selectors: tableTitle, delimiter: ":"},
	ean:          tableEAN,
	viewer:       viewer3D,
	image:        assetRule{selectors: tableImage, template: imageTemplate},
	drawing:      assetRule{selectors: tableDrawing, template: drawingTemplate},
	manuals:      []goquery.Matcher{sel(`a[href*=".pdf"]`)},
	specs:        []specRule{tableSpecs},
	equivalences: tableEquivalences("#tab2", "#tab_2", `[id*="tab2"]`),
	bulletin:     tableBulletin,
}

var filtronApplications = tableApplications("#tab1", "#tab_1")

// Filtron extracts product pages from the FILTRON catalogue, which uses the
// product-table template.
type Filtron struct {
	norm *normalize.TextNormalizer
}

// NewFiltron creates a Filtron extractor.
func NewFiltron() *Filtron {
	return &Filtron{norm: normalize.New()}
}

func (f *Filtron) Format() core.Format {
	return core.FormatFiltron
}

func (f *Filtron) Extract(doc *document.Document, baseDomain string) *core.ProductRecord {
	if baseDomain == "" {
		baseDomain = DomainFiltron
	}
	rec := filtronProfile.extract(doc, baseDomain, f.norm)
	rec.Applications = accordionApplications(doc, filtronApplications)
	return rec
}
