package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
	"github.com/gaurav-prasanna/catalogpipe/core/normalize"
)

var azumiProfile = profile{
	format: core.FormatAzumi,
	title: titleRule{
		selectors:    tableTitleAzumi,
		delimiter:    "|",
		skuSeparator: "-",
		aliases: map[string]string{
			"CABIN FILTER":        "Filtro de Cabina",
			"OIL FILTER":          "Filtro de Aceite",
			"AIR FILTER":          "Filtro de Aire",
			"FUEL FILTER":         "Filtro de Combustible",
			"TRANSMISSION FILTER": "Filtro de Transmisión",
		},
	},
	image: assetRule{selectors: tableImageAzumi},
	specs: []specRule{{
		rows:     sel(".search-res-card__specification .search-res-card__line"),
		label:    sel(".search-res-card__name"),
		value:    sel(".search-res-card__value"),
		fallback: core.MeasureOther,
		dimensions: map[string]bool{
			"length":         true,
			"width":          true,
			"thickness":      true,
			"height":         true,
			"outer diameter": true,
			"inner diameter": true,
		},
	}},
	equivalences: equivalenceRule{
		areas:    tableCrossesAzumi,
		flatRows: sel(".search-res-crosses__line"),
		cells:    sel(".search-res-crosses__name, .search-res-crosses__value"),
	},
}

var (
	tableTitleAzumi   = []goquery.Matcher{sel(".search-res-card__title")}
	tableImageAzumi   = []goquery.Matcher{sel(".search-res-card__image img")}
	tableCrossesAzumi = []goquery.Matcher{sel(".search-res-crosses"), sel("body")}
)

var azumiApplications = groupRule{
	groups:    sel(".spollers__item"),
	title:     sel(".spollers__title a"),
	separator: "»",
	lines:     sel(".search-res-application__line"),
	date:      sel(".application-date"),
	article:   sel(".search-res-application__article"),
	note:      sel(".search-res-application__text"),
}

// Azumi extracts search-result cards from the AZUMI catalogue.
type Azumi struct {
	norm *normalize.TextNormalizer
}

// NewAzumi creates an Azumi extractor.
func NewAzumi() *Azumi {
	return &Azumi{norm: normalize.New()}
}

func (a *Azumi) Format() core.Format {
	return core.FormatAzumi
}

func (a *Azumi) Extract(doc *document.Document, baseDomain string) *core.ProductRecord {
	if baseDomain == "" {
		baseDomain = DomainAzumi
	}
	rec := azumiProfile.extract(doc, baseDomain, a.norm)
	rec.Applications = groupedApplications(doc, azumiApplications)
	return rec
}
