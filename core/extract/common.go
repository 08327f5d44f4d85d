package extract

import (
	"strings"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
	"github.com/gaurav-prasanna/catalogpipe/core/normalize"
)

// extract fills every field a profile knows how to read. Applications are
// left to the vendor types since their layouts differ structurally.
func (p profile) extract(doc *document.Document, domain string, norm *normalize.TextNormalizer) *core.ProductRecord {
	rec := core.NewRecord(p.format)
	ld := readLinkedData(doc)

	id := readTitle(doc, p.title)
	rec.CategoryName = id.category
	rec.SKU = id.sku
	rec.Name = id.name
	if rec.SKU == "" && ld.sku != "" {
		rec.SKU = sanitizeSKU(trimAssetSuffix(ld.sku))
		if rec.Name == "" {
			rec.Name = rec.SKU
		}
	}

	rec.EAN = readEAN(doc, p)
	if rec.EAN == "" {
		rec.EAN = eanPattern.FindString(ld.gtin)
	}

	hasViewer := p.viewer != nil && doc.First(p.viewer).Length() > 0
	rec.ImageURL = resolveAsset(doc, p.image, hasViewer, rec.SKU, domain)
	rec.TechDrawingURL = resolveAsset(doc, p.drawing, hasViewer, rec.SKU, domain)
	rec.ManualPDFURL = resolveManual(doc, p.manuals, domain)

	rec.Specs = extractSpecs(doc, p.specs)
	rec.Equivalences = extractEquivalences(doc, p.equivalences)
	rec.TechBulletin = extractBulletin(doc, p.bulletin, norm)

	rec.ManufacturerName = ld.company
	rec.ManufacturerAddress = ld.address
	rec.VATID = ld.vatID
	return rec
}

func readEAN(doc *document.Document, p profile) string {
	if p.ean == nil {
		return ""
	}
	digits := p.eanDigits
	if digits == nil {
		digits = eanPattern
	}
	return digits.FindString(doc.Text(p.ean))
}

// trimAssetSuffix drops the "_WIX" suffix of internal asset names.
func trimAssetSuffix(sku string) string {
	sku = strings.TrimSpace(sku)
	if strings.HasSuffix(strings.ToUpper(sku), "_WIX") {
		return sku[:len(sku)-len("_WIX")]
	}
	return sku
}
