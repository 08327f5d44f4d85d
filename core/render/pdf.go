// Package render — PDF renderer.
// Lays out one datasheet page per record using gofpdf: identity fields,
// then spec, application and equivalence tables.
// Images are not embedded; their URLs are printed instead.
package render

import (
	"bytes"
	"fmt"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders a batch as PDF datasheets.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// sheet bundles the document with its cp1252 translator; the core fonts
// cannot print raw UTF-8.
type sheet struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Render converts the records into PDF bytes.
func (r *PDFRenderer) Render(records []core.ProductRecord, meta core.ReviewMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	s := &sheet{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.AddPage()
	s.cover(meta)
	for _, rec := range records {
		pdf.AddPage()
		s.record(rec)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func (s *sheet) cover(meta core.ReviewMetadata) {
	s.pdf.SetFont("Helvetica", "B", 18)
	s.pdf.MultiCell(0, 8, s.tr(title(meta)), "", "L", false)
	s.pdf.Ln(4)

	s.pdf.SetFont("Helvetica", "", 10)
	s.line(fmt.Sprintf("Generated: %s", meta.GeneratedAt))
	s.line(fmt.Sprintf("Pending: %d   Rejected: %d", meta.Pending, meta.Rejected))
	for _, src := range meta.Sources {
		s.line("Source: " + src)
	}

	if len(meta.Errors) > 0 {
		s.pdf.Ln(4)
		s.heading("Ingestion errors")
		s.pdf.SetTextColor(160, 0, 0)
		for _, e := range meta.Errors {
			s.line("• " + e)
		}
		s.pdf.SetTextColor(0, 0, 0)
	}
}

func (s *sheet) record(rec core.ProductRecord) {
	s.pdf.SetFont("Helvetica", "B", 16)
	s.pdf.MultiCell(0, 8, s.tr(heading(rec)), "", "L", false)
	s.pdf.Ln(2)

	s.pdf.SetFont("Helvetica", "", 10)
	for _, f := range [][2]string{
		{"SKU", rec.SKU},
		{"Brand", rec.Brand},
		{"Category", rec.CategoryName},
		{"EAN", rec.EAN},
		{"Image", rec.ImageURL},
		{"Drawing", rec.TechDrawingURL},
		{"Manual", rec.ManualPDFURL},
		{"Manufacturer", rec.ManufacturerName},
	} {
		if f[1] != "" {
			s.line(f[0] + ": " + f[1])
		}
	}

	if len(rec.Specs) > 0 {
		s.heading("Specs")
		rows := make([][]string, 0, len(rec.Specs))
		for _, sp := range rec.Specs {
			rows = append(rows, []string{sp.Label, sp.Value, string(sp.MeasureType)})
		}
		s.table([]string{"Label", "Value", "Type"}, []float64{70, 70, 40}, rows)
	}

	if len(rec.Applications) > 0 {
		s.heading("Applications")
		rows := make([][]string, 0, len(rec.Applications))
		for _, a := range rec.Applications {
			rows = append(rows, []string{a.Make, a.Model, a.Engine, a.Year})
		}
		s.table([]string{"Make", "Model", "Engine", "Year"}, []float64{30, 45, 80, 25}, rows)
	}

	if len(rec.Equivalences) > 0 {
		s.heading("Equivalences")
		rows := make([][]string, 0, len(rec.Equivalences))
		for _, e := range rec.Equivalences {
			rows = append(rows, []string{e.Brand, e.Code, yesNo(e.IsOriginal)})
		}
		s.table([]string{"Brand", "Code", "OEM"}, []float64{70, 80, 30}, rows)
	}

	if rec.TechBulletin != "" {
		s.heading("Technical bulletin")
		s.pdf.SetFont("Helvetica", "", 9)
		s.pdf.MultiCell(0, 4.5, s.tr(rec.TechBulletin), "", "L", false)
	}
}

func (s *sheet) heading(text string) {
	s.pdf.Ln(4)
	s.pdf.SetFont("Helvetica", "B", 12)
	s.pdf.MultiCell(0, 7, s.tr(text), "", "L", false)
	s.pdf.Ln(1)
}

func (s *sheet) line(text string) {
	s.pdf.SetFont("Helvetica", "", 10)
	s.pdf.MultiCell(0, 5, s.tr(text), "", "L", false)
}

// table draws a header row and clipped body rows.
func (s *sheet) table(header []string, widths []float64, rows [][]string) {
	s.pdf.SetFont("Helvetica", "B", 9)
	s.pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		s.pdf.CellFormat(widths[i], 6, s.tr(h), "1", 0, "L", true, 0, "")
	}
	s.pdf.Ln(-1)

	s.pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		for i, cell := range row {
			s.pdf.CellFormat(widths[i], 5, s.fit(cell, widths[i]-2), "1", 0, "L", false, 0, "")
		}
		s.pdf.Ln(-1)
	}
}

// fit translates text and truncates it to the cell width.
func (s *sheet) fit(text string, width float64) string {
	t := s.tr(text)
	if s.pdf.GetStringWidth(t) <= width {
		return t
	}
	for len(t) > 0 && s.pdf.GetStringWidth(t+"...") > width {
		t = t[:len(t)-1]
	}
	return t + "..."
}
