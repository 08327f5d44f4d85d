// Package render provides review-sheet renderers for a batch of records.
// This file implements the Markdown renderer, which the HTML renderer
// builds on.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/catalogpipe/core"
)

// MarkdownRenderer writes one section per record with spec, application
// and equivalence tables.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render builds the Markdown review sheet.
func (r *MarkdownRenderer) Render(records []core.ProductRecord, meta core.ReviewMetadata) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title(meta))
	fmt.Fprintf(&b, "- Generated: %s\n", meta.GeneratedAt)
	fmt.Fprintf(&b, "- Pending: %d\n", meta.Pending)
	fmt.Fprintf(&b, "- Rejected: %d\n", meta.Rejected)
	if len(meta.Sources) > 0 {
		fmt.Fprintf(&b, "- Sources: %s\n", strings.Join(meta.Sources, ", "))
	}
	b.WriteString("\n")

	if len(meta.Errors) > 0 {
		b.WriteString("## Ingestion errors\n\n")
		for _, e := range meta.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	for _, rec := range records {
		writeRecord(&b, rec)
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func writeRecord(b *strings.Builder, rec core.ProductRecord) {
	fmt.Fprintf(b, "## %s\n\n", heading(rec))

	fields := [][2]string{
		{"SKU", rec.SKU},
		{"Brand", rec.Brand},
		{"Category", rec.CategoryName},
		{"EAN", rec.EAN},
		{"Image", rec.ImageURL},
		{"Drawing", rec.TechDrawingURL},
		{"Manual", rec.ManualPDFURL},
		{"Manufacturer", rec.ManufacturerName},
		{"Address", rec.ManufacturerAddress},
		{"VAT ID", rec.VATID},
	}
	for _, f := range fields {
		if f[1] != "" {
			fmt.Fprintf(b, "- **%s:** %s\n", f[0], f[1])
		}
	}
	b.WriteString("\n")

	if len(rec.Specs) > 0 {
		b.WriteString("### Specs\n\n")
		rows := make([][]string, 0, len(rec.Specs))
		for _, s := range rec.Specs {
			rows = append(rows, []string{s.Label, s.Value, string(s.MeasureType)})
		}
		writeTable(b, []string{"Label", "Value", "Type"}, rows)
	}

	if len(rec.Applications) > 0 {
		b.WriteString("### Applications\n\n")
		rows := make([][]string, 0, len(rec.Applications))
		for _, a := range rec.Applications {
			rows = append(rows, []string{a.Make, a.Model, a.Engine, a.Year, a.Notes})
		}
		writeTable(b, []string{"Make", "Model", "Engine", "Year", "Notes"}, rows)
	}

	if len(rec.Equivalences) > 0 {
		b.WriteString("### Equivalences\n\n")
		rows := make([][]string, 0, len(rec.Equivalences))
		for _, e := range rec.Equivalences {
			rows = append(rows, []string{e.Brand, e.Code, yesNo(e.IsOriginal)})
		}
		writeTable(b, []string{"Brand", "Code", "OEM"}, rows)
	}

	if rec.TechBulletin != "" {
		b.WriteString("### Technical bulletin\n\n")
		b.WriteString(rec.TechBulletin)
		b.WriteString("\n\n")
	}
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func title(meta core.ReviewMetadata) string {
	if meta.Label != "" {
		return "Catalog review: " + meta.Label
	}
	return "Catalog review"
}

func heading(rec core.ProductRecord) string {
	if rec.Name != "" {
		return rec.Name
	}
	return rec.SKU
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
