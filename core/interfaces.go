// Package core defines the catalog pipeline types and stage interfaces.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/catalogpipe/core/document"
)

// Extractor turns a parsed vendor product page into a canonical record.
// Implementations never fail on sparse documents: a missing field yields
// its zero value.
type Extractor interface {
	Format() Format
	Extract(doc *document.Document, baseDomain string) *ProductRecord
}

// Persister is the external inventory collaborator that receives a batch
// of records in a single bulk call.
type Persister interface {
	BulkCreate(ctx context.Context, records []ProductRecord) (*BulkResult, error)
}

// Renderer converts a batch of records (and review metadata) into a
// review sheet.
type Renderer interface {
	Render(records []ProductRecord, meta ReviewMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// BulkResult is the persistence collaborator's answer to a bulk create.
type BulkResult struct {
	Created int         `json:"created"`
	Failed  int         `json:"failed"`
	Errors  []ItemError `json:"errors,omitempty"`
}

// ItemError is a per-record diagnostic returned by the collaborator.
type ItemError struct {
	Index   int    `json:"index"`
	SKU     string `json:"sku,omitempty"`
	Message string `json:"message"`
}

// ReviewMetadata describes the batch a review sheet was rendered from.
type ReviewMetadata struct {
	Label       string   `json:"label"`
	Sources     []string `json:"sources"`
	Pending     int      `json:"pending"`
	Rejected    int      `json:"rejected"`
	Errors      []string `json:"errors"`
	GeneratedAt string   `json:"generated_at"` // ISO8601
}

func (e ItemError) String() string {
	if e.SKU != "" {
		return fmt.Sprintf("#%d %s: %s", e.Index, e.SKU, e.Message)
	}
	return fmt.Sprintf("#%d: %s", e.Index, e.Message)
}
