// Package render — JSON renderer.
// Emits the review metadata and the pending records exactly as the
// inventory collaborator will receive them.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/catalogpipe/core"
)

// reviewSheet is the JSON document layout.
type reviewSheet struct {
	Metadata core.ReviewMetadata  `json:"metadata"`
	Records  []core.ProductRecord `json:"records"`
}

// JSONRenderer produces an indented JSON review sheet.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render serializes the metadata and records.
func (r *JSONRenderer) Render(records []core.ProductRecord, meta core.ReviewMetadata) ([]byte, error) {
	if records == nil {
		records = []core.ProductRecord{}
	}
	if meta.Sources == nil {
		meta.Sources = []string{}
	}
	if meta.Errors == nil {
		meta.Errors = []string{}
	}

	data, err := json.MarshalIndent(reviewSheet{Metadata: meta, Records: records}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
