package core

import (
	"errors"
	"fmt"

	"github.com/gaurav-prasanna/catalogpipe/core/document"
)

var (
	// ErrUnparseable means the input is not markup at all.
	ErrUnparseable = document.ErrUnparseable
	// ErrMissingIdentity means the page parsed but no usable SKU was found.
	ErrMissingIdentity = errors.New("no product identity found")
)

// IngestionError is a per-document failure. It never aborts a batch.
type IngestionError struct {
	Source string
	Format Format // empty when the document never got as far as detection
	Err    error
}

func (e *IngestionError) Error() string {
	switch {
	case e.Source != "" && e.Format != "":
		return fmt.Sprintf("%s (%s): %v", e.Source, e.Format, e.Err)
	case e.Source != "":
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	case e.Format != "":
		return fmt.Sprintf("%s: %v", e.Format, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
