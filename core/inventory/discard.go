package inventory

import (
	"context"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/sirupsen/logrus"
)

// Discard accepts every batch without storing it. Used for dry runs.
type Discard struct {
	logger *logrus.Logger
}

// NewDiscard creates a Discard collaborator.
func NewDiscard(logger *logrus.Logger) *Discard {
	if logger == nil {
		logger = logrus.New()
	}
	return &Discard{logger: logger}
}

func (d *Discard) BulkCreate(ctx context.Context, records []core.ProductRecord) (*core.BulkResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.logger.WithField("records", len(records)).Info("Dry run: batch discarded")
	return &core.BulkResult{Created: len(records)}, nil
}
