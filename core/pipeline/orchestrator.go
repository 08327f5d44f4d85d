// Package pipeline runs a single document through parse, detect and
// extract, producing one canonical record or one ingestion error.
package pipeline

import (
	"fmt"
	"time"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/detect"
	"github.com/gaurav-prasanna/catalogpipe/core/document"
	"github.com/gaurav-prasanna/catalogpipe/core/extract"
	"github.com/sirupsen/logrus"
)

// Orchestrator is safe for concurrent use.
type Orchestrator struct {
	detector *detect.Detector
	registry *extract.Registry
	cache    *resultCache
	logger   *logrus.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// New creates an Orchestrator with the built-in detector and extractors.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		detector: detect.New(),
		registry: extract.Default(),
		logger:   logrus.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDetector replaces the format detector.
func WithDetector(d *detect.Detector) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.detector = d
		}
	}
}

// WithRegistry replaces the extractor registry.
func WithRegistry(r *extract.Registry) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithCache memoizes results by content hash for ttl, so re-submitting
// the same page skips parsing.
func WithCache(ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.cache = newResultCache(ttl)
	}
}

// Process turns raw page bytes into a record. Failures are
// *core.IngestionError wrapping core.ErrUnparseable or
// core.ErrMissingIdentity.
func (o *Orchestrator) Process(raw []byte) (*core.ProductRecord, error) {
	if o.cache == nil {
		return o.process(raw)
	}

	key := contentKey(raw)
	if hit, ok := o.cache.get(key); ok {
		o.logger.WithField("key", key[:12]).Debug("Record cache hit")
		return hit.rec, hit.err
	}
	rec, err := o.process(raw)
	o.cache.put(key, rec, err)
	return rec, err
}

func (o *Orchestrator) process(raw []byte) (*core.ProductRecord, error) {
	doc, err := document.Parse(raw)
	if err != nil {
		return nil, &core.IngestionError{Err: err}
	}

	format := o.detector.Detect(doc)
	o.logger.WithField("format", format).Debug("Detected document format")

	extractor, domain, err := o.registry.Lookup(format)
	if err != nil {
		return nil, &core.IngestionError{Format: format, Err: fmt.Errorf("%w: %v", core.ErrUnparseable, err)}
	}

	rec := extractor.Extract(doc, domain)
	if err := rec.Validate(); err != nil {
		return nil, &core.IngestionError{Format: format, Err: err}
	}

	o.logger.WithFields(logrus.Fields{
		"format":       format,
		"sku":          rec.SKU,
		"specs":        len(rec.Specs),
		"applications": len(rec.Applications),
		"equivalences": len(rec.Equivalences),
	}).Debug("Extracted product record")
	return rec, nil
}
