// Package extract implements the core.Extractor interface for each vendor
// catalogue. Each vendor is a profile of compiled selectors, URL templates
// and delimiters run through shared routines:
//  1. Title split into category, SKU and display name
//  2. Image, drawing and manual links, absolutized against the vendor domain
//  3. Spec rows, vehicle applications and cross-reference equivalences
//  4. Technical bulletin and embedded JSON-LD metadata
//
// Extractors never fail. Missing sections leave fields empty.
package extract

import (
	"fmt"

	"github.com/gaurav-prasanna/catalogpipe/core"
)

// Registry maps a format to its extractor and base domain.
type Registry struct {
	extractors map[core.Format]core.Extractor
	domains    map[core.Format]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[core.Format]core.Extractor),
		domains:    make(map[core.Format]string),
	}
}

// Default returns a registry holding the WIX, FILTRON and AZUMI extractors.
func Default() *Registry {
	r := NewRegistry()
	r.Register(NewWIX(), DomainWIX)
	r.Register(NewFiltron(), DomainFiltron)
	r.Register(NewAzumi(), DomainAzumi)
	return r
}

// Register adds or replaces the extractor for e.Format().
func (r *Registry) Register(e core.Extractor, domain string) {
	r.extractors[e.Format()] = e
	r.domains[e.Format()] = domain
}

// Lookup returns the extractor and base domain for format.
func (r *Registry) Lookup(format core.Format) (core.Extractor, string, error) {
	e, ok := r.extractors[format]
	if !ok {
		return nil, "", fmt.Errorf("no extractor registered for format %q", format)
	}
	return e, r.domains[format], nil
}
