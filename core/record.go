package core

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Format identifies a vendor page template.
type Format string

const (
	FormatWIX     Format = "WIX"
	FormatFiltron Format = "FILTRON"
	FormatAzumi   Format = "AZUMI"
)

// Formats lists the known vendor formats in detection order.
var Formats = []Format{FormatWIX, FormatFiltron, FormatAzumi}

// MeasureType classifies a technical spec row.
type MeasureType string

const (
	MeasureMM     MeasureType = "mm"
	MeasureThread MeasureType = "thread"
	MeasureOther  MeasureType = "other"
)

// Spec is one row of a product's dimension table.
type Spec struct {
	Label       string      `json:"label"`
	MeasureType MeasureType `json:"measure_type"`
	Value       string      `json:"value"`
}

// Application is one (make, model, engine) leaf of the vehicle hierarchy.
type Application struct {
	Make   string `json:"make"`
	Model  string `json:"model"`
	Engine string `json:"engine"`
	Year   string `json:"year"`
	Notes  string `json:"notes"`
}

// Equivalence is a cross-reference to another manufacturer's part number.
type Equivalence struct {
	Brand      string `json:"brand"`
	Code       string `json:"code"`
	IsOriginal bool   `json:"is_original"`
}

// ProductRecord is the canonical, vendor-agnostic product produced by the
// pipeline and bulk-inserted by the inventory collaborator.
type ProductRecord struct {
	SKU            string        `json:"sku"`
	Name           string        `json:"name"`
	Brand          string        `json:"brand"`
	CategoryName   string        `json:"category_name"`
	EAN            string        `json:"ean"`
	ImageURL       string        `json:"image_url"`
	TechDrawingURL string        `json:"tech_drawing_url"`
	ManualPDFURL   string        `json:"manual_pdf_url"`
	Specs          []Spec        `json:"specs"`
	Applications   []Application `json:"applications"`
	Equivalences   []Equivalence `json:"equivalences"`
	TechBulletin   string        `json:"tech_bulletin"`

	// Only set when the page embeds structured company metadata.
	ManufacturerName    string `json:"manufacturer_name,omitempty"`
	ManufacturerAddress string `json:"manufacturer_address,omitempty"`
	VATID               string `json:"vat_id,omitempty"`
}

// NewRecord returns an empty record for the given vendor with non-nil lists.
func NewRecord(format Format) *ProductRecord {
	return &ProductRecord{
		Brand:        string(format),
		Specs:        []Spec{},
		Applications: []Application{},
		Equivalences: []Equivalence{},
	}
}

var validate = validator.New()

// Validate performs the identity check: a record without a SKU cannot be
// admitted into a batch.
func (r *ProductRecord) Validate() error {
	if err := validate.Var(strings.TrimSpace(r.SKU), "required"); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingIdentity, err)
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r *ProductRecord) Clone() *ProductRecord {
	c := *r
	c.Specs = append(make([]Spec, 0, len(r.Specs)), r.Specs...)
	c.Applications = append(make([]Application, 0, len(r.Applications)), r.Applications...)
	c.Equivalences = append(make([]Equivalence, 0, len(r.Equivalences)), r.Equivalences...)
	return &c
}
