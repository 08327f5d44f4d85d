package batch

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/extract"
	"github.com/go-playground/validator/v10"
)

// Patch mutates one record during Edit. It only ever sees a clone.
type Patch func(rec *core.ProductRecord) error

// Set returns a patch assigning value to a top-level string field.
func Set(field, value string) Patch {
	return func(rec *core.ProductRecord) error {
		ptr, ok := recordFields[field]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		*ptr(rec) = value
		return nil
	}
}

// SetSpec returns a patch assigning value to a field of spec row i. An index
// equal to the row count appends a new row.
func SetSpec(i int, field, value string) Patch {
	return func(rec *core.ProductRecord) error {
		if err := growRow(&rec.Specs, i); err != nil {
			return fmt.Errorf("specs: %w", err)
		}
		row := &rec.Specs[i]
		if row.MeasureType == "" {
			row.MeasureType = core.MeasureOther
		}
		if field == "measure_type" {
			if err := validate.Var(value, "oneof=mm thread other"); err != nil {
				return fmt.Errorf("%w: measure_type %q", ErrInvalidValue, value)
			}
			row.MeasureType = core.MeasureType(value)
			return nil
		}
		ptr, ok := specFields[field]
		if !ok {
			return fmt.Errorf("%w: specs[].%s", ErrUnknownField, field)
		}
		*ptr(row) = value
		return nil
	}
}

// SetApplication returns a patch assigning value to a field of application
// row i. An index equal to the row count appends a new row.
func SetApplication(i int, field, value string) Patch {
	return func(rec *core.ProductRecord) error {
		if err := growRow(&rec.Applications, i); err != nil {
			return fmt.Errorf("applications: %w", err)
		}
		ptr, ok := applicationFields[field]
		if !ok {
			return fmt.Errorf("%w: applications[].%s", ErrUnknownField, field)
		}
		*ptr(&rec.Applications[i]) = value
		return nil
	}
}

// SetEquivalence returns a patch assigning value to the brand or code of
// equivalence row i. Changing the brand re-derives is_original.
func SetEquivalence(i int, field, value string) Patch {
	return func(rec *core.ProductRecord) error {
		if err := growRow(&rec.Equivalences, i); err != nil {
			return fmt.Errorf("equivalences: %w", err)
		}
		row := &rec.Equivalences[i]
		switch field {
		case "brand":
			row.Brand = value
			row.IsOriginal = extract.IsOriginal(value)
		case "code":
			row.Code = value
		case "is_original":
			return fmt.Errorf("%w: is_original is derived from the brand", ErrInvalidValue)
		default:
			return fmt.Errorf("%w: equivalences[].%s", ErrUnknownField, field)
		}
		return nil
	}
}

// DeleteRow returns a patch removing row i of a list field.
func DeleteRow(list string, i int) Patch {
	return func(rec *core.ProductRecord) error {
		var err error
		switch list {
		case "specs":
			rec.Specs, err = deleteAt(rec.Specs, i)
		case "applications":
			rec.Applications, err = deleteAt(rec.Applications, i)
		case "equivalences":
			rec.Equivalences, err = deleteAt(rec.Equivalences, i)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, list)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", list, err)
		}
		return nil
	}
}

var pathPattern = regexp.MustCompile(`^([a-z_]+)(?:\[(\d+)\]\.([a-z_]+))?$`)

// ParsePatch builds a patch from a field path such as "name",
// "specs[0].value" or "equivalences[2].brand".
func ParsePatch(path, value string) (Patch, error) {
	m := pathPattern.FindStringSubmatch(path)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed path %q", ErrUnknownField, path)
	}
	field, index, sub := m[1], m[2], m[3]

	if index == "" {
		if _, ok := recordFields[field]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		return Set(field, value), nil
	}

	i, err := strconv.Atoi(index)
	if err != nil {
		return nil, fmt.Errorf("%w: index in %q", ErrUnknownField, path)
	}
	switch field {
	case "specs":
		return SetSpec(i, sub, value), nil
	case "applications":
		return SetApplication(i, sub, value), nil
	case "equivalences":
		return SetEquivalence(i, sub, value), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

var validate = validator.New()

var recordFields = map[string]func(*core.ProductRecord) *string{
	"sku":                  func(r *core.ProductRecord) *string { return &r.SKU },
	"name":                 func(r *core.ProductRecord) *string { return &r.Name },
	"brand":                func(r *core.ProductRecord) *string { return &r.Brand },
	"category_name":        func(r *core.ProductRecord) *string { return &r.CategoryName },
	"ean":                  func(r *core.ProductRecord) *string { return &r.EAN },
	"image_url":            func(r *core.ProductRecord) *string { return &r.ImageURL },
	"tech_drawing_url":     func(r *core.ProductRecord) *string { return &r.TechDrawingURL },
	"manual_pdf_url":       func(r *core.ProductRecord) *string { return &r.ManualPDFURL },
	"tech_bulletin":        func(r *core.ProductRecord) *string { return &r.TechBulletin },
	"manufacturer_name":    func(r *core.ProductRecord) *string { return &r.ManufacturerName },
	"manufacturer_address": func(r *core.ProductRecord) *string { return &r.ManufacturerAddress },
	"vat_id":               func(r *core.ProductRecord) *string { return &r.VATID },
}

var specFields = map[string]func(*core.Spec) *string{
	"label": func(s *core.Spec) *string { return &s.Label },
	"value": func(s *core.Spec) *string { return &s.Value },
}

var applicationFields = map[string]func(*core.Application) *string{
	"make":   func(a *core.Application) *string { return &a.Make },
	"model":  func(a *core.Application) *string { return &a.Model },
	"engine": func(a *core.Application) *string { return &a.Engine },
	"year":   func(a *core.Application) *string { return &a.Year },
	"notes":  func(a *core.Application) *string { return &a.Notes },
}

func growRow[T any](rows *[]T, i int) error {
	switch {
	case i >= 0 && i < len(*rows):
		return nil
	case i == len(*rows):
		var zero T
		*rows = append(*rows, zero)
		return nil
	default:
		return fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, i, len(*rows))
	}
}

func deleteAt[T any](rows []T, i int) ([]T, error) {
	if i < 0 || i >= len(rows) {
		return rows, fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, i, len(rows))
	}
	return append(rows[:i], rows[i+1:]...), nil
}
