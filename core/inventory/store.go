package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// errRolledBack aborts the transaction once any row failed.
var errRolledBack = errors.New("batch rolled back")

// productRow is the stored form of a record. List fields are JSON columns.
type productRow struct {
	ID                  uint   `gorm:"primaryKey"`
	Brand               string `gorm:"size:32;not null;uniqueIndex:idx_products_brand_sku"`
	SKU                 string `gorm:"size:64;not null;uniqueIndex:idx_products_brand_sku"`
	Name                string `gorm:"size:255"`
	CategoryName        string `gorm:"size:255"`
	EAN                 string `gorm:"size:14;index"`
	ImageURL            string
	TechDrawingURL      string
	ManualPDFURL        string
	TechBulletin        string `gorm:"type:text"`
	ManufacturerName    string
	ManufacturerAddress string
	VATID               string `gorm:"column:vat_id"`
	Specs               datatypes.JSON
	Applications        datatypes.JSON
	Equivalences        datatypes.JSON
	CreatedAt           time.Time
}

func (productRow) TableName() string {
	return "products"
}

// Store writes batches into a local sqlite database in one transaction.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// OpenStore opens (creating if needed) the sqlite database at dsn.
func OpenStore(dsn string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.New()
	}
	if err := ensureDir(dsn); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	gormLogger := logger.New(
		&logrusWriter{log},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.AutoMigrate(&productRow{}); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	log.WithField("dsn", dsn).Debug("Inventory store opened")
	return &Store{db: db, logger: log}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("getting database connection: %w", err)
	}
	return sqlDB.Close()
}

// BulkCreate inserts every record or none. Each failing row is reported.
func (s *Store) BulkCreate(ctx context.Context, records []core.ProductRecord) (*core.BulkResult, error) {
	var itemErrs []core.ItemError

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, rec := range records {
			row, err := toRow(rec)
			if err == nil {
				err = tx.Create(&row).Error
			}
			if err != nil {
				itemErrs = append(itemErrs, core.ItemError{Index: i, SKU: rec.SKU, Message: err.Error()})
			}
		}
		if len(itemErrs) > 0 {
			return errRolledBack
		}
		return nil
	})
	if err != nil {
		return &core.BulkResult{Failed: len(itemErrs), Errors: itemErrs}, fmt.Errorf("storing batch: %w", err)
	}

	s.logger.WithField("created", len(records)).Info("Batch stored")
	return &core.BulkResult{Created: len(records)}, nil
}

// Products returns every stored record in insertion order.
func (s *Store) Products(ctx context.Context) ([]core.ProductRecord, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	out := make([]core.ProductRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decoding product %s: %w", row.SKU, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRow(rec core.ProductRecord) (productRow, error) {
	specs, err := json.Marshal(rec.Specs)
	if err != nil {
		return productRow{}, fmt.Errorf("encoding specs: %w", err)
	}
	apps, err := json.Marshal(rec.Applications)
	if err != nil {
		return productRow{}, fmt.Errorf("encoding applications: %w", err)
	}
	eqs, err := json.Marshal(rec.Equivalences)
	if err != nil {
		return productRow{}, fmt.Errorf("encoding equivalences: %w", err)
	}
	return productRow{
		Brand:               rec.Brand,
		SKU:                 rec.SKU,
		Name:                rec.Name,
		CategoryName:        rec.CategoryName,
		EAN:                 rec.EAN,
		ImageURL:            rec.ImageURL,
		TechDrawingURL:      rec.TechDrawingURL,
		ManualPDFURL:        rec.ManualPDFURL,
		TechBulletin:        rec.TechBulletin,
		ManufacturerName:    rec.ManufacturerName,
		ManufacturerAddress: rec.ManufacturerAddress,
		VATID:               rec.VATID,
		Specs:               datatypes.JSON(specs),
		Applications:        datatypes.JSON(apps),
		Equivalences:        datatypes.JSON(eqs),
	}, nil
}

func fromRow(row productRow) (core.ProductRecord, error) {
	rec := core.NewRecord(core.Format(row.Brand))
	rec.SKU = row.SKU
	rec.Name = row.Name
	rec.CategoryName = row.CategoryName
	rec.EAN = row.EAN
	rec.ImageURL = row.ImageURL
	rec.TechDrawingURL = row.TechDrawingURL
	rec.ManualPDFURL = row.ManualPDFURL
	rec.TechBulletin = row.TechBulletin
	rec.ManufacturerName = row.ManufacturerName
	rec.ManufacturerAddress = row.ManufacturerAddress
	rec.VATID = row.VATID

	if err := unmarshalList(row.Specs, &rec.Specs); err != nil {
		return core.ProductRecord{}, err
	}
	if err := unmarshalList(row.Applications, &rec.Applications); err != nil {
		return core.ProductRecord{}, err
	}
	if err := unmarshalList(row.Equivalences, &rec.Equivalences); err != nil {
		return core.ProductRecord{}, err
	}
	return *rec, nil
}

func unmarshalList[T any](data datatypes.JSON, dst *[]T) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}

func ensureDir(dsn string) error {
	if dsn == ":memory:" || dsn == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dsn), 0755)
}

// logrusWriter adapts logrus to gorm's logger.Writer.
type logrusWriter struct {
	log *logrus.Logger
}

func (w *logrusWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}
