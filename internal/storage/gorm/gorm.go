// Package gormstorage implements the storage.Backend interface on any GORM
// dialect. The sqlite and postgres backends wrap it.
package gormstorage

import (
	"errors"
	"fmt"

	"github.com/spotter-dz/spotter/internal/model"
	"github.com/spotter-dz/spotter/internal/model/convert"
	"github.com/spotter-dz/spotter/pkg/core"
	"gorm.io/gorm"
)

// Backend stores calculations in a GORM database.
type Backend struct {
	db *gorm.DB
}

// New creates a backend on an open database. The caller owns db.
func New(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close is a no-op; the owner of the database closes it.
func (b *Backend) Close() error {
	return nil
}

// SaveCalculation inserts c and copies the generated ID and timestamp back.
func (b *Backend) SaveCalculation(c *core.Calculation) error {
	row, err := convert.CalculationToGorm(*c)
	if err != nil {
		return err
	}
	row.ID = 0
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	return nil
}

// ListCalculations returns stored calculations, newest first.
func (b *Backend) ListCalculations(limit int) ([]core.Calculation, error) {
	var rows []model.Calculation
	q := b.db.Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}

	out := make([]core.Calculation, 0, len(rows))
	for _, r := range rows {
		c, err := convert.CalculationToCore(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// FindCalculation returns the newest calculation with inputHash.
func (b *Backend) FindCalculation(inputHash string) (core.Calculation, bool, error) {
	var row model.Calculation
	err := b.db.Where("input_hash = ?", inputHash).Order("id desc").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Calculation{}, false, nil
	}
	if err != nil {
		return core.Calculation{}, false, fmt.Errorf("failed to find calculation: %w", err)
	}
	c, err := convert.CalculationToCore(row)
	if err != nil {
		return core.Calculation{}, false, err
	}
	return c, true, nil
}
