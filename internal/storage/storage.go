// internal/storage/storage.go
package storage

import "github.com/spotter-dz/spotter/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveCalculation stores c and assigns its ID and CreatedAt.
	SaveCalculation(c *core.Calculation) error
	// ListCalculations returns the newest calculations first. limit <= 0
	// returns all of them.
	ListCalculations(limit int) ([]core.Calculation, error)
	// FindCalculation returns the newest calculation with the given input
	// hash.
	FindCalculation(inputHash string) (core.Calculation, bool, error)
}
