// internal/storage/memory/memory.go
package memory

import (
	"slices"
	"sync"
	"time"

	"github.com/spotter-dz/spotter/pkg/core"
)

// Backend keeps calculations in process memory. History is lost on exit.
type Backend struct {
	calculations []core.Calculation
	idCounter    uint
	now          func() time.Time
	mu           sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{now: time.Now}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveCalculation appends a copy of c.
func (b *Backend) SaveCalculation(c *core.Calculation) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	c.ID = b.idCounter
	if c.CreatedAt.IsZero() {
		c.CreatedAt = b.now().UTC()
	}

	b.calculations = append(b.calculations, clone(*c))
	return nil
}

// clone copies c without sharing its slices.
func clone(c core.Calculation) core.Calculation {
	c.ExitPoints = slices.Clone(c.ExitPoints)
	c.Result = slices.Clone(c.Result)
	return c
}

// ListCalculations returns stored calculations, newest first.
func (b *Backend) ListCalculations(limit int) ([]core.Calculation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := len(b.calculations)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]core.Calculation, 0, n)
	for i := len(b.calculations) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, clone(b.calculations[i]))
	}
	return out, nil
}

// FindCalculation returns the newest calculation with inputHash.
func (b *Backend) FindCalculation(inputHash string) (core.Calculation, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i := len(b.calculations) - 1; i >= 0; i-- {
		if b.calculations[i].InputHash == inputHash {
			return clone(b.calculations[i]), true, nil
		}
	}
	return core.Calculation{}, false, nil
}
