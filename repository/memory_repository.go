package repository

import (
	"context"
	"strconv"
	"sync"

	"aninha-confeccoes/models"
)

// MemoryRepository keeps the inventory table in process memory.
// Used for local development and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	rows    []models.CatalogRow
	version int64
}

// NewMemoryRepository creates a MemoryRepository seeded with rows (normalized)
func NewMemoryRepository(rows ...models.CatalogRow) *MemoryRepository {
	seed := make([]models.CatalogRow, 0, len(rows))
	for _, row := range rows {
		seed = append(seed, NormalizeRow(row))
	}
	return &MemoryRepository{rows: seed, version: 1}
}

// Ensure MemoryRepository implements InventoryRepositoryInterface
var _ InventoryRepositoryInterface = (*MemoryRepository)(nil)

// Load returns a copy of the rows
func (r *MemoryRepository) Load(ctx context.Context) (*models.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, readFailure("failed to load inventory", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]models.CatalogRow, len(r.rows))
	copy(rows, r.rows)
	return &models.Inventory{Rows: rows, Version: strconv.FormatInt(r.version, 10)}, nil
}

// ReplaceAll swaps the rows and bumps the version
func (r *MemoryRepository) ReplaceAll(ctx context.Context, rows []models.CatalogRow, expectedVersion string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", writeFailure("failed to replace inventory", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current := strconv.FormatInt(r.version, 10)
	if expectedVersion != "" && expectedVersion != current {
		return "", conflict(expectedVersion, current)
	}

	r.rows = make([]models.CatalogRow, len(rows))
	copy(r.rows, rows)
	r.version++
	return strconv.FormatInt(r.version, 10), nil
}
