package repository

import (
	"context"

	"aninha-confeccoes/models"
)

// InventoryRepositoryInterface defines the contract for the inventory table.
// There is no row-level update: every mutation is read-all, mutate locally, write-all.
type InventoryRepositoryInterface interface {
	// Load returns the current normalized rows and the table version.
	// Malformed fields never fail a load; only an unreachable store does (ErrReadFailure).
	Load(ctx context.Context) (*models.Inventory, error)
	// ReplaceAll overwrites the whole table with rows and returns the new version.
	// A non-empty expectedVersion that no longer matches fails with ErrConflict.
	ReplaceAll(ctx context.Context, rows []models.CatalogRow, expectedVersion string) (string, error)
}

// SheetValuesClient is the subset of the spreadsheet values API the Sheets repository needs
type SheetValuesClient interface {
	GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
	UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error
}
