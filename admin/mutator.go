package admin

import (
	"fmt"
	"strconv"
	"strings"

	"aninha-confeccoes/models"
	"aninha-confeccoes/repository"
)

// FirstID is the id given to the first row of an empty catalog
const FirstID = 101

var (
	// ErrMissingRequiredField is returned when a new row lacks a name, or a color when colors are required
	ErrMissingRequiredField = fmt.Errorf("missing required field: %w", models.ErrValidation)
	// ErrNotFound is returned when deleting an id that is not in the catalog
	ErrNotFound = fmt.Errorf("catalog row not found: %w", models.ErrNotFound)
)

// IDStrategy picks the id of a row about to be appended to rows
type IDStrategy func(rows []models.CatalogRow) string

// CountIDs numbers rows by position: 101 + row count.
// After a delete the next insert can reuse an id that still exists.
func CountIDs(rows []models.CatalogRow) string {
	return strconv.Itoa(FirstID + len(rows))
}

// MonotonicIDs returns one past the highest numeric id, never below 101
func MonotonicIDs(rows []models.CatalogRow) string {
	next := FirstID
	for _, row := range rows {
		n, err := strconv.Atoi(strings.TrimSpace(row.ID))
		if err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return strconv.Itoa(next)
}

// Mutator applies admin edits to a row sequence. It never talks to the store;
// callers persist the result with ReplaceAll.
type Mutator struct {
	RequireColor bool
	NextID       IDStrategy
}

// NewMutator creates a mutator. A nil strategy means CountIDs.
func NewMutator(requireColor bool, nextID IDStrategy) *Mutator {
	if nextID == nil {
		nextID = CountIDs
	}
	return &Mutator{
		RequireColor: requireColor,
		NextID:       nextID,
	}
}

// Insert validates newRow, assigns its id and returns a new slice with it appended
func (m *Mutator) Insert(rows []models.CatalogRow, newRow models.CatalogRow) ([]models.CatalogRow, models.CatalogRow, error) {
	if strings.TrimSpace(newRow.Name) == "" {
		return nil, models.CatalogRow{}, fmt.Errorf("name: %w", ErrMissingRequiredField)
	}
	if m.RequireColor && strings.TrimSpace(newRow.Color) == "" {
		return nil, models.CatalogRow{}, fmt.Errorf("color: %w", ErrMissingRequiredField)
	}

	newRow.ID = m.NextID(rows)
	newRow = repository.NormalizeRow(newRow)

	out := make([]models.CatalogRow, 0, len(rows)+1)
	out = append(out, rows...)
	out = append(out, newRow)
	return out, newRow, nil
}

// Delete returns a new slice without the first row whose id matches
func (m *Mutator) Delete(rows []models.CatalogRow, id string) ([]models.CatalogRow, error) {
	id = strings.TrimSpace(id)
	for i, row := range rows {
		if row.ID != id {
			continue
		}
		out := make([]models.CatalogRow, 0, len(rows)-1)
		out = append(out, rows[:i]...)
		out = append(out, rows[i+1:]...)
		return out, nil
	}
	return nil, fmt.Errorf("id %q: %w", id, ErrNotFound)
}
