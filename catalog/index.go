package catalog

import (
	"fmt"
	"strings"

	"aninha-confeccoes/models"
)

// ErrVariantNotFound is returned when no row matches a (name, color, size) triple
var ErrVariantNotFound = fmt.Errorf("variant not found: %w", models.ErrNotFound)

// newMarkers are the isNew cell values that flag a row as a novelty
var newMarkers = map[string]bool{
	"SIM":  true,
	"S":    true,
	"YES":  true,
	"TRUE": true,
	"1":    true,
}

// IsNew reports whether a row carries the novelty flag
func IsNew(row models.CatalogRow) bool {
	return newMarkers[strings.ToUpper(strings.TrimSpace(row.IsNew))]
}

// ProductGroup is every row of one product name, in load order
type ProductGroup struct {
	Name string
	Rows []models.CatalogRow
}

// GroupByProduct groups rows by name, keeping the first-seen order of names
func GroupByProduct(rows []models.CatalogRow) []ProductGroup {
	var groups []ProductGroup
	pos := make(map[string]int)
	for _, row := range rows {
		i, ok := pos[row.Name]
		if !ok {
			i = len(groups)
			pos[row.Name] = i
			groups = append(groups, ProductGroup{Name: row.Name})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}

// Filter keeps the rows matching every set field of f.
// Category matches exactly, search text is a case-insensitive substring of the name.
func Filter(rows []models.CatalogRow, f models.CatalogFilter) []models.CatalogRow {
	category := strings.ToUpper(strings.TrimSpace(f.Category))
	search := strings.ToUpper(strings.TrimSpace(f.SearchText))

	out := make([]models.CatalogRow, 0, len(rows))
	for _, row := range rows {
		if category != "" && strings.ToUpper(row.Category) != category {
			continue
		}
		if f.OnlyNew && !IsNew(row) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToUpper(row.Name), search) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// variantKey normalizes a lookup the same way rows are normalized at load time
func variantKey(name, color, size string) (string, string, string) {
	name = strings.ToUpper(strings.TrimSpace(name))
	color = strings.ToUpper(strings.TrimSpace(color))
	if color == "" {
		color = models.DefaultColor
	}
	size = strings.ToUpper(strings.TrimSpace(size))
	if size == "" {
		size = models.DefaultSize
	}
	return name, color, size
}

// ResolveVariant returns the first row, in load order, matching the triple
func ResolveVariant(rows []models.CatalogRow, name, color, size string) (models.CatalogRow, error) {
	name, color, size = variantKey(name, color, size)
	for _, row := range rows {
		if row.Name == name && row.Color == color && row.Size == size {
			return row, nil
		}
	}
	return models.CatalogRow{}, fmt.Errorf("%s (%s-%s): %w", name, color, size, ErrVariantNotFound)
}
