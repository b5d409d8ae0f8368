package catalog

import (
	"aninha-confeccoes/models"
)

// SizeNode is one size of a color; Row is the first row found for it
type SizeNode struct {
	Size string
	Row  models.CatalogRow
}

// ColorNode groups the sizes of a product color
type ColorNode struct {
	Color string
	Sizes []SizeNode
}

// PhotoURL returns the first non-empty photo among the color's sizes
func (c ColorNode) PhotoURL() string {
	for _, s := range c.Sizes {
		if s.Row.PhotoURL != "" {
			return s.Row.PhotoURL
		}
	}
	return ""
}

// ProductNode is a product name with its color variants
type ProductNode struct {
	Name   string
	Colors []ColorNode
}

// Index is a read-only view over one load of the catalog.
// Build a new one for every render pass.
type Index struct {
	rows     []models.CatalogRow
	products []ProductNode
	byID     map[string]int
}

// NewIndex builds the Product -> Color -> Size tree over rows.
// Duplicate triples keep their first row.
func NewIndex(rows []models.CatalogRow) *Index {
	idx := &Index{
		rows: rows,
		byID: make(map[string]int, len(rows)),
	}
	for i, row := range rows {
		if _, seen := idx.byID[row.ID]; !seen && row.ID != "" {
			idx.byID[row.ID] = i
		}
	}

	for _, group := range GroupByProduct(rows) {
		product := ProductNode{Name: group.Name}
		colorPos := make(map[string]int)
		seenSize := make(map[[2]string]bool)
		for _, row := range group.Rows {
			ci, ok := colorPos[row.Color]
			if !ok {
				ci = len(product.Colors)
				colorPos[row.Color] = ci
				product.Colors = append(product.Colors, ColorNode{Color: row.Color})
			}
			key := [2]string{row.Color, row.Size}
			if seenSize[key] {
				continue
			}
			seenSize[key] = true
			product.Colors[ci].Sizes = append(product.Colors[ci].Sizes, SizeNode{Size: row.Size, Row: row})
		}
		idx.products = append(idx.products, product)
	}
	return idx
}

// Rows returns the rows the index was built from
func (i *Index) Rows() []models.CatalogRow {
	return i.rows
}

// Products returns the variant tree in first-seen order
func (i *Index) Products() []ProductNode {
	return i.products
}

// Categories returns the distinct non-empty categories in first-seen order
func (i *Index) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, row := range i.rows {
		if row.Category == "" || seen[row.Category] {
			continue
		}
		seen[row.Category] = true
		out = append(out, row.Category)
	}
	return out
}

// Resolve looks a variant up by name, color and size
func (i *Index) Resolve(name, color, size string) (models.CatalogRow, error) {
	return ResolveVariant(i.rows, name, color, size)
}

// Row looks a row up by id
func (i *Index) Row(id string) (models.CatalogRow, bool) {
	pos, ok := i.byID[id]
	if !ok {
		return models.CatalogRow{}, false
	}
	return i.rows[pos], true
}

// Filter returns a new index over the rows matching f
func (i *Index) Filter(f models.CatalogFilter) *Index {
	return NewIndex(Filter(i.rows, f))
}
