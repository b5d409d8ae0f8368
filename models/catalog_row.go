package models

import "github.com/shopspring/decimal"

// Sentinels used when a catalog does not model color or size
const (
	DefaultColor = "PADRÃO"
	DefaultSize  = "ÚNICO"
)

// CatalogRow represents one inventory unit of the catalog table.
// All string fields are trimmed and upper-cased at load time.
type CatalogRow struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Size     string          `json:"size"`
	Category string          `json:"category,omitempty"`
	IsNew    string          `json:"isNew,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	PhotoURL string          `json:"photoUrl"`
}

// Inventory is a snapshot of the catalog table.
// Version is an opaque token compared on write to detect concurrent edits.
type Inventory struct {
	Rows    []CatalogRow `json:"rows"`
	Version string       `json:"version"`
}

// NewRowRequest represents the request body for inserting a catalog row
// Example: {"name": "Vestido Floral", "color": "Azul", "size": "P", "price": "120.00", "stock": 2, "photoUrl": "https://..."}
type NewRowRequest struct {
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Size     string          `json:"size"`
	Category string          `json:"category"`
	IsNew    string          `json:"isNew"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	PhotoURL string          `json:"photoUrl"`
}

// ToRow converts the request into an unsaved catalog row (no id yet)
func (r NewRowRequest) ToRow() CatalogRow {
	return CatalogRow{
		Name:     r.Name,
		Color:    r.Color,
		Size:     r.Size,
		Category: r.Category,
		IsNew:    r.IsNew,
		Price:    r.Price,
		Stock:    r.Stock,
		PhotoURL: r.PhotoURL,
	}
}

// AdminRowsResponse represents the admin listing of the raw catalog table
type AdminRowsResponse struct {
	Rows    []CatalogRow `json:"rows"`
	Version string       `json:"version"`
	Count   int          `json:"count"`
}
