package models

import "github.com/shopspring/decimal"

// CatalogFilter holds the optional browse filters. Zero value means no filtering.
type CatalogFilter struct {
	Category   string `json:"category,omitempty"`
	OnlyNew    bool   `json:"onlyNew,omitempty"`
	SearchText string `json:"searchText,omitempty"`
}

// SizeView is one selectable size of a product color
type SizeView struct {
	RowID       string          `json:"rowId"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
	PriceLabel  string          `json:"priceLabel"`
	InStock     bool            `json:"inStock"`
	MaxQuantity int             `json:"maxQuantity"`
}

// ColorView groups the sizes of a product in one color
type ColorView struct {
	Color    string     `json:"color"`
	PhotoURL string     `json:"photoUrl,omitempty"`
	Sizes    []SizeView `json:"sizes"`
}

// ProductView is a product model with its color variants
type ProductView struct {
	Name     string      `json:"name"`
	Category string      `json:"category,omitempty"`
	IsNew    bool        `json:"isNew"`
	Colors   []ColorView `json:"colors"`
}

// CatalogView represents the response for the catalog endpoint.
// Notice is set when the store could not be read and an empty catalog is served.
type CatalogView struct {
	Products   []ProductView `json:"products"`
	Categories []string      `json:"categories"`
	Filter     CatalogFilter `json:"filter"`
	Notice     string        `json:"notice,omitempty"`
}
