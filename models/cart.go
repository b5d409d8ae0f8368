package models

import "github.com/shopspring/decimal"

// CartLine is a snapshot of a selected variant taken when it was added.
// It does not reference the catalog row, so later catalog edits leave it untouched.
type CartLine struct {
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unitPrice × quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddToCartRequest represents the request body for adding a variant to the cart
// Example: {"name": "VESTIDO FLORAL", "color": "AZUL", "size": "P", "quantity": 2}
type AddToCartRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// CartLineView is a cart line with its position and formatted subtotal
type CartLineView struct {
	Index         int             `json:"index"`
	Name          string          `json:"name"`
	Color         string          `json:"color"`
	Size          string          `json:"size"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Quantity      int             `json:"quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	SubtotalLabel string          `json:"subtotalLabel"`
}

// CartView represents the response for the cart endpoint
type CartView struct {
	Lines      []CartLineView  `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	TotalLabel string          `json:"totalLabel"`
}
