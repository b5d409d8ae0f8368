package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"aninha-confeccoes/catalog"
	"aninha-confeccoes/models"
)

var (
	// ErrInvalidQuantity is returned when a line asks for less than one unit
	ErrInvalidQuantity = fmt.Errorf("quantity must be at least 1: %w", models.ErrValidation)
	// ErrInsufficientStock is returned when a line asks for more units than the row holds
	ErrInsufficientStock = fmt.Errorf("insufficient stock: %w", models.ErrValidation)
	// ErrIndexOutOfRange is returned when removing a line that does not exist
	ErrIndexOutOfRange = fmt.Errorf("cart line index out of range: %w", models.ErrNotFound)
)

// VariantResolver finds the live catalog row for a variant
type VariantResolver interface {
	Resolve(name, color, size string) (models.CatalogRow, error)
}

var _ VariantResolver = (*catalog.Index)(nil)

// Cart is an ordered list of line snapshots. It is not safe for concurrent
// use; callers hold the owning session's lock.
type Cart struct {
	lines []models.CartLine
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// Add validates line against the live catalog and appends it.
// Identical adds produce separate lines. Catalog stock is not decremented.
func (c *Cart) Add(idx VariantResolver, line models.CartLine) error {
	if line.Quantity < 1 {
		return fmt.Errorf("%d: %w", line.Quantity, ErrInvalidQuantity)
	}

	row, err := idx.Resolve(line.Name, line.Color, line.Size)
	if err != nil {
		return err
	}
	if line.Quantity > row.Stock {
		return fmt.Errorf("%s (%s-%s): requested %d, available %d: %w",
			row.Name, row.Color, row.Size, line.Quantity, row.Stock, ErrInsufficientStock)
	}

	// Snapshot the normalized identity of the row
	line.Name = row.Name
	line.Color = row.Color
	line.Size = row.Size
	c.lines = append(c.lines, line)
	return nil
}

// Remove deletes the line at index, preserving the order of the rest
func (c *Cart) Remove(index int) (models.CartLine, error) {
	if index < 0 || index >= len(c.lines) {
		return models.CartLine{}, fmt.Errorf("index %d of %d: %w", index, len(c.lines), ErrIndexOutOfRange)
	}
	removed := c.lines[index]
	c.lines = append(c.lines[:index:index], c.lines[index+1:]...)
	return removed, nil
}

// Total returns the sum of unit price times quantity over all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// Reserver holds stock for cart lines. The storefront calls it after a
// successful add and after a remove.
type Reserver interface {
	Reserve(ctx context.Context, row models.CatalogRow, quantity int) error
	Release(ctx context.Context, line models.CartLine) error
}

// NoopReserver never holds stock; adding to a cart does not reserve units
type NoopReserver struct{}

var _ Reserver = NoopReserver{}

// Reserve does nothing
func (NoopReserver) Reserve(context.Context, models.CatalogRow, int) error { return nil }

// Release does nothing
func (NoopReserver) Release(context.Context, models.CartLine) error { return nil }
