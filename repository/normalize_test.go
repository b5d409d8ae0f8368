package repository

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aninha-confeccoes/models"
)

func TestCoercePriceNeverFails(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"120", "120"},
		{"59,90", "59.9"},
		{"R$ 1.299,00", "1299"},
		{"12.345", "12.35"},
		{"abc", "0"},
		{"", "0"},
		{"-10", "0"},
		{"NaN", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := CoercePrice(tt.in)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCoerceStockNeverFails(t *testing.T) {
	assert.Equal(t, 3, CoerceStock("3"))
	assert.Equal(t, 3, CoerceStock("3.0"))
	assert.Equal(t, 2, CoerceStock(" 2.9 "))
	assert.Equal(t, 0, CoerceStock("-4"))
	assert.Equal(t, 0, CoerceStock("muitos"))
	assert.Equal(t, 0, CoerceStock(""))

	// Values past the int range never wrap around
	assert.Equal(t, 0, CoerceStock("18446744073709551615"))
	assert.Equal(t, 0, CoerceStock("18446744073709551621"))
	assert.Equal(t, 0, CoerceStock("1e19"))
	assert.Equal(t, 0, CoerceStock("9223372036854775808.5"))
	assert.Equal(t, math.MaxInt, CoerceStock("9223372036854775807"))
	assert.Equal(t, 7, CoerceStock("7e0"))
}

func TestDecodeValuesOverflowingStock(t *testing.T) {
	table := DecodeValues([][]interface{}{
		{"id", "nome", "cor", "tam", "preco", "estoque"},
		{"101", "Saia", "Preto", "M", "80", "18446744073709551621"},
	})
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 0, table.Rows[0].Stock)
}

func TestNormalizeRow(t *testing.T) {
	row := NormalizeRow(models.CatalogRow{
		ID:       "101.0",
		Name:     "  vestido floral ",
		Color:    "",
		Size:     " p",
		Category: "vestidos",
		IsNew:    "sim",
		Price:    decimal.RequireFromString("-1"),
		Stock:    -3,
		PhotoURL: "  https://example.com/a.jpg ",
	})

	assert.Equal(t, "101", row.ID)
	assert.Equal(t, "VESTIDO FLORAL", row.Name)
	assert.Equal(t, models.DefaultColor, row.Color)
	assert.Equal(t, "P", row.Size)
	assert.Equal(t, "VESTIDOS", row.Category)
	assert.Equal(t, "SIM", row.IsNew)
	assert.True(t, row.Price.IsZero())
	assert.Equal(t, 0, row.Stock)
	assert.Equal(t, "https://example.com/a.jpg", row.PhotoURL)

	assert.Equal(t, models.DefaultSize, NormalizeRow(models.CatalogRow{Name: "x"}).Size)
}

func TestDecodeValuesPortugueseHeader(t *testing.T) {
	values := [][]interface{}{
		{"id", "nome", "cor", "preco", "estoque", "tam", "foto"},
		{"101", "Blusa Laço", "Rosa Bebê", "59,90", "4", "P, M, G", "https://example.com/blusa.jpg"},
		{"", "", "", "", "", "", ""},
		{"102", "Bermuda", "nan", "abc", "muitos"},
		{},
	}

	table := DecodeValues(values)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, "BLUSA LAÇO", first.Name)
	assert.Equal(t, "ROSA BEBÊ", first.Color)
	assert.Equal(t, "P, M, G", first.Size)
	assert.True(t, decimal.RequireFromString("59.90").Equal(first.Price))
	assert.Equal(t, 4, first.Stock)
	assert.Equal(t, "https://example.com/blusa.jpg", first.PhotoURL)

	second := table.Rows[1]
	assert.Equal(t, models.DefaultColor, second.Color)
	assert.True(t, second.Price.IsZero())
	assert.Equal(t, 0, second.Stock)
	assert.Equal(t, "", second.PhotoURL)
}

func TestDecodeValuesNumericCellsAndNoHeader(t *testing.T) {
	table := DecodeValues([][]interface{}{
		{"7", "saia", "preta", "M", "", "", float64(89.5), float64(2), ""},
	})
	require.Len(t, table.Rows, 1)
	assert.Equal(t, CanonicalHeader, table.Header)
	assert.Equal(t, "SAIA", table.Rows[0].Name)
	assert.True(t, decimal.RequireFromString("89.5").Equal(table.Rows[0].Price))
	assert.Equal(t, 2, table.Rows[0].Stock)
}

func TestEncodeValuesKeepsSheetHeader(t *testing.T) {
	header := []string{"id", "nome", "cor", "preco", "estoque", "tam", "foto"}
	rows := []models.CatalogRow{{
		ID: "101", Name: "BLUSA", Color: "ROSA", Size: "P",
		Price: decimal.RequireFromString("59.9"), Stock: 4,
	}}

	values := EncodeValues(header, rows)
	require.Len(t, values, 2)
	assert.Equal(t, []interface{}{"id", "nome", "cor", "preco", "estoque", "tam", "foto", "category", "isNew"}, values[0])
	assert.Equal(t, []interface{}{"101", "BLUSA", "ROSA", "59.90", "4", "P", "", "", ""}, values[1])

	// Round trip through decode keeps the rows
	decoded := DecodeValues(values)
	require.Len(t, decoded.Rows, 1)
	assert.Equal(t, "BLUSA", decoded.Rows[0].Name)
	assert.Equal(t, 4, decoded.Rows[0].Stock)
}

func TestContentVersionIgnoresTrailingBlanks(t *testing.T) {
	a := [][]interface{}{{"id", "name"}, {"1", "X", ""}}
	b := [][]interface{}{{"id", "name"}, {"1", "X"}, {"", ""}}
	c := [][]interface{}{{"id", "name"}, {"1", "Y"}}

	assert.Equal(t, ContentVersion(a), ContentVersion(b))
	assert.NotEqual(t, ContentVersion(a), ContentVersion(c))
}
