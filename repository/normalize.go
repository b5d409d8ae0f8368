package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"aninha-confeccoes/models"
	"aninha-confeccoes/utils"
)

// Canonical column names of the inventory table
const (
	ColID       = "id"
	ColName     = "name"
	ColColor    = "color"
	ColSize     = "size"
	ColCategory = "category"
	ColIsNew    = "isNew"
	ColPrice    = "price"
	ColStock    = "stock"
	ColPhoto    = "photo"
)

// CanonicalHeader is written when the table has no header yet
var CanonicalHeader = []string{ColID, ColName, ColColor, ColSize, ColCategory, ColIsNew, ColPrice, ColStock, ColPhoto}

// headerAliases maps normalized header text to a canonical column.
// The shop sheet uses Portuguese headers.
var headerAliases = map[string]string{
	"id":        ColID,
	"codigo":    ColID,
	"name":      ColName,
	"nome":      ColName,
	"modelo":    ColName,
	"color":     ColColor,
	"cor":       ColColor,
	"size":      ColSize,
	"tam":       ColSize,
	"tamanho":   ColSize,
	"tamanhos":  ColSize,
	"category":  ColCategory,
	"categoria": ColCategory,
	"isnew":     ColIsNew,
	"new":       ColIsNew,
	"novo":      ColIsNew,
	"novidade":  ColIsNew,
	"price":     ColPrice,
	"preco":     ColPrice,
	"valor":     ColPrice,
	"stock":     ColStock,
	"estoque":   ColStock,
	"photo":     ColPhoto,
	"photourl":  ColPhoto,
	"foto":      ColPhoto,
	"imagem":    ColPhoto,
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
	" ", "", "_", "", "-", "",
)

// nullMarkers are cell values spreadsheet exports use for empty cells
var nullMarkers = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
	"nat":  true,
}

// canonicalColumn resolves a header cell to a canonical column name
func canonicalColumn(header string) (string, bool) {
	key := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(header)))
	col, ok := headerAliases[key]
	return col, ok
}

// cellString renders a raw cell value as text
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(t)
		if nullMarkers[strings.ToLower(s)] {
			return ""
		}
		return s
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// upper trims and upper-cases a free-text field
func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// CoercePrice parses a price cell. Invalid, missing or negative values become 0.
func CoercePrice(s string) decimal.Decimal {
	d, ok := utils.ParseAmount(s)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}

// maxStock is the largest stock a cell can hold; anything above is invalid
var maxStock = decimal.NewFromInt(math.MaxInt)

// CoerceStock parses a stock cell. Float exports like "3.0" are truncated;
// invalid, missing, negative or out of range values become 0.
func CoerceStock(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || d.Truncate(0).GreaterThan(maxStock) {
		return 0
	}
	return int(d.IntPart())
}

// normalizeID turns spreadsheet float ids like "101.0" into "101"
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".0") {
		if _, err := strconv.Atoi(strings.TrimSuffix(s, ".0")); err == nil {
			return strings.TrimSuffix(s, ".0")
		}
	}
	return s
}

// NormalizeRow applies load-time normalization to a row: trimmed upper-case
// strings, color/size sentinels, non-negative price and stock, trimmed photo URL.
func NormalizeRow(row models.CatalogRow) models.CatalogRow {
	row.ID = normalizeID(row.ID)
	row.Name = upper(row.Name)
	row.Color = upper(row.Color)
	if row.Color == "" {
		row.Color = models.DefaultColor
	}
	row.Size = upper(row.Size)
	if row.Size == "" {
		row.Size = models.DefaultSize
	}
	row.Category = upper(row.Category)
	row.IsNew = upper(row.IsNew)
	if row.Price.IsNegative() {
		row.Price = decimal.Zero
	}
	row.Price = row.Price.Round(2)
	if row.Stock < 0 {
		row.Stock = 0
	}
	row.PhotoURL = strings.TrimSpace(row.PhotoURL)
	return row
}

// rowFromCells builds a normalized row from cells keyed by canonical column.
// Returns false when every cell is empty.
func rowFromCells(cells map[string]string) (models.CatalogRow, bool) {
	empty := true
	for _, v := range cells {
		if v != "" {
			empty = false
			break
		}
	}
	if empty {
		return models.CatalogRow{}, false
	}

	row := models.CatalogRow{
		ID:       cells[ColID],
		Name:     cells[ColName],
		Color:    cells[ColColor],
		Size:     cells[ColSize],
		Category: cells[ColCategory],
		IsNew:    cells[ColIsNew],
		Price:    CoercePrice(cells[ColPrice]),
		Stock:    CoerceStock(cells[ColStock]),
		PhotoURL: cells[ColPhoto],
	}
	return NormalizeRow(row), true
}

// Table is the decoded form of a raw value grid: its header and its rows
type Table struct {
	Header []string
	Rows   []models.CatalogRow
}

// columnIndex maps canonical columns to their position in header.
// When no header cell is recognized the canonical order is assumed.
func columnIndex(header []string) (map[string]int, bool) {
	index := make(map[string]int)
	for i, h := range header {
		if col, ok := canonicalColumn(h); ok {
			if _, seen := index[col]; !seen {
				index[col] = i
			}
		}
	}
	if len(index) > 0 {
		return index, true
	}
	for i, col := range CanonicalHeader {
		index[col] = i
	}
	return index, false
}

// DecodeValues decodes a raw grid (first row = header) into normalized rows.
// Fully empty rows are dropped; malformed fields degrade to zero values.
func DecodeValues(values [][]interface{}) Table {
	if len(values) == 0 {
		return Table{Header: append([]string(nil), CanonicalHeader...)}
	}

	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = cellString(v)
	}
	index, hasHeader := columnIndex(header)
	body := values[1:]
	if !hasHeader {
		// First row is data
		header = append([]string(nil), CanonicalHeader...)
		body = values
	}

	var rows []models.CatalogRow
	for _, raw := range body {
		cells := make(map[string]string, len(index))
		for col, i := range index {
			if i < len(raw) {
				cells[col] = cellString(raw[i])
			}
		}
		if row, ok := rowFromCells(cells); ok {
			rows = append(rows, row)
		}
	}
	return Table{Header: header, Rows: rows}
}

// rowCell returns the stored text of a canonical column
func rowCell(row models.CatalogRow, col string) string {
	switch col {
	case ColID:
		return row.ID
	case ColName:
		return row.Name
	case ColColor:
		return row.Color
	case ColSize:
		return row.Size
	case ColCategory:
		return row.Category
	case ColIsNew:
		return row.IsNew
	case ColPrice:
		return row.Price.StringFixed(2)
	case ColStock:
		return strconv.Itoa(row.Stock)
	case ColPhoto:
		return row.PhotoURL
	}
	return ""
}

// EncodeValues renders rows as a grid under header, keeping the sheet's own
// column order and names. Unknown header columns are written empty; canonical
// columns missing from header are appended.
func EncodeValues(header []string, rows []models.CatalogRow) [][]interface{} {
	if len(header) == 0 {
		header = CanonicalHeader
	}
	cols := make([]string, len(header))
	present := make(map[string]bool)
	for i, h := range header {
		if col, ok := canonicalColumn(h); ok && !present[col] {
			cols[i] = col
			present[col] = true
		}
	}
	fullHeader := append([]string(nil), header...)
	for _, col := range CanonicalHeader {
		if !present[col] {
			fullHeader = append(fullHeader, col)
			cols = append(cols, col)
		}
	}

	values := make([][]interface{}, 0, len(rows)+1)
	headerRow := make([]interface{}, len(fullHeader))
	for i, h := range fullHeader {
		headerRow[i] = h
	}
	values = append(values, headerRow)

	for _, row := range rows {
		line := make([]interface{}, len(cols))
		for i, col := range cols {
			line[i] = rowCell(row, col)
		}
		values = append(values, line)
	}
	return values
}

// ContentVersion fingerprints a raw grid. Any change to any cell changes it.
// Trailing empty cells and rows are ignored since the Sheets API omits them on read.
func ContentVersion(values [][]interface{}) string {
	h := sha256.New()
	last := len(values)
	for last > 0 && isBlankRow(values[last-1]) {
		last--
	}
	for _, row := range values[:last] {
		end := len(row)
		for end > 0 && cellString(row[end-1]) == "" {
			end--
		}
		for _, v := range row[:end] {
			h.Write([]byte(cellString(v)))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func isBlankRow(row []interface{}) bool {
	for _, v := range row {
		if cellString(v) != "" {
			return false
		}
	}
	return true
}
