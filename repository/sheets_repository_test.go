package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aninha-confeccoes/logger"
	"aninha-confeccoes/models"
)

// fakeSheet emulates the values API, trimming trailing empty cells on read
type fakeSheet struct {
	values   [][]interface{}
	getErr   error
	writeErr error
	writes   int
}

func (f *fakeSheet) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out [][]interface{}
	for _, row := range f.values {
		end := len(row)
		for end > 0 && row[end-1] == "" {
			end--
		}
		out = append(out, append([]interface{}(nil), row[:end]...))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeSheet) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.values = values
	return nil
}

func newSheet() *fakeSheet {
	return &fakeSheet{values: [][]interface{}{
		{"id", "nome", "cor", "tam", "preco", "estoque", "foto"},
		{"101", "Vestido Floral", "Azul", "P", "120", "2", ""},
		{"102", "Vestido Floral", "Rosa", "M", "120", "5", ""},
		{"103", "Bermuda", "", "", "abc", "x", ""},
	}}
}

func TestSheetsRepositoryLoad(t *testing.T) {
	sheet := newSheet()
	repo := NewSheetsRepository(sheet, "sheet-id", "A:Z", logger.Discard())

	inv, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, inv.Rows, 3)
	assert.NotEmpty(t, inv.Version)
	assert.Equal(t, "VESTIDO FLORAL", inv.Rows[0].Name)
	assert.Equal(t, models.DefaultColor, inv.Rows[2].Color)
	assert.Equal(t, models.DefaultSize, inv.Rows[2].Size)
	assert.True(t, inv.Rows[2].Price.IsZero())
	assert.Equal(t, 0, inv.Rows[2].Stock)
}

func TestSheetsRepositoryLoadUnreachable(t *testing.T) {
	sheet := &fakeSheet{getErr: errors.New("dial tcp: timeout")}
	repo := NewSheetsRepository(sheet, "sheet-id", "A:Z", logger.Discard())

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrReadFailure)
}

func TestSheetsRepositoryReplaceAll(t *testing.T) {
	sheet := newSheet()
	repo := NewSheetsRepository(sheet, "sheet-id", "A:Z", logger.Discard())
	ctx := context.Background()

	inv, err := repo.Load(ctx)
	require.NoError(t, err)

	rows := inv.Rows[:1]
	version, err := repo.ReplaceAll(ctx, rows, inv.Version)
	require.NoError(t, err)
	assert.NotEqual(t, inv.Version, version)

	// Header kept, leftover rows blanked by padding
	assert.Equal(t, "nome", sheet.values[0][1])
	require.Len(t, sheet.values, 4)
	for _, cell := range sheet.values[2] {
		assert.Equal(t, "", cell)
	}

	reloaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded.Rows, 1)
	assert.Equal(t, version, reloaded.Version)
	assert.True(t, decimal.NewFromInt(120).Equal(reloaded.Rows[0].Price))
}

func TestSheetsRepositoryReplaceAllConflict(t *testing.T) {
	sheet := newSheet()
	repo := NewSheetsRepository(sheet, "sheet-id", "A:Z", logger.Discard())
	ctx := context.Background()

	inv, err := repo.Load(ctx)
	require.NoError(t, err)

	// Someone edits the sheet by hand
	sheet.values[1][5] = "1"

	_, err = repo.ReplaceAll(ctx, inv.Rows, inv.Version)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 0, sheet.writes)
}

func TestSheetsRepositoryReplaceAllWriteFailure(t *testing.T) {
	sheet := newSheet()
	sheet.writeErr = errors.New("quota exceeded")
	repo := NewSheetsRepository(sheet, "sheet-id", "A:Z", logger.Discard())

	_, err := repo.ReplaceAll(context.Background(), nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrWriteFailure)
	assert.Len(t, sheet.values, 4)
}
