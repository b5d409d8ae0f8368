package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/models"
)

// SheetsRepository stores the inventory table in a spreadsheet range.
// The first row of the range is the header.
//
// ReplaceAll re-reads the range and compares content versions before writing,
// but the re-read and the write are separate calls: two writers interleaving
// between them still lose one update (last writer wins).
type SheetsRepository struct {
	client        SheetValuesClient
	spreadsheetID string
	sheetRange    string
	log           logrus.FieldLogger
}

// NewSheetsRepository creates a SheetsRepository over spreadsheetID!sheetRange
func NewSheetsRepository(client SheetValuesClient, spreadsheetID, sheetRange string, log logrus.FieldLogger) *SheetsRepository {
	return &SheetsRepository{
		client:        client,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
		log:           log,
	}
}

// Ensure SheetsRepository implements InventoryRepositoryInterface
var _ InventoryRepositoryInterface = (*SheetsRepository)(nil)

// Load reads the range and decodes it into normalized rows
func (r *SheetsRepository) Load(ctx context.Context) (*models.Inventory, error) {
	values, err := r.client.GetValues(ctx, r.spreadsheetID, r.sheetRange)
	if err != nil {
		r.log.WithError(err).Error("❌ Error reading inventory sheet")
		return nil, readFailure("failed to load inventory sheet", err)
	}

	table := DecodeValues(values)
	version := ContentVersion(values)
	r.log.WithFields(logrus.Fields{"rows": len(table.Rows), "version": version}).Debug("✓ Inventory sheet loaded")
	return &models.Inventory{Rows: table.Rows, Version: version}, nil
}

// ReplaceAll rewrites the whole range with rows, keeping the sheet's header
func (r *SheetsRepository) ReplaceAll(ctx context.Context, rows []models.CatalogRow, expectedVersion string) (string, error) {
	current, err := r.client.GetValues(ctx, r.spreadsheetID, r.sheetRange)
	if err != nil {
		r.log.WithError(err).Error("❌ Error re-reading inventory sheet before write")
		return "", writeFailure("failed to re-read inventory sheet", err)
	}

	currentVersion := ContentVersion(current)
	if expectedVersion != "" && expectedVersion != currentVersion {
		r.log.WithFields(logrus.Fields{"expected": expectedVersion, "actual": currentVersion}).Warn("⚠️  Inventory sheet changed since it was read")
		return "", conflict(expectedVersion, currentVersion)
	}

	values := EncodeValues(DecodeValues(current).Header, rows)

	// A single padded update overwrites leftover cells of the previous table,
	// so a failed write never leaves the sheet half cleared.
	if err := r.client.UpdateValues(ctx, r.spreadsheetID, r.sheetRange, padValues(values, current)); err != nil {
		r.log.WithError(err).Error("❌ Error writing inventory sheet")
		return "", writeFailure("failed to write inventory sheet", err)
	}

	version := ContentVersion(values)
	r.log.WithFields(logrus.Fields{"rows": len(rows), "version": version}).Info("✓ Inventory sheet replaced")
	return version, nil
}

// padValues extends values with empty cells so it covers every cell of previous
func padValues(values, previous [][]interface{}) [][]interface{} {
	width := 0
	for _, grid := range [][][]interface{}{values, previous} {
		for _, row := range grid {
			if len(row) > width {
				width = len(row)
			}
		}
	}
	height := len(values)
	if len(previous) > height {
		height = len(previous)
	}

	padded := make([][]interface{}, height)
	for i := range padded {
		line := make([]interface{}, width)
		for j := range line {
			line[j] = ""
		}
		if i < len(values) {
			copy(line, values[i])
		}
		padded[i] = line
	}
	return padded
}
