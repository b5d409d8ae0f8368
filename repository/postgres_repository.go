package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/models"
)

// PostgresRepository stores the inventory table in Postgres.
// Cells are kept as text, like the spreadsheet, and coerced on read.
// The version check and the rewrite share one transaction holding a row lock
// on catalog_meta, so concurrent writers are serialized.
type PostgresRepository struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// NewPostgresRepository creates a PostgresRepository
func NewPostgresRepository(db *sql.DB, log logrus.FieldLogger) *PostgresRepository {
	return &PostgresRepository{db: db, log: log}
}

// Ensure PostgresRepository implements InventoryRepositoryInterface
var _ InventoryRepositoryInterface = (*PostgresRepository)(nil)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS catalog_rows (
		position INTEGER PRIMARY KEY,
		id       TEXT NOT NULL DEFAULT '',
		name     TEXT NOT NULL DEFAULT '',
		color    TEXT NOT NULL DEFAULT '',
		size     TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		is_new   TEXT NOT NULL DEFAULT '',
		price    TEXT NOT NULL DEFAULT '',
		stock    TEXT NOT NULL DEFAULT '',
		photo    TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS catalog_meta (
		singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		version   BIGINT NOT NULL DEFAULT 0
	);
	INSERT INTO catalog_meta (singleton, version) VALUES (TRUE, 0) ON CONFLICT DO NOTHING;
`

// EnsureSchema creates the inventory tables if they do not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create inventory schema: %w", err)
	}
	return nil
}

// Load reads every row in position order within one snapshot
func (r *PostgresRepository) Load(ctx context.Context) (*models.Inventory, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		r.log.WithError(err).Error("❌ Error starting read transaction")
		return nil, readFailure("failed to start transaction", err)
	}
	defer tx.Rollback()

	var version int64
	if err := tx.QueryRowContext(ctx, `SELECT version FROM catalog_meta WHERE singleton`).Scan(&version); err != nil {
		r.log.WithError(err).Error("❌ Error fetching inventory version")
		return nil, readFailure("failed to fetch inventory version", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, color, size, category, is_new, price, stock, photo
		FROM catalog_rows
		ORDER BY position ASC
	`)
	if err != nil {
		r.log.WithError(err).Error("❌ Error querying inventory rows")
		return nil, readFailure("failed to query inventory rows", err)
	}
	defer rows.Close()

	var result []models.CatalogRow
	for rows.Next() {
		var id, name, color, size, category, isNew, price, stock, photo string
		if err := rows.Scan(&id, &name, &color, &size, &category, &isNew, &price, &stock, &photo); err != nil {
			r.log.WithError(err).Warn("⚠️  Skipping unreadable inventory row")
			continue
		}
		row, ok := rowFromCells(map[string]string{
			ColID: id, ColName: name, ColColor: color, ColSize: size, ColCategory: category,
			ColIsNew: isNew, ColPrice: price, ColStock: stock, ColPhoto: photo,
		})
		if ok {
			result = append(result, row)
		}
	}
	if err := rows.Err(); err != nil {
		r.log.WithError(err).Error("❌ Error iterating inventory rows")
		return nil, readFailure("failed to iterate inventory rows", err)
	}

	return &models.Inventory{Rows: result, Version: strconv.FormatInt(version, 10)}, nil
}

// ReplaceAll swaps the table contents and bumps the version in one transaction
func (r *PostgresRepository) ReplaceAll(ctx context.Context, rows []models.CatalogRow, expectedVersion string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.WithError(err).Error("❌ Error starting write transaction")
		return "", writeFailure("failed to start transaction", err)
	}
	defer tx.Rollback()

	var current int64
	if err := tx.QueryRowContext(ctx, `SELECT version FROM catalog_meta WHERE singleton FOR UPDATE`).Scan(&current); err != nil {
		r.log.WithError(err).Error("❌ Error locking inventory version")
		return "", writeFailure("failed to lock inventory version", err)
	}
	currentVersion := strconv.FormatInt(current, 10)
	if expectedVersion != "" && expectedVersion != currentVersion {
		r.log.WithFields(logrus.Fields{"expected": expectedVersion, "actual": currentVersion}).Warn("⚠️  Inventory changed since it was read")
		return "", conflict(expectedVersion, currentVersion)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_rows`); err != nil {
		r.log.WithError(err).Error("❌ Error clearing inventory rows")
		return "", writeFailure("failed to clear inventory rows", err)
	}

	insert := `
		INSERT INTO catalog_rows (position, id, name, color, size, category, is_new, price, stock, photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for i, row := range rows {
		if _, err := tx.ExecContext(ctx, insert,
			i,
			rowCell(row, ColID),
			rowCell(row, ColName),
			rowCell(row, ColColor),
			rowCell(row, ColSize),
			rowCell(row, ColCategory),
			rowCell(row, ColIsNew),
			rowCell(row, ColPrice),
			rowCell(row, ColStock),
			rowCell(row, ColPhoto),
		); err != nil {
			r.log.WithError(err).WithField("position", i).Error("❌ Error inserting inventory row")
			return "", writeFailure("failed to insert inventory row", err)
		}
	}

	var next int64
	if err := tx.QueryRowContext(ctx, `UPDATE catalog_meta SET version = version + 1 WHERE singleton RETURNING version`).Scan(&next); err != nil {
		r.log.WithError(err).Error("❌ Error bumping inventory version")
		return "", writeFailure("failed to bump inventory version", err)
	}

	if err := tx.Commit(); err != nil {
		r.log.WithError(err).Error("❌ Error committing inventory rewrite")
		return "", writeFailure("failed to commit transaction", err)
	}

	version := strconv.FormatInt(next, 10)
	r.log.WithFields(logrus.Fields{"rows": len(rows), "version": version}).Info("✓ Inventory table replaced")
	return version, nil
}
