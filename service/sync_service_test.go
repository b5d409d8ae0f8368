package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aninha-confeccoes/logger"
	"aninha-confeccoes/models"
	"aninha-confeccoes/repository"
)

func TestSyncCopiesAllRows(t *testing.T) {
	ctx := context.Background()
	source := repository.NewMemoryRepository(seedRows()...)
	target := repository.NewMemoryRepository(models.CatalogRow{ID: "900", Name: "OLD", Price: decimal.NewFromInt(1)})

	n, err := NewSyncService(source, target, logger.Discard()).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := target.Load(ctx)
	require.NoError(t, err)
	want, err := source.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Rows, got.Rows)
}

func TestSyncSourceFailure(t *testing.T) {
	target := repository.NewMemoryRepository(seedRows()...)
	_, err := NewSyncService(failingStore{}, target, logger.Discard()).Sync(context.Background())
	assert.Error(t, err)

	inv, err := target.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, inv.Rows, 3)
}
