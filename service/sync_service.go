package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/repository"
)

// SyncService copies the whole inventory table from one backend to another,
// e.g. from the shop's spreadsheet into Postgres.
// Implements SyncServiceInterface
type SyncService struct {
	source repository.InventoryRepositoryInterface
	target repository.InventoryRepositoryInterface
	log    logrus.FieldLogger
}

// NewSyncService creates a new SyncService
func NewSyncService(source, target repository.InventoryRepositoryInterface, log logrus.FieldLogger) *SyncService {
	return &SyncService{
		source: source,
		target: target,
		log:    log,
	}
}

// Ensure SyncService implements SyncServiceInterface
var _ SyncServiceInterface = (*SyncService)(nil)

// Sync overwrites target with the rows of source and returns how many rows were copied.
// The write is checked against the target version read just before it.
func (s *SyncService) Sync(ctx context.Context) (int, error) {
	s.log.Info("🔄 Starting inventory synchronization")

	inv, err := s.source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load source inventory: %w", err)
	}
	s.log.Infof("📦 Loaded %d rows from source", len(inv.Rows))

	current, err := s.target.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load target inventory: %w", err)
	}

	version, err := s.target.ReplaceAll(ctx, inv.Rows, current.Version)
	if err != nil {
		return 0, fmt.Errorf("failed to write target inventory: %w", err)
	}

	s.log.WithField("version", version).Infof("🎉 Synchronization completed: %d rows copied (target had %d)", len(inv.Rows), len(current.Rows))
	return len(inv.Rows), nil
}
