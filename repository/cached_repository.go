package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"aninha-confeccoes/models"
)

// CachedRepository bounds every store round trip with a timeout and, when ttl
// is positive, serves a recent load instead of hitting the store again.
// Concurrent loads share a single store call. Any ReplaceAll invalidates the cache.
type CachedRepository struct {
	store   InventoryRepositoryInterface
	timeout time.Duration
	ttl     time.Duration
	log     logrus.FieldLogger
	now     func() time.Time

	group    singleflight.Group
	mu       sync.Mutex
	cached   *models.Inventory
	loadedAt time.Time
	// gen changes on every invalidation; loads started before it changed are not cached
	gen uint64
}

// NewCachedRepository wraps store. ttl == 0 reloads on every Load.
func NewCachedRepository(store InventoryRepositoryInterface, timeout, ttl time.Duration, log logrus.FieldLogger) *CachedRepository {
	return &CachedRepository{
		store:   store,
		timeout: timeout,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// Ensure CachedRepository implements InventoryRepositoryInterface
var _ InventoryRepositoryInterface = (*CachedRepository)(nil)

// Load returns the cached inventory when fresh, otherwise reloads it from the store
func (r *CachedRepository) Load(ctx context.Context) (*models.Inventory, error) {
	if inv, ok := r.fresh(); ok {
		return inv, nil
	}

	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()

	// The load outlives the caller that started it; others may be waiting on it
	ch := r.group.DoChan(fmt.Sprintf("load-%d", gen), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		inv, err := r.store.Load(loadCtx)
		if err != nil {
			return nil, readFailure("failed to load inventory", err)
		}

		r.mu.Lock()
		if r.gen == gen {
			r.cached = inv
			r.loadedAt = r.now()
		}
		r.mu.Unlock()
		return inv, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			r.log.WithError(res.Err).Warn("⚠️  Inventory load failed")
			return nil, res.Err
		}
		if res.Shared {
			r.log.Debug("Inventory load shared with a concurrent caller")
		}
		return cloneInventory(res.Val.(*models.Inventory)), nil
	case <-ctx.Done():
		return nil, readFailure("inventory load abandoned", ctx.Err())
	}
}

// ReplaceAll writes through to the store and drops the cached copy
func (r *CachedRepository) ReplaceAll(ctx context.Context, rows []models.CatalogRow, expectedVersion string) (string, error) {
	writeCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// The cache is stale after a write attempt whatever the outcome
	defer r.Invalidate()

	version, err := r.store.ReplaceAll(writeCtx, rows, expectedVersion)
	if err != nil {
		return "", writeFailure("failed to replace inventory", err)
	}
	return version, nil
}

// Invalidate forgets the cached inventory
func (r *CachedRepository) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.loadedAt = time.Time{}
	r.gen++
	r.mu.Unlock()
}

func (r *CachedRepository) fresh() (*models.Inventory, bool) {
	if r.ttl <= 0 {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached == nil || r.now().Sub(r.loadedAt) >= r.ttl {
		return nil, false
	}
	return cloneInventory(r.cached), true
}

// cloneInventory copies rows so callers cannot mutate the cached slice
func cloneInventory(inv *models.Inventory) *models.Inventory {
	rows := make([]models.CatalogRow, len(inv.Rows))
	copy(rows, inv.Rows)
	return &models.Inventory{Rows: rows, Version: inv.Version}
}
