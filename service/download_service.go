package service

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/repository"
	"aninha-confeccoes/utils"
)

// WarmStats summarizes a cache warm-up run
type WarmStats struct {
	Total      int      `json:"total"`
	Downloaded int      `json:"downloaded"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors,omitempty"`
}

// DownloadService downloads and optimizes every catalog photo ahead of time
// so shoppers never wait on the photo host.
// Implements DownloadServiceInterface
type DownloadService struct {
	repo   repository.InventoryRepositoryInterface
	photos *PhotoService
	log    logrus.FieldLogger
}

// NewDownloadService creates a new DownloadService instance
func NewDownloadService(repo repository.InventoryRepositoryInterface, photos *PhotoService, log logrus.FieldLogger) *DownloadService {
	return &DownloadService{
		repo:   repo,
		photos: photos,
		log:    log,
	}
}

// Ensure DownloadService implements DownloadServiceInterface
var _ DownloadServiceInterface = (*DownloadService)(nil)

// WarmPhotoCache fills the photo cache for every distinct photo URL in the catalog.
// Per-photo failures are collected, not fatal. No sizes means thumb and medium.
func (ds *DownloadService) WarmPhotoCache(ctx context.Context, sizes ...string) (*WarmStats, error) {
	if len(sizes) == 0 {
		sizes = []string{SizeThumb, SizeMedium}
	}

	inv, err := ds.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if err := ds.photos.cache.EnsureDir(); err != nil {
		return nil, err
	}

	stats := &WarmStats{}
	seen := make(map[string]bool)
	for _, row := range inv.Rows {
		if !utils.IsAbsoluteURL(row.PhotoURL) || seen[row.PhotoURL] {
			continue
		}
		seen[row.PhotoURL] = true

		for _, size := range sizes {
			size = NormalizePhotoSize(size)
			stats.Total++

			cachePath := ds.photos.cache.Path(row.PhotoURL, size)
			if _, err := os.Stat(cachePath); err == nil {
				ds.log.Debugf("⏭️  Skipping %s (%s already cached)", row.ID, size)
				stats.Skipped++
				continue
			}

			if _, err := ds.photos.optimized(ctx, row.PhotoURL, size); err != nil {
				msg := fmt.Sprintf("failed to warm photo of row %s (%s): %v", row.ID, size, err)
				ds.log.Warnf("❌ %s", msg)
				stats.Errors = append(stats.Errors, msg)
				continue
			}
			stats.Downloaded++
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
	}

	ds.log.Infof("🎉 Photo cache warmed: %d downloaded, %d skipped, %d failed out of %d",
		stats.Downloaded, stats.Skipped, len(stats.Errors), stats.Total)
	return stats, nil
}
