package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"aninha-confeccoes/models"
	"aninha-confeccoes/repository"
	"aninha-confeccoes/utils"
)

// maxPhotoBytes caps a photo fetched over plain HTTP
const maxPhotoBytes = 20 << 20

// ErrPhotoNotFound is returned when a row does not exist or has no usable photo URL
var ErrPhotoNotFound = fmt.Errorf("photo not found: %w", models.ErrNotFound)

// PhotoServiceInterface defines the contract for serving optimized catalog photos
type PhotoServiceInterface interface {
	Thumbnail(ctx context.Context, rowID, size string) ([]byte, error)
}

// PhotoService fetches a row's photo, optimizes it and caches the result on disk
type PhotoService struct {
	repo         repository.InventoryRepositoryInterface
	drive        DriveServiceInterface
	client       *http.Client
	cache        *PhotoCache
	fetchTimeout time.Duration
	maxBytes     int64
	log          logrus.FieldLogger
	group        singleflight.Group
}

// NewPhotoService creates a PhotoService. drive may be nil, in which case Drive
// links are fetched through their public download URL.
func NewPhotoService(repo repository.InventoryRepositoryInterface, drive DriveServiceInterface, cache *PhotoCache, fetchTimeout time.Duration, log logrus.FieldLogger) *PhotoService {
	return &PhotoService{
		repo:         repo,
		drive:        drive,
		client:       &http.Client{Timeout: fetchTimeout},
		cache:        cache,
		fetchTimeout: fetchTimeout,
		maxBytes:     maxPhotoBytes,
		log:          log,
	}
}

// Ensure PhotoService implements PhotoServiceInterface
var _ PhotoServiceInterface = (*PhotoService)(nil)

// Thumbnail returns the optimized JPEG for a row in the given size (thumb or medium)
func (s *PhotoService) Thumbnail(ctx context.Context, rowID, size string) ([]byte, error) {
	size = NormalizePhotoSize(size)

	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	var photoURL string
	for _, row := range inv.Rows {
		if row.ID == rowID {
			photoURL = row.PhotoURL
			break
		}
	}
	if !utils.IsAbsoluteURL(photoURL) {
		return nil, fmt.Errorf("row %s: %w", rowID, ErrPhotoNotFound)
	}

	return s.optimized(ctx, photoURL, size)
}

// optimized serves from the disk cache, fetching and optimizing once on a miss
func (s *PhotoService) optimized(ctx context.Context, photoURL, size string) ([]byte, error) {
	cachePath := s.cache.Path(photoURL, size)
	if data, ok, err := s.cache.Read(cachePath); err != nil {
		s.log.WithError(err).Warn("⚠️  Photo cache read failed")
	} else if ok {
		return data, nil
	}

	// The fetch outlives the caller that started it; others may be waiting on it
	ch := s.group.DoChan(cachePath, func() (interface{}, error) {
		fetchCtx, cancel := detached(ctx, s.fetchTimeout)
		defer cancel()

		raw, err := s.fetch(fetchCtx, photoURL)
		if err != nil {
			return nil, err
		}
		data, err := OptimizeImage(raw, size, s.log)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Write(cachePath, data); err != nil {
			s.log.WithError(err).Warn("⚠️  Photo cache write failed")
		} else {
			s.log.WithField("path", cachePath).Debug("✓ Photo cached")
		}
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// detached returns a context that keeps ctx's values but not its cancellation
func detached(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.WithoutCancel(ctx))
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// fetch downloads the full-size photo, through the Drive API when possible
func (s *PhotoService) fetch(ctx context.Context, photoURL string) ([]byte, error) {
	if fileID, ok := utils.DriveFileID(photoURL); ok && s.drive != nil {
		data, err := s.drive.DownloadFile(ctx, fileID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrReadFailure, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, utils.DirectDriveURL(photoURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build photo request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photo: %w: %w", models.ErrReadFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo host returned status %d: %w", resp.StatusCode, models.ErrReadFailure)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w: %w", models.ErrReadFailure, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("photo is larger than %d bytes: %w", s.maxBytes, models.ErrReadFailure)
	}
	return data, nil
}
