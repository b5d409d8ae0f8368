package service

import "context"

// DownloadServiceInterface defines the contract for warming the photo cache
type DownloadServiceInterface interface {
	WarmPhotoCache(ctx context.Context, sizes ...string) (*WarmStats, error)
}
