package service

import "context"

// SyncServiceInterface defines the contract for copying the inventory between backends
type SyncServiceInterface interface {
	Sync(ctx context.Context) (int, error)
}
