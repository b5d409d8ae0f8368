package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/admin"
	"aninha-confeccoes/app/controller"
	"aninha-confeccoes/app/router"
	"aninha-confeccoes/auth"
	"aninha-confeccoes/checkout"
	"aninha-confeccoes/config"
	"aninha-confeccoes/db"
	"aninha-confeccoes/repository"
	"aninha-confeccoes/service"
	"aninha-confeccoes/session"
)

// photoFetchTimeout bounds a single photo download from its host
const photoFetchTimeout = 15 * time.Second

// App is the wired storefront
type App struct {
	Handler    http.Handler
	Sessions   *session.Store
	Repository *repository.CachedRepository
	Storefront *service.StorefrontService
	Photos     *service.PhotoService
	Downloads  *service.DownloadService
	Export     *service.CatalogExportService

	closers []func() error
}

// NewInventoryStore opens the backend named by backend
func NewInventoryStore(ctx context.Context, cfg *config.Config, backend string, log logrus.FieldLogger) (repository.InventoryRepositoryInterface, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case config.BackendSheets:
		client, err := repository.NewGoogleSheetsClient(ctx, cfg.GoogleCredentialsPath, cfg.GoogleCredentialsJSON)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("✓ Using Google Sheets inventory (%s)", cfg.SheetRange)
		return repository.NewSheetsRepository(client, cfg.SpreadsheetID, cfg.SheetRange, log), noop, nil

	case config.BackendPostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo := repository.NewPostgresRepository(conn, log)
		if err := repo.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, err
		}
		log.Info("✓ Using Postgres inventory")
		return repo, conn.Close, nil

	case config.BackendMemory:
		log.Warn("⚠️  Using in-memory inventory; changes are lost on restart")
		return repository.NewMemoryRepository(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown inventory backend %q", backend)
}

// Initialize wires every component from cfg
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	store, closeStore, err := NewInventoryStore(ctx, cfg, cfg.InventoryBackend, log)
	if err != nil {
		return nil, err
	}
	a := &App{closers: []func() error{closeStore}}

	a.Repository = repository.NewCachedRepository(store, cfg.StoreTimeout(), cfg.CacheTTL(), log)

	nextID := admin.CountIDs
	if cfg.IDStrategy == config.IDStrategyMonotonic {
		nextID = admin.MonotonicIDs
	}

	verifier := auth.NewBcryptVerifier(cfg.AdminPasswordHash, cfg.AdminAttemptsPerMinute)
	if !verifier.Configured() {
		log.Warn("⚠️  ADMIN_PASSWORD_HASH is not set, admin mode is disabled")
	}

	a.Storefront = service.NewStorefrontService(
		a.Repository,
		checkout.NewComposer(cfg.OrderHeader, cfg.MessagingHost, cfg.ShopPhone),
		admin.NewMutator(cfg.RequireColor, nextID),
		verifier,
		service.StorefrontOptions{RequireCustomerLogin: cfg.RequireCustomerLogin},
		log,
	)

	// Drive downloads are optional; public links still work over HTTP
	var drive service.DriveServiceInterface
	if cfg.GoogleCredentialsPath != "" || cfg.GoogleCredentialsJSON != "" {
		ds, err := service.NewDriveService(ctx, cfg.GoogleCredentialsPath, cfg.GoogleCredentialsJSON)
		if err != nil {
			log.WithError(err).Warn("⚠️  Drive service unavailable, fetching photos over HTTP")
		} else {
			drive = ds
		}
	}

	photoCache := service.NewPhotoCache(cfg.PhotoCacheDir)
	if err := photoCache.EnsureDir(); err != nil {
		log.WithError(err).Warn("⚠️  Photo cache directory unavailable")
	}
	a.Photos = service.NewPhotoService(a.Repository, drive, photoCache, photoFetchTimeout, log)
	a.Downloads = service.NewDownloadService(a.Repository, a.Photos, log)
	a.Export = service.NewCatalogExportService(a.Repository, "Aninha Confecções", cfg.ShopPhone, cfg.PublicBaseURL, cfg.ChromePath, log)

	a.Sessions = session.NewStore(cfg.SessionTTL())

	controllers := &router.Controllers{
		Auth:     controller.NewAuthController(a.Storefront, log),
		Catalog:  controller.NewCatalogController(a.Storefront, log),
		Cart:     controller.NewCartController(a.Storefront, log),
		Checkout: controller.NewCheckoutController(a.Storefront, log),
		Admin:    controller.NewAdminController(a.Storefront, log),
		Photo:    controller.NewPhotoController(a.Photos, log),
		Export:   controller.NewExportController(a.Storefront, a.Export, log),
		Download: controller.NewDownloadController(a.Storefront, a.Downloads, log),
	}
	a.Handler = router.NewRouter(controllers, a.Sessions, router.Options{
		SecureCookie: cfg.IsProduction(),
		SessionTTL:   cfg.SessionTTL(),

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}, log)

	log.Info("✓ Application initialized")
	return a, nil
}

// SweepSessions drops expired sessions every interval until ctx is done
func (a *App) SweepSessions(ctx context.Context, interval time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Sessions.Sweep(); n > 0 {
				log.Debugf("🧹 Dropped %d expired sessions", n)
			}
		}
	}
}

// Close releases the inventory store
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
