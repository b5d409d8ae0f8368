package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"aninha-confeccoes/app"
	"aninha-confeccoes/auth"
	"aninha-confeccoes/config"
	"aninha-confeccoes/logger"
	"aninha-confeccoes/service"
)

var envFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aninha",
	Short: "Aninha Confecções storefront backend",
	Long: `Serves the Aninha Confecções catalog, cart and WhatsApp checkout
backed by a Google Sheet, Postgres or in-memory inventory.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded outside production")

	syncCmd.Flags().String("from", config.BackendSheets, "source inventory backend (sheets, postgres)")
	syncCmd.Flags().String("to", config.BackendPostgres, "target inventory backend (sheets, postgres)")
	warmCmd.Flags().StringSlice("sizes", []string{service.SizeThumb, service.SizeMedium}, "photo sizes to prepare")

	rootCmd.AddCommand(serveCmd, hashCmd, warmCmd, syncCmd)
	// Bare invocation serves, as the container entrypoint expects
	rootCmd.RunE = serveCmd.RunE
}

// setup loads the environment and builds the logger every command shares
func setup() (*config.Config, *logrus.Logger, error) {
	loaded, err := config.LoadDotEnv(envFile)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
		Path:   cfg.LogPath,
		Name:   "aninha",
	})
	if err != nil {
		return nil, nil, err
	}
	if loaded {
		log.Infof("✓ Loaded environment variables from %s", envFile)
	}
	return cfg, log, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP storefront",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.Initialize(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				log.WithError(err).Warn("⚠️  Error closing resources")
			}
		}()

		go a.SweepSessions(ctx, time.Minute, log)

		// 0.0.0.0 so the container accepts connections on every interface
		srv := &http.Server{
			Addr:              "0.0.0.0:" + cfg.Port,
			Handler:           a.Handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Infof("🚀 Server starting on %s (backend=%s)", srv.Addr, cfg.InventoryBackend)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("🔄 Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		log.Info("✓ Server stopped")
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash-password <secret>",
	Short: "Print the bcrypt hash to use as ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashSecret(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var warmCmd = &cobra.Command{
	Use:   "warm-photos",
	Short: "Download and optimize every catalog photo into the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		sizes, _ := cmd.Flags().GetStringSlice("sizes")

		a, err := app.Initialize(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Downloads.WarmPhotoCache(cmd.Context(), sizes...)
		if err != nil {
			return err
		}
		log.Infof("🎉 Photo cache ready: total=%d, downloaded=%d, skipped=%d, errors=%d",
			stats.Total, stats.Downloaded, stats.Skipped, len(stats.Errors))
		for _, e := range stats.Errors {
			log.Warnf("⚠️  %s", e)
		}
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy the inventory from one backend to another",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if from == to {
			return fmt.Errorf("--from and --to must differ")
		}

		source, closeSource, err := app.NewInventoryStore(cmd.Context(), cfg, from, log)
		if err != nil {
			return err
		}
		defer closeSource()

		target, closeTarget, err := app.NewInventoryStore(cmd.Context(), cfg, to, log)
		if err != nil {
			return err
		}
		defer closeTarget()

		n, err := service.NewSyncService(source, target, log).Sync(cmd.Context())
		if err != nil {
			return err
		}
		log.Infof("🎉 Synced %d rows from %s to %s", n, from, to)
		return nil
	},
}
