package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/youthsite/internal/db"
	"github.com/ziadkadry99/youthsite/internal/diagnostics"
	"github.com/ziadkadry99/youthsite/internal/logging"
	"github.com/ziadkadry99/youthsite/internal/metrics"
	"github.com/ziadkadry99/youthsite/internal/server"
	"github.com/ziadkadry99/youthsite/internal/site"
)

var (
	servePort int
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the site server",
	Long:  `Serves the pages, the content API, the generators (REST and websocket), diagnostics and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		logger := newLogger(cfg)

		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		dbPath := filepath.Join(cfg.DataDir, "youthsite.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		m := metrics.NewManager(metrics.WithRuntimeCollectors())
		store := diagnostics.NewStore(database)
		client, err := newGeneratorClient(cfg, diagnostics.NewRecorder(logger, m, store))
		if err != nil {
			return err
		}

		server.Version = Version
		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, server.Deps{
			Catalog:     catalog,
			Site:        site.New(catalog, siteMotion(cfg), logger),
			Generator:   client,
			Diagnostics: store,
			Metrics:     m,
		}, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown", logging.Err(err))
			}
		}()

		logger.Info("youthsite starting",
			slog.String("version", Version),
			slog.Int("port", cfg.Port),
			slog.String("provider", string(cfg.Provider)),
			slog.String("model", cfg.Model),
			slog.String("database", dbPath),
			slog.Int("events", len(catalog.Events())),
		)

		if serveOpen {
			go site.OpenBrowser(fmt.Sprintf("http://localhost:%d", cfg.Port))
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the site in a browser")
	rootCmd.AddCommand(serveCmd)
}
