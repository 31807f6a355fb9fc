package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/01moynul/taptosell-catalog/internal/admin"
	"github.com/01moynul/taptosell-catalog/internal/auth"
	"github.com/01moynul/taptosell-catalog/internal/catalog"
	"github.com/01moynul/taptosell-catalog/internal/handlers"
	"github.com/01moynul/taptosell-catalog/internal/media"
	"github.com/01moynul/taptosell-catalog/internal/metrics"
	"github.com/01moynul/taptosell-catalog/internal/routes"
	"github.com/01moynul/taptosell-catalog/internal/store"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, !skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply pending migrations on start")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	cfg := a.cfg
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. --- Database Connection ---
	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrate {
		if err := a.migrate(ctx, db); err != nil {
			return err
		}
	}

	// 2. --- Services ---
	issuer, err := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return err
	}
	disk, err := media.NewDisk(cfg.Upload.Dir, cfg.BaseURL, cfg.Upload.MaxBytes)
	if err != nil {
		return err
	}
	m := metrics.New(cfg.MetricsPrefix, prometheus.DefaultRegisterer)

	app := &handlers.Handlers{
		Catalog: catalog.New(store.New(db),
			catalog.WithFiles(disk),
			catalog.WithRecorder(m),
			catalog.WithLogger(a.log),
		),
		Resource: admin.ProductResource("/v1/admin"),
	}

	// 3. --- Router Setup ---
	router := routes.SetupRouter(app, routes.Deps{
		Logger:             a.log,
		Issuer:             issuer,
		Metrics:            m,
		Gatherer:           prometheus.DefaultGatherer,
		UploadDir:          disk.Root(),
		CORSOrigin:         cfg.CORSOrigin,
		MaxMultipartMemory: cfg.Upload.MaxBytes,
	})

	// 4. --- Start Server ---
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting catalog API server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// 5. --- Graceful Shutdown ---
	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
