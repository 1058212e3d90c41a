package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/storefront/internal/app/service"
	"github.com/mrops-br/storefront/internal/app/storefront"
	"github.com/mrops-br/storefront/internal/domain"
	"github.com/mrops-br/storefront/internal/infrastructure/catalog"
	"github.com/mrops-br/storefront/internal/infrastructure/config"
	"github.com/mrops-br/storefront/internal/infrastructure/http"
	"github.com/mrops-br/storefront/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront/internal/infrastructure/store"
	"github.com/mrops-br/storefront/internal/infrastructure/telemetry"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry
	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		var err error
		telem, err = telemetry.NewTelemetry(&cfg.OTLP)
		if err != nil {
			log.Fatalf("Failed to initialize telemetry: %v", err)
		}
	} else {
		telem = telemetry.NewNoOpTelemetry(&cfg.OTLP)
	}

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	// Get tracer, meter, and logger instances
	tracer := telem.TracerProvider.Tracer("storefront")
	meter := telem.MeterProvider.Meter("storefront")
	logger := telem.Logger

	logger.Info("Starting storefront",
		slog.String("store_name", cfg.Storefront.StoreName),
		slog.String("store_driver", cfg.Store.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := store.Open(ctx, &cfg.Store)
	if err != nil {
		logger.Error("Failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("Failed to close store", slog.String("error", err.Error()))
		}
	}()

	repo := memory.NewCatalogRepository(tracer, logger)

	stores := func(clientID string) domain.StateStore {
		return store.NewClientStore(kv, clientID, tracer, logger)
	}

	storefrontService := service.NewStorefrontService(repo, stores, storefront.Options{
		StoreName:     cfg.Storefront.StoreName,
		LoginPath:     cfg.Storefront.LoginPath,
		ToastDuration: cfg.Storefront.ToastDuration,
	}, tracer, meter, logger, service.WithMaxClients(cfg.Storefront.MaxClients))

	loader := service.NewCatalogLoader(
		catalog.NewSource(cfg.Catalog.Source, cfg.Catalog.FetchTimeout),
		repo,
		storefrontService.CatalogLoaded,
		tracer, meter, logger,
	)

	storefrontHandler, err := handler.NewStorefrontHandler(storefrontService, cfg.Storefront.LoginPath, logger)
	if err != nil {
		logger.Error("Failed to build handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := http.NewServer(&cfg.Server, storefrontHandler, logger, telem)

	g, gctx := errgroup.WithContext(ctx)

	// The catalog loads once; the page is served while it is in flight
	g.Go(func() error {
		loader.Load(gctx)
		return nil
	})

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}
