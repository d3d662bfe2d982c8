// Copyright 2026 The WebProMedid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duvan51/webpromedid/internal/audit"
	"github.com/duvan51/webpromedid/internal/catalog"
	"github.com/duvan51/webpromedid/internal/config"
	"github.com/duvan51/webpromedid/internal/observability/logger"
	"github.com/duvan51/webpromedid/internal/observability/metrics"
	"github.com/duvan51/webpromedid/internal/observability/tracing"
	"github.com/duvan51/webpromedid/internal/pageconfig"
	"github.com/duvan51/webpromedid/internal/preview"
	"github.com/duvan51/webpromedid/internal/store/memory"
	"github.com/duvan51/webpromedid/internal/store/postgres"
	redisstore "github.com/duvan51/webpromedid/internal/store/redis"
	"github.com/duvan51/webpromedid/internal/tenant"
	transportHTTP "github.com/duvan51/webpromedid/internal/transport/http"
)

// stores bundles the repositories selected by STORE_DRIVER
type stores struct {
	tenants tenant.Repository
	pages   pageconfig.Repository
	catalog catalog.Repository
	ready   []func(context.Context) error
	close   []func()
}

func (s *stores) Close() {
	for i := len(s.close) - 1; i >= 0; i-- {
		s.close[i]()
	}
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting webpromedid site service", logger.String("store", cfg.Store.Driver))

	// Phase: CLI Commands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := runSeed(cfg); err != nil {
			fmt.Printf("Seed failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	} else {
		defer tracer.Shutdown(ctx)
	}

	// Initialize meter
	var httpMetrics *metrics.HTTPMetrics
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	} else if httpMetrics, err = metrics.NewHTTPMetrics(meter); err != nil {
		slog.Error("failed to create http metrics", logger.Error(err))
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", logger.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	auditLogger := audit.NewSlogLogger()

	// Tenant lookups go through the cache when enabled
	var lookup tenant.Lookup = st.tenants
	tenantService := tenant.NewService(st.tenants, auditLogger)
	if cfg.Redis.Enabled {
		client := redisstore.NewClient(redisConfig(cfg))
		st.close = append(st.close, func() { client.Close() })
		if err := redisstore.Ping(ctx, client); err != nil {
			// The cache degrades to the store; do not refuse to start.
			slog.Warn("redis unavailable at startup", logger.Error(err))
		}
		cache := redisstore.NewTenantCache(client, st.tenants, redisConfig(cfg))
		lookup = cache
		tenantService = tenantService.WithInvalidator(cache)
		slog.Info("tenant resolution cache enabled", logger.String("addr", cfg.Redis.Addr))
	}

	resolver := tenant.NewResolver(lookup, tenant.ResolverConfig{
		PlatformHosts:   cfg.Platform.Hosts,
		MasterSlug:      cfg.Platform.MasterSlug,
		MaxRetries:      uint64(cfg.Resolver.MaxRetries),
		InitialInterval: cfg.Resolver.InitialInterval,
		MaxInterval:     cfg.Resolver.MaxInterval,
		Timeout:         cfg.Resolver.Timeout,
	})
	if cfg.Store.Driver == config.DriverMemory {
		if err := seedTenants(ctx, tenantService, cfg.Platform.MasterSlug); err != nil {
			slog.Error("failed to seed memory store", logger.Error(err))
		}
	}

	pageService := pageconfig.NewService(st.pages, auditLogger)
	catalogService := catalog.NewService(st.catalog, auditLogger)

	previewService, err := preview.NewService(cfg.Preview.SigningKey, cfg.Preview.Issuer, cfg.Preview.TTL)
	if err != nil {
		slog.Error("failed to initialize preview tokens", logger.Error(err))
		os.Exit(1)
	}

	var adminFS fs.FS
	if cfg.Admin.StaticDir != "" {
		adminFS = os.DirFS(cfg.Admin.StaticDir)
		slog.Info("serving admin console", logger.String("dir", cfg.Admin.StaticDir))
	}

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.Server.TrustProxy)
	defer rateLimiter.Stop()

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		tenantService,
		resolver,
		pageService,
		catalogService,
		previewService,
		transportHTTP.Options{
			TrustProxy: cfg.Server.TrustProxy,
			AdminFS:    adminFS,
			Metrics:    httpMetrics,
			Audit:      auditLogger,
			Ready:      st.Ready,
		},
	)
	defer handler.Close()

	// Create router
	router := transportHTTP.NewRouter(handler, rateLimiter)

	// Create HTTP server
	addr := cfg.Server.Addr()
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		slog.Error("server error", logger.Error(err))
	}

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

// Ready reports whether every backing store answers
func (s *stores) Ready(ctx context.Context) error {
	for _, ping := range s.ready {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store.Driver == config.DriverMemory {
		slog.Warn("using in-memory store; data is lost on restart")
		return &stores{
			tenants: memory.NewTenantRepository(),
			pages:   memory.NewPageRepository(),
			catalog: memory.NewCatalogRepository(),
		}, nil
	}

	db, err := postgres.New(ctx, postgresConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("connected to database")
	return &stores{
		tenants: postgres.NewTenantRepository(db),
		pages:   postgres.NewPageRepository(db),
		catalog: postgres.NewCatalogRepository(db),
		ready:   []func(context.Context) error{db.Ping},
		close:   []func(){db.Close},
	}, nil
}

func postgresConfig(cfg *config.Config) postgres.Config {
	return postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}
}

func redisConfig(cfg *config.Config) redisstore.Config {
	return redisstore.Config{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		Prefix:      cfg.Redis.Prefix,
		TTL:         cfg.Redis.TTL,
		NegativeTTL: cfg.Redis.NegativeTTL,
	}
}

func runMigrate(cfg *config.Config) error {
	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate requires STORE_DRIVER=%s", config.DriverPostgres)
	}
	ctx := context.Background()
	db, err := postgres.New(ctx, postgresConfig(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying initial schema...")
	if err := db.Migrate(ctx, postgres.InitialSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}

// runSeed creates the platform master tenant and a demo tenant when missing
func runSeed(cfg *config.Config) error {
	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := tenant.NewService(st.tenants, audit.NewSlogLogger())
	if cfg.Redis.Enabled {
		client := redisstore.NewClient(redisConfig(cfg))
		defer client.Close()
		svc = svc.WithInvalidator(redisstore.NewTenantCache(client, st.tenants, redisConfig(cfg)))
	}

	return seedTenants(ctx, svc, cfg.Platform.MasterSlug)
}

func seedTenants(ctx context.Context, svc *tenant.Service, masterSlug string) error {
	seeds := []tenant.CreateParams{
		{Name: "WebProMedid", Slug: masterSlug},
		{Name: "Demo Clinic", Slug: "demo", Theme: "medical"},
	}
	for _, p := range seeds {
		if _, err := svc.GetTenantBySlug(ctx, p.Slug); err == nil {
			fmt.Printf("Tenant %s already exists\n", p.Slug)
			continue
		} else if !errors.Is(err, tenant.ErrTenantNotFound) {
			return err
		}
		t, err := svc.CreateTenant(ctx, p)
		if err != nil {
			return fmt.Errorf("failed to seed tenant %s: %w", p.Slug, err)
		}
		fmt.Printf("Created tenant %s (%s)\n", t.Slug, t.ID)
	}
	return nil
}
