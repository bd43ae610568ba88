package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pharmawatch/pharmawatch/internal/config"
	"github.com/pharmawatch/pharmawatch/internal/domain/analytics"
	"github.com/pharmawatch/pharmawatch/internal/domain/auditlog"
	"github.com/pharmawatch/pharmawatch/internal/domain/identity"
	"github.com/pharmawatch/pharmawatch/internal/domain/location"
	"github.com/pharmawatch/pharmawatch/internal/domain/medicine"
	"github.com/pharmawatch/pharmawatch/internal/platform/alerts"
	"github.com/pharmawatch/pharmawatch/internal/platform/auth"
	"github.com/pharmawatch/pharmawatch/internal/platform/db"
	"github.com/pharmawatch/pharmawatch/internal/platform/dhis2"
	"github.com/pharmawatch/pharmawatch/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pharmawatch-server",
		Short: "Pharmaceutical inventory API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the inventory API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin account and sample inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			withSamples, _ := cmd.Flags().GetBool("samples")
			if password == "" {
				return fmt.Errorf("--password is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := identity.NewService(identity.NewRepoPG(pool), cfg.JWTSecret)
			if err := svc.EnsureAdmin(ctx, username, password); err != nil {
				return err
			}
			fmt.Printf("Admin account %q is ready.\n", username)

			if withSamples {
				medSvc := medicine.NewService(medicine.NewRepoPG(pool), medicine.NoopAuditor{})
				result, err := medSvc.Import(ctx, sampleMedicines(), username)
				if err != nil {
					return fmt.Errorf("seed sample medicines: %w", err)
				}
				fmt.Printf("Seeded %d sample medicines (%d already present).\n",
					result.Imported, result.Duplicates)
			}
			return nil
		},
	}
	cmd.Flags().String("username", "admin", "Admin username")
	cmd.Flags().String("password", "", "Admin password")
	cmd.Flags().Bool("samples", false, "Also load sample medicine batches")
	return cmd
}

// sampleMedicines returns a small demonstration inventory spanning the
// status buckets: healthy stock, low stock, and batches expiring soon.
func sampleMedicines() []*medicine.ImportRow {
	expiry := func(days int) time.Time {
		return time.Now().AddDate(0, 0, days)
	}
	return []*medicine.ImportRow{
		{Name: "Paracetamol 500mg", BatchNumber: "PCM-2026-001", Expiry: expiry(365), Stock: 480, ReorderLevel: 50,
			Country: "Sierra Leone", District: "Bo District", Chiefdom: "Kakua Chiefdom", Facility: "Bo Government Hospital"},
		{Name: "Amoxicillin 250mg", BatchNumber: "AMX-2026-014", Expiry: expiry(20), Stock: 120, ReorderLevel: 30,
			Country: "Sierra Leone", District: "Bo District", Chiefdom: "Tikonko Chiefdom", Facility: "Tikonko PHU"},
		{Name: "ORS Sachets", BatchNumber: "ORS-2025-112", Expiry: expiry(-10), Stock: 60, ReorderLevel: 25,
			Country: "Sierra Leone", District: "Bombali District", Chiefdom: "Makari Gbanti Chiefdom", Facility: "Makeni Gov. Hospital"},
		{Name: "Zinc Sulphate 20mg", BatchNumber: "ZNC-2026-007", Expiry: expiry(180), Stock: 8, ReorderLevel: 15,
			Country: "Sierra Leone", District: "Bombali District", Chiefdom: "Safroko Limba Chiefdom", Facility: "Rokulan PHU"},
		{Name: "Artemether/Lumefantrine", BatchNumber: "ACT-2026-033", Expiry: expiry(90), Stock: 0, ReorderLevel: 40,
			Country: "Sierra Leone", District: "Kenema District", Chiefdom: "Koya Chiefdom", Facility: "Kenema Hospital"},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Services
	auditSvc := auditlog.NewService(auditlog.NewRepoPG(pool), logger)
	medSvc := medicine.NewService(medicine.NewRepoPG(pool), auditSvc)
	identitySvc := identity.NewService(identity.NewRepoPG(pool), cfg.JWTSecret)
	analyticsSvc := analytics.NewService(medSvc)

	if cfg.IsDev() {
		if err := identitySvc.EnsureAdmin(ctx, "admin", "admin123"); err != nil {
			logger.Warn().Err(err).Msg("could not seed development admin")
		} else {
			logger.Info().Msg("development admin account available (admin/admin123)")
		}
	}

	scheduler := alerts.NewScheduler(medSvc, logger)
	medSvc.OnChange(scheduler.Notify)
	defer scheduler.Stop()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M", "16M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(auth.Middleware(cfg.JWTSecret, "/api/v1/auth/login", "/health", "/health/db"))

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Routes
	medicine.NewHandler(medSvc).RegisterRoutes(apiV1)
	auditlog.NewHandler(auditSvc).RegisterRoutes(apiV1)
	identity.NewHandler(identitySvc).RegisterRoutes(apiV1)
	location.NewHandler().RegisterRoutes(apiV1)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(apiV1)
	alerts.NewHandler(scheduler).RegisterRoutes(apiV1)

	if cfg.DHIS2Configured() {
		client := dhis2.NewClient(cfg.DHIS2BaseURL, cfg.DHIS2Username, cfg.DHIS2Password, logger)
		syncer := dhis2.NewSyncer(client, medSvc, auditSvc, cfg.DHIS2DataSet, logger)
		dhis2.NewHandler(syncer).RegisterRoutes(apiV1)
		logger.Info().Str("base_url", cfg.DHIS2BaseURL).Msg("dhis2 sync enabled")
	}

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Prime the alert feed before the first request lands.
	scheduler.Refresh()

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
