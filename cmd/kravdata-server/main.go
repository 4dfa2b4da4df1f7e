package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kravdata/kravdata/internal/config"
	"github.com/kravdata/kravdata/internal/domain/claim"
	"github.com/kravdata/kravdata/internal/domain/injury"
	"github.com/kravdata/kravdata/internal/domain/medcode"
	"github.com/kravdata/kravdata/internal/domain/provider"
	"github.com/kravdata/kravdata/internal/platform/auth"
	"github.com/kravdata/kravdata/internal/platform/db"
	"github.com/kravdata/kravdata/internal/platform/middleware"
	"github.com/kravdata/kravdata/internal/platform/reporting"
	"github.com/kravdata/kravdata/internal/platform/seed"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kravdata-server",
		Short: "Synthetic claims data service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the claims data API server",
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
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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
		Short: "Regenerate the synthetic dataset (destructive)",
		RunE: func(cmd *cobra.Command, args []string) error {
			seedVal, _ := cmd.Flags().GetInt64("seed")
			claims, _ := cmd.Flags().GetInt("claims")

			logger := newLogger()
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

			seedCfg := seedConfigFrom(cfg)
			if cmd.Flags().Changed("seed") {
				seedCfg.Seed = seedVal
			}
			if cmd.Flags().Changed("claims") {
				seedCfg.Claims = claims
			}

			loader, verifier := buildSeedPipeline(pool, logger)
			report, err := seed.Run(ctx, seedCfg, loader, verifier, time.Now())
			if err != nil {
				return err
			}
			return json.NewEncoder(os.Stdout).Encode(report)
		},
	}
	cmd.Flags().Int64("seed", 0, "Random seed (defaults to SEED_RANDOM_SEED)")
	cmd.Flags().Int("claims", 0, "Number of claims to generate (defaults to SEED_CLAIM_COUNT)")
	return cmd
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "report [monthly-kpi|region-kpi|provider-summary|verification]",
		Short:     "Print a reporting view, or the verification tallies",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"monthly-kpi", "region-kpi", "provider-summary", "verification"},
		RunE: func(cmd *cobra.Command, args []string) error {
			view := "verification"
			if len(args) == 1 {
				view = args[0]
			}

			logger := newLogger()
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

			if view == "verification" {
				_, verifier := buildSeedPipeline(pool, logger)
				report, verifyErr := verifier.Verify(ctx)
				if report != nil {
					if err := json.NewEncoder(os.Stdout).Encode(report); err != nil {
						return err
					}
				}
				return verifyErr
			}
			return printView(ctx, reporting.NewStore(pool), view)
		},
	}
}

func printView(ctx context.Context, store *reporting.Store, view string) error {
	fmtRate := func(r *float64) string {
		if r == nil {
			return "-"
		}
		return fmt.Sprintf("%.3f", *r)
	}
	switch view {
	case "monthly-kpi":
		rows, err := store.MonthlyKPI(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s %8s %8s %9s %9s %14s %10s\n",
			"MONTH", "RECEIVED", "CLOSED", "APPROVAL", "REJECTED", "PAYOUT_NOK", "AVG_DAYS")
		for _, r := range rows {
			fmt.Printf("%-10s %8d %8d %9s %9s %14.2f %10s\n",
				r.Month.Format("2006-01"), r.ClaimsReceived, r.ClosedClaims,
				fmtRate(r.ApprovalRateClosed), fmtRate(r.RejectedRateClosed),
				r.TotalPayoutNOK, fmtRate(r.AvgProcessingDays))
		}
	case "region-kpi":
		rows, err := store.RegionKPI(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%-15s %8s %8s %9s %14s %10s\n",
			"REGION", "TOTAL", "CLOSED", "APPROVAL", "PAYOUT_NOK", "AVG_DAYS")
		for _, r := range rows {
			fmt.Printf("%-15s %8d %8d %9s %14.2f %10s\n",
				r.Region, r.TotalClaims, r.ClosedClaims,
				fmtRate(r.ApprovalRateClosed), r.TotalPayoutNOK, fmtRate(r.AvgProcessingDays))
		}
	case "provider-summary":
		rows, err := store.ProviderSummary(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%-28s %-15s %8s %8s %9s %14s\n",
			"PROVIDER", "REGION", "TOTAL", "CLOSED", "APPROVAL", "PAYOUT_NOK")
		for _, r := range rows {
			fmt.Printf("%-28s %-15s %8d %8d %9s %14.2f\n",
				r.ProviderName, r.ProviderRegion, r.TotalClaims, r.ClosedClaims,
				fmtRate(r.ApprovalRateClosed), r.TotalPayoutNOK)
		}
	default:
		return fmt.Errorf("unknown view %q", view)
	}
	return nil
}

func seedConfigFrom(cfg *config.Config) seed.Config {
	seedCfg := seed.DefaultConfig(cfg.SeedRandomSeed)
	if cfg.SeedClaimCount > 0 {
		seedCfg.Claims = cfg.SeedClaimCount
	}
	if cfg.SeedLookbackDays > 0 {
		seedCfg.LookbackDays = cfg.SeedLookbackDays
	}
	if cfg.SeedProvidersPerReg > 0 {
		seedCfg.ProvidersPerRegion = cfg.SeedProvidersPerReg
	}
	if cfg.SeedCodesPerSystem > 0 {
		seedCfg.CodesPerSystem = cfg.SeedCodesPerSystem
	}
	if cfg.SeedInjuryTypes > 0 {
		seedCfg.InjuryTypes = cfg.SeedInjuryTypes
	}
	return seedCfg
}

func buildSeedPipeline(pool *pgxpool.Pool, logger zerolog.Logger) (*seed.Loader, *seed.Verifier) {
	providers := provider.NewRepo(pool)
	codes := medcode.NewRepo(pool)
	injuries := injury.NewRepo(pool)
	claims := claim.NewRepo(pool)

	loader := seed.NewLoader(pool, providers, codes, injuries, claims, logger)
	verifier := seed.NewVerifier(providers, codes, injuries, claims, logger)
	return loader, verifier
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Open read-only report endpoints.
	store := reporting.NewStore(pool)
	reportHandler := reporting.NewHandler(store, logger)
	reportHandler.RegisterRoutes(e.Group("/reports"))

	// Admin endpoints behind JWT. Development mode with no secret configured
	// leaves them open for local use.
	loader, verifier := buildSeedPipeline(pool, logger)
	seedHandler := seed.NewHandler(loader, verifier, logger)
	adminGroup := e.Group("/admin")
	if cfg.AdminJWTSecret != "" || cfg.AuthJWKSURL != "" {
		adminGroup.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AdminJWTSecret),
		}))
		adminGroup.Use(auth.RequireRole("admin"))
	} else if !cfg.IsDev() {
		logger.Fatal().Msg("admin endpoints require auth configuration outside development")
	} else {
		logger.Warn().Msg("admin endpoints are unauthenticated (development mode)")
	}
	seedHandler.RegisterRoutes(adminGroup)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

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
