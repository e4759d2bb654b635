package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/api/handlers"
	"github.com/pratik-mahalle/trainhub/internal/api/middleware"
	"github.com/pratik-mahalle/trainhub/internal/api/router"
	"github.com/pratik-mahalle/trainhub/internal/config"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/validator"
	"github.com/pratik-mahalle/trainhub/internal/repository/postgres"
	"github.com/pratik-mahalle/trainhub/internal/services"
	"github.com/pratik-mahalle/trainhub/internal/worker"
	"github.com/pratik-mahalle/trainhub/migrations"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const limiterCleanupInterval = time.Minute

// app is the fully wired service
type app struct {
	handler http.Handler
	sweeper *worker.ExpirationSweeper
	limiter *middleware.RateLimiter
}

func newApp(db *sql.DB, cfg *config.Config, log *logger.Logger) *app {
	val := validator.New()

	accountRepo := postgres.NewAccountRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)

	accounts := services.NewAccountService(accountRepo, log)
	plans := services.NewPlanService(planRepo, log)
	orgs := services.NewOrganizationService(orgRepo, log)
	memberships := services.NewMembershipService(postgres.NewMembershipRepository(db), orgRepo, log)
	subscriptions := services.NewSubscriptionService(subRepo, accountRepo, planRepo, log)
	entitlements := services.NewEntitlementService(postgres.NewEntitlementRepository(db), log)

	sweeper := worker.NewExpirationSweeper(subRepo, postgres.NewSweepRunRepository(db), log,
		worker.WithSchedule(cfg.Sweeper.Schedule),
		worker.WithBatchSize(cfg.Sweeper.BatchSize),
	)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(db, log, Version),
		Access:       handlers.NewAccessHandler(entitlements, log, cfg.Server.ContentBaseURL),
		Plan:         handlers.NewPlanHandler(plans, log, val),
		Organization: handlers.NewOrganizationHandler(orgs, memberships, log, val),
		Account:      handlers.NewAccountHandler(accounts, memberships, log),
		Subscription: handlers.NewSubscriptionHandler(subscriptions, accounts, memberships, log, val),
		Sweep:        handlers.NewSweepHandler(sweeper, log),
	}

	return &app{
		handler: router.New(cfg, log, h, entitlements, limiter),
		sweeper: sweeper,
		limiter: limiter,
	}
}

// newLogger builds the service logger and installs it as the global one
func newLogger(cfg *config.Config) *logger.Logger {
	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.SetGlobal(log)
	return log
}

// openDatabase connects and brings the schema up to date
func openDatabase(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	db, err := postgres.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	applied, err := postgres.RunMigrations(db, migrations.GetFS())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		log.With("versions", applied).Info("Applied migrations")
	}
	return db, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the expiration sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg)

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	a := newApp(db, cfg, log)
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      a.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	log.WithFields(map[string]interface{}{
		"version":     Version,
		"addr":        srv.Addr,
		"environment": cfg.Server.Environment,
		"driver":      cfg.Database.Driver,
		"sweeper":     cfg.Sweeper.Enabled,
	}).Info("Starting TrainHub")

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WarnWithErr(err, "Failed to shut down HTTP server cleanly")
		}
		log.Info("HTTP server stopped")
		return nil
	})

	if cfg.Sweeper.Enabled {
		g.Go(func() error {
			return a.sweeper.Start(ctx)
		})
	}

	g.Go(func() error {
		a.limiter.RunCleanup(ctx, limiterCleanupInterval)
		return nil
	})

	return g.Wait()
}
