package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/custody/internal/custody/http"
	"github.com/aussiebroadwan/custody/internal/custody/metrics"
	"github.com/aussiebroadwan/custody/internal/custody/revocation"
	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/pkg/cryptox"
	"github.com/aussiebroadwan/custody/pkg/jwtx"
	"github.com/aussiebroadwan/custody/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application holds the custody service and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db          *store.DocStore
	revocations revocation.Set
	metrics     *metrics.Metrics
	signer      jwtx.Signer
	verifier    jwtx.Verifier

	userService         *service.UserService
	sessionService      *service.SessionService
	ledgerService       *service.LedgerService
	requestService      *service.RequestService
	activityService     *service.ActivityService
	provisionService    *service.ProvisionService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "custody",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates an Application with all dependencies initialised.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:     cfg,
		logger:  NewLogger(cfg),
		metrics: metrics.New(),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	ctx := slogx.WithContext(context.Background(), app.logger)

	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	app.db = db
	app.logger.Info("store opened", "driver", cfg.StoreDriver, "file", cfg.DatabaseFile)

	rev, err := OpenRevocations(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open revocation set: %w", err)
	}
	app.revocations = rev
	app.logger.Info("revocation set ready", "backend", cfg.RevocationBackend)

	signer, verifier, err := InitSessionKeys(cfg, app.logger)
	if err != nil {
		app.closeBackends()
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.signer, app.verifier = signer, verifier

	app.initServices()

	if cfg.SeedOnStart {
		if err := app.seedIfEmpty(ctx); err != nil {
			app.closeBackends()
			return nil, err
		}
	}

	app.initHTTP()

	return app, nil
}

// Handler returns the HTTP handler, for tests that do not need a listener.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("custody service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			app.closeBackends()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, then stops the worker and closes the
// store and revocation backend.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down custody service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeBackends(); err != nil {
		return err
	}

	app.logger.Info("custody service stopped")
	return nil
}

func (app *Application) closeBackends() error {
	var errs []error
	if app.revocations != nil {
		if err := app.revocations.Close(); err != nil {
			app.logger.Error("error closing revocation set", "error", err)
			errs = append(errs, err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db}
	app.sessionService = &service.SessionService{
		Users:       app.userService,
		Signer:      app.signer,
		Verifier:    app.verifier,
		Issuer:      app.cfg.SessionIssuer,
		TTL:         app.cfg.SessionTTL,
		Revocations: app.revocations,
		Metrics:     app.metrics,
	}
	app.ledgerService = &service.LedgerService{Store: app.db, Metrics: app.metrics}
	app.requestService = &service.RequestService{Store: app.db, Metrics: app.metrics}
	app.activityService = &service.ActivityService{Store: app.db, Metrics: app.metrics}
	app.provisionService = &service.ProvisionService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.revocations,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) seedIfEmpty(ctx context.Context) error {
	done, err := app.provisionService.Provisioned(ctx)
	if err != nil {
		return fmt.Errorf("check provisioning: %w", err)
	}
	if done {
		app.logger.Info("store already provisioned, skipping seed")
		return nil
	}

	roster, err := LoadRosterOrDefault(app.cfg.RosterFile)
	if err != nil {
		return err
	}
	if _, err := app.provisionService.Seed(ctx, roster); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.SessionService = app.sessionService
	router.LedgerService = app.ledgerService
	router.RequestService = app.requestService
	router.ActivityService = app.activityService
	router.Metrics = app.metrics
	router.SecureCookie = app.cfg.CookieSecure
	if p, ok := app.revocations.(httpapi.Pinger); ok {
		router.Revocations = p
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
