package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/coffee-shop/auth0"
	"github.com/upb/coffee-shop/config"
	"github.com/upb/coffee-shop/middleware"
	"github.com/upb/coffee-shop/repositories"
	"github.com/upb/coffee-shop/repositories/postgres"
	"github.com/upb/coffee-shop/services/drinks"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Drinks    repositories.DrinkRepository
	TxManager repositories.TransactionManager

	// Services
	DrinkService *drinks.DrinkService

	// Auth
	Verifier       *auth0.Verifier
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies opens the database described by cfg and wires up all
// application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := newDependencies(ctx, cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// NewDependenciesWithDB wires all dependencies around an already opened pool
func NewDependenciesWithDB(ctx context.Context, cfg *config.Config, db *postgres.DB, logger *zap.Logger) (*Dependencies, error) {
	return newDependencies(ctx, cfg, postgres.NewRepositoryFactoryFromDB(db, logger), logger)
}

func newDependencies(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	if err := deps.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initServices()
	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initSchema creates the drinks table, or drops and reseeds it when
// DB_RESET_ON_START is set
func (d *Dependencies) initSchema(ctx context.Context) error {
	if d.Config.Database.ResetOnStart {
		d.Logger.Warn("resetting drinks table, all records will be lost")
	}
	return d.RepoFactory.PrepareSchema(ctx, d.Config.Database.ResetOnStart)
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Drinks = repos.Drinks
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.DrinkService = drinks.NewDrinkService(d.Drinks, d.TxManager, d.Logger)
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.Auth0.Domain == "" {
		d.Logger.Warn("auth0 not configured, protected endpoints will reject every request")
		d.AuthMiddleware = middleware.NewAuthMiddleware(rejectAllValidator{}, d.Logger)
		return
	}

	d.Verifier = auth0.NewVerifier(auth0.Config{
		Domain:          cfg.Auth0.Domain,
		Audience:        cfg.Auth0.Audience,
		Algorithms:      cfg.Auth0.Algorithms,
		CacheTTL:        cfg.Auth0.JWKSCacheTTL,
		RefreshInterval: cfg.Auth0.JWKSRefreshInterval,
		HTTPTimeout:     cfg.Auth0.HTTPTimeout,
		JWKSURL:         cfg.Auth0.JWKSURL(),
	})
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Verifier, d.Logger)

	d.Logger.Info("auth0 verifier initialized",
		zap.String("issuer", cfg.Auth0.Issuer()),
		zap.String("audience", cfg.Auth0.Audience),
		zap.Strings("algorithms", cfg.Auth0.Algorithms))
}

// errAuthNotConfigured is returned for every token when no tenant is set
var errAuthNotConfigured = errors.New("authentication not configured")

// rejectAllValidator rejects all tokens (used when Auth0 is not configured)
type rejectAllValidator struct{}

func (rejectAllValidator) ValidateToken(context.Context, string) (auth0.ClaimSet, error) {
	return nil, errAuthNotConfigured
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return errors.Join(errs...)
}
