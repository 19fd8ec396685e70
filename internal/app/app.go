package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/backoffice/internal/adapter/gqlapi"
	"github.com/heartmarshall/backoffice/internal/adapter/postgres"
	"github.com/heartmarshall/backoffice/internal/adapter/postgres/snapshot"
	"github.com/heartmarshall/backoffice/internal/auth"
	"github.com/heartmarshall/backoffice/internal/cache"
	"github.com/heartmarshall/backoffice/internal/config"
	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/entity"
	"github.com/heartmarshall/backoffice/internal/lookup"
	"github.com/heartmarshall/backoffice/internal/transport/graphql"
	"github.com/heartmarshall/backoffice/internal/transport/middleware"
	"github.com/heartmarshall/backoffice/internal/upload"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

// App holds the components shared by the commands.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Identity domain.Identity
	Tokens   *auth.JWTManager
	Client   *graphql.Client
	Store    cache.Store
	Registry *workflow.Registry
	Catalog  *entity.Catalog
	Uploader *upload.Uploader
	Names    *lookup.Names

	// Snapshots is nil unless cache.snapshots is enabled.
	Snapshots *snapshot.Repo

	closers []func() error
}

// New wires the application from cfg. The session token, when present, is
// decoded (and verified if a secret is configured) before any request.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: logger}

	a.Tokens = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if cfg.Auth.Token != "" {
		id, err := a.Tokens.Identity(cfg.Auth.Token)
		if err != nil {
			return nil, fmt.Errorf("session token: %w", err)
		}
		a.Identity = id
	}

	a.Client = graphql.NewClient(cfg.API.Endpoint, newHTTPClient(cfg.API, cfg.Auth.Token, logger), logger)

	store, err := a.newStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Store = store

	a.Registry = workflow.NewRegistry()
	a.Catalog = entity.NewCatalog(a.Client, a.Store, a.Registry, a.Identity, cfg.Search.Limit, logger)
	a.Uploader = upload.NewUploader(gqlapi.NewWords(a.Client), a.Registry, upload.Options{
		BatchSize:      cfg.Upload.BatchSize,
		MaxAttempts:    cfg.Upload.MaxAttempts,
		InitialBackoff: cfg.Upload.InitialBackoff,
		MaxBackoff:     cfg.Upload.MaxBackoff,
	}, logger)
	a.Names = lookup.NewNames(gqlapi.New(a.Client, gqlapi.Member))

	logger.Debug("application wired",
		slog.String("version", BuildVersion()),
		slog.String("endpoint", cfg.API.Endpoint),
		slog.String("user", a.Identity.Username),
		slog.Bool("snapshots", cfg.Cache.Snapshots),
	)
	return a, nil
}

// newHTTPClient builds the transport chain. Recovery is outermost so a
// panic anywhere below becomes an error.
func newHTTPClient(cfg config.APIConfig, token string, logger *slog.Logger) *http.Client {
	limiter := middleware.NewRateLimiter(cfg.MaxRequestsPerMinute)
	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.BearerAuth(token),
		middleware.UserAgent(cfg.UserAgent),
		limiter.Limit(),
		middleware.Logger(logger),
	)
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: chain(http.DefaultTransport),
	}
}

func (a *App) newStore(ctx context.Context) (cache.Store, error) {
	mem, err := cache.NewMemoryStore(a.Config.Cache.Capacity)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	if !a.Config.Cache.Snapshots {
		return mem, nil
	}

	if err := postgres.Migrate(ctx, a.Config.Database.DSN); err != nil {
		return nil, fmt.Errorf("snapshots: %w", err)
	}
	pool, err := postgres.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("snapshots: %w", err)
	}
	a.closers = append(a.closers, func() error { pool.Close(); return nil })

	a.Snapshots = snapshot.New(pool, postgres.NewTxManager(pool), a.Config.Cache.Capacity)
	return cache.NewSnapshotStore(mem, a.Snapshots, a.Log), nil
}

// NewMemberSearch creates a debounced member search for a task form in
// projectID.
func (a *App) NewMemberSearch(projectID string, deliver func([]lookup.Option, error)) *lookup.MemberSearch {
	return lookup.NewMemberSearch(
		gqlapi.New(a.Client, gqlapi.Member),
		projectID,
		a.Config.Search.DebounceDelay,
		a.Config.Search.Limit,
		deliver,
		a.Log,
	)
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
