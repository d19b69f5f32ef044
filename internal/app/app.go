package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"yatube/config"
	"yatube/internal/adapter/in/rest"
	memstore "yatube/internal/adapter/out/storage/inmemory"
	pgstore "yatube/internal/adapter/out/storage/postgres"
	"yatube/internal/auth"
	"yatube/internal/service"
	"yatube/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type App struct {
	cfg  config.Config
	srv  *http.Server
	pool *pgxpool.Pool
}

type storages struct {
	users    service.UserStorage
	groups   service.GroupStorage
	posts    service.PostStorage
	comments service.CommentStorage
	follows  service.FollowStorage
	tx       service.TxManager
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	var (
		st   storages
		pool *pgxpool.Pool
	)

	switch cfg.StorageType {
	case config.StoragePostgres:
		if cfg.Postgres.Migrate {
			applied, err := pgstore.Migrate(cfg.Postgres.GetDSN())
			if err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations checked", "applied", applied)
		}

		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		getter := trmpgx.DefaultCtxGetter
		st = storages{
			users:    pgstore.NewUserStorage(pool, getter),
			groups:   pgstore.NewGroupStorage(pool, getter),
			posts:    pgstore.NewPostStorage(pool, getter),
			comments: pgstore.NewCommentStorage(pool, getter),
			follows:  pgstore.NewFollowStorage(pool, getter),
			tx:       manager.Must(trmpgx.NewDefaultFactory(pool)),
		}

	default:
		store := memstore.NewStore()
		st = storages{
			users:    store,
			groups:   store,
			posts:    store,
			comments: store,
			follows:  store,
			tx:       memstore.TxManager{},
		}
	}

	handler := rest.NewHandler(rest.Services{
		Posts:    service.NewPostService(st.posts, st.groups, st.tx),
		Comments: service.NewCommentService(st.comments, st.posts, st.tx),
		Groups:   service.NewGroupService(st.groups, st.tx),
		Follows:  service.NewFollowService(st.follows, st.users, st.tx),
		Users:    service.NewUserService(st.users, auth.NewBcryptHasher(0)),
	}, auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL), cfg.Auth.EnableSignup)

	metrics := NewMetrics()
	e := rest.NewEcho(handler, rest.Options{
		BasePath:       cfg.HTTP.BasePath,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
		Logger:         log,
		Middleware:     []echo.MiddlewareFunc{metrics.Middleware()},
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType, "base_path", cfg.HTTP.BasePath)
	return &App{cfg: cfg, srv: srv, pool: pool}, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.srv.Handler
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			log.Error("http server shutdown", "error", err)
		}
		a.close()
		return nil

	case err := <-errCh:
		a.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
