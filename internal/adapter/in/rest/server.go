package rest

import (
	"log/slog"
	"net/http"
	"time"

	"yatube/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const DefaultBasePath = "/api/v1"

type Options struct {
	BasePath string

	// RateLimitRPS throttles unsafe requests per client IP; zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int

	Logger *slog.Logger

	// Middleware runs after request logging and before recovery, e.g. metrics.
	Middleware []echo.MiddlewareFunc
}

// NewEcho builds the HTTP router with the API mounted under opts.BasePath.
func NewEcho(h *Handler, opts Options) *echo.Echo {
	if opts.BasePath == "" {
		opts.BasePath = DefaultBasePath
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			ctx := logger.WithLogger(req.Context(), opts.Logger.With("request_id", id))
			c.SetRequest(req.WithContext(ctx))
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		HandleError:  true,
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRoutePath: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.FromContext(c.Request().Context()).Info("request",
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))
	e.Use(opts.Middleware...)
	e.Use(middleware.Recover())

	if opts.RateLimitRPS > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: safeMethod,
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(opts.RateLimitRPS),
				Burst:     opts.RateLimitBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		}))
	}

	h.Register(e.Group(opts.BasePath))
	return e
}

func safeMethod(c echo.Context) bool {
	switch c.Request().Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
