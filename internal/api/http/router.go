// Package httpapi exposes the nightly run over HTTP for external schedulers.
package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
)

// NightlyService runs and reports nightly runs.
type NightlyService interface {
	Run(ctx context.Context, now time.Time) (model.RunReport, error)
	Report(ctx context.Context, runDate time.Time) (model.RunReport, model.RunStatus, error)
}

// Router builds the echo instance serving the cron endpoints.
type Router struct {
	nightly NightlyService
	secret  string
	logger  *logger.Logger
	now     func() time.Time
}

func NewRouter(nightly NightlyService, secret string, logger *logger.Logger) *Router {
	return &Router{
		nightly: nightly,
		secret:  secret,
		logger:  logger,
		now:     time.Now,
	}
}

// Register returns a configured echo instance.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			r.logger.Info("HTTP request",
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"duration", v.Latency)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	h := &cronHandler{nightly: r.nightly, logger: r.logger, now: r.now}
	cron := e.Group("/api/cron", BearerAuth(r.secret))
	cron.GET("/nightly", h.runNightly)
	cron.GET("/runs/:date", h.getRun)

	return e
}

// BearerAuth requires "Authorization: Bearer <secret>". An empty secret
// rejects every request.
func BearerAuth(secret string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, _ echo.Context) (bool, error) {
			if secret == "" {
				return false, nil
			}
			return subtle.ConstantTimeCompare([]byte(key), []byte(secret)) == 1, nil
		},
		ErrorHandler: func(_ error, _ echo.Context) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		},
	})
}
