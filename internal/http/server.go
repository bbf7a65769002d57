package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vitalya-dev/tickethub/internal/config"
	"github.com/vitalya-dev/tickethub/internal/http/middleware"
	"github.com/vitalya-dev/tickethub/internal/metrics"
	"github.com/vitalya-dev/tickethub/internal/notify"
	"github.com/vitalya-dev/tickethub/internal/repository"
)

type Server struct{ e *echo.Echo }

// NewServer wires the web-form intake, the token decode endpoint, and the
// delivery report. chDB and rds are optional: without ClickHouse the report
// route is absent, without Redis the rate limiter passes everything.
func NewServer(cfg config.Config, chDB *sqlx.DB, rds *redis.Client, pub notify.Publisher) *Server {
	var deliveries repository.DeliveriesRepository
	if chDB != nil {
		deliveries = repository.NewDeliveriesRepository(chDB)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.APIKeyMiddleware(cfg.APIKeys)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:intake:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/v1", authMW, rlMW)
	v1.POST("/tickets", submitTicketHandler(notify.Composer{}, pub, deliveries, cfg.Location()))
	v1.POST("/tokens/decode", decodeTokenHandler())
	if deliveries != nil {
		v1.GET("/reports/notifications", listDeliveriesHandler(deliveries))
	}

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
