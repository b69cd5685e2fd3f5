// Package server publishes the pricing CSV and the derived chart dataset over
// HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/rshade/pricelens/internal/logging"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// PriceSource returns the text of a pricing resource.
type PriceSource interface {
	Load(ctx context.Context, path string) (string, error)
}

// Config controls the server.
type Config struct {
	Addr string
	// DataPath is the resource path of the CSV, e.g. /data/model_prices.csv.
	DataPath string
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit int
	RateBurst int
}

// Server wraps an echo instance serving the pricing endpoints.
type Server struct {
	echo   *echo.Echo
	cfg    Config
	source PriceSource
	logger zerolog.Logger
}

// New builds a server that reads the CSV through source.
func New(cfg Config, source PriceSource, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		cfg:    cfg,
		source: source,
		logger: logging.ComponentLogger(logger, "server"),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(TraceID(s.logger))
	e.Use(AccessLog(s.logger))
	if cfg.RateLimit > 0 {
		e.Use(NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Middleware)
	}

	e.GET("/healthz", s.handleHealth)
	e.GET("/api/prices", s.handlePrices)
	e.GET(s.csvRoute(), s.handleCSV)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Ctx(ctx).Str("addr", s.cfg.Addr).Msg("server listening")
		errCh <- s.echo.Start(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("server shutting down")
		return s.echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) csvRoute() string {
	return path.Clean("/" + strings.TrimPrefix(s.cfg.DataPath, "/"))
}
