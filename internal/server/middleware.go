package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rshade/pricelens/internal/logging"
)

// HeaderTraceID carries the request trace ID in and out.
const HeaderTraceID = "X-Trace-Id"

// limiterIdleTTL is how long an idle client's limiter is kept.
const limiterIdleTTL = time.Minute

// TraceID puts a trace ID and logger into each request context. An incoming
// X-Trace-Id header is reused; otherwise a new ID is generated. The ID is
// echoed in the response.
func TraceID(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			traceID := req.Header.Get(HeaderTraceID)
			if traceID == "" {
				traceID = logging.NewTraceID()
			}
			ctx := logging.ContextWithTraceID(req.Context(), traceID)
			ctx = logger.WithContext(ctx)
			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(HeaderTraceID, traceID)
			return next(c)
		}
	}
}

// AccessLog logs one line per request.
func AccessLog(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			logger.Info().Ctx(req.Context()).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Str("client_ip", c.RealIP()).
				Dur("duration", time.Since(start)).
				Msg("route accessed")
			return nil
		}
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewRateLimiter allows perSecond requests per client with the given burst.
func NewRateLimiter(perSecond, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether a request from ip may proceed.
func (r *RateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, cl := range r.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(r.clients, key)
		}
	}

	cl, ok := r.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429.
func (r *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !r.Allow(c.RealIP()) {
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
		}
		return next(c)
	}
}
