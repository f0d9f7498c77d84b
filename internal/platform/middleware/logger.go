package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hsm/patient-adapter/internal/platform/apperr"
	"github.com/hsm/patient-adapter/internal/platform/rpc"
)

// Logger logs one line per dispatched request. Caller-visible failures are
// logged at warn level, everything else that fails at error level.
func Logger(logger zerolog.Logger) rpc.Middleware {
	return func(next rpc.HandlerFunc) rpc.HandlerFunc {
		return func(ctx context.Context, req *rpc.Request) (interface{}, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			evt := logger.Info()
			if err != nil {
				if e, ok := apperr.As(err); ok {
					evt = logger.Warn().Err(err).Int("status", e.StatusCode())
				} else {
					evt = logger.Error().Err(err)
				}
			}

			evt.
				Str("request_id", RequestIDFromContext(ctx)).
				Str("pattern", req.Pattern).
				Bool("event", req.ID == "").
				Dur("latency", time.Since(start)).
				Msg("request")

			return resp, err
		}
	}
}

// HTTPLogger is the echo counterpart of Logger for the health endpoints.
func HTTPLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			evt := logger.Debug()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("http request")

			return err
		}
	}
}
