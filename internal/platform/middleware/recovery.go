package middleware

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/hsm/patient-adapter/internal/platform/rpc"
)

// Recovery turns a handler panic into an opaque internal error so the
// connection keeps serving.
func Recovery(logger zerolog.Logger) rpc.Middleware {
	return func(next rpc.HandlerFunc) rpc.HandlerFunc {
		return func(ctx context.Context, req *rpc.Request) (resp interface{}, err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack [4096]byte
					n := runtime.Stack(stack[:], false)

					logger.Error().
						Str("request_id", RequestIDFromContext(ctx)).
						Str("pattern", req.Pattern).
						Str("panic", fmt.Sprintf("%v", r)).
						Str("stack", string(stack[:n])).
						Msg("panic recovered")

					resp = nil
					err = fmt.Errorf("panic in %s: %v", req.Pattern, r)
				}
			}()
			return next(ctx, req)
		}
	}
}
