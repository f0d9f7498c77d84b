package middleware

import (
	"context"
	"time"

	"github.com/hsm/patient-adapter/internal/platform/rpc"
)

// RequestTimeout bounds every request with a context deadline. Handlers pass
// the context down to the database, so an expired deadline surfaces as a
// query error. A zero timeout disables the middleware.
func RequestTimeout(timeout time.Duration) rpc.Middleware {
	return func(next rpc.HandlerFunc) rpc.HandlerFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, req *rpc.Request) (interface{}, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, req)
		}
	}
}
