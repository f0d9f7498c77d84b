package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/hsm/patient-adapter/internal/platform/rpc"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestID stores a per-request id on the context. Requests use their packet
// id; events, which carry none, get a fresh UUID.
func RequestID() rpc.Middleware {
	return func(next rpc.HandlerFunc) rpc.HandlerFunc {
		return func(ctx context.Context, req *rpc.Request) (interface{}, error) {
			rid := req.ID
			if rid == "" {
				rid = uuid.New().String()
			}
			return next(context.WithValue(ctx, requestIDKey, rid), req)
		}
	}
}

func RequestIDFromContext(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey).(string)
	return rid
}
