package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hsm/patient-adapter/internal/platform/apperr"
	"github.com/hsm/patient-adapter/internal/platform/rpc"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserRolesKey contextKey = "user_roles"
)

type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

type TokenConfig struct {
	// SigningKey is the shared HMAC secret. An empty key disables verification.
	SigningKey []byte
	Issuer     string
	Audience   string
}

// Enabled reports whether packets must carry a valid token.
func (c TokenConfig) Enabled() bool {
	return len(c.SigningKey) > 0
}

// TokenMiddleware verifies the HS256 token carried by each request packet and
// stores the subject and roles on the request context. With verification
// disabled every request passes through untouched.
func TokenMiddleware(cfg TokenConfig) rpc.Middleware {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return func(next rpc.HandlerFunc) rpc.HandlerFunc {
		if !cfg.Enabled() {
			return next
		}
		return func(ctx context.Context, req *rpc.Request) (interface{}, error) {
			if req.Token == "" {
				return nil, apperr.Unauthorized("missing token")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(req.Token, claims, func(t *jwt.Token) (interface{}, error) {
				return cfg.SigningKey, nil
			}, opts...)
			if err != nil || !token.Valid {
				return nil, apperr.Unauthorized("invalid token")
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, UserRolesKey, claims.Roles)
			return next(ctx, req)
		}
	}
}

// SignToken issues an HS256 token for subject. Used by the call command and tests.
func SignToken(cfg TokenConfig, subject string, roles ...string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
			Issuer:  cfg.Issuer,
		},
		Roles: roles,
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.SigningKey)
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(UserRolesKey).([]string)
	return roles
}
