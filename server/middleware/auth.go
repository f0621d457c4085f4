package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/usehealthifier/healthifier/server/auth"
)

// userClaimsContextKey is the echo context key holding verified claims.
const userClaimsContextKey = "user-claims"

// publicPaths are served without a token.
var publicPaths = map[string]bool{
	"/":                     true,
	"/healthz":              true,
	"/api/v1/auth/register": true,
	"/api/v1/auth/login":    true,
	"/api/v1/auth/refresh":  true,
	"/api/v1/gateway":       true, // the gateway verifies its own token at admission
}

// TokenVerifier is the subset of the signer the middleware needs.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.ClaimsMessage, error)
}

// NewAuthMiddleware returns an echo middleware enforcing bearer access
// tokens on all non-public routes and attaching the verified claims to
// the request context.
func NewAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if publicPaths[c.Path()] {
				return next(c)
			}

			token := extractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid access token")
			}

			c.Set(userClaimsContextKey, claims)
			return next(c)
		}
	}
}

// UserClaimsFrom returns the verified claims attached by the middleware,
// or nil on public routes.
func UserClaimsFrom(c echo.Context) *auth.ClaimsMessage {
	claims, _ := c.Get(userClaimsContextKey).(*auth.ClaimsMessage)
	return claims
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, "Bearer ", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
