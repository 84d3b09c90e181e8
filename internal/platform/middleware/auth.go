package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"campus/internal/platform/metrics"
	"campus/internal/token"
)

// TokenVerifier defines the interface for validating bearer tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type claimsKey struct{}

// GetClaims retrieves the authenticated caller's claims from the context.
// Returns nil when the request did not pass through RequireAuth.
func GetClaims(ctx context.Context) *token.Claims {
	claims, ok := ctx.Value(claimsKey{}).(*token.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequireAuth verifies the Authorization bearer token and stores the derived
// claims in the request context. Missing header, wrong scheme, bad signature,
// and expired tokens all answer 401 before any handler logic runs.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized - missing or malformed Authorization header",
					"request_id", GetRequestID(ctx),
				)
				m.IncAuthFailure()
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				m.IncAuthFailure()
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole authorizes the authenticated caller against a role set with OR
// semantics: the request passes if the credential's role is a member. Some
// read endpoints deliberately accept a second role so a peer service can
// forward a narrower caller's token for an existence check.
func RequireRole(logger *slog.Logger, m *metrics.Metrics, allowed ...token.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims := GetClaims(ctx)
			if claims == nil {
				// RequireAuth was not mounted ahead of us; fail closed.
				logger.ErrorContext(ctx, "claims missing from context despite role gate",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			for _, role := range allowed {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.WarnContext(ctx, "forbidden - role not allowed",
				"role", string(claims.Role),
				"subject", claims.Subject,
				"request_id", GetRequestID(ctx),
			)
			m.IncAuthFailure()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"Role not permitted for this endpoint"}`))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
