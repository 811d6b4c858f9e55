package authz

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/httpx"
	"storefront/internal/observability/metrics"
	obsmw "storefront/internal/observability/middleware"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthScheme = errors.New("invalid authorization scheme: expected Bearer")
	ErrEmptyToken        = errors.New("empty bearer token")
)

// Verifier turns a bearer token into claims.
type Verifier interface {
	Verify(token string) (domain.Claims, error)
}

// ExtractBearerToken reads "Authorization: Bearer <token>". The scheme is
// matched exactly.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrInvalidAuthScheme
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

// Authenticate verifies the bearer token and stores its claims in the request
// context. Requests without a valid token never reach next.
func Authenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := obsmw.RequestIDFromContext(r.Context())
			traceID := obsmw.TraceIDFromContext(r.Context())

			token, err := ExtractBearerToken(r)
			if err != nil {
				metrics.AuthzDeniedTotal.WithLabelValues("missing_token").Inc()
				slog.Warn("auth rejected", "reason", err, "request_id", reqID, "trace_id", traceID)
				httpx.WriteError(w, r, domain.ErrUnauthenticated)
				return
			}
			claims, err := v.Verify(token)
			if err != nil {
				metrics.AuthzDeniedTotal.WithLabelValues("invalid_token").Inc()
				slog.Warn("auth rejected", "reason", "invalid token", "request_id", reqID, "trace_id", traceID)
				httpx.WriteError(w, r, domain.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRoles lets the request through only when the authenticated role is
// one of roles. It must run after Authenticate.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				metrics.AuthzDeniedTotal.WithLabelValues("missing_token").Inc()
				httpx.WriteError(w, r, domain.ErrUnauthenticated)
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				metrics.AuthzDeniedTotal.WithLabelValues("role").Inc()
				slog.Warn("role rejected",
					"user_id", claims.ID,
					"role", claims.Role,
					"request_id", obsmw.RequestIDFromContext(r.Context()),
					"trace_id", obsmw.TraceIDFromContext(r.Context()),
				)
				httpx.WriteError(w, r, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
