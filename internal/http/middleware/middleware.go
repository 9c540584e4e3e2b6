package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate puts the bearer token's claims in the request context and
// rejects requests without a valid token.
func Authenticate(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, r, auth.ErrUnauthorized)
				return
			}

			claims, err := parser.Parse(token)
			if err != nil {
				slog.Warn("rejected token", "path", r.URL.Path, "error", err)
				httputil.WriteError(w, r, err)

				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole lets through only authenticated callers holding one of roles.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.FromContext(r.Context())
			if !ok {
				httputil.WriteError(w, r, auth.ErrUnauthorized)
				return
			}

			if !slices.Contains(roles, claims.Role) {
				httputil.WriteError(w, r, fmt.Errorf("%w: %s role required", httputil.ErrForbidden, roles[0]))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type RequestRecorder interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// Metrics records each request under its chi route pattern, so /tenants/{id}
// is one series rather than one per tenant.
func Metrics(rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			rec.ObserveRequest(r.Method, route, status, time.Since(start))
		})
	}
}
