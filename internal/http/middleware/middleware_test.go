package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/http/middleware"
)

type fakeParser map[string]*auth.Claims

func (f fakeParser) Parse(token string) (*auth.Claims, error) {
	c, ok := f[token]
	if !ok {
		return nil, auth.ErrUnauthorized
	}

	return c, nil
}

func protected(roles ...auth.Role) http.Handler {
	tenantID := uuid.New()
	parser := fakeParser{
		"manager-token": {Role: auth.RoleManager},
		"tenant-token":  {Role: auth.RoleTenant, TenantID: &tenantID},
	}

	r := chi.NewRouter()
	r.Use(middleware.Authenticate(parser))
	r.With(middleware.RequireRole(roles...)).Get("/", func(w http.ResponseWriter, r *http.Request) {
		claims, _ := auth.FromContext(r.Context())
		w.Write([]byte(claims.Role))
	})

	return r
}

func TestAuthenticate(t *testing.T) {
	type testCase struct {
		name       string
		header     string
		roles      []auth.Role
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{name: "NoHeader", roles: []auth.Role{auth.RoleManager}, wantStatus: http.StatusUnauthorized},
		{name: "NotBearer", header: "Basic abc", roles: []auth.Role{auth.RoleManager}, wantStatus: http.StatusUnauthorized},
		{name: "UnknownToken", header: "Bearer nope", roles: []auth.Role{auth.RoleManager}, wantStatus: http.StatusUnauthorized},
		{name: "Manager", header: "Bearer manager-token", roles: []auth.Role{auth.RoleManager}, wantStatus: http.StatusOK, wantBody: "manager"},
		{name: "TenantOnManagerRoute", header: "Bearer tenant-token", roles: []auth.Role{auth.RoleManager}, wantStatus: http.StatusForbidden},
		{name: "EitherRole", header: "Bearer tenant-token", roles: []auth.Role{auth.RoleManager, auth.RoleTenant}, wantStatus: http.StatusOK, wantBody: "tenant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			protected(tt.roles...).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

type observed struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	calls []observed
}

func (f *fakeRecorder) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, observed{method, route, status})
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	rec := &fakeRecorder{}

	r := chi.NewRouter()
	r.Use(middleware.Metrics(rec))
	r.Get("/tenants/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tenants/"+uuid.NewString(), nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Len(t, rec.calls, 2)
	assert.Equal(t, observed{http.MethodGet, "/tenants/{id}", http.StatusNotFound}, rec.calls[0])
	assert.Equal(t, observed{http.MethodGet, "/ping", http.StatusOK}, rec.calls[1])
}
