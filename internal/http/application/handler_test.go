package application_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
	handler "github.com/MrJamesThe3rd/tenantry/internal/http/application"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
)

func newRouter(t *testing.T) (http.Handler, *application.MockRepository, *application.MockTenantCreator) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := application.NewMockRepository(ctrl)
	tenants := application.NewMockTenantCreator(ctrl)

	r := chi.NewRouter()
	r.Route("/applications", handler.NewHandler(application.NewService(repo, tenants)).Routes)

	return r, repo, tenants
}

const validBody = `{
	"firstName": "Dana", "lastName": "Reyes", "email": "Dana@Example.com", "phone": "555-0100",
	"dateOfBirth": "1990-04-02", "propertyId": "%s", "desiredUnit": "4B",
	"desiredMoveInDate": "2026-11-01T00:00:00Z", "leaseTerm": 12,
	"currentEmployer": "Acme", "monthlyIncome": 6000,
	"additionalIncome": [{"source": "Freelance", "monthlyAmount": 500}],
	"currentAddress": {"street": "1 Main St", "city": "Springfield", "state": "IL", "zip": "62701"},
	"emergencyContact": {"name": "Sam Reyes", "phone": "555-0101"},
	"backgroundCheckConsent": true, "creditCheckConsent": true, "consentSignature": "Dana Reyes"
}`

func TestHandler_Create(t *testing.T) {
	router, repo, _ := newRouter(t)
	propertyID := uuid.New()

	repo.EXPECT().CreateApplication(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *application.Application) error {
			a.ID = uuid.New()
			return nil
		})

	body := strings.Replace(validBody, "%s", propertyID.String(), 1)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/applications/", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "submitted", got["status"])
	assert.Equal(t, "dana@example.com", got["email"])
	assert.Equal(t, 6500.0, got["totalMonthlyIncome"])
	assert.Equal(t, true, got["complete"])
}

func TestHandler_Create_Invalid(t *testing.T) {
	router, _, _ := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/applications/", strings.NewReader(`{"firstName": "Dana"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Last name is required")
}

func TestHandler_Validate(t *testing.T) {
	router, _, _ := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/applications/validate", strings.NewReader(`{"firstName": "Dana"}`)))

	require.Equal(t, http.StatusOK, w.Code)

	var got application.ValidationResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.False(t, got.Valid)
	assert.Contains(t, got.Errors, "Electronic signature is required")
}

func TestHandler_UpdateStatus(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name       string
		current    application.Status
		body       string
		wantStatus int
	}

	tests := []testCase{
		{name: "Forward", current: application.StatusSubmitted, body: `{"status": "screening"}`, wantStatus: http.StatusOK},
		{name: "Backward", current: application.StatusApproved, body: `{"status": "submitted"}`, wantStatus: http.StatusConflict},
		{name: "FromWithdrawn", current: application.StatusWithdrawn, body: `{"status": "approved"}`, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo, _ := newRouter(t)

			repo.EXPECT().GetApplication(gomock.Any(), id).Return(&application.Application{ID: id, Status: tt.current}, nil)

			if tt.wantStatus == http.StatusOK {
				repo.EXPECT().UpdateApplication(gomock.Any(), gomock.Any()).Return(nil)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/applications/"+id.String()+"/status", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	router, repo, _ := newRouter(t)
	id := uuid.New()

	repo.EXPECT().GetApplication(gomock.Any(), id).Return(nil, application.ErrNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/applications/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Get_BadID(t *testing.T) {
	router, _, _ := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/applications/nope", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Convert(t *testing.T) {
	id := uuid.New()

	t.Run("Approved", func(t *testing.T) {
		router, repo, tenants := newRouter(t)

		repo.EXPECT().GetApplication(gomock.Any(), id).
			Return(&application.Application{ID: id, Status: application.StatusApproved, FirstName: "Dana", LastName: "Reyes", MonthlyIncome: 6000}, nil)
		tenants.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p tenant.CreateParams) (*tenant.Tenant, error) {
				assert.Equal(t, int64(180000), p.Rent)
				return &tenant.Tenant{ID: uuid.New(), Name: p.Name, Rent: p.Rent, Status: p.Status}, nil
			})
		repo.EXPECT().UpdateApplication(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/applications/"+id.String()+"/convert", strings.NewReader(`{"rent": 1800}`)))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"name":"Dana Reyes"`)
	})

	t.Run("NotApproved", func(t *testing.T) {
		router, repo, _ := newRouter(t)

		repo.EXPECT().GetApplication(gomock.Any(), id).Return(&application.Application{ID: id, Status: application.StatusScreening}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/applications/"+id.String()+"/convert", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
