package screening_test

import (
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

	handler "github.com/MrJamesThe3rd/tenantry/internal/http/screening"
	"github.com/MrJamesThe3rd/tenantry/internal/screening"
)

func newRouter(t *testing.T) (http.Handler, *screening.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := screening.NewMockRepository(ctrl)
	apps := screening.NewMockApplications(ctrl)

	r := chi.NewRouter()
	r.Route("/screenings", handler.NewHandler(screening.NewService(repo, apps)).Routes)

	return r, repo
}

type response struct {
	OverallScore         int      `json:"overallScore"`
	Recommendation       string   `json:"recommendation"`
	Conditions           []string `json:"conditions"`
	CompletionPercentage int      `json:"completionPercentage"`
}

func TestHandler_Preview(t *testing.T) {
	router, _ := newRouter(t)

	body := `{
		"creditCheck": {"status": "completed", "creditScore": 600},
		"backgroundCheck": {"status": "completed", "result": "clear"}
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/screenings/preview", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	// 100 - 20 for a score under 620 - 20 for unverified income
	assert.Equal(t, 60, got.OverallScore)
	assert.Equal(t, "conditional", got.Recommendation)
	assert.Equal(t, 33, got.CompletionPercentage)
	assert.NotEmpty(t, got.Conditions)
}

func TestHandler_Update_Finalized(t *testing.T) {
	router, repo := newRouter(t)
	id := uuid.New()

	repo.EXPECT().GetScreening(gomock.Any(), id).Return(&screening.Screening{ID: id, Status: screening.StatusCompleted}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/screenings/"+id.String(), strings.NewReader(`{"creditCheck": {"creditScore": 720}}`)))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_Complete_Incomplete(t *testing.T) {
	router, repo := newRouter(t)
	id := uuid.New()

	s := screening.New(uuid.New())
	s.ID = id
	s.Status = screening.StatusInProgress

	repo.EXPECT().GetScreening(gomock.Any(), id).Return(&s, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/screenings/"+id.String()+"/complete", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "0% done")
}

func TestHandler_Decide_UnknownDecision(t *testing.T) {
	router, _ := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/screenings/"+uuid.NewString()+"/decision", strings.NewReader(`{"decision": "maybe"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
