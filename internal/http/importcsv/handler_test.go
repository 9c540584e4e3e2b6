package importcsv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tenantry/internal/categorize"
	"github.com/MrJamesThe3rd/tenantry/internal/http/importcsv"
	"github.com/MrJamesThe3rd/tenantry/internal/importer"
	"github.com/MrJamesThe3rd/tenantry/internal/property"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

type mocks struct {
	ledger     *importer.MockLedger
	tenants    *importer.MockTenants
	properties *importer.MockProperties
	categories *importer.MockCategorizer
	repo       *transaction.MockRepository
}

func newRouter(t *testing.T) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		ledger:     importer.NewMockLedger(ctrl),
		tenants:    importer.NewMockTenants(ctrl),
		properties: importer.NewMockProperties(ctrl),
		categories: importer.NewMockCategorizer(ctrl),
		repo:       transaction.NewMockRepository(ctrl),
	}

	svc := importer.NewService(m.ledger, m.tenants, m.properties, m.categories)

	r := chi.NewRouter()
	r.Route("/import", importcsv.NewHandler(svc, transaction.NewService(m.repo)).Routes)

	return r, m
}

func multipartBody(t *testing.T, kind, csv string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if kind != "" {
		require.NoError(t, mw.WriteField("kind", kind))
	}

	fw, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestHandler_Import_Properties(t *testing.T) {
	router, m := newRouter(t)

	m.properties.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p property.CreateParams) (*property.Property, error) {
			return &property.Property{ID: uuid.New(), Name: p.Name}, nil
		}).Times(2)

	body, contentType := multipartBody(t, "", "Property Name,Address,Units\nMaple Court,12 Maple Ave,8\nOak Duplex,4 Oak St,2\n")

	req := httptest.NewRequest(http.MethodPost, "/import/", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got struct {
		Kind     string `json:"kind"`
		Imported int    `json:"imported"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "properties", got.Kind)
	assert.Equal(t, 2, got.Imported)
}

func TestHandler_Import_RowErrors(t *testing.T) {
	router, _ := newRouter(t)

	body, contentType := multipartBody(t, "properties", "Name,Units\n,3\nElm,many\n")

	req := httptest.NewRequest(http.MethodPost, "/import/", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var got struct {
		Details []string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Len(t, got.Details, 2)
}

func TestHandler_Import_TransactionConflicts(t *testing.T) {
	router, m := newRouter(t)

	m.properties.EXPECT().List(gomock.Any()).Return(nil, nil)
	m.tenants.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	m.categories.EXPECT().Suggest(gomock.Any(), gomock.Any()).Return(categorize.Suggestion{}, nil).AnyTimes()

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	m.ledger.EXPECT().ImportBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params []transaction.CreateParams) (*transaction.ImportResult, error) {
			return &transaction.ImportResult{
				New: params[1:],
				Conflicts: []transaction.Conflict{{
					Incoming: params[0],
					Existing: &transaction.Transaction{ID: uuid.New(), Amount: params[0].Amount, Date: date},
				}},
			}, nil
		})

	body, contentType := multipartBody(t, "transactions", "Date,Amount,Description\n2026-09-01,1800,Rent\n2026-09-02,-40,Water\n")

	req := httptest.NewRequest(http.MethodPost, "/import/", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var got struct {
		New       []json.RawMessage `json:"new"`
		Conflicts []json.RawMessage `json:"conflicts"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Len(t, got.New, 1)
	assert.Len(t, got.Conflicts, 1)
}

func TestHandler_Import_MissingFile(t *testing.T) {
	router, _ := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/import/", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Preview(t *testing.T) {
	router, _ := newRouter(t)

	body, contentType := multipartBody(t, "", "Tenant Name;Email;Rent\nJane Doe;jane@example.com;1500\n")

	req := httptest.NewRequest(http.MethodPost, "/import/preview", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got importer.Preview
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, importer.KindTenants, got.Kind)
	assert.Equal(t, 1, got.Rows)
}
