package dashboard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
	"github.com/MrJamesThe3rd/tenantry/internal/dashboard"
	handler "github.com/MrJamesThe3rd/tenantry/internal/http/dashboard"
	"github.com/MrJamesThe3rd/tenantry/internal/property"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

func TestHandler_Refresh(t *testing.T) {
	ctrl := gomock.NewController(t)

	properties := dashboard.NewMockProperties(ctrl)
	tenants := dashboard.NewMockTenants(ctrl)
	ledger := dashboard.NewMockLedger(ctrl)
	workOrders := dashboard.NewMockWorkOrders(ctrl)
	applications := dashboard.NewMockApplications(ctrl)
	messages := dashboard.NewMockMessages(ctrl)
	c := dashboard.NewMockCache(ctrl)

	gomock.InOrder(
		c.EXPECT().Delete(gomock.Any(), "dashboard:stats").Return(nil),
		c.EXPECT().Get(gomock.Any(), "dashboard:stats", gomock.Any()).Return(false, nil),
		c.EXPECT().Set(gomock.Any(), "dashboard:stats", gomock.Any(), time.Minute).Return(nil),
	)

	properties.EXPECT().List(gomock.Any()).Return([]*property.Property{{Units: 4, Occupied: 3}}, nil)
	tenants.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	ledger.EXPECT().MonthlyRevenue(gomock.Any(), gomock.Any()).Return(int64(420000), nil)
	workOrders.EXPECT().Counts(gomock.Any()).Return(workorder.Counts{Pending: 2}, nil)
	applications.EXPECT().Stats(gomock.Any()).Return(application.Stats{}, nil)
	messages.EXPECT().UnreadCount(gomock.Any(), gomock.Any()).Return(1, nil)

	svc := dashboard.NewService(dashboard.Sources{
		Properties:   properties,
		Tenants:      tenants,
		Ledger:       ledger,
		WorkOrders:   workOrders,
		Applications: applications,
		Messages:     messages,
	}, c, time.Minute)

	r := chi.NewRouter()
	r.Route("/dashboard", handler.NewHandler(svc).Routes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/dashboard/refresh", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got dashboard.Stats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 75.0, got.OccupancyRate)
	assert.Equal(t, int64(420000), got.MonthlyRevenue)
	assert.Equal(t, 2, got.PendingWorkOrders)
	assert.Equal(t, 1, got.UnreadMessages)
}
