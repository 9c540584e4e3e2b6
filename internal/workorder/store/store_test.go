package store_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder/store"
)

var workOrderColumns = []string{
	"id", "title", "description", "property_id", "tenant_id", "unit", "category", "priority", "status",
	"assigned_to", "estimated_cost", "actual_cost", "due_date", "submitted_date", "completed_date",
	"created_at", "updated_at", "deleted_at", "request_id",
}

func TestStore_ListWorkOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tenantID := uuid.New()
	status := workorder.StatusOpen
	now := time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("AND tenant_id = $1 AND status = $2 ORDER BY CASE priority")).
		WithArgs(tenantID, status).
		WillReturnRows(sqlmock.NewRows(workOrderColumns).AddRow(
			uuid.NewString(), "No heat", "Radiator cold", uuid.NewString(), tenantID.String(), "3C", "Heating", "urgent", "open",
			"", int64(0), int64(0), nil, now, nil,
			now, nil, nil, nil,
		))

	got, err := store.New(db).ListWorkOrders(context.Background(), workorder.ListFilter{TenantID: &tenantID, Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, workorder.PriorityUrgent, got[0].Priority)
	assert.Equal(t, &tenantID, got[0].TenantID)
	assert.Nil(t, got[0].CompletedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetWorkOrder_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("FROM work_orders WHERE id").WithArgs(id).WillReturnRows(sqlmock.NewRows(workOrderColumns))

	_, err = store.New(db).GetWorkOrder(context.Background(), id)
	assert.ErrorIs(t, err, workorder.ErrNotFound)
}

func TestStore_UpdateWorkOrder_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE work_orders").WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.New(db).UpdateWorkOrder(context.Background(), &workorder.WorkOrder{ID: uuid.New()})
	assert.ErrorIs(t, err, workorder.ErrNotFound)
}

func TestStore_CountActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE priority = 'urgent')")).
		WillReturnRows(sqlmock.NewRows([]string{"pending", "urgent"}).AddRow(7, 2))

	got, err := store.New(db).CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, workorder.Counts{Pending: 7, Urgent: 2}, got)
}

func TestStore_GetWorkOrderByRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	requestID := uuid.New()
	now := time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM work_orders WHERE request_id = $1 AND deleted_at IS NULL")).
		WithArgs(requestID).
		WillReturnRows(sqlmock.NewRows(workOrderColumns).AddRow(
			uuid.NewString(), "Leaking tap", "", uuid.NewString(), nil, "2A", "Plumbing", "medium", "open",
			"", int64(0), int64(0), nil, now, nil,
			now, nil, nil, requestID.String(),
		))

	got, err := store.New(db).GetWorkOrderByRequest(context.Background(), requestID)
	require.NoError(t, err)
	assert.Equal(t, &requestID, got.RequestID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateWorkOrder_RequestAlreadyApproved(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO work_orders").WillReturnError(&pgconn.PgError{Code: "23505"})

	w := &workorder.WorkOrder{Title: "Leaking tap", PropertyID: uuid.New(), RequestID: new(uuid.New())}
	err = store.New(db).CreateWorkOrder(context.Background(), w)
	assert.ErrorIs(t, err, workorder.ErrExists)
}
