package store_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tenantry/internal/message"
	"github.com/MrJamesThe3rd/tenantry/internal/message/store"
)

var messageColumns = []string{
	"id", "tenant_id", "property_id", "unit", "sender", "sender_name", "subject", "body", "type", "status",
	"maintenance", "work_order_id", "reply_to", "read", "approved_at", "created_at",
}

func TestStore_GetMessage_DecodesMaintenance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	now := time.Date(2026, 10, 5, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery("FROM messages WHERE id").WithArgs(id).
		WillReturnRows(sqlmock.NewRows(messageColumns).AddRow(
			id.String(), uuid.NewString(), nil, "4B", "tenant", "Dana Reyes", "Maintenance Request: Leak", "Drip", "maintenance_request", "pending_approval",
			[]byte(`{"title":"Leak","category":"plumbing","priority":"high","photos":["a.jpg"]}`), nil, nil, false, nil, now,
		))

	got, err := store.New(db).GetMessage(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, message.TypeMaintenanceRequest, got.Type)
	assert.Equal(t, message.StatusPendingApproval, got.Status)
	require.NotNil(t, got.Maintenance)
	assert.Equal(t, "Leak", got.Maintenance.Title)
	assert.Equal(t, []string{"a.jpg"}, got.Maintenance.Photos)
	assert.Nil(t, got.WorkOrderID)
}

func TestStore_GetMessage_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("FROM messages WHERE id").WithArgs(id).WillReturnRows(sqlmock.NewRows(messageColumns))

	_, err = store.New(db).GetMessage(context.Background(), id)
	assert.ErrorIs(t, err, message.ErrNotFound)
}

func TestStore_ListMessages_Filters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tenantID := uuid.New()
	typ := message.TypeMaintenanceRequest

	mock.ExpectQuery(regexp.QuoteMeta("WHERE TRUE AND tenant_id = $1 AND type = $2 AND NOT read ORDER BY created_at DESC")).
		WithArgs(tenantID, typ).
		WillReturnRows(sqlmock.NewRows(messageColumns))

	got, err := store.New(db).ListMessages(context.Background(), message.ListFilter{TenantID: &tenantID, Type: &typ, Unread: true})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CountUnread(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sender := message.SenderTenant

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM messages WHERE TRUE AND sender = $1 AND NOT read")).
		WithArgs(sender).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := store.New(db).CountUnread(context.Background(), message.ListFilter{Sender: &sender})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_MarkRead_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE messages SET read = TRUE").WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.New(db).MarkRead(context.Background(), uuid.New())
	assert.ErrorIs(t, err, message.ErrNotFound)
}

func TestStore_ApproveRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, woID := uuid.New(), uuid.New()
	at := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $4 AND status <> $1")).
		WithArgs(message.StatusApproved, woID, at, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.New(db).ApproveRequest(context.Background(), id, woID, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ApproveRequest_AlreadyApproved(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE messages").WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.New(db).ApproveRequest(context.Background(), uuid.New(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, message.ErrAlreadyApproved)
}

func TestStore_CreateMessage_EncodesMaintenance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	m := &message.Message{
		TenantID:    uuid.New(),
		Type:        message.TypeMaintenanceRequest,
		Status:      message.StatusPendingApproval,
		Maintenance: &message.Maintenance{Title: "Leak", Category: "plumbing", Priority: "high"},
	}

	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(m.TenantID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), message.TypeMaintenanceRequest, message.StatusPendingApproval,
			[]byte(`{"title":"Leak","category":"plumbing","priority":"high"}`),
			sqlmock.AnyArg(), sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id.String(), time.Now()))

	require.NoError(t, store.New(db).CreateMessage(context.Background(), m))
	assert.Equal(t, id, m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
