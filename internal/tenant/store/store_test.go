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

	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant/store"
)

var tenantColumns = []string{
	"id", "name", "email", "phone", "property_id", "unit", "rent",
	"lease_start", "lease_end", "status", "balance", "application_id",
	"created_at", "updated_at", "deleted_at",
}

func TestStore_GetTenant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	propertyID := uuid.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(tenantColumns).AddRow(
			id.String(), "Jane Doe", "jane@example.com", nil, propertyID.String(), "4B", int64(150000),
			now, nil, "active", int64(0), nil,
			now, nil, nil,
		))

	got, err := store.New(db).GetTenant(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, propertyID, got.PropertyID)
	assert.Equal(t, "", got.Phone)
	assert.Equal(t, tenant.StatusActive, got.Status)
	assert.True(t, got.LeaseEnd.IsZero())
	assert.Nil(t, got.ApplicationID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetTenant_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM tenants").WillReturnRows(sqlmock.NewRows(tenantColumns))

	_, err = store.New(db).GetTenant(context.Background(), uuid.New())
	assert.ErrorIs(t, err, tenant.ErrNotFound)
}

func TestStore_CreateTenant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO tenants").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	tn := &tenant.Tenant{Name: "Jane Doe", PropertyID: uuid.New(), Status: tenant.StatusActive}
	require.NoError(t, store.New(db).CreateTenant(context.Background(), tn))
	assert.Equal(t, id, tn.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateTenant_ApplicationAlreadyConverted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO tenants").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_tenants_application"})

	tn := &tenant.Tenant{Name: "Jane Doe", PropertyID: uuid.New(), ApplicationID: new(uuid.New())}
	err = store.New(db).CreateTenant(context.Background(), tn)
	assert.ErrorIs(t, err, tenant.ErrExists)
}

func TestStore_GetTenantByApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, appID := uuid.New(), uuid.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE application_id = $1 AND deleted_at IS NULL")).
		WithArgs(appID).
		WillReturnRows(sqlmock.NewRows(tenantColumns).AddRow(
			id.String(), "Jane Doe", "jane@example.com", nil, uuid.New().String(), "4B", int64(150000),
			now, nil, "active", int64(0), appID.String(),
			now, nil, nil,
		))

	got, err := store.New(db).GetTenantByApplication(context.Background(), appID)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	require.NotNil(t, got.ApplicationID)
	assert.Equal(t, appID, *got.ApplicationID)

	mock.ExpectQuery("FROM tenants").WillReturnRows(sqlmock.NewRows(tenantColumns))

	_, err = store.New(db).GetTenantByApplication(context.Background(), uuid.New())
	assert.ErrorIs(t, err, tenant.ErrNotFound)
}

func TestStore_UpdateTenant_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE tenants").WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.New(db).UpdateTenant(context.Background(), &tenant.Tenant{ID: uuid.New()})
	assert.ErrorIs(t, err, tenant.ErrNotFound)
}
