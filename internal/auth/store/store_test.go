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

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/auth/store"
)

func TestStore_SaveCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := &auth.LoginCode{
		TenantID:  uuid.New(),
		Hash:      []byte{0x01, 0x02},
		ExpiresAt: time.Date(2026, 10, 18, 12, 15, 0, 0, time.UTC),
	}

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (tenant_id) DO UPDATE")).
		WithArgs(c.TenantID, c.Hash, c.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.New(db).SaveCode(context.Background(), c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ClaimCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tenantID := uuid.New()
	expires := time.Date(2026, 10, 18, 12, 15, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE login_codes SET attempts = attempts + 1")).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"code_hash", "expires_at", "attempts"}).
			AddRow([]byte{0xab}, expires, 2))

	got, err := store.New(db).ClaimCode(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, tenantID, got.TenantID)
	assert.Equal(t, []byte{0xab}, got.Hash)
	assert.Equal(t, expires, got.ExpiresAt)
	assert.Equal(t, 2, got.Attempts)
}

func TestStore_ClaimCode_None(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("UPDATE login_codes").
		WillReturnRows(sqlmock.NewRows([]string{"code_hash", "expires_at", "attempts"}))

	_, err = store.New(db).ClaimCode(context.Background(), uuid.New())
	assert.ErrorIs(t, err, auth.ErrNoCode)
}

func TestStore_DeleteCode(t *testing.T) {
	type testCase struct {
		name     string
		affected int64
		wantErr  error
	}

	tests := []testCase{
		{name: "Consumed", affected: 1},
		{name: "AlreadyUsed", affected: 0, wantErr: auth.ErrNoCode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tenantID := uuid.New()
			hash := []byte{0xcd}

			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM login_codes WHERE tenant_id = $1 AND code_hash = $2")).
				WithArgs(tenantID, hash).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			err = store.New(db).DeleteCode(context.Background(), tenantID, hash)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}
