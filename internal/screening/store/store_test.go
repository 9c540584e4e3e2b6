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

	"github.com/MrJamesThe3rd/tenantry/internal/screening"
	"github.com/MrJamesThe3rd/tenantry/internal/screening/store"
)

var screeningColumns = []string{
	"id", "application_id", "status",
	"background_check", "credit_check", "employment_verification", "rental_history",
	"reference_checks", "document_review", "income_verification", "conditions",
	"overall_score", "recommendation", "recommendation_reason",
	"reviewed_by", "reviewed_date",
	"decision", "decision_date", "decision_reason", "decision_by",
	"adverse_action_required", "adverse_action_sent_date",
	"created_at", "updated_at",
}

func TestStore_GetScreeningByApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	applicationID := uuid.New()
	now := time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM screenings WHERE application_id = $1")).
		WithArgs(applicationID).
		WillReturnRows(sqlmock.NewRows(screeningColumns).AddRow(
			id.String(), applicationID.String(), "in_progress",
			[]byte(`{"status":"completed","result":"clear"}`),
			[]byte(`{"status":"completed","creditScore":0,"collections":true}`),
			[]byte(`{"status":"in_progress","employerConfirmed":true}`),
			[]byte(`{"status":"not_started","paidOnTime":false,"leaseViolations":null}`),
			[]byte(`[]`),
			[]byte(`{"idVerified":true}`),
			[]byte(`{"monthlyIncome":4000,"proposedRent":1000,"rentToIncomeRatio":25,"meetsRequirements":true}`),
			[]byte(`["Increase security deposit"]`),
			60, "conditional", "Application has some concerns but may be acceptable with conditions.",
			nil, nil,
			"", nil, "", nil,
			false, nil,
			now, now,
		))

	got, err := store.New(db).GetScreeningByApplication(context.Background(), applicationID)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, screening.StatusInProgress, got.Status)
	assert.Equal(t, screening.BackgroundClear, got.BackgroundCheck.Result)
	require.NotNil(t, got.CreditCheck.CreditScore)
	assert.Equal(t, 0, *got.CreditCheck.CreditScore)
	require.NotNil(t, got.RentalHistory.PaidOnTime)
	assert.False(t, *got.RentalHistory.PaidOnTime)
	assert.Nil(t, got.RentalHistory.WouldRentAgain)
	assert.NotNil(t, got.RentalHistory.LeaseViolations)
	assert.True(t, got.IncomeVerification.MeetsRequirements)
	assert.Equal(t, []string{"Increase security deposit"}, got.Conditions)
	assert.Equal(t, screening.RecommendConditional, got.Recommendation)
	assert.Empty(t, got.Decision)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetScreening_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM screenings").WillReturnRows(sqlmock.NewRows(screeningColumns))

	_, err = store.New(db).GetScreening(context.Background(), uuid.New())
	assert.ErrorIs(t, err, screening.ErrNotFound)
}

func TestStore_CreateScreening(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	now := time.Now()
	s := screening.Parse(screening.Patch{ApplicationID: new(uuid.New())})

	mock.ExpectQuery("INSERT INTO screenings").
		WithArgs(s.ApplicationID, "not_started",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			[]byte(`[]`), sqlmock.AnyArg(), sqlmock.AnyArg(), []byte(`[]`),
			80, "approve", "Strong application with minimal risk factors.", false,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	require.NoError(t, store.New(db).CreateScreening(context.Background(), &s))
	assert.Equal(t, id, s.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateScreening_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE screenings").WillReturnResult(sqlmock.NewResult(0, 0))

	s := screening.New(uuid.New())
	err = store.New(db).UpdateScreening(context.Background(), &s)
	assert.ErrorIs(t, err, screening.ErrNotFound)
}
