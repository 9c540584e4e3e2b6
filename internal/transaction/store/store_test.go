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

	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction/store"
)

var transactionColumns = []string{
	"id", "amount", "type", "status", "category", "description", "raw_description", "date",
	"property_id", "tenant_id", "unit", "receipt_id", "receipt_url", "receipt_created_at",
	"created_at", "updated_at", "deleted_at",
}

func TestStore_GetTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, propertyID, receiptID := uuid.New(), uuid.New(), uuid.New()
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN receipts r ON t.receipt_id = r.id")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(transactionColumns).AddRow(
			id.String(), int64(9900), "expense", "completed", "Utilities", "Water", "CITY WATER", date,
			propertyID.String(), nil, "", receiptID.String(), "https://files.example.com/r.pdf", date,
			date, nil, nil,
		))

	got, err := store.New(db).GetTransaction(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, transaction.TypeExpense, got.Type)
	assert.Equal(t, &propertyID, got.PropertyID)
	assert.Nil(t, got.TenantID)
	require.NotNil(t, got.Receipt)
	assert.Equal(t, receiptID, got.Receipt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetTransaction_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("FROM transactions t").WithArgs(id).WillReturnRows(sqlmock.NewRows(transactionColumns))

	_, err = store.New(db).GetTransaction(context.Background(), id)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_ListTransactions_Filters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	propertyID := uuid.New()
	typ := transaction.TypeIncome
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("AND t.type = $1 AND t.property_id = $2 AND t.date >= $3 ORDER BY t.date DESC")).
		WithArgs(typ, propertyID, start).
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	got, err := store.New(db).ListTransactions(context.Background(), transaction.ListFilter{
		Type:       &typ,
		PropertyID: &propertyID,
		StartDate:  &start,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SumByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SUM(t.amount) FILTER (WHERE t.type = 'income')")).
		WillReturnRows(sqlmock.NewRows([]string{"income", "expense"}).AddRow(int64(500000), int64(120000)))

	got, err := store.New(db).SumByType(context.Background(), transaction.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, transaction.Totals{Income: 500000, Expense: 120000}, got)
}

func TestStore_DeleteTransaction_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE transactions SET deleted_at").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.New(db).DeleteTransaction(context.Background(), id)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_AttachReceipt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id, receiptID := uuid.New(), uuid.New()
	url := "https://files.example.com/r.pdf"

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO receipts").WithArgs(url).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(receiptID.String()))
	mock.ExpectExec("UPDATE transactions").WithArgs(receiptID, transaction.StatusCompleted, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.New(db).AttachReceipt(context.Background(), id, url))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ImportDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	dupID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("AND t.date >= \\$1 AND t.date <= \\$2").
		WithArgs(date, date).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(dupID.String(), int64(2500), "expense", "completed", "", "Fee", "BANK FEE", date,
				nil, nil, "", nil, nil, nil, date, nil, nil).
			AddRow(uuid.NewString(), int64(2600), "expense", "completed", "", "Fee", "BANK FEE", date,
				nil, nil, "", nil, nil, nil, date, nil, nil))
	mock.ExpectRollback()

	itx, err := store.New(db).BeginImport(context.Background(), date, date)
	require.NoError(t, err)

	dups, err := itx.FindDuplicates(context.Background(), []transaction.CreateParams{
		{Amount: 2500, Type: transaction.TypeExpense, RawDescription: "bank fee", Date: date},
	})
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Equal(t, dupID, dups[0].ID)
	assert.Nil(t, dups[0].Receipt)

	require.NoError(t, itx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
