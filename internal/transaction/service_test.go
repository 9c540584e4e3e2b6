package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

func TestService_Create(t *testing.T) {
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m *transaction.MockRepository)
		want      *transaction.Transaction
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: transaction.CreateParams{
				Amount:      185000,
				Type:        transaction.TypeIncome,
				Category:    " Rent ",
				Description: "October rent",
				Date:        date,
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						return nil
					})
			},
			want: &transaction.Transaction{
				Amount:         185000,
				Type:           transaction.TypeIncome,
				Status:         transaction.StatusCompleted,
				Category:       "Rent",
				Description:    "October rent",
				RawDescription: "October rent",
				Date:           date,
			},
		},
		{
			name:   "NegativeAmountBecomesExpense",
			params: transaction.CreateParams{Amount: -4250, Description: "Plumber", Date: date},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: &transaction.Transaction{
				Amount:         4250,
				Type:           transaction.TypeExpense,
				Status:         transaction.StatusCompleted,
				Description:    "Plumber",
				RawDescription: "Plumber",
				Date:           date,
			},
		},
		{
			name:    "MissingAmount",
			params:  transaction.CreateParams{Date: date},
			wantErr: transaction.ErrInvalid,
		},
		{
			name:    "UnknownType",
			params:  transaction.CreateParams{Amount: 100, Type: "transfer", Date: date},
			wantErr: transaction.ErrInvalid,
		},
		{
			name:    "MissingDate",
			params:  transaction.CreateParams{Amount: 100},
			wantErr: transaction.ErrInvalid,
		},
		{
			name:   "RepoError",
			params: transaction.CreateParams{Amount: 500, Date: date},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := transaction.NewService(repo).Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, transaction.ErrInvalid) {
					assert.ErrorIs(t, err, transaction.ErrInvalid)
				}

				return
			}

			require.NoError(t, err)

			got.ID = uuid.Nil
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_RecordRent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	tenantID, propertyID := uuid.New(), uuid.New()
	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			assert.Equal(t, transaction.CategoryRent, tx.Category)
			assert.Equal(t, transaction.TypeIncome, tx.Type)
			assert.Equal(t, &tenantID, tx.TenantID)
			assert.Equal(t, &propertyID, tx.PropertyID)
			assert.Equal(t, "2A", tx.Unit)

			return nil
		})

	got, err := transaction.NewService(repo).RecordRent(context.Background(), tenantID, propertyID, "2A", 150000, date)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), got.Signed())
}

func TestService_AttachReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)
	id := uuid.New()

	err := svc.AttachReceipt(context.Background(), id, "  ")
	assert.ErrorIs(t, err, transaction.ErrInvalid)

	repo.EXPECT().AttachReceipt(gomock.Any(), id, "https://files.example.com/r/1.pdf").Return(transaction.ErrNotFound)

	err = svc.AttachReceipt(context.Background(), id, "https://files.example.com/r/1.pdf")
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_List(t *testing.T) {
	propertyID := uuid.New()

	type testCase struct {
		name      string
		filter    transaction.ListFilter
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			filter: transaction.ListFilter{PropertyID: &propertyID},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{PropertyID: &propertyID}).
					Return([]*transaction.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := transaction.NewService(repo).List(context.Background(), tt.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_MonthlyRevenue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)

	repo.EXPECT().
		SumByType(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f transaction.ListFilter) (transaction.Totals, error) {
			assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
			assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), *f.EndDate)
			assert.Equal(t, transaction.TypeIncome, *f.Type)

			return transaction.Totals{Income: 420000}, nil
		})

	got, err := transaction.NewService(repo).MonthlyRevenue(context.Background(), time.Date(2026, 2, 17, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(420000), got)
}

func TestTotals_Net(t *testing.T) {
	assert.Equal(t, int64(-500), transaction.Totals{Income: 1000, Expense: 1500}.Net())
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Amount:         12000,
			Type:           transaction.TypeExpense,
			Status:         transaction.StatusPendingReceipt,
			Category:       transaction.CategoryMaintenance,
			Description:    "Hardware store",
			RawDescription: "HOME DEPOT #4411",
			Date:           date,
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Amount:         185000,
			Type:           transaction.TypeIncome,
			Status:         transaction.StatusCompleted,
			Description:    "Rent unit 1",
			RawDescription: "ZELLE FROM J DOE",
			Date:           first,
		},
		{
			Amount:         9900,
			Type:           transaction.TypeExpense,
			Status:         transaction.StatusCompleted,
			Description:    "Water",
			RawDescription: "CITY WATER DEPT",
			Date:           last,
		},
	}

	existing := &transaction.Transaction{
		ID:             uuid.New(),
		Amount:         185000,
		Type:           transaction.TypeIncome,
		RawDescription: "zelle from j doe",
		Date:           first,
	}

	repo.EXPECT().BeginImport(gomock.Any(), first, last).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Equal(t, []transaction.CreateParams{params[1]}, result.New)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_InvalidRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	_, err := svc.ImportBatch(context.Background(), []transaction.CreateParams{
		{Amount: 100, Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: 100},
	})
	require.ErrorIs(t, err, transaction.ErrInvalid)
	assert.Contains(t, err.Error(), "row 2")
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	result, err := svc.ImportBatch(context.Background(), []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{Amount: -4000, Description: "Lawn care", RawDescription: "GREENCUT LLC", Date: date},
	}

	repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(4000), txs[0].Amount)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
	assert.Equal(t, int64(-4000), txs[0].Signed())
}
