package importer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tenantry/internal/categorize"
	"github.com/MrJamesThe3rd/tenantry/internal/importer"
	"github.com/MrJamesThe3rd/tenantry/internal/property"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

type mocks struct {
	ledger     *importer.MockLedger
	tenants    *importer.MockTenants
	properties *importer.MockProperties
	categories *importer.MockCategorizer
	metrics    *importer.MockRecorder
}

var (
	mapleID  = uuid.New()
	oakID    = uuid.New()
	janeID   = uuid.New()
	fixedNow = time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC)
)

func newService(t *testing.T) (*importer.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		ledger:     importer.NewMockLedger(ctrl),
		tenants:    importer.NewMockTenants(ctrl),
		properties: importer.NewMockProperties(ctrl),
		categories: importer.NewMockCategorizer(ctrl),
		metrics:    importer.NewMockRecorder(ctrl),
	}

	svc := importer.NewService(m.ledger, m.tenants, m.properties, m.categories,
		importer.WithMetrics(m.metrics),
		importer.WithClock(func() time.Time { return fixedNow }),
	)

	return svc, m
}

func (m mocks) expectProperties() {
	m.properties.EXPECT().List(gomock.Any()).Return([]*property.Property{
		{ID: mapleID, Name: "Maple Court"},
		{ID: oakID, Name: "Oak Street Duplex"},
	}, nil)
}

func TestService_Import_Transactions(t *testing.T) {
	svc, m := newService(t)
	m.expectProperties()

	m.tenants.EXPECT().List(gomock.Any(), tenant.ListFilter{}).Return([]*tenant.Tenant{
		{ID: janeID, Name: "Jane Doe", PropertyID: mapleID, Unit: "4B"},
	}, nil)

	m.categories.EXPECT().Suggest(gomock.Any(), "HOME DEPOT #4411").
		Return(categorize.Suggestion{Category: "Maintenance", Description: "Hardware"}, nil)

	input := strings.Join([]string{
		"Transaction Date,Amount,Description,Category,Tenant,Property",
		"10/01/2026,\"$1,850.00\",October rent,Rent,Jane Doe,",
		"10/03/2026,-120.40,HOME DEPOT #4411,,,Oak Street Duplex",
		",25,Late fee,Late Fee,jane doe,",
	}, "\n")

	m.ledger.EXPECT().
		ImportBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params []transaction.CreateParams) (*transaction.ImportResult, error) {
			require.Len(t, params, 3)

			assert.Equal(t, int64(185000), params[0].Amount)
			assert.Equal(t, transaction.TypeIncome, params[0].Type)
			assert.Equal(t, &janeID, params[0].TenantID)
			assert.Equal(t, &mapleID, params[0].PropertyID)
			assert.Equal(t, "4B", params[0].Unit)

			assert.Equal(t, int64(12040), params[1].Amount)
			assert.Equal(t, transaction.TypeExpense, params[1].Type)
			assert.Equal(t, "Maintenance", params[1].Category)
			assert.Equal(t, "Hardware", params[1].Description)
			assert.Equal(t, "HOME DEPOT #4411", params[1].RawDescription)
			assert.Equal(t, &oakID, params[1].PropertyID)

			assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), params[2].Date)
			assert.Equal(t, transaction.StatusCompleted, params[2].Status)

			return &transaction.ImportResult{Imported: make([]*transaction.Transaction, 3)}, nil
		})

	m.metrics.EXPECT().AddImportedRows("transactions", "imported", 3)
	m.metrics.EXPECT().AddImportedRows("transactions", "conflict", 0)

	res, err := svc.Import(context.Background(), strings.NewReader(input), "")
	require.NoError(t, err)
	assert.Equal(t, importer.KindTransactions, res.Kind)
	assert.Len(t, res.Transactions.Imported, 3)
}

func TestService_Import_TransactionsDebitCredit(t *testing.T) {
	svc, m := newService(t)
	m.expectProperties()
	m.tenants.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	input := "Posted Date;Memo;Debit;Credit;Category\n2026-09-30;WATER;45,10;;Utilities\n2026-09-30;ZELLE;;1.500,00;Rent\n"

	m.ledger.EXPECT().
		ImportBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params []transaction.CreateParams) (*transaction.ImportResult, error) {
			require.Len(t, params, 2)
			assert.Equal(t, transaction.TypeExpense, params[0].Type)
			assert.Equal(t, int64(4510), params[0].Amount)
			assert.Equal(t, transaction.TypeIncome, params[1].Type)
			assert.Equal(t, int64(150000), params[1].Amount)

			return &transaction.ImportResult{New: params, Conflicts: []transaction.Conflict{{}}}, nil
		})

	m.metrics.EXPECT().AddImportedRows("transactions", "imported", 0)
	m.metrics.EXPECT().AddImportedRows("transactions", "conflict", 1)

	res, err := svc.Import(context.Background(), strings.NewReader(input), importer.KindTransactions)
	require.NoError(t, err)
	assert.Len(t, res.Transactions.Conflicts, 1)
}

func TestService_Import_TransactionRowErrors(t *testing.T) {
	svc, m := newService(t)
	m.expectProperties()
	m.tenants.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	m.metrics.EXPECT().AddImportedRows("transactions", "invalid", 4)

	input := strings.Join([]string{
		"Date,Amount,Type,Property",
		"2026-01-01,,income,",
		"yesterday,10,income,",
		"2026-01-01,10,transfer,Nowhere",
	}, "\n")

	_, err := svc.Import(context.Background(), strings.NewReader(input), "")

	var rowErrs importer.RowErrors
	require.ErrorAs(t, err, &rowErrs)
	assert.Equal(t, importer.RowErrors{
		"Row 2: Transaction amount is required",
		"Row 3: invalid date \"yesterday\"",
		"Row 4: unknown type \"transfer\"",
		"Row 4: unknown property \"Nowhere\"",
	}, rowErrs)
}

func TestService_Import_Tenants(t *testing.T) {
	svc, m := newService(t)
	m.expectProperties()

	input := strings.Join([]string{
		"First Name,Last Name,Email,Property Name,Unit Number,Monthly Rent,Lease Start,Lease End,Status,Outstanding",
		"Jane,Doe,jane@example.com,maple court,4B,\"1,850\",2026-01-01,2026-12-31,Current,0",
		"Sam,Lee,sam@example.com,Oak Street Duplex,1,1200.00,01/15/2026,01/14/2027,Late,1200",
	}, "\n")

	m.tenants.EXPECT().
		CreateBatch(gomock.Any(), []tenant.CreateParams{
			{
				Name: "Jane Doe", Email: "jane@example.com", PropertyID: mapleID, Unit: "4B", Rent: 185000,
				LeaseStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				LeaseEnd:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
				Status:     tenant.StatusActive,
			},
			{
				Name: "Sam Lee", Email: "sam@example.com", PropertyID: oakID, Unit: "1", Rent: 120000,
				LeaseStart: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
				LeaseEnd:   time.Date(2027, 1, 14, 0, 0, 0, 0, time.UTC),
				Status:     tenant.StatusOverdue, Balance: 120000,
			},
		}).
		Return([]*tenant.Tenant{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	m.metrics.EXPECT().AddImportedRows("tenants", "imported", 2)

	res, err := svc.Import(context.Background(), strings.NewReader(input), "")
	require.NoError(t, err)
	assert.Equal(t, importer.KindTenants, res.Kind)
	assert.Len(t, res.Tenants, 2)
}

func TestService_Import_TenantRowErrors(t *testing.T) {
	svc, m := newService(t)
	m.expectProperties()
	m.metrics.EXPECT().AddImportedRows("tenants", "invalid", 3)

	input := "Tenant Name,Property,Rent\n,Maple Court,100\nBob,,abc\n"

	_, err := svc.Import(context.Background(), strings.NewReader(input), "")

	var rowErrs importer.RowErrors
	require.ErrorAs(t, err, &rowErrs)
	assert.Equal(t, importer.RowErrors{
		"Row 2: Tenant name is required",
		"Row 3: Property is required",
		"Row 3: invalid rent \"abc\"",
	}, rowErrs)
}

func TestService_Import_Properties(t *testing.T) {
	svc, m := newService(t)

	input := "Property Name,Property Address,Property Type,Total Units,Occupied Units,Purchase Price\n" +
		"Elm Plaza,1 Elm St,Commercial,6,4,\"$2,400,000\"\n"

	m.properties.EXPECT().
		Create(gomock.Any(), property.CreateParams{
			Name: "Elm Plaza", Address: "1 Elm St", Type: property.TypeCommercial,
			Units: 6, Occupied: 4, Value: 240000000,
		}).
		Return(&property.Property{ID: uuid.New(), Name: "Elm Plaza"}, nil)

	m.metrics.EXPECT().AddImportedRows("properties", "imported", 1)

	res, err := svc.Import(context.Background(), strings.NewReader(input), "")
	require.NoError(t, err)
	require.Len(t, res.Properties, 1)
	assert.Equal(t, "Elm Plaza", res.Properties[0].Name)
}

func TestService_Import_UnknownKind(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Import(context.Background(), strings.NewReader("foo,bar\n1,2\n"), "")
	assert.ErrorIs(t, err, importer.ErrUnknownKind)
}

func TestService_Preview(t *testing.T) {
	svc, _ := newService(t)

	got, err := svc.Preview(strings.NewReader("Date,Amount\n2026-01-01,5\n2026-01-02,6\n"))
	require.NoError(t, err)
	assert.Equal(t, importer.KindTransactions, got.Kind)
	assert.Equal(t, 2, got.Rows)
}
