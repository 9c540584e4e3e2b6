package application_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
)

func completeApplication() *application.Application {
	moveIn := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	return &application.Application{
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             "jane@example.com",
		Phone:             "555-0100",
		DateOfBirth:       "1990-04-12",
		PropertyID:        uuid.New(),
		DesiredUnit:       "4B",
		DesiredMoveInDate: &moveIn,
		LeaseTerm:         12,
		CurrentEmployer:   "Acme",
		MonthlyIncome:     5000,
		AdditionalIncome: []application.IncomeSource{
			{Source: "Freelance", MonthlyAmount: 750},
			{Source: "Rental", MonthlyAmount: 250},
		},
		CurrentAddress: application.Address{
			Street: "1 Main St",
			City:   "Springfield",
			State:  "IL",
			Zip:    "62701",
		},
		EmergencyContact: application.EmergencyContact{
			Name:  "John Doe",
			Phone: "555-0101",
		},
		BackgroundCheckConsent: true,
		CreditCheckConsent:     true,
		ConsentSignature:       "Jane Doe",
	}
}

func TestCanTransition(t *testing.T) {
	type testCase struct {
		from application.Status
		to   application.Status
		want bool
	}

	tests := []testCase{
		{application.StatusSubmitted, application.StatusScreening, true},
		{application.StatusSubmitted, application.StatusApproved, true},
		{application.StatusSubmitted, application.StatusConditional, true},
		{application.StatusSubmitted, application.StatusRejected, true},
		{application.StatusScreening, application.StatusApproved, true},
		{application.StatusScreening, application.StatusSubmitted, false},
		{application.StatusConditional, application.StatusApproved, true},
		{application.StatusConditional, application.StatusScreening, false},
		{application.StatusApproved, application.StatusRejected, false},
		{application.StatusRejected, application.StatusApproved, false},
		{application.StatusApproved, application.StatusWithdrawn, true},
		{application.StatusRejected, application.StatusWithdrawn, true},
		{application.StatusWithdrawn, application.StatusSubmitted, false},
		{application.StatusWithdrawn, application.StatusWithdrawn, false},
		{application.StatusSubmitted, application.Status("archived"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, application.CanTransition(tt.from, tt.to))
		})
	}
}

func TestApplication_TotalMonthlyIncome(t *testing.T) {
	a := completeApplication()

	assert.InDelta(t, 6000.0, a.TotalMonthlyIncome(), 0.001)
	assert.InDelta(t, 1000.0, a.AdditionalMonthlyIncome(), 0.001)

	a.AdditionalIncome = nil
	assert.InDelta(t, 5000.0, a.TotalMonthlyIncome(), 0.001)
}

func TestApplication_LeaseEnd(t *testing.T) {
	a := completeApplication()
	assert.Equal(t, time.Date(2027, 10, 31, 0, 0, 0, 0, time.UTC), a.LeaseEnd())

	a.LeaseTerm = 6
	assert.Equal(t, time.Date(2027, 4, 30, 0, 0, 0, 0, time.UTC), a.LeaseEnd())

	a.DesiredMoveInDate = nil
	assert.True(t, a.LeaseEnd().IsZero())
}

func TestApplication_Validate(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(a *application.Application)
		want   []string
	}

	tests := []testCase{
		{
			name:   "Complete",
			mutate: func(*application.Application) {},
		},
		{
			name: "MissingConsents",
			mutate: func(a *application.Application) {
				a.BackgroundCheckConsent = false
				a.CreditCheckConsent = false
				a.ConsentSignature = "  "
			},
			want: []string{
				"Background check consent is required",
				"Credit check consent is required",
				"Electronic signature is required",
			},
		},
		{
			name: "BadLeaseTerm",
			mutate: func(a *application.Application) {
				a.LeaseTerm = 9
			},
			want: []string{"Lease term must be 6, 12, 18 or 24 months"},
		},
		{
			name: "NegativeIncome",
			mutate: func(a *application.Application) {
				a.MonthlyIncome = -1
			},
			want: []string{"Monthly income cannot be negative"},
		},
		{
			name: "MissingIdentity",
			mutate: func(a *application.Application) {
				a.FirstName = ""
				a.Email = ""
				a.PropertyID = uuid.Nil
			},
			want: []string{"First name is required", "Email is required", "Property is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := completeApplication()
			tt.mutate(a)

			got := a.Validate()

			if len(tt.want) == 0 {
				assert.True(t, got.Valid)
				assert.Empty(t, got.Errors)
				assert.True(t, a.IsComplete())

				return
			}

			assert.False(t, got.Valid)
			assert.Equal(t, tt.want, got.Errors)
			assert.False(t, a.IsComplete())
		})
	}
}
