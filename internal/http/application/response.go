package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
)

// applicationBody holds the applicant-editable fields, shared by requests and
// responses.
type applicationBody struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	SSNLast4    string `json:"ssnLast4"`

	PropertyID        uuid.UUID  `json:"propertyId"`
	DesiredUnit       string     `json:"desiredUnit"`
	DesiredMoveInDate *time.Time `json:"desiredMoveInDate"`
	LeaseTerm         int        `json:"leaseTerm"`

	CurrentEmployer     string                     `json:"currentEmployer"`
	JobTitle            string                     `json:"jobTitle"`
	EmploymentStartDate string                     `json:"employmentStartDate"`
	EmployerPhone       string                     `json:"employerPhone"`
	MonthlyIncome       float64                    `json:"monthlyIncome"`
	AdditionalIncome    []application.IncomeSource `json:"additionalIncome"`

	CurrentAddress   application.Address          `json:"currentAddress"`
	EmergencyContact application.EmergencyContact `json:"emergencyContact"`

	HasEvictions       bool   `json:"hasEvictions"`
	HasBankruptcy      bool   `json:"hasBankruptcy"`
	HasCriminalHistory bool   `json:"hasCriminalHistory"`
	DisclosureNotes    string `json:"disclosureNotes"`

	BackgroundCheckConsent bool       `json:"backgroundCheckConsent"`
	CreditCheckConsent     bool       `json:"creditCheckConsent"`
	ConsentSignature       string     `json:"consentSignature"`
	ConsentDate            *time.Time `json:"consentDate"`
}

func (b applicationBody) toApplication() *application.Application {
	return &application.Application{
		FirstName:              b.FirstName,
		LastName:               b.LastName,
		Email:                  b.Email,
		Phone:                  b.Phone,
		DateOfBirth:            b.DateOfBirth,
		SSNLast4:               b.SSNLast4,
		PropertyID:             b.PropertyID,
		DesiredUnit:            b.DesiredUnit,
		DesiredMoveInDate:      b.DesiredMoveInDate,
		LeaseTerm:              b.LeaseTerm,
		CurrentEmployer:        b.CurrentEmployer,
		JobTitle:               b.JobTitle,
		EmploymentStartDate:    b.EmploymentStartDate,
		EmployerPhone:          b.EmployerPhone,
		MonthlyIncome:          b.MonthlyIncome,
		AdditionalIncome:       b.AdditionalIncome,
		CurrentAddress:         b.CurrentAddress,
		EmergencyContact:       b.EmergencyContact,
		HasEvictions:           b.HasEvictions,
		HasBankruptcy:          b.HasBankruptcy,
		HasCriminalHistory:     b.HasCriminalHistory,
		DisclosureNotes:        b.DisclosureNotes,
		BackgroundCheckConsent: b.BackgroundCheckConsent,
		CreditCheckConsent:     b.CreditCheckConsent,
		ConsentSignature:       b.ConsentSignature,
		ConsentDate:            b.ConsentDate,
	}
}

type applicationResponse struct {
	ID            uuid.UUID          `json:"id"`
	Status        application.Status `json:"status"`
	SubmittedDate time.Time          `json:"submittedDate"`
	applicationBody

	TotalMonthlyIncome float64    `json:"totalMonthlyIncome"`
	Complete           bool       `json:"complete"`
	ScreeningID        *uuid.UUID `json:"screeningId"`
	TenantID           *uuid.UUID `json:"tenantId"`
	ReviewedBy         string     `json:"reviewedBy,omitempty"`
	ReviewedDate       *time.Time `json:"reviewedDate,omitempty"`
	DecisionReason     string     `json:"decisionReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

func toResponse(a *application.Application) applicationResponse {
	return applicationResponse{
		ID:            a.ID,
		Status:        a.Status,
		SubmittedDate: a.SubmittedDate,
		applicationBody: applicationBody{
			FirstName:              a.FirstName,
			LastName:               a.LastName,
			Email:                  a.Email,
			Phone:                  a.Phone,
			DateOfBirth:            a.DateOfBirth,
			SSNLast4:               a.SSNLast4,
			PropertyID:             a.PropertyID,
			DesiredUnit:            a.DesiredUnit,
			DesiredMoveInDate:      a.DesiredMoveInDate,
			LeaseTerm:              a.LeaseTerm,
			CurrentEmployer:        a.CurrentEmployer,
			JobTitle:               a.JobTitle,
			EmploymentStartDate:    a.EmploymentStartDate,
			EmployerPhone:          a.EmployerPhone,
			MonthlyIncome:          a.MonthlyIncome,
			AdditionalIncome:       a.AdditionalIncome,
			CurrentAddress:         a.CurrentAddress,
			EmergencyContact:       a.EmergencyContact,
			HasEvictions:           a.HasEvictions,
			HasBankruptcy:          a.HasBankruptcy,
			HasCriminalHistory:     a.HasCriminalHistory,
			DisclosureNotes:        a.DisclosureNotes,
			BackgroundCheckConsent: a.BackgroundCheckConsent,
			CreditCheckConsent:     a.CreditCheckConsent,
			ConsentSignature:       a.ConsentSignature,
			ConsentDate:            a.ConsentDate,
		},
		TotalMonthlyIncome: a.TotalMonthlyIncome(),
		Complete:           a.IsComplete(),
		ScreeningID:        a.ScreeningID,
		TenantID:           a.TenantID,
		ReviewedBy:         a.ReviewedBy,
		ReviewedDate:       a.ReviewedDate,
		DecisionReason:     a.DecisionReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func toResponseList(apps []*application.Application) []applicationResponse {
	resp := make([]applicationResponse, len(apps))
	for i, a := range apps {
		resp[i] = toResponse(a)
	}

	return resp
}
