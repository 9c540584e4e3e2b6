package application

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a rental application.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusScreening   Status = "screening"
	StatusApproved    Status = "approved"
	StatusConditional Status = "conditional"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

// LeaseTerms lists the lease lengths, in months, an applicant may ask for.
var LeaseTerms = []int{6, 12, 18, 24}

// DefaultLeaseTerm is used when the applicant leaves the term blank.
const DefaultLeaseTerm = 12

// transitions lists the forward moves allowed out of each status.
// Withdrawal is handled separately in CanTransition.
var transitions = map[Status][]Status{
	StatusSubmitted:   {StatusScreening, StatusApproved, StatusConditional, StatusRejected},
	StatusScreening:   {StatusApproved, StatusConditional, StatusRejected},
	StatusConditional: {StatusApproved, StatusRejected},
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusScreening, StatusApproved, StatusConditional, StatusRejected, StatusWithdrawn:
		return true
	}

	return false
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}

	if from == StatusWithdrawn {
		return false
	}

	if to == StatusWithdrawn {
		return true
	}

	return slices.Contains(transitions[from], to)
}

// IncomeSource is one additional monthly income stream declared by the applicant.
type IncomeSource struct {
	Source        string  `json:"source"`
	MonthlyAmount float64 `json:"monthlyAmount"`
}

type Address struct {
	Street        string  `json:"street"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	LandlordName  string  `json:"landlordName"`
	LandlordPhone string  `json:"landlordPhone"`
	MonthlyRent   float64 `json:"monthlyRent"`
	MoveInDate    string  `json:"moveInDate"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// Application is one applicant's request to rent a unit on a property.
type Application struct {
	ID            uuid.UUID
	Status        Status
	SubmittedDate time.Time

	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth string
	SSNLast4    string

	PropertyID        uuid.UUID
	DesiredUnit       string
	DesiredMoveInDate *time.Time
	LeaseTerm         int

	CurrentEmployer     string
	JobTitle            string
	EmploymentStartDate string
	EmployerPhone       string
	MonthlyIncome       float64
	AdditionalIncome    []IncomeSource

	CurrentAddress   Address
	EmergencyContact EmergencyContact

	HasEvictions       bool
	HasBankruptcy      bool
	HasCriminalHistory bool
	DisclosureNotes    string

	BackgroundCheckConsent bool
	CreditCheckConsent     bool
	ConsentSignature       string
	ConsentDate            *time.Time

	ScreeningID    *uuid.UUID
	TenantID       *uuid.UUID
	ReviewedBy     string
	ReviewedDate   *time.Time
	DecisionReason string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (a *Application) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// TotalMonthlyIncome sums the primary income and every additional source.
func (a *Application) TotalMonthlyIncome() float64 {
	total := a.MonthlyIncome
	for _, src := range a.AdditionalIncome {
		total += src.MonthlyAmount
	}

	return total
}

// AdditionalMonthlyIncome sums only the additional sources.
func (a *Application) AdditionalMonthlyIncome() float64 {
	return a.TotalMonthlyIncome() - a.MonthlyIncome
}

// LeaseEnd returns the day the requested lease would end, or the zero time when
// no move-in date was given.
func (a *Application) LeaseEnd() time.Time {
	if a.DesiredMoveInDate == nil {
		return time.Time{}
	}

	term := a.LeaseTerm
	if term == 0 {
		term = DefaultLeaseTerm
	}

	return a.DesiredMoveInDate.AddDate(0, term, -1)
}
