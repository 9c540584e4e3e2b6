package screening

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks both the screening as a whole and each verification section.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusNotStarted || s == StatusInProgress || s == StatusCompleted
}

type BackgroundResult string

const (
	BackgroundClear   BackgroundResult = "clear"
	BackgroundFlagged BackgroundResult = "flagged"
	BackgroundDenied  BackgroundResult = "denied"
)

type Recommendation string

const (
	RecommendApprove     Recommendation = "approve"
	RecommendConditional Recommendation = "conditional"
	RecommendReject      Recommendation = "reject"
)

type Decision string

const (
	DecisionApproved    Decision = "approved"
	DecisionConditional Decision = "conditional"
	DecisionRejected    Decision = "rejected"
)

func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionConditional || d == DecisionRejected
}

type BackgroundCheck struct {
	Status          Status           `json:"status"`
	CompletedDate   *time.Time       `json:"completedDate"`
	Result          BackgroundResult `json:"result"`
	CriminalHistory bool             `json:"criminalHistory"`
	Details         string           `json:"details"`
	Provider        string           `json:"provider"`
	ReportID        string           `json:"reportId"`
}

// CreditCheck holds the bureau report. A nil CreditScore means no score has
// been entered; zero is a real score.
type CreditCheck struct {
	Status        Status     `json:"status"`
	CompletedDate *time.Time `json:"completedDate"`
	CreditScore   *int       `json:"creditScore"`
	Result        string     `json:"result"`
	Collections   bool       `json:"collections"`
	Bankruptcies  bool       `json:"bankruptcies"`
	Evictions     bool       `json:"evictions"`
	Details       string     `json:"details"`
	Provider      string     `json:"provider"`
	ReportID      string     `json:"reportId"`
}

type EmploymentVerification struct {
	Status            Status     `json:"status"`
	VerifiedDate      *time.Time `json:"verifiedDate"`
	EmployerConfirmed bool       `json:"employerConfirmed"`
	PositionConfirmed bool       `json:"positionConfirmed"`
	IncomeConfirmed   bool       `json:"incomeConfirmed"`
	ContactedPerson   string     `json:"contactedPerson"`
	Notes             string     `json:"notes"`
}

// RentalHistory answers from previous landlords. PaidOnTime and WouldRentAgain
// are nil until a landlord has answered.
type RentalHistory struct {
	Status                    Status   `json:"status"`
	CurrentLandlordContacted  bool     `json:"currentLandlordContacted"`
	PreviousLandlordContacted bool     `json:"previousLandlordContacted"`
	PaidOnTime                *bool    `json:"paidOnTime"`
	PropertyCondition         string   `json:"propertyCondition"`
	LeaseViolations           []string `json:"leaseViolations"`
	WouldRentAgain            *bool    `json:"wouldRentAgain"`
	Notes                     string   `json:"notes"`
}

type Reference struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Contacted    bool   `json:"contacted"`
	Notes        string `json:"notes"`
}

type DocumentReview struct {
	IDVerified             bool   `json:"idVerified"`
	PayStubsVerified       bool   `json:"payStubsVerified"`
	BankStatementsReviewed bool   `json:"bankStatementsReviewed"`
	ProofOfEmployment      bool   `json:"proofOfEmployment"`
	Notes                  string `json:"notes"`
}

type IncomeVerification struct {
	MonthlyIncome     float64 `json:"monthlyIncome"`
	ProposedRent      float64 `json:"proposedRent"`
	AdditionalIncome  float64 `json:"additionalIncome"`
	RentToIncomeRatio float64 `json:"rentToIncomeRatio"`
	MeetsRequirements bool    `json:"meetsRequirements"`
	Notes             string  `json:"notes"`
}

// Screening is the verification record kept for one application. OverallScore,
// Recommendation, RecommendationReason, Conditions and AdverseActionRequired are
// derived by Recompute and never set directly.
type Screening struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	Status        Status

	BackgroundCheck        BackgroundCheck
	CreditCheck            CreditCheck
	EmploymentVerification EmploymentVerification
	RentalHistory          RentalHistory
	ReferenceChecks        []Reference
	DocumentReview         DocumentReview
	IncomeVerification     IncomeVerification

	OverallScore         int
	Recommendation       Recommendation
	RecommendationReason string
	Conditions           []string

	ReviewedBy   string
	ReviewedDate *time.Time

	Decision       Decision
	DecisionDate   *time.Time
	DecisionReason string
	DecisionBy     string

	AdverseActionRequired bool
	AdverseActionSentDate *time.Time

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// New returns an empty screening for an application with every section at its
// default.
func New(applicationID uuid.UUID) Screening {
	return Screening{
		ApplicationID:          applicationID,
		Status:                 StatusNotStarted,
		BackgroundCheck:        BackgroundCheck{Status: StatusNotStarted},
		CreditCheck:            CreditCheck{Status: StatusNotStarted},
		EmploymentVerification: EmploymentVerification{Status: StatusNotStarted},
		RentalHistory:          RentalHistory{Status: StatusNotStarted, LeaseViolations: []string{}},
		ReferenceChecks:        []Reference{},
		Conditions:             []string{},
	}
}

func (s *Screening) Finalized() bool {
	return s.Status == StatusCompleted
}

// Clone returns a copy that shares no slices or pointers with s.
func (s Screening) Clone() Screening {
	out := s

	out.BackgroundCheck.CompletedDate = clonePtr(s.BackgroundCheck.CompletedDate)
	out.CreditCheck.CompletedDate = clonePtr(s.CreditCheck.CompletedDate)
	out.CreditCheck.CreditScore = clonePtr(s.CreditCheck.CreditScore)
	out.EmploymentVerification.VerifiedDate = clonePtr(s.EmploymentVerification.VerifiedDate)
	out.RentalHistory.PaidOnTime = clonePtr(s.RentalHistory.PaidOnTime)
	out.RentalHistory.WouldRentAgain = clonePtr(s.RentalHistory.WouldRentAgain)
	out.RentalHistory.LeaseViolations = cloneSlice(s.RentalHistory.LeaseViolations)
	out.ReferenceChecks = cloneSlice(s.ReferenceChecks)
	out.Conditions = cloneSlice(s.Conditions)
	out.ReviewedDate = clonePtr(s.ReviewedDate)
	out.DecisionDate = clonePtr(s.DecisionDate)
	out.AdverseActionSentDate = clonePtr(s.AdverseActionSentDate)
	out.UpdatedAt = clonePtr(s.UpdatedAt)

	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}

	out := make([]T, len(in))
	copy(out, in)

	return out
}
