package screening

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/screening"
)

type screeningResponse struct {
	ID            uuid.UUID        `json:"id"`
	ApplicationID uuid.UUID        `json:"applicationId"`
	Status        screening.Status `json:"status"`

	BackgroundCheck        screening.BackgroundCheck        `json:"backgroundCheck"`
	CreditCheck            screening.CreditCheck            `json:"creditCheck"`
	EmploymentVerification screening.EmploymentVerification `json:"employmentVerification"`
	RentalHistory          screening.RentalHistory          `json:"rentalHistory"`
	ReferenceChecks        []screening.Reference            `json:"referenceChecks"`
	DocumentReview         screening.DocumentReview         `json:"documentReview"`
	IncomeVerification     screening.IncomeVerification     `json:"incomeVerification"`

	OverallScore         int                      `json:"overallScore"`
	Recommendation       screening.Recommendation `json:"recommendation"`
	RecommendationReason string                   `json:"recommendationReason"`
	Conditions           []string                 `json:"conditions"`
	CompletionPercentage int                      `json:"completionPercentage"`

	ReviewedBy   string     `json:"reviewedBy,omitempty"`
	ReviewedDate *time.Time `json:"reviewedDate,omitempty"`

	Decision       screening.Decision `json:"decision,omitempty"`
	DecisionDate   *time.Time         `json:"decisionDate,omitempty"`
	DecisionReason string             `json:"decisionReason,omitempty"`
	DecisionBy     string             `json:"decisionBy,omitempty"`

	AdverseActionRequired bool       `json:"adverseActionRequired"`
	AdverseActionSentDate *time.Time `json:"adverseActionSentDate,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func toResponse(s *screening.Screening) screeningResponse {
	conditions := s.Conditions
	if conditions == nil {
		conditions = []string{}
	}

	return screeningResponse{
		ID:                     s.ID,
		ApplicationID:          s.ApplicationID,
		Status:                 s.Status,
		BackgroundCheck:        s.BackgroundCheck,
		CreditCheck:            s.CreditCheck,
		EmploymentVerification: s.EmploymentVerification,
		RentalHistory:          s.RentalHistory,
		ReferenceChecks:        s.ReferenceChecks,
		DocumentReview:         s.DocumentReview,
		IncomeVerification:     s.IncomeVerification,
		OverallScore:           s.OverallScore,
		Recommendation:         s.Recommendation,
		RecommendationReason:   s.RecommendationReason,
		Conditions:             conditions,
		CompletionPercentage:   s.CompletionPercentage(),
		ReviewedBy:             s.ReviewedBy,
		ReviewedDate:           s.ReviewedDate,
		Decision:               s.Decision,
		DecisionDate:           s.DecisionDate,
		DecisionReason:         s.DecisionReason,
		DecisionBy:             s.DecisionBy,
		AdverseActionRequired:  s.AdverseActionRequired,
		AdverseActionSentDate:  s.AdverseActionSentDate,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func toResponseList(list []*screening.Screening) []screeningResponse {
	resp := make([]screeningResponse, len(list))
	for i, s := range list {
		resp[i] = toResponse(s)
	}

	return resp
}
