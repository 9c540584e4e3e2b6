package screening

import "math"

const (
	// MaxRentToIncomeRatio is the highest share of income, in percent, rent may
	// take for the applicant to meet the income requirement.
	MaxRentToIncomeRatio = 33.33

	approveThreshold     = 75
	conditionalThreshold = 60

	reasonApprove     = "Strong application with minimal risk factors."
	reasonConditional = "Application has some concerns but may be acceptable with conditions."
	reasonReject      = "Application has significant risk factors."
)

// CalculateRentToIncomeRatio returns rent as a percentage of total monthly
// income and records the figures on the income section. With no income the
// ratio is 0 and the section is left untouched. The ratio is not capped.
func (s *Screening) CalculateRentToIncomeRatio(monthlyIncome, proposedRent, additionalIncome float64) float64 {
	total := monthlyIncome + additionalIncome
	if total == 0 {
		return 0
	}

	ratio := proposedRent / total * 100

	s.IncomeVerification.MonthlyIncome = monthlyIncome
	s.IncomeVerification.ProposedRent = proposedRent
	s.IncomeVerification.AdditionalIncome = additionalIncome
	s.IncomeVerification.RentToIncomeRatio = ratio
	s.IncomeVerification.MeetsRequirements = ratio <= MaxRentToIncomeRatio

	return ratio
}

func creditPenalty(score *int) int {
	if score == nil {
		return 0
	}

	switch {
	case *score < 580:
		return 30
	case *score < 620:
		return 20
	case *score < 660:
		return 10
	}

	return 0
}

// CalculateOverallScore scores the screening from 0 to 100, higher being less
// risky, and stores the result.
func (s *Screening) CalculateOverallScore() int {
	score := 100

	switch s.BackgroundCheck.Result {
	case BackgroundFlagged:
		score -= 15
	case BackgroundDenied:
		score -= 30
	}

	if s.BackgroundCheck.CriminalHistory {
		score -= 10
	}

	score -= creditPenalty(s.CreditCheck.CreditScore)

	if s.CreditCheck.Collections {
		score -= 10
	}

	if s.CreditCheck.Bankruptcies {
		score -= 15
	}

	if s.CreditCheck.Evictions {
		score -= 25
	}

	if !s.IncomeVerification.MeetsRequirements {
		score -= 20
	}

	if s.IncomeVerification.RentToIncomeRatio > 40 {
		score -= 10
	}

	if isFalse(s.RentalHistory.PaidOnTime) {
		score -= 20
	}

	if isFalse(s.RentalHistory.WouldRentAgain) {
		score -= 15
	}

	score -= 5 * len(s.RentalHistory.LeaseViolations)

	if s.EmploymentVerification.EmployerConfirmed && s.EmploymentVerification.IncomeConfirmed {
		score += 5
	}

	s.OverallScore = max(0, min(100, score))

	return s.OverallScore
}

func isFalse(b *bool) bool {
	return b != nil && !*b
}

// Classify buckets a score. Each threshold belongs to the higher bucket.
func Classify(score int) Recommendation {
	switch {
	case score >= approveThreshold:
		return RecommendApprove
	case score >= conditionalThreshold:
		return RecommendConditional
	}

	return RecommendReject
}

// GenerateRecommendation recomputes the score and buckets it. Conditions are
// only kept for a conditional recommendation, and a rejection flags that an
// adverse action notice is owed.
func (s *Screening) GenerateRecommendation() Recommendation {
	s.Recommendation = Classify(s.CalculateOverallScore())
	s.Conditions = []string{}

	switch s.Recommendation {
	case RecommendApprove:
		s.RecommendationReason = reasonApprove
	case RecommendConditional:
		s.RecommendationReason = reasonConditional
		s.Conditions = s.SuggestConditions()
	case RecommendReject:
		s.RecommendationReason = reasonReject
	}

	s.AdverseActionRequired = s.Recommendation == RecommendReject

	return s.Recommendation
}

// SuggestConditions lists what a conditional approval should ask for, in rule
// order.
func (s *Screening) SuggestConditions() []string {
	conditions := []string{}

	if !s.IncomeVerification.MeetsRequirements {
		conditions = append(conditions, "Require co-signer or guarantor", "Increase security deposit by 50%")
	}

	if score := s.CreditCheck.CreditScore; score != nil && *score < 650 {
		conditions = append(conditions, "Increase security deposit", "Require first and last month rent upfront")
	}

	if s.CreditCheck.Collections {
		conditions = append(conditions, "Provide proof of payment plan or resolution")
	}

	if isFalse(s.RentalHistory.PaidOnTime) {
		conditions = append(conditions, "Require automatic rent payment setup", "Additional security deposit")
	}

	return conditions
}

// completionChecks lists, in display order, whether each of the six pieces of
// screening work is done.
func (s *Screening) completionChecks() [6]bool {
	return [6]bool{
		s.BackgroundCheck.Status == StatusCompleted,
		s.CreditCheck.Status == StatusCompleted,
		s.EmploymentVerification.Status == StatusCompleted,
		s.RentalHistory.Status == StatusCompleted,
		s.DocumentReview.IDVerified && s.DocumentReview.PayStubsVerified,
		s.IncomeVerification.RentToIncomeRatio > 0,
	}
}

// CompletionPercentage reports how much of the screening work is done, rounded
// to a whole percent.
func (s *Screening) CompletionPercentage() int {
	checks := s.completionChecks()

	done := 0

	for _, ok := range checks {
		if ok {
			done++
		}
	}

	return int(math.Round(float64(done) * 100 / float64(len(checks))))
}

// IsComplete reports whether every piece of screening work is done.
func (s *Screening) IsComplete() bool {
	return s.CompletionPercentage() == 100
}

// Recompute returns a copy of s with its score, recommendation and conditions
// brought up to date. It never modifies s.
func Recompute(s Screening) Screening {
	out := s.Clone()
	out.GenerateRecommendation()

	return out
}
