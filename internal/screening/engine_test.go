package screening_test

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tenantry/internal/screening"
)

// passing returns a screening that scores 100 before any employment bonus.
func passing() screening.Screening {
	s := screening.New(uuid.New())
	s.IncomeVerification.MeetsRequirements = true
	s.IncomeVerification.RentToIncomeRatio = 25

	return s
}

func TestCalculateRentToIncomeRatio(t *testing.T) {
	type testCase struct {
		name       string
		income     float64
		rent       float64
		additional float64
		wantRatio  float64
		wantMeets  bool
	}

	tests := []testCase{
		{name: "QuarterOfIncome", income: 4000, rent: 1000, wantRatio: 25, wantMeets: true},
		{name: "AdditionalIncomeCounts", income: 3000, rent: 1000, additional: 1000, wantRatio: 25, wantMeets: true},
		{name: "JustUnderThreshold", income: 3001, rent: 1000, wantRatio: 1000.0 / 3001 * 100, wantMeets: true},
		{name: "JustOverThreshold", income: 3000, rent: 1000, wantRatio: 100.0 / 3, wantMeets: false},
		{name: "NotClamped", income: 1000, rent: 1500, wantRatio: 150, wantMeets: false},
		{name: "FreeRent", income: 2000, rent: 0, wantRatio: 0, wantMeets: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := screening.New(uuid.New())

			got := s.CalculateRentToIncomeRatio(tt.income, tt.rent, tt.additional)

			assert.InDelta(t, tt.wantRatio, got, 1e-9)
			assert.InDelta(t, tt.wantRatio, s.IncomeVerification.RentToIncomeRatio, 1e-9)
			assert.Equal(t, tt.wantMeets, s.IncomeVerification.MeetsRequirements)
			assert.InDelta(t, tt.income, s.IncomeVerification.MonthlyIncome, 0)
			assert.InDelta(t, tt.rent, s.IncomeVerification.ProposedRent, 0)
			assert.InDelta(t, tt.additional, s.IncomeVerification.AdditionalIncome, 0)
		})
	}
}

func TestCalculateRentToIncomeRatio_NoIncome(t *testing.T) {
	s := screening.New(uuid.New())
	s.IncomeVerification.ProposedRent = 900

	got := s.CalculateRentToIncomeRatio(0, 1200, 0)

	assert.Zero(t, got)
	assert.False(t, math.IsNaN(got))
	assert.InDelta(t, 900.0, s.IncomeVerification.ProposedRent, 0)
	assert.Zero(t, s.IncomeVerification.RentToIncomeRatio)
}

func TestCalculateRentToIncomeRatio_MeetsRequirementsMatchesRatio(t *testing.T) {
	for income := 0.0; income <= 6000; income += 250 {
		for rent := 0.0; rent <= 3000; rent += 125 {
			s := screening.New(uuid.New())
			ratio := s.CalculateRentToIncomeRatio(income, rent, 0)

			if income == 0 {
				assert.Zero(t, ratio)
				continue
			}

			assert.Equal(t, ratio <= screening.MaxRentToIncomeRatio, s.IncomeVerification.MeetsRequirements,
				"income %v rent %v", income, rent)
		}
	}
}

func TestCalculateOverallScore(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(s *screening.Screening)
		want   int
	}

	tests := []testCase{
		{name: "Clean", mutate: func(*screening.Screening) {}, want: 100},
		{name: "FreshRecordFailsIncome", mutate: func(s *screening.Screening) {
			s.IncomeVerification = screening.IncomeVerification{}
		}, want: 80},
		{name: "BackgroundFlagged", mutate: func(s *screening.Screening) {
			s.BackgroundCheck.Result = screening.BackgroundFlagged
		}, want: 85},
		{name: "BackgroundDeniedWithCriminalHistory", mutate: func(s *screening.Screening) {
			s.BackgroundCheck.Result = screening.BackgroundDenied
			s.BackgroundCheck.CriminalHistory = true
		}, want: 60},
		{name: "Credit579", mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(579) }, want: 70},
		{name: "Credit580", mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(580) }, want: 80},
		{name: "Credit619", mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(619) }, want: 80},
		{name: "Credit620", mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(620) }, want: 90},
		{name: "Credit659", mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(659) }, want: 90},
		{name: "Credit660", mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(660) }, want: 100},
		{name: "CreditZeroIsAScore", mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(0) }, want: 70},
		{name: "NoCreditScore", mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = nil }, want: 100},
		{name: "CreditFlags", mutate: func(s *screening.Screening) {
			s.CreditCheck.Collections = true
			s.CreditCheck.Bankruptcies = true
			s.CreditCheck.Evictions = true
		}, want: 50},
		{name: "RatioOverForty", mutate: func(s *screening.Screening) {
			s.IncomeVerification.MeetsRequirements = false
			s.IncomeVerification.RentToIncomeRatio = 41
		}, want: 70},
		{name: "RentalHistoryNegative", mutate: func(s *screening.Screening) {
			s.RentalHistory.PaidOnTime = new(false)
			s.RentalHistory.WouldRentAgain = new(false)
		}, want: 65},
		{name: "RentalHistoryUnanswered", mutate: func(s *screening.Screening) {
			s.RentalHistory.PaidOnTime = nil
			s.RentalHistory.WouldRentAgain = nil
		}, want: 100},
		{name: "LeaseViolations", mutate: func(s *screening.Screening) {
			s.RentalHistory.LeaseViolations = []string{"noise", "pets", "late"}
		}, want: 85},
		{name: "EmploymentBonusClamped", mutate: func(s *screening.Screening) {
			s.EmploymentVerification.EmployerConfirmed = true
			s.EmploymentVerification.IncomeConfirmed = true
		}, want: 100},
		{name: "EmploymentBonusOffsetsPenalty", mutate: func(s *screening.Screening) {
			s.BackgroundCheck.Result = screening.BackgroundFlagged
			s.EmploymentVerification.EmployerConfirmed = true
			s.EmploymentVerification.IncomeConfirmed = true
		}, want: 90},
		{name: "EmployerOnlyNoBonus", mutate: func(s *screening.Screening) {
			s.BackgroundCheck.Result = screening.BackgroundFlagged
			s.EmploymentVerification.EmployerConfirmed = true
		}, want: 85},
		{name: "ClampedAtZero", mutate: func(s *screening.Screening) {
			s.BackgroundCheck.Result = screening.BackgroundDenied
			s.BackgroundCheck.CriminalHistory = true
			s.CreditCheck.CreditScore = new(500)
			s.CreditCheck.Collections = true
			s.CreditCheck.Bankruptcies = true
			s.CreditCheck.Evictions = true
			s.IncomeVerification.MeetsRequirements = false
			s.IncomeVerification.RentToIncomeRatio = 80
			s.RentalHistory.PaidOnTime = new(false)
			s.RentalHistory.WouldRentAgain = new(false)
			s.RentalHistory.LeaseViolations = []string{"a", "b", "c", "d"}
		}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := passing()
			tt.mutate(&s)

			got := s.CalculateOverallScore()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, s.OverallScore)

			again := s.CalculateOverallScore()
			assert.Equal(t, got, again)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestClassify(t *testing.T) {
	type testCase struct {
		score int
		want  screening.Recommendation
	}

	tests := []testCase{
		{score: 100, want: screening.RecommendApprove},
		{score: 75, want: screening.RecommendApprove},
		{score: 74, want: screening.RecommendConditional},
		{score: 60, want: screening.RecommendConditional},
		{score: 59, want: screening.RecommendReject},
		{score: 0, want: screening.RecommendReject},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, screening.Classify(tt.score), "score %d", tt.score)
	}
}

// withViolations returns a clean screening whose only penalty is n lease
// violations, scoring 100 - 5n.
func withViolations(n int) screening.Screening {
	s := passing()
	s.RentalHistory.LeaseViolations = make([]string, n)

	return s
}

func TestGenerateRecommendation(t *testing.T) {
	type testCase struct {
		violations int
		score      int
		want       screening.Recommendation
		wantReason string
	}

	tests := []testCase{
		{violations: 0, score: 100, want: screening.RecommendApprove, wantReason: "Strong application with minimal risk factors."},
		{violations: 5, score: 75, want: screening.RecommendApprove, wantReason: "Strong application with minimal risk factors."},
		{violations: 6, score: 70, want: screening.RecommendConditional, wantReason: "Application has some concerns but may be acceptable with conditions."},
		{violations: 8, score: 60, want: screening.RecommendConditional, wantReason: "Application has some concerns but may be acceptable with conditions."},
		{violations: 9, score: 55, want: screening.RecommendReject, wantReason: "Application has significant risk factors."},
		{violations: 30, score: 0, want: screening.RecommendReject, wantReason: "Application has significant risk factors."},
	}

	for _, tt := range tests {
		s := withViolations(tt.violations)

		got := s.GenerateRecommendation()

		assert.Equal(t, tt.score, s.OverallScore)
		assert.Equal(t, tt.want, got, "score %d", tt.score)
		assert.Equal(t, tt.wantReason, s.RecommendationReason)
		assert.Equal(t, tt.want == screening.RecommendReject, s.AdverseActionRequired)
	}
}

func TestSuggestConditions(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(s *screening.Screening)
		want   []string
	}

	tests := []testCase{
		{name: "None", mutate: func(*screening.Screening) {}, want: []string{}},
		{
			name:   "IncomeShort",
			mutate: func(s *screening.Screening) { s.IncomeVerification.MeetsRequirements = false },
			want:   []string{"Require co-signer or guarantor", "Increase security deposit by 50%"},
		},
		{
			name:   "Credit649",
			mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(649) },
			want:   []string{"Increase security deposit", "Require first and last month rent upfront"},
		},
		{
			name:   "Credit650",
			mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(650) },
			want:   []string{},
		},
		{
			name:   "CreditZero",
			mutate: func(s *screening.Screening) { s.CreditCheck.CreditScore = new(0) },
			want:   []string{"Increase security deposit", "Require first and last month rent upfront"},
		},
		{
			name: "AllRules",
			mutate: func(s *screening.Screening) {
				s.IncomeVerification.MeetsRequirements = false
				s.CreditCheck.CreditScore = new(600)
				s.CreditCheck.Collections = true
				s.RentalHistory.PaidOnTime = new(false)
			},
			want: []string{
				"Require co-signer or guarantor",
				"Increase security deposit by 50%",
				"Increase security deposit",
				"Require first and last month rent upfront",
				"Provide proof of payment plan or resolution",
				"Require automatic rent payment setup",
				"Additional security deposit",
			},
		},
		{
			name:   "PaidOnTimeUnknown",
			mutate: func(s *screening.Screening) { s.RentalHistory.PaidOnTime = nil },
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := passing()
			tt.mutate(&s)

			assert.Equal(t, tt.want, s.SuggestConditions())
		})
	}
}

func TestGenerateRecommendation_ConditionsOnlyWhenConditional(t *testing.T) {
	s := passing()
	s.CreditCheck.CreditScore = new(600)
	s.CreditCheck.Collections = true

	// 100 - 20 - 10
	require.Equal(t, screening.RecommendConditional, s.GenerateRecommendation())
	assert.NotEmpty(t, s.Conditions)

	s.CreditCheck.Evictions = true
	require.Equal(t, screening.RecommendReject, s.GenerateRecommendation())
	assert.Empty(t, s.Conditions)

	s.CreditCheck = screening.CreditCheck{Status: screening.StatusNotStarted}
	require.Equal(t, screening.RecommendApprove, s.GenerateRecommendation())
	assert.Empty(t, s.Conditions)
	assert.False(t, s.AdverseActionRequired)
}

func TestCompletionPercentage(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(s *screening.Screening)
		want   int
	}

	completeAll := func(s *screening.Screening) {
		s.BackgroundCheck.Status = screening.StatusCompleted
		s.CreditCheck.Status = screening.StatusCompleted
		s.EmploymentVerification.Status = screening.StatusCompleted
		s.RentalHistory.Status = screening.StatusCompleted
		s.DocumentReview.IDVerified = true
		s.DocumentReview.PayStubsVerified = true
		s.IncomeVerification.RentToIncomeRatio = 30
	}

	tests := []testCase{
		{name: "Fresh", mutate: func(*screening.Screening) {}, want: 0},
		{name: "One", mutate: func(s *screening.Screening) {
			s.BackgroundCheck.Status = screening.StatusCompleted
		}, want: 17},
		{name: "Two", mutate: func(s *screening.Screening) {
			s.BackgroundCheck.Status = screening.StatusCompleted
			s.CreditCheck.Status = screening.StatusCompleted
		}, want: 33},
		{name: "Three", mutate: func(s *screening.Screening) {
			completeAll(s)
			s.RentalHistory.Status = screening.StatusInProgress
			s.DocumentReview.PayStubsVerified = false
			s.IncomeVerification.RentToIncomeRatio = 0
		}, want: 50},
		{name: "Four", mutate: func(s *screening.Screening) {
			completeAll(s)
			s.DocumentReview.IDVerified = false
			s.IncomeVerification.RentToIncomeRatio = 0
		}, want: 67},
		{name: "FiveMissingIncome", mutate: func(s *screening.Screening) {
			completeAll(s)
			s.IncomeVerification.RentToIncomeRatio = 0
		}, want: 83},
		{name: "All", mutate: completeAll, want: 100},
		{name: "InProgressDoesNotCount", mutate: func(s *screening.Screening) {
			completeAll(s)
			s.CreditCheck.Status = screening.StatusInProgress
		}, want: 83},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := screening.New(uuid.New())
			tt.mutate(&s)

			got := s.CompletionPercentage()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got == 100, s.IsComplete())
		})
	}
}

func TestScenario_StrongApplicant(t *testing.T) {
	s := screening.New(uuid.New())
	s.BackgroundCheck.Status = screening.StatusCompleted
	s.BackgroundCheck.Result = screening.BackgroundClear
	s.CreditCheck.Status = screening.StatusCompleted
	s.CreditCheck.CreditScore = new(720)
	s.EmploymentVerification.Status = screening.StatusCompleted
	s.EmploymentVerification.EmployerConfirmed = true
	s.EmploymentVerification.IncomeConfirmed = true
	s.RentalHistory.Status = screening.StatusCompleted
	s.RentalHistory.PaidOnTime = new(true)
	s.RentalHistory.WouldRentAgain = new(true)
	s.DocumentReview.IDVerified = true
	s.DocumentReview.PayStubsVerified = true
	s.CalculateRentToIncomeRatio(4000, 1000, 0)

	got := screening.Recompute(s)

	assert.Equal(t, 100, got.OverallScore)
	assert.Equal(t, screening.RecommendApprove, got.Recommendation)
	assert.Equal(t, "Strong application with minimal risk factors.", got.RecommendationReason)
	assert.Empty(t, got.Conditions)
	assert.False(t, got.AdverseActionRequired)
	assert.Equal(t, 100, got.CompletionPercentage())
}

func TestScenario_HighRiskApplicant(t *testing.T) {
	s := screening.New(uuid.New())
	s.CreditCheck.CreditScore = new(600)
	s.CreditCheck.Collections = true
	s.CalculateRentToIncomeRatio(2000, 900, 0)

	require.InDelta(t, 45.0, s.IncomeVerification.RentToIncomeRatio, 1e-9)
	require.False(t, s.IncomeVerification.MeetsRequirements)

	got := screening.Recompute(s)

	assert.Equal(t, 40, got.OverallScore)
	assert.Equal(t, screening.RecommendReject, got.Recommendation)
	assert.Equal(t, "Application has significant risk factors.", got.RecommendationReason)
	assert.True(t, got.AdverseActionRequired)
}

func TestScenario_ConditionalApplicant(t *testing.T) {
	s := screening.New(uuid.New())
	s.CreditCheck.CreditScore = new(640)
	s.RentalHistory.PaidOnTime = new(false)
	s.CalculateRentToIncomeRatio(5000, 1250, 0)

	got := screening.Recompute(s)

	assert.Equal(t, 70, got.OverallScore)
	assert.Equal(t, screening.RecommendConditional, got.Recommendation)
	assert.Equal(t, "Application has some concerns but may be acceptable with conditions.", got.RecommendationReason)
	assert.Equal(t, []string{
		"Increase security deposit",
		"Require first and last month rent upfront",
		"Require automatic rent payment setup",
		"Additional security deposit",
	}, got.Conditions)
	assert.False(t, got.AdverseActionRequired)
}

func TestRecompute_DoesNotModifyInput(t *testing.T) {
	s := passing()
	s.CreditCheck.CreditScore = new(600)
	s.CreditCheck.Collections = true
	s.Conditions = []string{"stale"}

	got := screening.Recompute(s)

	assert.Equal(t, screening.RecommendConditional, got.Recommendation)
	assert.Equal(t, []string{"stale"}, s.Conditions)
	assert.Zero(t, s.OverallScore)
	assert.Empty(t, s.Recommendation)

	*got.CreditCheck.CreditScore = 800
	assert.Equal(t, 600, *s.CreditCheck.CreditScore)
}

func TestRecompute_Idempotent(t *testing.T) {
	s := passing()
	s.CreditCheck.CreditScore = new(600)
	s.CreditCheck.Collections = true
	s.RentalHistory.LeaseViolations = []string{"late rent"}

	once := screening.Recompute(s)

	assert.Equal(t, once, screening.Recompute(once))
	assert.Equal(t, once, screening.Recompute(screening.Recompute(once)))
}
