package screening

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationResult is a value, never an error: callers branch on Valid.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (s *Screening) Validate() ValidationResult {
	errs := []string{}

	if s.ApplicationID == uuid.Nil {
		errs = append(errs, "Application ID is required")
	}

	statuses := []struct {
		label  string
		status Status
	}{
		{"Screening", s.Status},
		{"Background check", s.BackgroundCheck.Status},
		{"Credit check", s.CreditCheck.Status},
		{"Employment verification", s.EmploymentVerification.Status},
		{"Rental history", s.RentalHistory.Status},
	}

	for _, st := range statuses {
		if !st.status.Valid() {
			errs = append(errs, fmt.Sprintf("%s status %q is invalid", st.label, st.status))
		}
	}

	if s.Decision != "" && strings.TrimSpace(s.DecisionReason) == "" {
		errs = append(errs, "Decision reason is required")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
