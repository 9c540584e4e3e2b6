package application

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ValidationResult is the outcome of checking an application for submission.
// It is a value, never an error: callers branch on Valid.
type ValidationResult struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (a *Application) Validate() ValidationResult {
	errs := []string{}

	if blank(a.FirstName) {
		errs = append(errs, "First name is required")
	}

	if blank(a.LastName) {
		errs = append(errs, "Last name is required")
	}

	if blank(a.Email) {
		errs = append(errs, "Email is required")
	}

	if blank(a.Phone) {
		errs = append(errs, "Phone number is required")
	}

	if blank(a.DateOfBirth) {
		errs = append(errs, "Date of birth is required")
	}

	if a.PropertyID == uuid.Nil {
		errs = append(errs, "Property is required")
	}

	if a.DesiredMoveInDate == nil {
		errs = append(errs, "Desired move-in date is required")
	}

	if a.LeaseTerm != 0 && !slices.Contains(LeaseTerms, a.LeaseTerm) {
		errs = append(errs, "Lease term must be 6, 12, 18 or 24 months")
	}

	if blank(a.CurrentEmployer) {
		errs = append(errs, "Current employer is required")
	}

	switch {
	case a.MonthlyIncome < 0:
		errs = append(errs, "Monthly income cannot be negative")
	case a.MonthlyIncome == 0:
		errs = append(errs, "Monthly income is required")
	}

	for _, src := range a.AdditionalIncome {
		if src.MonthlyAmount < 0 {
			errs = append(errs, "Additional income cannot be negative")
			break
		}
	}

	if blank(a.CurrentAddress.Street) {
		errs = append(errs, "Current address is required")
	}

	if blank(a.CurrentAddress.City) {
		errs = append(errs, "City is required")
	}

	if blank(a.CurrentAddress.State) {
		errs = append(errs, "State is required")
	}

	if blank(a.CurrentAddress.Zip) {
		errs = append(errs, "Zip code is required")
	}

	if blank(a.EmergencyContact.Name) {
		errs = append(errs, "Emergency contact name is required")
	}

	if blank(a.EmergencyContact.Phone) {
		errs = append(errs, "Emergency contact phone is required")
	}

	if !a.BackgroundCheckConsent {
		errs = append(errs, "Background check consent is required")
	}

	if !a.CreditCheckConsent {
		errs = append(errs, "Credit check consent is required")
	}

	if blank(a.ConsentSignature) {
		errs = append(errs, "Electronic signature is required")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// IsComplete reports whether the application carries everything needed for
// submission, including both consents and a signature.
func (a *Application) IsComplete() bool {
	return a.Validate().Valid
}
