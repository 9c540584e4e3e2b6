package screening

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Nullable tells a field that was left out of a JSON document apart from one
// that was sent as null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some returns a Nullable holding v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable that clears the field it is applied to.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true

	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	n.Value = &v

	return nil
}

func (n Nullable[T]) apply(dst **T) {
	if n.Set {
		*dst = clonePtr(n.Value)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

type BackgroundCheckPatch struct {
	Status          *Status           `json:"status"`
	CompletedDate   *time.Time        `json:"completedDate"`
	Result          *BackgroundResult `json:"result"`
	CriminalHistory *bool             `json:"criminalHistory"`
	Details         *string           `json:"details"`
	Provider        *string           `json:"provider"`
	ReportID        *string           `json:"reportId"`
}

type CreditCheckPatch struct {
	Status        *Status       `json:"status"`
	CompletedDate *time.Time    `json:"completedDate"`
	CreditScore   Nullable[int] `json:"creditScore"`
	Result        *string       `json:"result"`
	Collections   *bool         `json:"collections"`
	Bankruptcies  *bool         `json:"bankruptcies"`
	Evictions     *bool         `json:"evictions"`
	Details       *string       `json:"details"`
	Provider      *string       `json:"provider"`
	ReportID      *string       `json:"reportId"`
}

type EmploymentVerificationPatch struct {
	Status            *Status    `json:"status"`
	VerifiedDate      *time.Time `json:"verifiedDate"`
	EmployerConfirmed *bool      `json:"employerConfirmed"`
	PositionConfirmed *bool      `json:"positionConfirmed"`
	IncomeConfirmed   *bool      `json:"incomeConfirmed"`
	ContactedPerson   *string    `json:"contactedPerson"`
	Notes             *string    `json:"notes"`
}

type RentalHistoryPatch struct {
	Status                    *Status        `json:"status"`
	CurrentLandlordContacted  *bool          `json:"currentLandlordContacted"`
	PreviousLandlordContacted *bool          `json:"previousLandlordContacted"`
	PaidOnTime                Nullable[bool] `json:"paidOnTime"`
	PropertyCondition         *string        `json:"propertyCondition"`
	LeaseViolations           *[]string      `json:"leaseViolations"`
	WouldRentAgain            Nullable[bool] `json:"wouldRentAgain"`
	Notes                     *string        `json:"notes"`
}

type DocumentReviewPatch struct {
	IDVerified             *bool   `json:"idVerified"`
	PayStubsVerified       *bool   `json:"payStubsVerified"`
	BankStatementsReviewed *bool   `json:"bankStatementsReviewed"`
	ProofOfEmployment      *bool   `json:"proofOfEmployment"`
	Notes                  *string `json:"notes"`
}

// IncomeVerificationPatch only carries notes. The figures are written by
// CalculateRentToIncomeRatio.
type IncomeVerificationPatch struct {
	Notes *string `json:"notes"`
}

// Patch is a partial screening. Nil fields keep their current value; a zero
// value that is present, such as a credit score of 0 or paidOnTime false, is
// applied as given.
type Patch struct {
	ApplicationID          *uuid.UUID                   `json:"applicationId"`
	Status                 *Status                      `json:"status"`
	BackgroundCheck        *BackgroundCheckPatch        `json:"backgroundCheck"`
	CreditCheck            *CreditCheckPatch            `json:"creditCheck"`
	EmploymentVerification *EmploymentVerificationPatch `json:"employmentVerification"`
	RentalHistory          *RentalHistoryPatch          `json:"rentalHistory"`
	ReferenceChecks        *[]Reference                 `json:"referenceChecks"`
	DocumentReview         *DocumentReviewPatch         `json:"documentReview"`
	IncomeVerification     *IncomeVerificationPatch     `json:"incomeVerification"`
}

// Parse builds a fully populated screening from a partial one, filling every
// missing field with its default and deriving the score and recommendation.
func Parse(p Patch) Screening {
	var applicationID uuid.UUID
	if p.ApplicationID != nil {
		applicationID = *p.ApplicationID
	}

	s := New(applicationID)
	s.Apply(p)

	return Recompute(s)
}

// Apply copies the fields present in p onto s. Derived fields are left for
// Recompute.
func (s *Screening) Apply(p Patch) {
	set(&s.ApplicationID, p.ApplicationID)
	set(&s.Status, p.Status)

	if b := p.BackgroundCheck; b != nil {
		bc := &s.BackgroundCheck
		set(&bc.Status, b.Status)
		setTime(&bc.CompletedDate, b.CompletedDate)
		set(&bc.Result, b.Result)
		set(&bc.CriminalHistory, b.CriminalHistory)
		set(&bc.Details, b.Details)
		set(&bc.Provider, b.Provider)
		set(&bc.ReportID, b.ReportID)
	}

	if c := p.CreditCheck; c != nil {
		cc := &s.CreditCheck
		set(&cc.Status, c.Status)
		setTime(&cc.CompletedDate, c.CompletedDate)
		c.CreditScore.apply(&cc.CreditScore)
		set(&cc.Result, c.Result)
		set(&cc.Collections, c.Collections)
		set(&cc.Bankruptcies, c.Bankruptcies)
		set(&cc.Evictions, c.Evictions)
		set(&cc.Details, c.Details)
		set(&cc.Provider, c.Provider)
		set(&cc.ReportID, c.ReportID)
	}

	if e := p.EmploymentVerification; e != nil {
		ev := &s.EmploymentVerification
		set(&ev.Status, e.Status)
		setTime(&ev.VerifiedDate, e.VerifiedDate)
		set(&ev.EmployerConfirmed, e.EmployerConfirmed)
		set(&ev.PositionConfirmed, e.PositionConfirmed)
		set(&ev.IncomeConfirmed, e.IncomeConfirmed)
		set(&ev.ContactedPerson, e.ContactedPerson)
		set(&ev.Notes, e.Notes)
	}

	if r := p.RentalHistory; r != nil {
		rh := &s.RentalHistory
		set(&rh.Status, r.Status)
		set(&rh.CurrentLandlordContacted, r.CurrentLandlordContacted)
		set(&rh.PreviousLandlordContacted, r.PreviousLandlordContacted)
		r.PaidOnTime.apply(&rh.PaidOnTime)
		set(&rh.PropertyCondition, r.PropertyCondition)
		r.WouldRentAgain.apply(&rh.WouldRentAgain)
		set(&rh.Notes, r.Notes)

		if r.LeaseViolations != nil {
			rh.LeaseViolations = cloneSlice(*r.LeaseViolations)
		}
	}

	if p.ReferenceChecks != nil {
		s.ReferenceChecks = cloneSlice(*p.ReferenceChecks)
	}

	if d := p.DocumentReview; d != nil {
		dr := &s.DocumentReview
		set(&dr.IDVerified, d.IDVerified)
		set(&dr.PayStubsVerified, d.PayStubsVerified)
		set(&dr.BankStatementsReviewed, d.BankStatementsReviewed)
		set(&dr.ProofOfEmployment, d.ProofOfEmployment)
		set(&dr.Notes, d.Notes)
	}

	if i := p.IncomeVerification; i != nil {
		set(&s.IncomeVerification.Notes, i.Notes)
	}
}

func setTime(dst **time.Time, v *time.Time) {
	if v != nil {
		*dst = clonePtr(v)
	}
}

// touchesSections reports whether p carries any verification work.
func (p Patch) touchesSections() bool {
	return p.BackgroundCheck != nil || p.CreditCheck != nil || p.EmploymentVerification != nil ||
		p.RentalHistory != nil || p.ReferenceChecks != nil || p.DocumentReview != nil || p.IncomeVerification != nil
}
