package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order matches selectApplicationColumns.
func scanApplication(s scanner) (*application.Application, error) {
	var a application.Application

	var status string

	var additional, address, contact []byte

	var phone, dob, ssn, unit, employer, title, startDate, employerPhone, notes, signature, reviewedBy, reason sql.NullString

	if err := s.Scan(
		&a.ID, &status, &a.SubmittedDate,
		&a.FirstName, &a.LastName, &a.Email, &phone, &dob, &ssn,
		&a.PropertyID, &unit, &a.DesiredMoveInDate, &a.LeaseTerm,
		&employer, &title, &startDate, &employerPhone, &a.MonthlyIncome, &additional,
		&address, &contact,
		&a.HasEvictions, &a.HasBankruptcy, &a.HasCriminalHistory, &notes,
		&a.BackgroundCheckConsent, &a.CreditCheckConsent, &signature, &a.ConsentDate,
		&a.ScreeningID, &a.TenantID, &reviewedBy, &a.ReviewedDate, &reason,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Status = application.Status(status)
	a.Phone = phone.String
	a.DateOfBirth = dob.String
	a.SSNLast4 = ssn.String
	a.DesiredUnit = unit.String
	a.CurrentEmployer = employer.String
	a.JobTitle = title.String
	a.EmploymentStartDate = startDate.String
	a.EmployerPhone = employerPhone.String
	a.DisclosureNotes = notes.String
	a.ConsentSignature = signature.String
	a.ReviewedBy = reviewedBy.String
	a.DecisionReason = reason.String

	if err := unmarshalNested(additional, &a.AdditionalIncome); err != nil {
		return nil, fmt.Errorf("decoding additional income: %w", err)
	}

	if err := unmarshalNested(address, &a.CurrentAddress); err != nil {
		return nil, fmt.Errorf("decoding current address: %w", err)
	}

	if err := unmarshalNested(contact, &a.EmergencyContact); err != nil {
		return nil, fmt.Errorf("decoding emergency contact: %w", err)
	}

	return &a, nil
}

func unmarshalNested(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}

	return json.Unmarshal(raw, v)
}

type nested struct {
	additional []byte
	address    []byte
	contact    []byte
}

func marshalNested(a *application.Application) (nested, error) {
	var (
		n   nested
		err error
	)

	income := a.AdditionalIncome
	if income == nil {
		income = []application.IncomeSource{}
	}

	if n.additional, err = json.Marshal(income); err != nil {
		return n, fmt.Errorf("encoding additional income: %w", err)
	}

	if n.address, err = json.Marshal(a.CurrentAddress); err != nil {
		return n, fmt.Errorf("encoding current address: %w", err)
	}

	if n.contact, err = json.Marshal(a.EmergencyContact); err != nil {
		return n, fmt.Errorf("encoding emergency contact: %w", err)
	}

	return n, nil
}

const selectApplicationColumns = `
	id, status, submitted_date,
	first_name, last_name, email, phone, date_of_birth, ssn_last4,
	property_id, desired_unit, desired_move_in_date, lease_term,
	current_employer, job_title, employment_start_date, employer_phone, monthly_income, additional_income,
	current_address, emergency_contact,
	has_evictions, has_bankruptcy, has_criminal_history, disclosure_notes,
	background_check_consent, credit_check_consent, consent_signature, consent_date,
	screening_id, tenant_id, reviewed_by, reviewed_date, decision_reason,
	created_at, updated_at
`

func (s *Store) CreateApplication(ctx context.Context, a *application.Application) error {
	n, err := marshalNested(a)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO applications (
			status, submitted_date, first_name, last_name, email, phone, date_of_birth, ssn_last4,
			property_id, desired_unit, desired_move_in_date, lease_term,
			current_employer, job_title, employment_start_date, employer_phone, monthly_income, additional_income,
			current_address, emergency_contact,
			has_evictions, has_bankruptcy, has_criminal_history, disclosure_notes,
			background_check_consent, credit_check_consent, consent_signature, consent_date,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		a.Status, a.SubmittedDate, a.FirstName, a.LastName, a.Email, a.Phone, a.DateOfBirth, a.SSNLast4,
		a.PropertyID, a.DesiredUnit, a.DesiredMoveInDate, a.LeaseTerm,
		a.CurrentEmployer, a.JobTitle, a.EmploymentStartDate, a.EmployerPhone, a.MonthlyIncome, n.additional,
		n.address, n.contact,
		a.HasEvictions, a.HasBankruptcy, a.HasCriminalHistory, a.DisclosureNotes,
		a.BackgroundCheckConsent, a.CreditCheckConsent, a.ConsentSignature, a.ConsentDate,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating application: %w", err)
	}

	return nil
}

func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*application.Application, error) {
	query := `SELECT ` + selectApplicationColumns + ` FROM applications WHERE id = $1 AND deleted_at IS NULL`

	a, err := scanApplication(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrNotFound
		}

		return nil, fmt.Errorf("getting application: %w", err)
	}

	return a, nil
}

func (s *Store) ListApplications(ctx context.Context, filter application.ListFilter) ([]*application.Application, error) {
	query := `SELECT ` + selectApplicationColumns + ` FROM applications WHERE deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.PropertyID != nil {
		query += fmt.Sprintf(" AND property_id = $%d", argIdx)

		args = append(args, *filter.PropertyID)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY submitted_date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var out []*application.Application

	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}

		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating application rows: %w", err)
	}

	return out, nil
}

func (s *Store) UpdateApplication(ctx context.Context, a *application.Application) error {
	n, err := marshalNested(a)
	if err != nil {
		return err
	}

	query := `
		UPDATE applications
		SET status = $1, first_name = $2, last_name = $3, email = $4, phone = $5, date_of_birth = $6, ssn_last4 = $7,
			property_id = $8, desired_unit = $9, desired_move_in_date = $10, lease_term = $11,
			current_employer = $12, job_title = $13, employment_start_date = $14, employer_phone = $15,
			monthly_income = $16, additional_income = $17, current_address = $18, emergency_contact = $19,
			has_evictions = $20, has_bankruptcy = $21, has_criminal_history = $22, disclosure_notes = $23,
			background_check_consent = $24, credit_check_consent = $25, consent_signature = $26, consent_date = $27,
			screening_id = $28, reviewed_by = $29, reviewed_date = $30, decision_reason = $31,
			updated_at = NOW()
		WHERE id = $32 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		a.Status, a.FirstName, a.LastName, a.Email, a.Phone, a.DateOfBirth, a.SSNLast4,
		a.PropertyID, a.DesiredUnit, a.DesiredMoveInDate, a.LeaseTerm,
		a.CurrentEmployer, a.JobTitle, a.EmploymentStartDate, a.EmployerPhone,
		a.MonthlyIncome, n.additional, n.address, n.contact,
		a.HasEvictions, a.HasBankruptcy, a.HasCriminalHistory, a.DisclosureNotes,
		a.BackgroundCheckConsent, a.CreditCheckConsent, a.ConsentSignature, a.ConsentDate,
		a.ScreeningID, a.ReviewedBy, a.ReviewedDate, a.DecisionReason,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating application: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return application.ErrNotFound
	}

	return nil
}

// LinkTenant sets tenant_id only while it is still empty, so an application
// is linked to one tenant no matter how many conversions race.
func (s *Store) LinkTenant(ctx context.Context, id, tenantID uuid.UUID) error {
	query := `
		UPDATE applications
		SET tenant_id = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id IS NULL AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, tenantID, id)
	if err != nil {
		return fmt.Errorf("linking tenant: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return application.ErrAlreadyConverted
	}

	return nil
}

func (s *Store) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE applications
		SET deleted_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}

	return nil
}

func (s *Store) CountByStatus(ctx context.Context) (map[application.Status]int, error) {
	query := `SELECT status, COUNT(*) FROM applications WHERE deleted_at IS NULL GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting applications: %w", err)
	}
	defer rows.Close()

	counts := make(map[application.Status]int)

	for rows.Next() {
		var (
			status string
			n      int
		)

		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning application count: %w", err)
		}

		counts[application.Status(status)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating application counts: %w", err)
	}

	return counts, nil
}
