package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/screening"
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

// sections holds the JSON columns of a screening row, in column order.
type sections struct {
	background []byte
	credit     []byte
	employment []byte
	rental     []byte
	references []byte
	documents  []byte
	income     []byte
	conditions []byte
}

func (c *sections) targets() []any {
	return []any{&c.background, &c.credit, &c.employment, &c.rental, &c.references, &c.documents, &c.income, &c.conditions}
}

func encodeSections(s *screening.Screening) (sections, error) {
	var (
		c   sections
		err error
	)

	values := []struct {
		dst  *[]byte
		v    any
		name string
	}{
		{&c.background, s.BackgroundCheck, "background check"},
		{&c.credit, s.CreditCheck, "credit check"},
		{&c.employment, s.EmploymentVerification, "employment verification"},
		{&c.rental, s.RentalHistory, "rental history"},
		{&c.references, nonNil(s.ReferenceChecks), "reference checks"},
		{&c.documents, s.DocumentReview, "document review"},
		{&c.income, s.IncomeVerification, "income verification"},
		{&c.conditions, nonNil(s.Conditions), "conditions"},
	}

	for _, v := range values {
		if *v.dst, err = json.Marshal(v.v); err != nil {
			return c, fmt.Errorf("encoding %s: %w", v.name, err)
		}
	}

	return c, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}

	return in
}

func (c *sections) decode(s *screening.Screening) error {
	values := []struct {
		raw  []byte
		dst  any
		name string
	}{
		{c.background, &s.BackgroundCheck, "background check"},
		{c.credit, &s.CreditCheck, "credit check"},
		{c.employment, &s.EmploymentVerification, "employment verification"},
		{c.rental, &s.RentalHistory, "rental history"},
		{c.references, &s.ReferenceChecks, "reference checks"},
		{c.documents, &s.DocumentReview, "document review"},
		{c.income, &s.IncomeVerification, "income verification"},
		{c.conditions, &s.Conditions, "conditions"},
	}

	for _, v := range values {
		if len(v.raw) == 0 {
			continue
		}

		if err := json.Unmarshal(v.raw, v.dst); err != nil {
			return fmt.Errorf("decoding %s: %w", v.name, err)
		}
	}

	s.RentalHistory.LeaseViolations = nonNil(s.RentalHistory.LeaseViolations)
	s.ReferenceChecks = nonNil(s.ReferenceChecks)
	s.Conditions = nonNil(s.Conditions)

	return nil
}

// Expected column order matches selectScreeningColumns.
func scanScreening(sc scanner) (*screening.Screening, error) {
	s := screening.New(uuid.Nil)

	var status, recommendation, decision string

	var reviewedBy, decisionBy sql.NullString

	var cols sections

	dest := []any{&s.ID, &s.ApplicationID, &status}
	dest = append(dest, cols.targets()...)
	dest = append(dest,
		&s.OverallScore, &recommendation, &s.RecommendationReason,
		&reviewedBy, &s.ReviewedDate,
		&decision, &s.DecisionDate, &s.DecisionReason, &decisionBy,
		&s.AdverseActionRequired, &s.AdverseActionSentDate,
		&s.CreatedAt, &s.UpdatedAt,
	)

	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}

	if err := cols.decode(&s); err != nil {
		return nil, err
	}

	s.Status = screening.Status(status)
	s.Recommendation = screening.Recommendation(recommendation)
	s.Decision = screening.Decision(decision)
	s.ReviewedBy = reviewedBy.String
	s.DecisionBy = decisionBy.String

	return &s, nil
}

const selectScreeningColumns = `
	id, application_id, status,
	background_check, credit_check, employment_verification, rental_history,
	reference_checks, document_review, income_verification, conditions,
	overall_score, recommendation, recommendation_reason,
	reviewed_by, reviewed_date,
	decision, decision_date, decision_reason, decision_by,
	adverse_action_required, adverse_action_sent_date,
	created_at, updated_at
`

func (s *Store) CreateScreening(ctx context.Context, scr *screening.Screening) error {
	cols, err := encodeSections(scr)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO screenings (
			application_id, status,
			background_check, credit_check, employment_verification, rental_history,
			reference_checks, document_review, income_verification, conditions,
			overall_score, recommendation, recommendation_reason, adverse_action_required,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		scr.ApplicationID, scr.Status,
		cols.background, cols.credit, cols.employment, cols.rental,
		cols.references, cols.documents, cols.income, cols.conditions,
		scr.OverallScore, scr.Recommendation, scr.RecommendationReason, scr.AdverseActionRequired,
	).Scan(&scr.ID, &scr.CreatedAt, &scr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating screening: %w", err)
	}

	return nil
}

func (s *Store) getBy(ctx context.Context, column string, id uuid.UUID) (*screening.Screening, error) {
	query := `SELECT ` + selectScreeningColumns + ` FROM screenings WHERE ` + column + ` = $1 AND deleted_at IS NULL`

	scr, err := scanScreening(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, screening.ErrNotFound
		}

		return nil, fmt.Errorf("getting screening: %w", err)
	}

	return scr, nil
}

func (s *Store) GetScreening(ctx context.Context, id uuid.UUID) (*screening.Screening, error) {
	return s.getBy(ctx, "id", id)
}

func (s *Store) GetScreeningByApplication(ctx context.Context, applicationID uuid.UUID) (*screening.Screening, error) {
	return s.getBy(ctx, "application_id", applicationID)
}

func (s *Store) ListScreenings(ctx context.Context, filter screening.ListFilter) ([]*screening.Screening, error) {
	query := `SELECT ` + selectScreeningColumns + ` FROM screenings WHERE deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Recommendation != nil {
		query += fmt.Sprintf(" AND recommendation = $%d", argIdx)

		args = append(args, *filter.Recommendation)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing screenings: %w", err)
	}
	defer rows.Close()

	var out []*screening.Screening

	for rows.Next() {
		scr, err := scanScreening(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning screening: %w", err)
		}

		out = append(out, scr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating screening rows: %w", err)
	}

	return out, nil
}

func (s *Store) UpdateScreening(ctx context.Context, scr *screening.Screening) error {
	cols, err := encodeSections(scr)
	if err != nil {
		return err
	}

	query := `
		UPDATE screenings
		SET status = $1,
			background_check = $2, credit_check = $3, employment_verification = $4, rental_history = $5,
			reference_checks = $6, document_review = $7, income_verification = $8, conditions = $9,
			overall_score = $10, recommendation = $11, recommendation_reason = $12,
			reviewed_by = $13, reviewed_date = $14,
			decision = $15, decision_date = $16, decision_reason = $17, decision_by = $18,
			adverse_action_required = $19, adverse_action_sent_date = $20,
			updated_at = NOW()
		WHERE id = $21 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		scr.Status,
		cols.background, cols.credit, cols.employment, cols.rental,
		cols.references, cols.documents, cols.income, cols.conditions,
		scr.OverallScore, scr.Recommendation, scr.RecommendationReason,
		scr.ReviewedBy, scr.ReviewedDate,
		scr.Decision, scr.DecisionDate, scr.DecisionReason, scr.DecisionBy,
		scr.AdverseActionRequired, scr.AdverseActionSentDate,
		scr.ID,
	)
	if err != nil {
		return fmt.Errorf("updating screening: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return screening.ErrNotFound
	}

	return nil
}
