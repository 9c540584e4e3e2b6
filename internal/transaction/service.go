package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	AttachReceipt(ctx context.Context, id uuid.UUID, receiptURL string) error
	SumByType(ctx context.Context, filter ListFilter) (Totals, error)

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

// ImportTx holds the import lock for a date range until Commit or Rollback.
type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Amount         int64
	Type           Type
	Status         Status
	Category       string
	Description    string
	RawDescription string
	Date           time.Time
	PropertyID     *uuid.UUID
	TenantID       *uuid.UUID
	Unit           string
}

type ListFilter struct {
	Status     *Status
	Type       *Type
	Category   *string
	PropertyID *uuid.UUID
	TenantID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func (p *CreateParams) normalize() error {
	if p.Amount < 0 {
		p.Amount = -p.Amount

		if p.Type == "" {
			p.Type = TypeExpense
		}
	}

	if p.Type == "" {
		p.Type = TypeIncome
	}

	if p.Status == "" {
		p.Status = StatusCompleted
	}

	p.Category = strings.TrimSpace(p.Category)
	p.Description = strings.TrimSpace(p.Description)

	if p.RawDescription == "" {
		p.RawDescription = p.Description
	}

	var problems []string

	if p.Amount == 0 {
		problems = append(problems, "amount is required")
	}

	if !p.Type.Valid() {
		problems = append(problems, fmt.Sprintf("unknown type %q", p.Type))
	}

	if p.Date.IsZero() {
		problems = append(problems, "date is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	return nil
}

func (p CreateParams) transaction() *Transaction {
	return &Transaction{
		Amount:         p.Amount,
		Type:           p.Type,
		Status:         p.Status,
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Date:           p.Date,
		PropertyID:     p.PropertyID,
		TenantID:       p.TenantID,
		Unit:           p.Unit,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}

	tx := params.transaction()
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// RecordRent books a completed rent payment from a tenant.
func (s *Service) RecordRent(ctx context.Context, tenantID, propertyID uuid.UUID, unit string, amount int64, date time.Time) (*Transaction, error) {
	return s.Create(ctx, CreateParams{
		Amount:      amount,
		Type:        TypeIncome,
		Status:      StatusCompleted,
		Category:    CategoryRent,
		Description: "Rent payment",
		Date:        date,
		PropertyID:  &propertyID,
		TenantID:    &tenantID,
		Unit:        unit,
	})
}

func (s *Service) AttachReceipt(ctx context.Context, id uuid.UUID, receiptURL string) error {
	if strings.TrimSpace(receiptURL) == "" {
		return fmt.Errorf("%w: receipt url is required", ErrInvalid)
	}

	return s.repo.AttachReceipt(ctx, id, receiptURL)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Totals sums income and expenses matching filter.
func (s *Service) Totals(ctx context.Context, filter ListFilter) (Totals, error) {
	return s.repo.SumByType(ctx, filter)
}

// MonthlyRevenue is the rent and other income booked in the calendar month
// containing at.
func (s *Service) MonthlyRevenue(ctx context.Context, at time.Time) (int64, error) {
	start := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	end := start.AddDate(0, 1, -1)
	income := TypeIncome

	totals, err := s.repo.SumByType(ctx, ListFilter{Type: &income, StartDate: &start, EndDate: &end})
	if err != nil {
		return 0, fmt.Errorf("summing monthly revenue: %w", err)
	}

	return totals.Income, nil
}

func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	if tx.Amount <= 0 || !tx.Type.Valid() {
		return fmt.Errorf("%w: amount must be positive and type income or expense", ErrInvalid)
	}

	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

// Conflict pairs an incoming row with the ledger entry it duplicates.
type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date           string
	Amount         int64
	Type           Type
	RawDescription string
}

func keyOf(date time.Time, amount int64, typ Type, raw string) dupKey {
	return dupKey{
		Date:           date.Format(time.DateOnly),
		Amount:         amount,
		Type:           typ,
		RawDescription: strings.ToLower(strings.TrimSpace(raw)),
	}
}

// ImportBatch imports rows unless any of them duplicates an existing entry, in
// which case nothing is written and the conflicts are returned for review.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i := range params {
		if err := params[i].normalize(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.Type, d.RawDescription)] = d
	}

	var (
		fresh     []CreateParams
		conflicts []Conflict
	)

	for _, p := range params {
		if existing, found := lookup[keyOf(p.Date, p.Amount, p.Type, p.RawDescription)]; found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		fresh = append(fresh, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: fresh, Conflicts: conflicts}, nil
	}

	txs := toTransactions(fresh)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch writes rows without duplicate checks, for confirming an import
// whose conflicts were reviewed.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i := range params {
		if err := params[i].normalize(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := toTransactions(params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func toTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = p.transaction()
	}

	return txs
}
