package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=application
type Repository interface {
	CreateApplication(ctx context.Context, a *Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*Application, error)
	ListApplications(ctx context.Context, filter ListFilter) ([]*Application, error)
	UpdateApplication(ctx context.Context, a *Application) error
	LinkTenant(ctx context.Context, id, tenantID uuid.UUID) error
	DeleteApplication(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// TenantCreator creates the tenant an approved application turns into. At most
// one live tenant exists per application; Create returns tenant.ErrExists
// otherwise.
type TenantCreator interface {
	Create(ctx context.Context, params tenant.CreateParams) (*tenant.Tenant, error)
	GetByApplication(ctx context.Context, applicationID uuid.UUID) (*tenant.Tenant, error)
}

type Service struct {
	repo    Repository
	tenants TenantCreator
	now     func() time.Time
}

func NewService(repo Repository, tenants TenantCreator) *Service {
	return &Service{repo: repo, tenants: tenants, now: time.Now}
}

type ListFilter struct {
	Status     *Status
	PropertyID *uuid.UUID
	Search     string
}

// Stats counts applications per status. Total covers every status.
type Stats struct {
	Total       int `json:"total"`
	Submitted   int `json:"submitted"`
	Screening   int `json:"screening"`
	Approved    int `json:"approved"`
	Conditional int `json:"conditional"`
	Rejected    int `json:"rejected"`
	Withdrawn   int `json:"withdrawn"`
}

// ConvertParams overrides what ConvertToTenant derives from the application.
// A zero Rent falls back to a third of the applicant's total monthly income.
type ConvertParams struct {
	Rent float64
	Unit string
}

func invalid(result ValidationResult) error {
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(result.Errors, "; "))
}

func (s *Service) Create(ctx context.Context, a *Application) error {
	if a.LeaseTerm == 0 {
		a.LeaseTerm = DefaultLeaseTerm
	}

	a.Email = strings.ToLower(strings.TrimSpace(a.Email))

	if result := a.Validate(); !result.Valid {
		return invalid(result)
	}

	a.Status = StatusSubmitted
	a.SubmittedDate = s.now()
	a.ScreeningID = nil
	a.TenantID = nil

	if a.ConsentDate == nil {
		a.ConsentDate = new(a.SubmittedDate)
	}

	return s.repo.CreateApplication(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Application, error) {
	return s.repo.GetApplication(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Application, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.ListApplications(ctx, filter)
}

// Update replaces the applicant-editable fields of an application. Identity,
// submission date, status and links are kept from the stored record.
func (s *Service) Update(ctx context.Context, a *Application) error {
	current, err := s.repo.GetApplication(ctx, a.ID)
	if err != nil {
		return err
	}

	if a.LeaseTerm == 0 {
		a.LeaseTerm = current.LeaseTerm
	}

	a.Status = current.Status
	a.SubmittedDate = current.SubmittedDate
	a.ScreeningID = current.ScreeningID
	a.TenantID = current.TenantID
	a.ReviewedBy = current.ReviewedBy
	a.ReviewedDate = current.ReviewedDate
	a.DecisionReason = current.DecisionReason
	a.CreatedAt = current.CreatedAt

	if result := a.Validate(); !result.Valid {
		return invalid(result)
	}

	return s.repo.UpdateApplication(ctx, a)
}

type StatusUpdate struct {
	Status     Status
	ReviewedBy string
	Reason     string
}

// UpdateStatus moves an application along its lifecycle. Moving to the status it
// already has is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (*Application, error) {
	a, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status == update.Status {
		return a, nil
	}

	if !CanTransition(a.Status, update.Status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.Status, update.Status)
	}

	a.Status = update.Status

	switch update.Status {
	case StatusApproved, StatusConditional, StatusRejected:
		a.ReviewedBy = update.ReviewedBy
		a.ReviewedDate = new(s.now())
		a.DecisionReason = update.Reason
	case StatusWithdrawn:
		if update.Reason != "" {
			a.DecisionReason = update.Reason
		}
	}

	if err := s.repo.UpdateApplication(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteApplication(ctx, id)
}

// LinkScreening records the screening started for an application.
func (s *Service) LinkScreening(ctx context.Context, id, screeningID uuid.UUID) error {
	a, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return err
	}

	if a.ScreeningID != nil {
		if *a.ScreeningID == screeningID {
			return nil
		}

		return ErrScreeningLinked
	}

	a.ScreeningID = &screeningID

	return s.repo.UpdateApplication(ctx, a)
}

func dollarsToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// ConvertToTenant creates a tenant from an approved application and records the
// link on the application. An application converts at most once. A tenant left
// behind by an earlier attempt that failed to link is reused.
func (s *Service) ConvertToTenant(ctx context.Context, id uuid.UUID, params ConvertParams) (*tenant.Tenant, error) {
	a, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.TenantID != nil {
		return nil, ErrAlreadyConverted
	}

	if a.Status != StatusApproved {
		return nil, ErrNotApproved
	}

	rent := params.Rent
	if rent <= 0 {
		rent = a.TotalMonthlyIncome() / 3
	}

	unit := params.Unit
	if unit == "" {
		unit = a.DesiredUnit
	}

	var leaseStart time.Time
	if a.DesiredMoveInDate != nil {
		leaseStart = *a.DesiredMoveInDate
	}

	t, err := s.tenants.GetByApplication(ctx, a.ID)
	if err == nil {
		return s.linkTenant(ctx, a, t)
	}

	if !errors.Is(err, tenant.ErrNotFound) {
		return nil, fmt.Errorf("looking up tenant: %w", err)
	}

	t, err = s.tenants.Create(ctx, tenant.CreateParams{
		Name:          a.FullName(),
		Email:         a.Email,
		Phone:         a.Phone,
		PropertyID:    a.PropertyID,
		Unit:          unit,
		Rent:          dollarsToCents(rent),
		LeaseStart:    leaseStart,
		LeaseEnd:      a.LeaseEnd(),
		Status:        tenant.StatusActive,
		ApplicationID: &a.ID,
	})
	if errors.Is(err, tenant.ErrExists) {
		t, err = s.tenants.GetByApplication(ctx, a.ID)
	}

	if err != nil {
		return nil, fmt.Errorf("creating tenant: %w", err)
	}

	return s.linkTenant(ctx, a, t)
}

func (s *Service) linkTenant(ctx context.Context, a *Application, t *tenant.Tenant) (*tenant.Tenant, error) {
	if err := s.repo.LinkTenant(ctx, a.ID, t.ID); err != nil {
		return nil, fmt.Errorf("linking tenant: %w", err)
	}

	a.TenantID = &t.ID

	return t, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("counting applications: %w", err)
	}

	stats := Stats{
		Submitted:   counts[StatusSubmitted],
		Screening:   counts[StatusScreening],
		Approved:    counts[StatusApproved],
		Conditional: counts[StatusConditional],
		Rejected:    counts[StatusRejected],
		Withdrawn:   counts[StatusWithdrawn],
	}

	for _, n := range counts {
		stats.Total += n
	}

	return stats, nil
}
