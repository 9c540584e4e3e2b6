package tenant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tenant
type Repository interface {
	CreateTenant(ctx context.Context, t *Tenant) error
	GetTenant(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetTenantByEmail(ctx context.Context, email string) (*Tenant, error)
	GetTenantByApplication(ctx context.Context, applicationID uuid.UUID) (*Tenant, error)
	ListTenants(ctx context.Context, filter ListFilter) ([]*Tenant, error)
	UpdateTenant(ctx context.Context, t *Tenant) error
	DeleteTenant(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name          string
	Email         string
	Phone         string
	PropertyID    uuid.UUID
	Unit          string
	Rent          int64
	LeaseStart    time.Time
	LeaseEnd      time.Time
	Status        Status
	Balance       int64
	ApplicationID *uuid.UUID
}

type ListFilter struct {
	PropertyID *uuid.UUID
	Status     *Status
}

func (p CreateParams) validate() error {
	var problems []string

	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	}

	if p.PropertyID == uuid.Nil {
		problems = append(problems, "property is required")
	}

	if p.Rent < 0 {
		problems = append(problems, "rent cannot be negative")
	}

	if !p.LeaseStart.IsZero() && !p.LeaseEnd.IsZero() && p.LeaseEnd.Before(p.LeaseStart) {
		problems = append(problems, "lease end is before lease start")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Tenant, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = StatusActive
	}

	t := &Tenant{
		Name:          strings.TrimSpace(params.Name),
		Email:         strings.ToLower(strings.TrimSpace(params.Email)),
		Phone:         params.Phone,
		PropertyID:    params.PropertyID,
		Unit:          params.Unit,
		Rent:          params.Rent,
		LeaseStart:    params.LeaseStart,
		LeaseEnd:      params.LeaseEnd,
		Status:        status,
		Balance:       params.Balance,
		ApplicationID: params.ApplicationID,
	}
	if err := s.repo.CreateTenant(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return s.repo.GetTenant(ctx, id)
}

// GetByEmail looks a tenant up by the address they sign into the portal with.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Tenant, error) {
	return s.repo.GetTenantByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) GetByApplication(ctx context.Context, applicationID uuid.UUID) (*Tenant, error) {
	return s.repo.GetTenantByApplication(ctx, applicationID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Tenant, error) {
	return s.repo.ListTenants(ctx, filter)
}

func (s *Service) Update(ctx context.Context, t *Tenant) error {
	params := CreateParams{
		Name:       t.Name,
		PropertyID: t.PropertyID,
		Rent:       t.Rent,
		LeaseStart: t.LeaseStart,
		LeaseEnd:   t.LeaseEnd,
	}
	if err := params.validate(); err != nil {
		return err
	}

	return s.repo.UpdateTenant(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTenant(ctx, id)
}

// CreateBatch creates every tenant in params, stopping at the first failure.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Tenant, error) {
	out := make([]*Tenant, 0, len(params))

	for i, p := range params {
		t, err := s.Create(ctx, p)
		if err != nil {
			return out, fmt.Errorf("tenant %d: %w", i+1, err)
		}

		out = append(out, t)
	}

	return out, nil
}
