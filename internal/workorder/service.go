package workorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=workorder
type Repository interface {
	CreateWorkOrder(ctx context.Context, w *WorkOrder) error
	GetWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	GetWorkOrderByRequest(ctx context.Context, requestID uuid.UUID) (*WorkOrder, error)
	ListWorkOrders(ctx context.Context, filter ListFilter) ([]*WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, w *WorkOrder) error
	DeleteWorkOrder(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context) (Counts, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	Title         string
	Description   string
	PropertyID    uuid.UUID
	TenantID      *uuid.UUID
	RequestID     *uuid.UUID
	Unit          string
	Category      string
	Priority      Priority
	AssignedTo    string
	EstimatedCost int64
	DueDate       *time.Time
}

type ListFilter struct {
	PropertyID *uuid.UUID
	TenantID   *uuid.UUID
	Status     *Status
	Priority   *Priority
}

func validate(w *WorkOrder) error {
	var problems []string

	if strings.TrimSpace(w.Title) == "" {
		problems = append(problems, "title is required")
	}

	if w.PropertyID == uuid.Nil {
		problems = append(problems, "property is required")
	}

	if !w.Priority.Valid() {
		problems = append(problems, fmt.Sprintf("unknown priority %q", w.Priority))
	}

	if !w.Status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", w.Status))
	}

	if w.EstimatedCost < 0 || w.ActualCost < 0 {
		problems = append(problems, "costs cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*WorkOrder, error) {
	w := &WorkOrder{
		Title:         strings.TrimSpace(params.Title),
		Description:   strings.TrimSpace(params.Description),
		PropertyID:    params.PropertyID,
		TenantID:      params.TenantID,
		RequestID:     params.RequestID,
		Unit:          params.Unit,
		Category:      params.Category,
		Priority:      params.Priority,
		Status:        StatusOpen,
		AssignedTo:    params.AssignedTo,
		EstimatedCost: params.EstimatedCost,
		DueDate:       params.DueDate,
		SubmittedDate: s.now(),
	}

	if w.Category == "" {
		w.Category = DefaultCategory
	}

	if w.Priority == "" {
		w.Priority = PriorityMedium
	}

	if err := validate(w); err != nil {
		return nil, err
	}

	if err := s.repo.CreateWorkOrder(ctx, w); err != nil {
		return nil, err
	}

	return w, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	return s.repo.GetWorkOrder(ctx, id)
}

// GetByRequest returns the work order approved from a maintenance request.
func (s *Service) GetByRequest(ctx context.Context, requestID uuid.UUID) (*WorkOrder, error) {
	return s.repo.GetWorkOrderByRequest(ctx, requestID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*WorkOrder, error) {
	return s.repo.ListWorkOrders(ctx, filter)
}

// Update saves w, keeping CompletedDate in step with the status.
func (s *Service) Update(ctx context.Context, w *WorkOrder) error {
	if err := validate(w); err != nil {
		return err
	}

	s.stampCompletion(w)

	return s.repo.UpdateWorkOrder(ctx, w)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*WorkOrder, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}

	w, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	w.Status = status
	s.stampCompletion(w)

	if err := s.repo.UpdateWorkOrder(ctx, w); err != nil {
		return nil, err
	}

	return w, nil
}

func (s *Service) stampCompletion(w *WorkOrder) {
	switch {
	case w.Status.Active():
		w.CompletedDate = nil
	case w.CompletedDate == nil:
		w.CompletedDate = new(s.now())
	}
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteWorkOrder(ctx, id)
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.repo.CountActive(ctx)
}
