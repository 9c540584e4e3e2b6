package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/notify"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=message
type Repository interface {
	CreateMessage(ctx context.Context, m *Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (*Message, error)
	ListMessages(ctx context.Context, filter ListFilter) ([]*Message, error)
	ApproveRequest(ctx context.Context, id, workOrderID uuid.UUID, at time.Time) error
	MarkRead(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, filter ListFilter) (int, error)
}

type Tenants interface {
	Get(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
}

type WorkOrders interface {
	Create(ctx context.Context, params workorder.CreateParams) (*workorder.WorkOrder, error)
	GetByRequest(ctx context.Context, requestID uuid.UUID) (*workorder.WorkOrder, error)
}

type Notifier interface {
	Send(ctx context.Context, msg notify.Message) error
}

type Service struct {
	repo       Repository
	tenants    Tenants
	workOrders WorkOrders
	notifier   Notifier
	manager    string
	now        func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithManagerName sets the From shown on manager messages and automatic replies.
func WithManagerName(name string) Option {
	return func(s *Service) { s.manager = name }
}

func NewService(repo Repository, tenants Tenants, workOrders WorkOrders, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		tenants:    tenants,
		workOrders: workOrders,
		notifier:   notify.Log{},
		manager:    "Property Manager",
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type ListFilter struct {
	TenantID *uuid.UUID
	Type     *Type
	Status   *Status
	Unread   bool
	// Sender restricts to messages written by one side, e.g. tenant messages
	// for the manager's unread count.
	Sender *Sender
}

type SendParams struct {
	TenantID uuid.UUID
	Sender   Sender
	Subject  string
	Body     string
	ReplyTo  *uuid.UUID
}

// Send stores a message between the manager and a tenant. A reply inherits
// the subject of the message it answers when none is given.
func (s *Service) Send(ctx context.Context, params SendParams) (*Message, error) {
	if params.Sender != SenderManager && params.Sender != SenderTenant {
		return nil, fmt.Errorf("%w: unknown sender %q", ErrInvalid, params.Sender)
	}

	body := strings.TrimSpace(params.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrInvalid)
	}

	subject := strings.TrimSpace(params.Subject)

	if params.ReplyTo != nil {
		parent, err := s.repo.GetMessage(ctx, *params.ReplyTo)
		if err != nil {
			return nil, fmt.Errorf("getting replied message: %w", err)
		}

		if parent.TenantID != params.TenantID {
			return nil, fmt.Errorf("%w: reply belongs to another conversation", ErrInvalid)
		}

		if subject == "" {
			subject = "Re: " + strings.TrimPrefix(parent.Subject, "Re: ")
		}
	}

	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalid)
	}

	t, err := s.tenants.Get(ctx, params.TenantID)
	if err != nil {
		return nil, fmt.Errorf("getting tenant: %w", err)
	}

	m := s.newMessage(t, params.Sender, subject, body)
	m.ReplyTo = params.ReplyTo

	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) newMessage(t *tenant.Tenant, sender Sender, subject, body string) *Message {
	from := s.manager
	if sender == SenderTenant {
		from = t.Name
	}

	return &Message{
		TenantID:   t.ID,
		PropertyID: &t.PropertyID,
		Unit:       t.Unit,
		Sender:     sender,
		From:       from,
		Subject:    subject,
		Body:       body,
		Type:       TypeMessage,
		CreatedAt:  s.now(),
	}
}

type MaintenanceRequest struct {
	Title              string
	Description        string
	Category           string
	Priority           string
	Location           string
	AccessInstructions string
	PreferredTime      string
	Photos             []string
}

// priorityOf maps the portal's priority labels onto work order priorities.
func priorityOf(label string) (workorder.Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "normal", "medium":
		return workorder.PriorityMedium, true
	case "low":
		return workorder.PriorityLow, true
	case "high":
		return workorder.PriorityHigh, true
	case "urgent", "emergency":
		return workorder.PriorityUrgent, true
	}

	return "", false
}

// SubmitMaintenance records a tenant's maintenance request for the manager
// to approve.
func (s *Service) SubmitMaintenance(ctx context.Context, tenantID uuid.UUID, req MaintenanceRequest) (*Message, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalid)
	}

	priority, ok := priorityOf(req.Priority)
	if !ok {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalid, req.Priority)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "other"
	}

	t, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("getting tenant: %w", err)
	}

	m := s.newMessage(t, SenderTenant, "Maintenance Request: "+title, strings.TrimSpace(req.Description))
	m.Type = TypeMaintenanceRequest
	m.Status = StatusPendingApproval
	m.Maintenance = &Maintenance{
		Title:              title,
		Category:           category,
		Priority:           string(priority),
		Location:           req.Location,
		AccessInstructions: req.AccessInstructions,
		PreferredTime:      req.PreferredTime,
		Photos:             req.Photos,
	}

	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Approval is the outcome of approving a maintenance request.
type Approval struct {
	Request   *Message
	WorkOrder *workorder.WorkOrder
	Reply     *Message
}

// ApproveMaintenance turns a pending maintenance request into a work order
// and replies to the tenant. A request yields one work order; a retry after a
// failed approval picks up the work order already created for it.
func (s *Service) ApproveMaintenance(ctx context.Context, id uuid.UUID) (*Approval, error) {
	m, err := s.repo.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	if m.Type != TypeMaintenanceRequest || m.Maintenance == nil {
		return nil, ErrNotMaintenance
	}

	if m.Status == StatusApproved {
		return nil, ErrAlreadyApproved
	}

	t, err := s.tenants.Get(ctx, m.TenantID)
	if err != nil {
		return nil, fmt.Errorf("getting tenant: %w", err)
	}

	description := m.Body
	if loc := m.Maintenance.Location; loc != "" {
		description += "\n\nLocation: " + loc
	}

	if access := m.Maintenance.AccessInstructions; access != "" {
		description += "\nAccess: " + access
	}

	wo, err := s.workOrders.GetByRequest(ctx, m.ID)
	if errors.Is(err, workorder.ErrNotFound) {
		wo, err = s.workOrders.Create(ctx, workorder.CreateParams{
			Title:       m.Maintenance.Title,
			Description: description,
			PropertyID:  t.PropertyID,
			TenantID:    &t.ID,
			RequestID:   &m.ID,
			Unit:        t.Unit,
			Category:    m.Maintenance.Category,
			Priority:    workorder.Priority(m.Maintenance.Priority),
		})
		if errors.Is(err, workorder.ErrExists) {
			wo, err = s.workOrders.GetByRequest(ctx, m.ID)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("creating work order: %w", err)
	}

	approvedAt := s.now()
	if err := s.repo.ApproveRequest(ctx, m.ID, wo.ID, approvedAt); err != nil {
		return nil, fmt.Errorf("approving request: %w", err)
	}

	m.Status = StatusApproved
	m.WorkOrderID = &wo.ID
	m.ApprovedAt = &approvedAt

	reply := s.newMessage(t, SenderManager, "Re: "+m.Subject,
		"Your maintenance request has been approved and converted to a work order. "+
			"We will address this issue as soon as possible.")
	reply.Type = TypeApprovalNotification
	reply.ReplyTo = &m.ID
	reply.WorkOrderID = &wo.ID

	if err := s.repo.CreateMessage(ctx, reply); err != nil {
		return nil, fmt.Errorf("creating reply: %w", err)
	}

	if t.Email != "" {
		if err := s.notifier.Send(ctx, notify.MaintenanceApproved(t.Email, t.Name, m.Maintenance.Title)); err != nil {
			slog.Error("failed to send maintenance approval", "message_id", m.ID, "error", err)
		}
	}

	return &Approval{Request: m, WorkOrder: wo, Reply: reply}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	return s.repo.GetMessage(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Message, error) {
	return s.repo.ListMessages(ctx, filter)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) UnreadCount(ctx context.Context, filter ListFilter) (int, error) {
	return s.repo.CountUnread(ctx, filter)
}
