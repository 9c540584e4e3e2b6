package workorder

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}

	return false
}

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusClosed:
		return true
	}

	return false
}

// Active reports whether work is still outstanding.
func (s Status) Active() bool {
	return s == StatusOpen || s == StatusInProgress
}

const DefaultCategory = "Maintenance"

// WorkOrder is a maintenance job on a property, optionally raised by a tenant.
type WorkOrder struct {
	ID            uuid.UUID
	Title         string
	Description   string
	PropertyID    uuid.UUID
	TenantID      *uuid.UUID
	RequestID     *uuid.UUID // maintenance request it was approved from
	Unit          string
	Category      string
	Priority      Priority
	Status        Status
	AssignedTo    string
	EstimatedCost int64 // cents
	ActualCost    int64 // cents
	DueDate       *time.Time
	SubmittedDate time.Time
	CompletedDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
}

// Overdue reports whether an active order is past its due date at now.
func (w *WorkOrder) Overdue(now time.Time) bool {
	return w.Status.Active() && w.DueDate != nil && now.After(*w.DueDate)
}

// Counts summarizes outstanding work for the dashboard.
type Counts struct {
	Pending int `json:"pending"`
	Urgent  int `json:"urgent"`
}
