package message

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeMessage              Type = "message"
	TypeMaintenanceRequest   Type = "maintenance_request"
	TypeApprovalNotification Type = "approval_notification"
)

// Sender is which side of the conversation wrote a message.
type Sender string

const (
	SenderManager Sender = "manager"
	SenderTenant  Sender = "tenant"
)

// Status only applies to maintenance requests.
type Status string

const (
	StatusNone            Status = ""
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
)

// Maintenance is what a tenant filled in on the portal's maintenance form.
type Maintenance struct {
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	Priority           string   `json:"priority"`
	Location           string   `json:"location,omitempty"`
	AccessInstructions string   `json:"accessInstructions,omitempty"`
	PreferredTime      string   `json:"preferredTime,omitempty"`
	Photos             []string `json:"photos,omitempty"`
}

// Message is one entry in the conversation between the manager and a tenant.
type Message struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	PropertyID  *uuid.UUID
	Unit        string
	Sender      Sender
	From        string
	Subject     string
	Body        string
	Type        Type
	Status      Status
	Maintenance *Maintenance
	WorkOrderID *uuid.UUID
	ReplyTo     *uuid.UUID
	Read        bool
	ApprovedAt  *time.Time
	CreatedAt   time.Time
}
