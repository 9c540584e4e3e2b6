package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/message"
)

type MessageResponse struct {
	ID          uuid.UUID            `json:"id"`
	TenantID    uuid.UUID            `json:"tenantId"`
	PropertyID  *uuid.UUID           `json:"propertyId,omitempty"`
	Unit        string               `json:"unit"`
	Sender      message.Sender       `json:"sender"`
	From        string               `json:"from"`
	Subject     string               `json:"subject"`
	Body        string               `json:"body"`
	Type        message.Type         `json:"type"`
	Status      message.Status       `json:"status,omitempty"`
	Maintenance *message.Maintenance `json:"maintenance,omitempty"`
	WorkOrderID *uuid.UUID           `json:"workOrderId,omitempty"`
	ReplyTo     *uuid.UUID           `json:"replyTo,omitempty"`
	Read        bool                 `json:"read"`
	ApprovedAt  *time.Time           `json:"approvedAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func ToResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		TenantID:    m.TenantID,
		PropertyID:  m.PropertyID,
		Unit:        m.Unit,
		Sender:      m.Sender,
		From:        m.From,
		Subject:     m.Subject,
		Body:        m.Body,
		Type:        m.Type,
		Status:      m.Status,
		Maintenance: m.Maintenance,
		WorkOrderID: m.WorkOrderID,
		ReplyTo:     m.ReplyTo,
		Read:        m.Read,
		ApprovedAt:  m.ApprovedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func ToResponseList(list []*message.Message) []MessageResponse {
	resp := make([]MessageResponse, len(list))
	for i, m := range list {
		resp[i] = ToResponse(m)
	}

	return resp
}

type approvalResponse struct {
	Request     MessageResponse `json:"request"`
	Reply       MessageResponse `json:"reply"`
	WorkOrderID uuid.UUID       `json:"workOrderId"`
}

type unreadResponse struct {
	Unread int `json:"unread"`
}
