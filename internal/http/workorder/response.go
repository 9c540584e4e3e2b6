package workorder

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

type workOrderResponse struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	PropertyID    uuid.UUID          `json:"propertyId"`
	TenantID      *uuid.UUID         `json:"tenantId,omitempty"`
	Unit          string             `json:"unit"`
	Category      string             `json:"category"`
	Priority      workorder.Priority `json:"priority"`
	Status        workorder.Status   `json:"status"`
	AssignedTo    string             `json:"assignedTo"`
	EstimatedCost int64              `json:"estimatedCost"`
	ActualCost    int64              `json:"actualCost"`
	DueDate       *time.Time         `json:"dueDate,omitempty"`
	SubmittedDate time.Time          `json:"submittedDate"`
	CompletedDate *time.Time         `json:"completedDate,omitempty"`
	Overdue       bool               `json:"overdue"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     *time.Time         `json:"updatedAt,omitempty"`
}

func toResponse(w *workorder.WorkOrder, now time.Time) workOrderResponse {
	return workOrderResponse{
		ID:            w.ID,
		Title:         w.Title,
		Description:   w.Description,
		PropertyID:    w.PropertyID,
		TenantID:      w.TenantID,
		Unit:          w.Unit,
		Category:      w.Category,
		Priority:      w.Priority,
		Status:        w.Status,
		AssignedTo:    w.AssignedTo,
		EstimatedCost: w.EstimatedCost,
		ActualCost:    w.ActualCost,
		DueDate:       w.DueDate,
		SubmittedDate: w.SubmittedDate,
		CompletedDate: w.CompletedDate,
		Overdue:       w.Overdue(now),
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

// ToResponseList renders work orders for any handler that lists them.
func ToResponseList(list []*workorder.WorkOrder) []workOrderResponse {
	now := time.Now()

	resp := make([]workOrderResponse, len(list))
	for i, w := range list {
		resp[i] = toResponse(w, now)
	}

	return resp
}
