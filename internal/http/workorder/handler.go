package workorder

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

type Handler struct {
	svc *workorder.Service
}

func NewHandler(svc *workorder.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/counts", h.counts)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Patch("/{id}/status", h.updateStatus)
	r.Delete("/{id}", h.delete)
}

type createWorkOrderRequest struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	PropertyID    uuid.UUID          `json:"propertyId"`
	TenantID      *uuid.UUID         `json:"tenantId"`
	Unit          string             `json:"unit"`
	Category      string             `json:"category"`
	Priority      workorder.Priority `json:"priority"`
	AssignedTo    string             `json:"assignedTo"`
	EstimatedCost int64              `json:"estimatedCost"`
	DueDate       *time.Time         `json:"dueDate"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createWorkOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	wo, err := h.svc.Create(r.Context(), workorder.CreateParams{
		Title:         req.Title,
		Description:   req.Description,
		PropertyID:    req.PropertyID,
		TenantID:      req.TenantID,
		Unit:          req.Unit,
		Category:      req.Category,
		Priority:      req.Priority,
		AssignedTo:    req.AssignedTo,
		EstimatedCost: req.EstimatedCost,
		DueDate:       req.DueDate,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResponse(wo, time.Now()))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	propertyID, err := httputil.QueryID(r, "property_id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tenantID, err := httputil.QueryID(r, "tenant_id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	list, err := h.svc.List(r.Context(), workorder.ListFilter{
		PropertyID: propertyID,
		TenantID:   tenantID,
		Status:     httputil.QueryValue[workorder.Status](r, "status"),
		Priority:   httputil.QueryValue[workorder.Priority](r, "priority"),
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ToResponseList(list))
}

func (h *Handler) counts(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Counts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	wo, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(wo, time.Now()))
}

type updateWorkOrderRequest struct {
	Title         *string             `json:"title,omitempty"`
	Description   *string             `json:"description,omitempty"`
	Unit          *string             `json:"unit,omitempty"`
	Category      *string             `json:"category,omitempty"`
	Priority      *workorder.Priority `json:"priority,omitempty"`
	Status        *workorder.Status   `json:"status,omitempty"`
	AssignedTo    *string             `json:"assignedTo,omitempty"`
	EstimatedCost *int64              `json:"estimatedCost,omitempty"`
	ActualCost    *int64              `json:"actualCost,omitempty"`
	DueDate       *time.Time          `json:"dueDate,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req updateWorkOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	wo, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if req.Title != nil {
		wo.Title = *req.Title
	}

	if req.Description != nil {
		wo.Description = *req.Description
	}

	if req.Unit != nil {
		wo.Unit = *req.Unit
	}

	if req.Category != nil {
		wo.Category = *req.Category
	}

	if req.Priority != nil {
		wo.Priority = *req.Priority
	}

	if req.Status != nil {
		wo.Status = *req.Status
	}

	if req.AssignedTo != nil {
		wo.AssignedTo = *req.AssignedTo
	}

	if req.EstimatedCost != nil {
		wo.EstimatedCost = *req.EstimatedCost
	}

	if req.ActualCost != nil {
		wo.ActualCost = *req.ActualCost
	}

	if req.DueDate != nil {
		wo.DueDate = req.DueDate
	}

	if err := h.svc.Update(r.Context(), wo); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(wo, time.Now()))
}

type updateStatusRequest struct {
	Status workorder.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	wo, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(wo, time.Now()))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
