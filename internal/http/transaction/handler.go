package transaction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/totals", h.totals)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/receipt", h.attachReceipt)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Amount      int64              `json:"amount"`
	Type        transaction.Type   `json:"type"`
	Status      transaction.Status `json:"status"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Date        time.Time          `json:"date"`
	PropertyID  *uuid.UUID         `json:"propertyId"`
	TenantID    *uuid.UUID         `json:"tenantId"`
	Unit        string             `json:"unit"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Amount:      req.Amount,
		Type:        req.Type,
		Status:      req.Status,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		PropertyID:  req.PropertyID,
		TenantID:    req.TenantID,
		Unit:        req.Unit,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResponse(tx))
}

func parseFilter(r *http.Request) (transaction.ListFilter, error) {
	filter := transaction.ListFilter{
		Status: httputil.QueryValue[transaction.Status](r, "status"),
		Type:   httputil.QueryValue[transaction.Type](r, "type"),
	}

	if s := r.URL.Query().Get("category"); s != "" {
		filter.Category = new(s)
	}

	var err error

	if filter.PropertyID, err = httputil.QueryID(r, "property_id"); err != nil {
		return filter, err
	}

	if filter.TenantID, err = httputil.QueryID(r, "tenant_id"); err != nil {
		return filter, err
	}

	if filter.StartDate, err = httputil.QueryDate(r, "start_date"); err != nil {
		return filter, err
	}

	if filter.EndDate, err = httputil.QueryDate(r, "end_date"); err != nil {
		return filter, err
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ToResponseList(txs))
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Totals(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, totalsResponse{Income: t.Income, Expense: t.Expense, Net: t.Net()})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(tx))
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

type updateTransactionRequest struct {
	Description *string           `json:"description,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Amount      *int64            `json:"amount,omitempty"`
	Type        *transaction.Type `json:"type,omitempty"`
	Date        *time.Time        `json:"date,omitempty"`
	Unit        *string           `json:"unit,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if req.Description != nil {
		tx.Description = *req.Description
	}

	if req.Category != nil {
		tx.Category = *req.Category
	}

	if req.Amount != nil {
		tx.Amount = *req.Amount
	}

	if req.Type != nil {
		tx.Type = *req.Type
	}

	if req.Date != nil {
		tx.Date = *req.Date
	}

	if req.Unit != nil {
		tx.Unit = *req.Unit
	}

	if err := h.svc.Update(r.Context(), tx); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(tx))
}

type updateStatusRequest struct {
	Status transaction.Status `json:"status"`
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

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type attachReceiptRequest struct {
	ReceiptURL string `json:"receiptUrl"`
}

func (h *Handler) attachReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req attachReceiptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.svc.AttachReceipt(r.Context(), id, req.ReceiptURL); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
