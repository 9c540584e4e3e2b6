// Package portal serves the tenant-facing API. Every route is scoped to the
// tenant named in the caller's token.
package portal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/document"
	documenthttp "github.com/MrJamesThe3rd/tenantry/internal/http/document"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	messagehttp "github.com/MrJamesThe3rd/tenantry/internal/http/message"
	transactionhttp "github.com/MrJamesThe3rd/tenantry/internal/http/transaction"
	workorderhttp "github.com/MrJamesThe3rd/tenantry/internal/http/workorder"
	"github.com/MrJamesThe3rd/tenantry/internal/message"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

type Services struct {
	Tenants    *tenant.Service
	Messages   *message.Service
	WorkOrders *workorder.Service
	Ledger     *transaction.Service
	Documents  *document.Service
}

type Handler struct {
	svc Services
}

func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/me", h.me)
	r.Get("/messages", h.listMessages)
	r.Post("/messages", h.sendMessage)
	r.Post("/messages/{id}/read", h.markRead)
	r.Post("/maintenance", h.submitMaintenance)
	r.Get("/work-orders", h.listWorkOrders)
	r.Get("/payments", h.listPayments)
	r.Get("/documents", h.listDocuments)
}

// tenantID is the tenant the request acts for.
func tenantID(r *http.Request) (uuid.UUID, error) {
	claims, ok := auth.FromContext(r.Context())
	if !ok || claims.Role != auth.RoleTenant || claims.TenantID == nil {
		return uuid.Nil, httputil.ErrForbidden
	}

	return *claims.TenantID, nil
}

type profileResponse struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Initials   string        `json:"initials"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	PropertyID uuid.UUID     `json:"propertyId"`
	Unit       string        `json:"unit"`
	Rent       int64         `json:"rent"`
	LeaseStart time.Time     `json:"leaseStart"`
	LeaseEnd   time.Time     `json:"leaseEnd"`
	Status     tenant.Status `json:"status"`
	Balance    int64         `json:"balance"`
	Unread     int           `json:"unread"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, err := tenantID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Tenants.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	unread, err := h.svc.Messages.UnreadCount(r.Context(), message.ListFilter{
		TenantID: &id,
		Sender:   new(message.SenderManager),
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profileResponse{
		ID:         t.ID,
		Name:       t.Name,
		Initials:   t.Initials(),
		Email:      t.Email,
		Phone:      t.Phone,
		PropertyID: t.PropertyID,
		Unit:       t.Unit,
		Rent:       t.Rent,
		LeaseStart: t.LeaseStart,
		LeaseEnd:   t.LeaseEnd,
		Status:     t.Status,
		Balance:    t.Balance,
		Unread:     unread,
	})
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	id, err := tenantID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	filter, err := messagehttp.ParseFilter(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	filter.TenantID = &id

	list, err := h.svc.Messages.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, messagehttp.ToResponseList(list))
}

type sendMessageRequest struct {
	Subject string     `json:"subject"`
	Body    string     `json:"body"`
	ReplyTo *uuid.UUID `json:"replyTo"`
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := tenantID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req sendMessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	m, err := h.svc.Messages.Send(r.Context(), message.SendParams{
		TenantID: id,
		Sender:   message.SenderTenant,
		Subject:  req.Subject,
		Body:     req.Body,
		ReplyTo:  req.ReplyTo,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, messagehttp.ToResponse(m))
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := tenantID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	msgID, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	m, err := h.svc.Messages.Get(r.Context(), msgID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	// Another tenant's message is reported as missing.
	if m.TenantID != id {
		httputil.WriteError(w, r, message.ErrNotFound)
		return
	}

	if err := h.svc.Messages.MarkRead(r.Context(), msgID); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type maintenanceRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Priority           string   `json:"priority"`
	Location           string   `json:"location"`
	AccessInstructions string   `json:"accessInstructions"`
	PreferredTime      string   `json:"preferredTime"`
	Photos             []string `json:"photos"`
}

func (h *Handler) submitMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := tenantID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req maintenanceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	m, err := h.svc.Messages.SubmitMaintenance(r.Context(), id, message.MaintenanceRequest{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Priority:           req.Priority,
		Location:           req.Location,
		AccessInstructions: req.AccessInstructions,
		PreferredTime:      req.PreferredTime,
		Photos:             req.Photos,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, messagehttp.ToResponse(m))
}

func (h *Handler) listWorkOrders(w http.ResponseWriter, r *http.Request) {
	id, err := tenantID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	list, err := h.svc.WorkOrders.List(r.Context(), workorder.ListFilter{
		TenantID: &id,
		Status:   httputil.QueryValue[workorder.Status](r, "status"),
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, workorderhttp.ToResponseList(list))
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	id, err := tenantID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	txs, err := h.svc.Ledger.List(r.Context(), transaction.ListFilter{
		TenantID: &id,
		Type:     new(transaction.TypeIncome),
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, transactionhttp.ToResponseList(txs))
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := tenantID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	list, err := h.svc.Documents.List(r.Context(), document.ListFilter{TenantID: &id})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, documenthttp.ToResponseList(list))
}
