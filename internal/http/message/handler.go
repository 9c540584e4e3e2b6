package message

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/message"
)

// Handler serves the manager's side of tenant messaging.
type Handler struct {
	svc *message.Service
}

func NewHandler(svc *message.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.send)
	r.Get("/unread-count", h.unreadCount)
	r.Get("/{id}", h.get)
	r.Post("/{id}/read", h.markRead)
	r.Post("/{id}/approve", h.approve)
}

// ParseFilter reads the list filters shared by the manager and portal views.
func ParseFilter(r *http.Request) (message.ListFilter, error) {
	filter := message.ListFilter{
		Type:   httputil.QueryValue[message.Type](r, "type"),
		Status: httputil.QueryValue[message.Status](r, "status"),
		Sender: httputil.QueryValue[message.Sender](r, "sender"),
	}

	if s := r.URL.Query().Get("unread"); s != "" {
		unread, err := strconv.ParseBool(s)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid unread", httputil.ErrBadRequest)
		}

		filter.Unread = unread
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if filter.TenantID, err = httputil.QueryID(r, "tenant_id"); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ToResponseList(list))
}

type sendRequest struct {
	TenantID uuid.UUID  `json:"tenantId"`
	Subject  string     `json:"subject"`
	Body     string     `json:"body"`
	ReplyTo  *uuid.UUID `json:"replyTo"`
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	m, err := h.svc.Send(r.Context(), message.SendParams{
		TenantID: req.TenantID,
		Sender:   message.SenderManager,
		Subject:  req.Subject,
		Body:     req.Body,
		ReplyTo:  req.ReplyTo,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, ToResponse(m))
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context(), message.ListFilter{Sender: new(message.SenderTenant)})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, unreadResponse{Unread: n})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ToResponse(m))
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.svc.MarkRead(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	a, err := h.svc.ApproveMaintenance(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, approvalResponse{
		Request:     ToResponse(a.Request),
		Reply:       ToResponse(a.Reply),
		WorkOrderID: a.WorkOrder.ID,
	})
}
