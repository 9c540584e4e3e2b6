package document

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/document"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
)

type Handler struct {
	svc *document.Service
}

func NewHandler(svc *document.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type documentResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	Category      document.Category `json:"category"`
	PropertyID    *uuid.UUID        `json:"propertyId,omitempty"`
	TenantID      *uuid.UUID        `json:"tenantId,omitempty"`
	ApplicationID *uuid.UUID        `json:"applicationId,omitempty"`
	Size          int64             `json:"size"`
	URL           string            `json:"url"`
	UploadedBy    string            `json:"uploadedBy"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func toResponse(d *document.Document) documentResponse {
	return documentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Type:          d.Type,
		Category:      d.Category,
		PropertyID:    d.PropertyID,
		TenantID:      d.TenantID,
		ApplicationID: d.ApplicationID,
		Size:          d.Size,
		URL:           d.URL,
		UploadedBy:    d.UploadedBy,
		CreatedAt:     d.CreatedAt,
	}
}

func ToResponseList(list []*document.Document) []documentResponse {
	resp := make([]documentResponse, len(list))
	for i, d := range list {
		resp[i] = toResponse(d)
	}

	return resp
}

type createDocumentRequest struct {
	Name          string            `json:"name"`
	Category      document.Category `json:"category"`
	PropertyID    *uuid.UUID        `json:"propertyId"`
	TenantID      *uuid.UUID        `json:"tenantId"`
	ApplicationID *uuid.UUID        `json:"applicationId"`
	Size          int64             `json:"size"`
	URL           string            `json:"url"`
	UploadedBy    string            `json:"uploadedBy"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if req.UploadedBy == "" {
		if claims, ok := auth.FromContext(r.Context()); ok {
			req.UploadedBy = claims.Name
		}
	}

	d, err := h.svc.Create(r.Context(), document.CreateParams{
		Name:          req.Name,
		Category:      req.Category,
		PropertyID:    req.PropertyID,
		TenantID:      req.TenantID,
		ApplicationID: req.ApplicationID,
		Size:          req.Size,
		URL:           req.URL,
		UploadedBy:    req.UploadedBy,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		filter document.ListFilter
		err    error
	)

	if filter.PropertyID, err = httputil.QueryID(r, "property_id"); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if filter.TenantID, err = httputil.QueryID(r, "tenant_id"); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if filter.ApplicationID, err = httputil.QueryID(r, "application_id"); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	filter.Category = httputil.QueryValue[document.Category](r, "category")

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ToResponseList(list))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(d))
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
