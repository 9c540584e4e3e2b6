package application

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
)

type Handler struct {
	svc *application.Service
}

func NewHandler(svc *application.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/validate", h.validate)
	r.Get("/stats", h.stats)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Post("/{id}/convert", h.convert)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req applicationBody
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	a := req.toApplication()
	if err := h.svc.Create(r.Context(), a); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResponse(a))
}

// validate checks a draft without storing it, for the multi-step form.
func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req applicationBody
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, req.toApplication().Validate())
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	propertyID, err := httputil.QueryID(r, "property_id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	apps, err := h.svc.List(r.Context(), application.ListFilter{
		Status:     httputil.QueryValue[application.Status](r, "status"),
		PropertyID: propertyID,
		Search:     r.URL.Query().Get("q"),
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponseList(apps))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req applicationBody
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	a := req.toApplication()
	a.ID = id

	if err := h.svc.Update(r.Context(), a); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(a))
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

type updateStatusRequest struct {
	Status     application.Status `json:"status"`
	ReviewedBy string             `json:"reviewedBy"`
	Reason     string             `json:"reason"`
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

	reviewer := req.ReviewedBy
	if reviewer == "" {
		if claims, ok := auth.FromContext(r.Context()); ok {
			reviewer = claims.Name
		}
	}

	a, err := h.svc.UpdateStatus(r.Context(), id, application.StatusUpdate{
		Status:     req.Status,
		ReviewedBy: reviewer,
		Reason:     req.Reason,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(a))
}

type convertRequest struct {
	Rent float64 `json:"rent"`
	Unit string  `json:"unit"`
}

type tenantResponse struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	PropertyID uuid.UUID     `json:"propertyId"`
	Unit       string        `json:"unit"`
	Rent       int64         `json:"rent"`
	LeaseStart time.Time     `json:"leaseStart"`
	LeaseEnd   time.Time     `json:"leaseEnd"`
	Status     tenant.Status `json:"status"`
}

// convert turns an approved application into a tenant. The body is optional.
func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req convertRequest
	if r.ContentLength > 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
	}

	t, err := h.svc.ConvertToTenant(r.Context(), id, application.ConvertParams{Rent: req.Rent, Unit: req.Unit})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, tenantResponse{
		ID:         t.ID,
		Name:       t.Name,
		Email:      t.Email,
		PropertyID: t.PropertyID,
		Unit:       t.Unit,
		Rent:       t.Rent,
		LeaseStart: t.LeaseStart,
		LeaseEnd:   t.LeaseEnd,
		Status:     t.Status,
	})
}
