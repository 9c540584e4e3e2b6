package property

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/property"
)

type Handler struct {
	svc *property.Service
}

func NewHandler(svc *property.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type propertyResponse struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Address       string        `json:"address"`
	Type          property.Type `json:"type"`
	Units         int           `json:"units"`
	Occupied      int           `json:"occupied"`
	Vacant        int           `json:"vacant"`
	OccupancyRate float64       `json:"occupancyRate"`
	Value         int64         `json:"value"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

func toResponse(p *property.Property) propertyResponse {
	return propertyResponse{
		ID:            p.ID,
		Name:          p.Name,
		Address:       p.Address,
		Type:          p.Type,
		Units:         p.Units,
		Occupied:      p.Occupied,
		Vacant:        p.Vacant(),
		OccupancyRate: p.OccupancyRate(),
		Value:         p.Value,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type createPropertyRequest struct {
	Name     string        `json:"name"`
	Address  string        `json:"address"`
	Type     property.Type `json:"type"`
	Units    int           `json:"units"`
	Occupied int           `json:"occupied"`
	Value    int64         `json:"value"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Create(r.Context(), property.CreateParams{
		Name:     req.Name,
		Address:  req.Address,
		Type:     req.Type,
		Units:    req.Units,
		Occupied: req.Occupied,
		Value:    req.Value,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	props, err := h.svc.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	resp := make([]propertyResponse, len(props))
	for i, p := range props {
		resp[i] = toResponse(p)
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(p))
}

type updatePropertyRequest struct {
	Name     *string        `json:"name,omitempty"`
	Address  *string        `json:"address,omitempty"`
	Type     *property.Type `json:"type,omitempty"`
	Units    *int           `json:"units,omitempty"`
	Occupied *int           `json:"occupied,omitempty"`
	Value    *int64         `json:"value,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req updatePropertyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}

	if req.Address != nil {
		p.Address = *req.Address
	}

	if req.Type != nil {
		p.Type = *req.Type
	}

	if req.Units != nil {
		p.Units = *req.Units
	}

	if req.Occupied != nil {
		p.Occupied = *req.Occupied
	}

	if req.Value != nil {
		p.Value = *req.Value
	}

	if err := h.svc.Update(r.Context(), p); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(p))
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
