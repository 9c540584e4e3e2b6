package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tenantry/internal/dashboard"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.stats)
	r.Post("/refresh", h.refresh)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// refresh drops the cached stats and recomputes them.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	h.svc.Invalidate(r.Context())
	h.stats(w, r)
}
