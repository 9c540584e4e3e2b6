package categorize

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tenantry/internal/categorize"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
)

type Handler struct {
	svc *categorize.Service
}

func NewHandler(svc *categorize.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription string `json:"rawDescription"`
	Category       string `json:"category"`
	Description    string `json:"description"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		httputil.WriteError(w, r, fmt.Errorf("%w: raw_description query parameter is required", httputil.ErrBadRequest))
		return
	}

	sug, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, suggestResponse{
		RawDescription: rawDesc,
		Category:       sug.Category,
		Description:    sug.Description,
	})
}

type learnRequest struct {
	RawPattern  string `json:"rawPattern"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	err := h.svc.Learn(r.Context(), req.RawPattern, categorize.Suggestion{
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
