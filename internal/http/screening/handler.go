package screening

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/screening"
)

type Handler struct {
	svc *screening.Service
}

func NewHandler(svc *screening.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.start)
	r.Get("/", h.list)
	r.Post("/preview", h.preview)
	r.Get("/by-application/{applicationID}", h.getByApplication)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/income", h.calculateIncome)
	r.Post("/{id}/complete", h.complete)
	r.Post("/{id}/decision", h.decide)
	r.Post("/{id}/adverse-action", h.sendAdverseAction)
}

// reviewer is the name recorded on a review when the request doesn't give one.
func reviewer(r *http.Request, given string) string {
	if given != "" {
		return given
	}

	if claims, ok := auth.FromContext(r.Context()); ok {
		return claims.Name
	}

	return ""
}

type startRequest struct {
	ApplicationID uuid.UUID `json:"applicationId"`
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	s, err := h.svc.Start(r.Context(), req.ApplicationID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), screening.ListFilter{
		Status:         httputil.QueryValue[screening.Status](r, "status"),
		Recommendation: httputil.QueryValue[screening.Recommendation](r, "recommendation"),
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponseList(list))
}

// preview scores a screening draft without storing it.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var p screening.Patch
	if err := httputil.DecodeJSON(r, &p); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	s := screening.Parse(p)
	httputil.WriteJSON(w, http.StatusOK, toResponse(&s))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) getByApplication(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "applicationID")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	s, err := h.svc.GetByApplication(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var p screening.Patch
	if err := httputil.DecodeJSON(r, &p); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	s, err := h.svc.Update(r.Context(), id, p)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}

type incomeRequest struct {
	MonthlyIncome    *float64 `json:"monthlyIncome"`
	AdditionalIncome *float64 `json:"additionalIncome"`
	ProposedRent     float64  `json:"proposedRent"`
}

func (h *Handler) calculateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req incomeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	s, err := h.svc.CalculateIncome(r.Context(), id, screening.IncomeParams{
		MonthlyIncome:    req.MonthlyIncome,
		AdditionalIncome: req.AdditionalIncome,
		ProposedRent:     req.ProposedRent,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}

type completeRequest struct {
	ReviewedBy string `json:"reviewedBy"`
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req completeRequest
	if r.ContentLength > 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
	}

	s, err := h.svc.Complete(r.Context(), id, reviewer(r, req.ReviewedBy))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}

type decisionRequest struct {
	Decision  screening.Decision `json:"decision"`
	Reason    string             `json:"reason"`
	DecidedBy string             `json:"decidedBy"`
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req decisionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	s, err := h.svc.Decide(r.Context(), id, screening.DecisionParams{
		Decision:  req.Decision,
		Reason:    req.Reason,
		DecidedBy: reviewer(r, req.DecidedBy),
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) sendAdverseAction(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	s, err := h.svc.SendAdverseAction(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}
