package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/manager", h.loginManager)
	r.Post("/tenant/code", h.requestTenantCode)
	r.Post("/tenant", h.loginTenant)
}

type managerLoginRequest struct {
	Key string `json:"key"`
}

func (h *Handler) loginManager(w http.ResponseWriter, r *http.Request) {
	var req managerLoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tok, err := h.svc.LoginManager(req.Key)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tok)
}

type tenantCodeRequest struct {
	Email string `json:"email"`
}

// requestTenantCode always answers 202 for a well-formed request, whether or
// not the email belongs to a tenant.
func (h *Handler) requestTenantCode(w http.ResponseWriter, r *http.Request) {
	var req tenantCodeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.svc.RequestTenantCode(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type tenantLoginRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *Handler) loginTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantLoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tok, err := h.svc.LoginTenant(r.Context(), req.Email, req.Code)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tok)
}
