package tenant

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

type Handler struct {
	svc    *tenant.Service
	ledger *transaction.Service
}

func NewHandler(svc *tenant.Service, ledger *transaction.Service) *Handler {
	return &Handler{svc: svc, ledger: ledger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/payments", h.recordPayment)
}

type tenantResponse struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	PropertyID    uuid.UUID     `json:"propertyId"`
	Unit          string        `json:"unit"`
	Rent          int64         `json:"rent"`
	LeaseStart    time.Time     `json:"leaseStart"`
	LeaseEnd      time.Time     `json:"leaseEnd"`
	Status        tenant.Status `json:"status"`
	Balance       int64         `json:"balance"`
	ApplicationID *uuid.UUID    `json:"applicationId,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

func toResponse(t *tenant.Tenant) tenantResponse {
	return tenantResponse{
		ID:            t.ID,
		Name:          t.Name,
		Email:         t.Email,
		Phone:         t.Phone,
		PropertyID:    t.PropertyID,
		Unit:          t.Unit,
		Rent:          t.Rent,
		LeaseStart:    t.LeaseStart,
		LeaseEnd:      t.LeaseEnd,
		Status:        t.Status,
		Balance:       t.Balance,
		ApplicationID: t.ApplicationID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

type createTenantRequest struct {
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	PropertyID uuid.UUID     `json:"propertyId"`
	Unit       string        `json:"unit"`
	Rent       int64         `json:"rent"`
	LeaseStart time.Time     `json:"leaseStart"`
	LeaseEnd   time.Time     `json:"leaseEnd"`
	Status     tenant.Status `json:"status"`
	Balance    int64         `json:"balance"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Create(r.Context(), tenant.CreateParams{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		PropertyID: req.PropertyID,
		Unit:       req.Unit,
		Rent:       req.Rent,
		LeaseStart: req.LeaseStart,
		LeaseEnd:   req.LeaseEnd,
		Status:     req.Status,
		Balance:    req.Balance,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	propertyID, err := httputil.QueryID(r, "property_id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tenants, err := h.svc.List(r.Context(), tenant.ListFilter{
		PropertyID: propertyID,
		Status:     httputil.QueryValue[tenant.Status](r, "status"),
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	resp := make([]tenantResponse, len(tenants))
	for i, t := range tenants {
		resp[i] = toResponse(t)
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(t))
}

type updateTenantRequest struct {
	Name       *string        `json:"name,omitempty"`
	Email      *string        `json:"email,omitempty"`
	Phone      *string        `json:"phone,omitempty"`
	PropertyID *uuid.UUID     `json:"propertyId,omitempty"`
	Unit       *string        `json:"unit,omitempty"`
	Rent       *int64         `json:"rent,omitempty"`
	LeaseStart *time.Time     `json:"leaseStart,omitempty"`
	LeaseEnd   *time.Time     `json:"leaseEnd,omitempty"`
	Status     *tenant.Status `json:"status,omitempty"`
	Balance    *int64         `json:"balance,omitempty"`
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req updateTenantRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	setIf(&t.Name, req.Name)
	setIf(&t.Email, req.Email)
	setIf(&t.Phone, req.Phone)
	setIf(&t.PropertyID, req.PropertyID)
	setIf(&t.Unit, req.Unit)
	setIf(&t.Rent, req.Rent)
	setIf(&t.LeaseStart, req.LeaseStart)
	setIf(&t.LeaseEnd, req.LeaseEnd)
	setIf(&t.Status, req.Status)
	setIf(&t.Balance, req.Balance)

	if err := h.svc.Update(r.Context(), t); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(t))
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

type paymentRequest struct {
	Amount int64     `json:"amount"`
	Date   time.Time `json:"date"`
}

type paymentResponse struct {
	TransactionID uuid.UUID `json:"transactionId"`
	Amount        int64     `json:"amount"`
	Date          time.Time `json:"date"`
	Category      string    `json:"category"`
}

// recordPayment books a rent payment from the tenant in the ledger.
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req paymentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	amount := req.Amount
	if amount == 0 {
		amount = t.Rent
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := h.ledger.RecordRent(r.Context(), t.ID, t.PropertyID, t.Unit, amount, date)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, paymentResponse{
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		Date:          tx.Date,
		Category:      tx.Category,
	})
}
