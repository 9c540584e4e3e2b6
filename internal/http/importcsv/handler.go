package importcsv

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/importer"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID             uuid.UUID          `json:"id"`
	Amount         int64              `json:"amount"`
	Type           transaction.Type   `json:"type"`
	Status         transaction.Status `json:"status"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	RawDescription string             `json:"rawDescription,omitempty"`
	Date           time.Time          `json:"date"`
	CreatedAt      time.Time          `json:"createdAt"`
}

type createdResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type importSuccessResponse struct {
	Kind         importer.Kind         `json:"kind"`
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions,omitempty"`
	Created      []createdResponse     `json:"created,omitempty"`
}

type createParamsDTO struct {
	Amount         int64              `json:"amount"`
	Type           transaction.Type   `json:"type"`
	Status         transaction.Status `json:"status"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	RawDescription string             `json:"rawDescription"`
	Date           time.Time          `json:"date"`
	PropertyID     *uuid.UUID         `json:"propertyId,omitempty"`
	TenantID       *uuid.UUID         `json:"tenantId,omitempty"`
	Unit           string             `json:"unit,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

// upload returns the multipart "file" field. The caller closes it.
func upload(r *http.Request) (io.ReadCloser, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse form: %s", httputil.ErrBadRequest, err.Error())
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: file field is required", httputil.ErrBadRequest)
	}

	return file, nil
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	file, err := upload(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	defer file.Close()

	p, err := h.importSvc.Preview(file)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	file, err := upload(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), file, importer.Kind(r.FormValue("kind")))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	resp := importSuccessResponse{Kind: res.Kind}

	switch res.Kind {
	case importer.KindTransactions:
		if len(res.Transactions.Conflicts) > 0 {
			httputil.WriteJSON(w, http.StatusConflict, toConflictResponse(res.Transactions))
			return
		}

		resp.Imported = len(res.Transactions.Imported)
		resp.Transactions = make([]transactionResponse, 0, len(res.Transactions.Imported))

		for _, tx := range res.Transactions.Imported {
			resp.Transactions = append(resp.Transactions, toTxResponse(tx))
		}
	case importer.KindTenants:
		resp.Imported = len(res.Tenants)
		for _, t := range res.Tenants {
			resp.Created = append(resp.Created, createdResponse{ID: t.ID, Name: t.Name})
		}
	case importer.KindProperties:
		resp.Imported = len(res.Properties)
		for _, p := range res.Properties {
			resp.Created = append(resp.Created, createdResponse{ID: p.ID, Name: p.Name})
		}
	}

	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// confirmImport writes transaction rows the user kept after reviewing conflicts.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			Amount:         p.Amount,
			Type:           p.Type,
			Status:         p.Status,
			Category:       p.Category,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Date:           p.Date,
			PropertyID:     p.PropertyID,
			TenantID:       p.TenantID,
			Unit:           p.Unit,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	resp := importSuccessResponse{
		Kind:         importer.KindTransactions,
		Imported:     len(txs),
		Transactions: make([]transactionResponse, 0, len(txs)),
	}

	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, toTxResponse(tx))
	}

	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func toConflictResponse(result *transaction.ImportResult) importConflictResponse {
	resp := importConflictResponse{
		New:       make([]createParamsDTO, 0, len(result.New)),
		Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
	}

	for _, p := range result.New {
		resp.New = append(resp.New, toParamsDTO(p))
	}

	for _, c := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, conflictDTO{
			Incoming: toParamsDTO(c.Incoming),
			Existing: toTxResponse(c.Existing),
		})
	}

	return resp
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Status:         tx.Status,
		Category:       tx.Category,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date,
		CreatedAt:      tx.CreatedAt,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Amount:         p.Amount,
		Type:           p.Type,
		Status:         p.Status,
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Date:           p.Date,
		PropertyID:     p.PropertyID,
		TenantID:       p.TenantID,
		Unit:           p.Unit,
	}
}
