package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/document"
	"github.com/MrJamesThe3rd/tenantry/internal/export"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/documents", h.documents)
	r.Post("/receipts", h.receipts)
	r.Post("/receipts/summary", h.receiptSummary)
}

type documentPacketRequest struct {
	PropertyID    *uuid.UUID         `json:"propertyId,omitempty"`
	TenantID      *uuid.UUID         `json:"tenantId,omitempty"`
	ApplicationID *uuid.UUID         `json:"applicationId,omitempty"`
	Category      *document.Category `json:"category,omitempty"`
}

type receiptPacketRequest struct {
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	PropertyID *uuid.UUID `json:"propertyId,omitempty"`
	TenantID   *uuid.UUID `json:"tenantId,omitempty"`
}

func (req receiptPacketRequest) filter() transaction.ListFilter {
	return transaction.ListFilter{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		PropertyID: req.PropertyID,
		TenantID:   req.TenantID,
	}
}

type itemResponse struct {
	Date     time.Time `json:"date"`
	Label    string    `json:"label"`
	Category string    `json:"category,omitempty"`
	Amount   *int64    `json:"amount,omitempty"`
	File     string    `json:"file,omitempty"`
	Missing  string    `json:"missing,omitempty"`
}

type summaryResponse struct {
	Items   []itemResponse `json:"items"`
	Summary string         `json:"summary"`
}

type packetFunc func(ctx context.Context, w io.Writer) ([]export.Item, error)

func (h *Handler) documents(w http.ResponseWriter, r *http.Request) {
	var req documentPacketRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	filter := document.ListFilter{
		PropertyID:    req.PropertyID,
		TenantID:      req.TenantID,
		ApplicationID: req.ApplicationID,
		Category:      req.Category,
	}

	serveZip(w, r, "documents", func(ctx context.Context, w io.Writer) ([]export.Item, error) {
		return h.svc.DocumentPacket(ctx, filter, w)
	})
}

func (h *Handler) receipts(w http.ResponseWriter, r *http.Request) {
	var req receiptPacketRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	serveZip(w, r, "receipts", func(ctx context.Context, w io.Writer) ([]export.Item, error) {
		return h.svc.ReceiptPacket(ctx, req.filter(), w)
	})
}

// receiptSummary builds the receipt packet without returning it, so the user
// can see which receipts are missing before downloading.
func (h *Handler) receiptSummary(w http.ResponseWriter, r *http.Request) {
	var req receiptPacketRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	items, err := h.svc.ReceiptPacket(r.Context(), req.filter(), io.Discard)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	resp := summaryResponse{
		Items:   make([]itemResponse, 0, len(items)),
		Summary: export.Summary(items),
	}

	for _, item := range items {
		resp.Items = append(resp.Items, itemResponse{
			Date:     item.Date,
			Label:    item.Label,
			Category: item.Category,
			Amount:   item.Amount,
			File:     item.File,
			Missing:  item.Missing,
		})
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// serveZip builds the packet in a temp file first so that failures can still
// be reported as JSON errors.
func serveZip(w http.ResponseWriter, r *http.Request, name string, build packetFunc) {
	tmp, err := os.CreateTemp("", "tenantry-export-*.zip")
	if err != nil {
		httputil.WriteError(w, r, fmt.Errorf("creating temp file: %w", err))
		return
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := build(r.Context(), tmp); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		httputil.WriteError(w, r, fmt.Errorf("rewinding packet: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s_%s.zip\"", name, time.Now().Format("20060102")))

	if _, err := io.Copy(w, tmp); err != nil {
		slog.Error("failed to send zip", "error", err)
	}
}
