package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

type transactionResponse struct {
	ID             uuid.UUID          `json:"id"`
	Amount         int64              `json:"amount"`
	Type           transaction.Type   `json:"type"`
	Status         transaction.Status `json:"status"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	RawDescription string             `json:"rawDescription,omitempty"`
	Date           time.Time          `json:"date"`
	PropertyID     *uuid.UUID         `json:"propertyId,omitempty"`
	TenantID       *uuid.UUID         `json:"tenantId,omitempty"`
	Unit           string             `json:"unit,omitempty"`
	ReceiptID      *uuid.UUID         `json:"receiptId,omitempty"`
	Receipt        *receiptResponse   `json:"receipt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      *time.Time         `json:"updatedAt,omitempty"`
}

type receiptResponse struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

type totalsResponse struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:             tx.ID,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Status:         tx.Status,
		Category:       tx.Category,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date,
		PropertyID:     tx.PropertyID,
		TenantID:       tx.TenantID,
		Unit:           tx.Unit,
		ReceiptID:      tx.ReceiptID,
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}

	if tx.Receipt != nil {
		resp.Receipt = &receiptResponse{
			ID:  tx.Receipt.ID,
			URL: tx.Receipt.URL,
		}
	}

	return resp
}

// ToResponseList renders ledger entries, e.g. for a tenant's payment history.
func ToResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
