package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Type is the direction of money on the ledger.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Status tracks whether an entry has settled and whether it has its receipt.
type Status string

const (
	StatusPending        Status = "pending"
	StatusCompleted      Status = "completed"
	StatusPendingReceipt Status = "pending_receipt"
	StatusNoReceipt      Status = "no_receipt"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusPendingReceipt, StatusNoReceipt:
		return true
	}

	return false
}

// Common ledger categories. Any other non-empty category is accepted.
const (
	CategoryRent        = "Rent"
	CategoryDeposit     = "Security Deposit"
	CategoryLateFee     = "Late Fee"
	CategoryMaintenance = "Maintenance"
	CategoryUtilities   = "Utilities"
	CategoryInsurance   = "Insurance"
	CategoryTaxes       = "Property Tax"
	CategoryMortgage    = "Mortgage"
)

// Transaction is one entry on a property's income and expense ledger.
type Transaction struct {
	ID             uuid.UUID
	Amount         int64 // cents, always positive; Type gives the sign
	Type           Type
	Status         Status
	Category       string
	Description    string
	RawDescription string
	Date           time.Time
	PropertyID     *uuid.UUID
	TenantID       *uuid.UUID
	Unit           string
	ReceiptID      *uuid.UUID
	Receipt        *Receipt // Loaded via JOIN
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}

// Signed returns the amount as it affects the balance.
func (t *Transaction) Signed() int64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}

	return t.Amount
}

// Receipt is an uploaded proof of payment linked to a ledger entry.
type Receipt struct {
	ID        uuid.UUID
	URL       string
	CreatedAt time.Time
}

// Totals sums a set of ledger entries in cents.
type Totals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

func (t Totals) Net() int64 {
	return t.Income - t.Expense
}
