package document

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups documents in the console and in exported packets.
type Category string

const (
	CategoryLease       Category = "lease"
	CategoryID          Category = "identification"
	CategoryIncome      Category = "income"
	CategoryReceipt     Category = "receipt"
	CategoryInspection  Category = "inspection"
	CategoryInsurance   Category = "insurance"
	CategoryApplication Category = "application"
	CategoryOther       Category = "other"
)

var categories = map[Category]bool{
	CategoryLease:       true,
	CategoryID:          true,
	CategoryIncome:      true,
	CategoryReceipt:     true,
	CategoryInspection:  true,
	CategoryInsurance:   true,
	CategoryApplication: true,
	CategoryOther:       true,
}

func (c Category) Valid() bool {
	return categories[c]
}

// Document is the metadata of an uploaded file. The bytes live at URL.
type Document struct {
	ID            uuid.UUID
	Name          string
	Type          string // file extension without the dot, e.g. "pdf"
	Category      Category
	PropertyID    *uuid.UUID
	TenantID      *uuid.UUID
	ApplicationID *uuid.UUID
	Size          int64 // bytes
	URL           string
	UploadedBy    string
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// typeOf derives the file type from a name or URL.
func typeOf(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	return strings.ToLower(ext)
}
