// Package importer migrates data from spreadsheet CSV exports of other
// property-management tools. Column headers are matched against alias lists,
// so "Tenant Name", "tenant_name" and "Name" all land in the same field.
package importer

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the entity a CSV file describes.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindTenants      Kind = "tenants"
	KindProperties   Kind = "properties"
	KindWorkOrders   Kind = "workorders"
	KindUnknown      Kind = "unknown"
)

var (
	ErrEmpty       = errors.New("CSV file is empty or invalid")
	ErrUnknownKind = errors.New("could not tell what the CSV file contains")
)

// RowErrors lists every problem found in a file, one entry per row and field.
type RowErrors []string

func (e RowErrors) Error() string {
	return fmt.Sprintf("%d invalid rows: %s", len(e), strings.Join(e, "; "))
}

func rowError(row int, format string, args ...any) string {
	return fmt.Sprintf("Row %d: ", row) + fmt.Sprintf(format, args...)
}

// DetectKind guesses the entity from a header row. Ledger exports often carry
// a tenant column, so money columns are checked before tenant ones.
func DetectKind(headers []string) Kind {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	anyContains := func(subs ...string) bool {
		for _, h := range lower {
			for _, s := range subs {
				if strings.Contains(h, s) {
					return true
				}
			}
		}

		return false
	}

	has := func(name string) bool {
		for _, h := range lower {
			if h == name {
				return true
			}
		}

		return false
	}

	switch {
	case anyContains("transaction", "amount", "payment"):
		return KindTransactions
	case anyContains("lease", "tenant") || (has("email") && has("property") && has("unit")):
		return KindTenants
	case anyContains("units", "purchase", "address") && !has("email"):
		return KindProperties
	case anyContains("work", "maintenance", "priority"):
		return KindWorkOrders
	}

	return KindUnknown
}
