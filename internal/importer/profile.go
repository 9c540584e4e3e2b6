package importer

import (
	"strings"
	"unicode"
)

type field string

const (
	fieldName        field = "name"
	fieldFirstName   field = "first_name"
	fieldLastName    field = "last_name"
	fieldEmail       field = "email"
	fieldPhone       field = "phone"
	fieldProperty    field = "property"
	fieldUnit        field = "unit"
	fieldRent        field = "rent"
	fieldLeaseStart  field = "lease_start"
	fieldLeaseEnd    field = "lease_end"
	fieldStatus      field = "status"
	fieldBalance     field = "balance"
	fieldType        field = "type"
	fieldAmount      field = "amount"
	fieldDebit       field = "debit"
	fieldCredit      field = "credit"
	fieldDescription field = "description"
	fieldDate        field = "date"
	fieldCategory    field = "category"
	fieldTenant      field = "tenant"
	fieldAddress     field = "address"
	fieldUnits       field = "units"
	fieldOccupied    field = "occupied"
	fieldValue       field = "value"
)

// Profile lists, per field, the header spellings accepted for one Kind.
// Earlier aliases win when a file carries more than one of them.
type Profile struct {
	Kind    Kind
	Aliases map[field][]string
}

var transactionProfile = Profile{
	Kind: KindTransactions,
	Aliases: map[field][]string{
		fieldType:        {"type", "transaction type"},
		fieldAmount:      {"amount", "transaction amount", "payment amount"},
		fieldDebit:       {"debit", "withdrawal", "money out"},
		fieldCredit:      {"credit", "deposit amount", "money in"},
		fieldDescription: {"description", "memo", "note", "payee"},
		fieldDate:        {"date", "transaction date", "payment date", "posted date"},
		fieldCategory:    {"category"},
		fieldProperty:    {"property", "property name"},
		fieldTenant:      {"tenant", "tenant name"},
		fieldUnit:        {"unit", "unit number"},
		fieldStatus:      {"status"},
	},
}

var tenantProfile = Profile{
	Kind: KindTenants,
	Aliases: map[field][]string{
		fieldName:       {"name", "tenant name", "full name"},
		fieldFirstName:  {"first name", "firstname"},
		fieldLastName:   {"last name", "lastname"},
		fieldEmail:      {"email", "tenant email", "email address"},
		fieldPhone:      {"phone", "tenant phone", "phone number"},
		fieldProperty:   {"property", "property name"},
		fieldUnit:       {"unit", "tenant unit", "unit number"},
		fieldRent:       {"rent", "tenant rent", "monthly rent"},
		fieldLeaseStart: {"lease start", "start date", "move in date"},
		fieldLeaseEnd:   {"lease end", "tenant lease end", "end date"},
		fieldStatus:     {"status", "tenant status"},
		fieldBalance:    {"balance", "tenant balance", "outstanding"},
	},
}

var propertyProfile = Profile{
	Kind: KindProperties,
	Aliases: map[field][]string{
		fieldName:     {"name", "property name"},
		fieldAddress:  {"address", "property address"},
		fieldType:     {"type", "property type"},
		fieldUnits:    {"units", "property units", "total units"},
		fieldOccupied: {"occupied", "occupied units"},
		fieldValue:    {"value", "market value", "purchase price", "price"},
	},
}

// normalizeHeader folds case, underscores and camel humps so that
// "leaseStart", "lease_start" and "Lease Start" compare equal.
func normalizeHeader(h string) string {
	var b strings.Builder

	prevLower := false

	for _, r := range strings.TrimSpace(h) {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
				b.WriteByte(' ')
			}

			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte(' ')
			}

			b.WriteRune(unicode.ToLower(r))

			prevLower = false
		default:
			b.WriteRune(r)

			prevLower = unicode.IsLower(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// columns maps each field of the profile to its column index in headers.
type columns map[field]int

func (p Profile) resolve(headers []string) columns {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[normalizeHeader(h)]; !dup {
			index[normalizeHeader(h)] = i
		}
	}

	cols := make(columns, len(p.Aliases))

	for f, aliases := range p.Aliases {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				cols[f] = i
				break
			}
		}
	}

	return cols
}

func (c columns) has(f field) bool {
	_, ok := c[f]
	return ok
}

// value returns the trimmed cell for f, or "" when the column is absent.
func (c columns) value(row []string, f field) string {
	i, ok := c[f]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}
