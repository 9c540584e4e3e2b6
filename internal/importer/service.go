package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/categorize"
	"github.com/MrJamesThe3rd/tenantry/internal/encoding"
	"github.com/MrJamesThe3rd/tenantry/internal/property"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Ledger interface {
	ImportBatch(ctx context.Context, params []transaction.CreateParams) (*transaction.ImportResult, error)
}

type Tenants interface {
	List(ctx context.Context, filter tenant.ListFilter) ([]*tenant.Tenant, error)
	CreateBatch(ctx context.Context, params []tenant.CreateParams) ([]*tenant.Tenant, error)
}

type Properties interface {
	List(ctx context.Context) ([]*property.Property, error)
	Create(ctx context.Context, params property.CreateParams) (*property.Property, error)
}

type Categorizer interface {
	Suggest(ctx context.Context, rawDescription string) (categorize.Suggestion, error)
}

type Recorder interface {
	AddImportedRows(kind, outcome string, n int)
}

type nopRecorder struct{}

func (nopRecorder) AddImportedRows(string, string, int) {}

type Service struct {
	ledger     Ledger
	tenants    Tenants
	properties Properties
	categories Categorizer
	metrics    Recorder
	now        func() time.Time
}

type Option func(*Service)

func WithMetrics(r Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(ledger Ledger, tenants Tenants, properties Properties, categories Categorizer, opts ...Option) *Service {
	s := &Service{
		ledger:     ledger,
		tenants:    tenants,
		properties: properties,
		categories: categories,
		metrics:    nopRecorder{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Preview describes an uploaded file without writing anything.
type Preview struct {
	Kind    Kind             `json:"kind"`
	Charset encoding.Charset `json:"charset"`
	Headers []string         `json:"headers"`
	Rows    int              `json:"rows"`
}

// Result holds what an import created. Only the field for Kind is set.
type Result struct {
	Kind         Kind                      `json:"kind"`
	Transactions *transaction.ImportResult `json:"transactions,omitempty"`
	Tenants      []*tenant.Tenant          `json:"tenants,omitempty"`
	Properties   []*property.Property      `json:"properties,omitempty"`
}

func (s *Service) Preview(r io.Reader) (*Preview, error) {
	t, err := Read(r)
	if err != nil {
		return nil, err
	}

	return &Preview{Kind: DetectKind(t.Headers), Charset: t.Charset, Headers: t.Headers, Rows: len(t.Rows)}, nil
}

// Import reads r as kind, detecting the kind from the headers when empty.
// Validation problems across all rows are returned together as RowErrors and
// nothing is written.
func (s *Service) Import(ctx context.Context, r io.Reader, kind Kind) (*Result, error) {
	t, err := Read(r)
	if err != nil {
		return nil, err
	}

	if kind == "" {
		kind = DetectKind(t.Headers)
	}

	var res *Result

	switch kind {
	case KindTransactions:
		res, err = s.importTransactions(ctx, t)
	case KindTenants:
		res, err = s.importTenants(ctx, t)
	case KindProperties:
		res, err = s.importProperties(ctx, t)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	if err != nil {
		var rowErrs RowErrors
		if errors.As(err, &rowErrs) {
			s.metrics.AddImportedRows(string(kind), "invalid", len(rowErrs))
		}

		return nil, err
	}

	return res, nil
}

// lookup resolves names case-insensitively to IDs.
type lookup map[string]uuid.UUID

func (l lookup) find(name string) (uuid.UUID, bool) {
	id, ok := l[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

func (s *Service) propertyLookup(ctx context.Context) (lookup, error) {
	props, err := s.properties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}

	l := make(lookup, len(props))
	for _, p := range props {
		l[strings.ToLower(p.Name)] = p.ID
	}

	return l, nil
}

func (s *Service) importTransactions(ctx context.Context, t *Table) (*Result, error) {
	cols := transactionProfile.resolve(t.Headers)

	if !cols.has(fieldAmount) && !(cols.has(fieldDebit) || cols.has(fieldCredit)) {
		return nil, RowErrors{"Header: an amount column is required"}
	}

	props, err := s.propertyLookup(ctx)
	if err != nil {
		return nil, err
	}

	tenants, err := s.tenants.List(ctx, tenant.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}

	byName := make(map[string]*tenant.Tenant, len(tenants))
	for _, tn := range tenants {
		byName[strings.ToLower(tn.Name)] = tn
	}

	var (
		params []transaction.CreateParams
		errs   RowErrors
	)

	for i, row := range t.Rows {
		line := t.Line(i)

		p, problems := s.transactionRow(ctx, cols, row, line, props, byName)
		if len(problems) > 0 {
			errs = append(errs, problems...)
			continue
		}

		params = append(params, p)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	result, err := s.ledger.ImportBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("importing transactions: %w", err)
	}

	s.metrics.AddImportedRows(string(KindTransactions), "imported", len(result.Imported))
	s.metrics.AddImportedRows(string(KindTransactions), "conflict", len(result.Conflicts))

	return &Result{Kind: KindTransactions, Transactions: result}, nil
}

func (s *Service) transactionRow(
	ctx context.Context,
	cols columns,
	row []string,
	line int,
	props lookup,
	tenants map[string]*tenant.Tenant,
) (transaction.CreateParams, []string) {
	var (
		p        transaction.CreateParams
		problems []string
	)

	amount, typ, err := rowAmount(cols, row)
	if err != nil {
		problems = append(problems, rowError(line, "Transaction amount is required"))
	}

	p.Amount = amount
	p.Type = typ

	if raw := cols.value(row, fieldType); raw != "" {
		switch strings.ToLower(raw) {
		case "income", "credit", "deposit", "payment":
			p.Type = transaction.TypeIncome
		case "expense", "debit", "withdrawal", "bill":
			p.Type = transaction.TypeExpense
		default:
			problems = append(problems, rowError(line, "unknown type %q", raw))
		}
	}

	p.Date = s.now().UTC().Truncate(24 * time.Hour)

	if raw := cols.value(row, fieldDate); raw != "" {
		d, err := ParseDate(raw)
		if err != nil {
			problems = append(problems, rowError(line, "invalid date %q", raw))
		}

		p.Date = d
	}

	p.Status = transaction.StatusCompleted

	if raw := cols.value(row, fieldStatus); raw != "" {
		status := transaction.Status(strings.ReplaceAll(strings.ToLower(raw), " ", "_"))
		switch status {
		case transaction.StatusCompleted, transaction.StatusPending, transaction.StatusPendingReceipt, transaction.StatusNoReceipt:
			p.Status = status
		default:
			problems = append(problems, rowError(line, "unknown status %q", raw))
		}
	}

	p.Description = cols.value(row, fieldDescription)
	p.RawDescription = p.Description
	p.Category = cols.value(row, fieldCategory)
	p.Unit = cols.value(row, fieldUnit)

	if name := cols.value(row, fieldTenant); name != "" {
		tn, ok := tenants[strings.ToLower(name)]
		if !ok {
			problems = append(problems, rowError(line, "unknown tenant %q", name))
		} else {
			p.TenantID = &tn.ID
			p.PropertyID = &tn.PropertyID

			if p.Unit == "" {
				p.Unit = tn.Unit
			}
		}
	}

	if name := cols.value(row, fieldProperty); name != "" {
		id, ok := props.find(name)
		if !ok {
			problems = append(problems, rowError(line, "unknown property %q", name))
		} else {
			p.PropertyID = &id
		}
	}

	if len(problems) > 0 {
		return p, problems
	}

	if p.Category == "" && p.RawDescription != "" {
		sug, err := s.categories.Suggest(ctx, p.RawDescription)
		if err != nil {
			return p, []string{rowError(line, "categorizing: %v", err)}
		}

		p.Category = sug.Category

		if sug.Description != "" {
			p.Description = sug.Description
		}
	}

	return p, nil
}

// rowAmount reads a signed amount column, or separate debit and credit
// columns, into a positive amount and its direction.
func rowAmount(cols columns, row []string) (int64, transaction.Type, error) {
	if raw := cols.value(row, fieldAmount); raw != "" {
		cents, err := ParseAmount(raw)
		if err != nil {
			return 0, "", err
		}

		if cents < 0 {
			return -cents, transaction.TypeExpense, nil
		}

		return cents, transaction.TypeIncome, nil
	}

	if raw := cols.value(row, fieldDebit); raw != "" {
		if cents, err := ParseAmount(raw); err == nil && cents != 0 {
			return abs(cents), transaction.TypeExpense, nil
		}
	}

	if raw := cols.value(row, fieldCredit); raw != "" {
		if cents, err := ParseAmount(raw); err == nil && cents != 0 {
			return abs(cents), transaction.TypeIncome, nil
		}
	}

	return 0, "", errNoAmount
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}

var tenantStatuses = map[string]tenant.Status{
	"active":     tenant.StatusActive,
	"current":    tenant.StatusActive,
	"overdue":    tenant.StatusOverdue,
	"late":       tenant.StatusOverdue,
	"delinquent": tenant.StatusOverdue,
	"inactive":   tenant.StatusInactive,
	"past":       tenant.StatusInactive,
	"former":     tenant.StatusInactive,
	"moved out":  tenant.StatusInactive,
}

func (s *Service) importTenants(ctx context.Context, t *Table) (*Result, error) {
	cols := tenantProfile.resolve(t.Headers)

	props, err := s.propertyLookup(ctx)
	if err != nil {
		return nil, err
	}

	var (
		params []tenant.CreateParams
		errs   RowErrors
	)

	for i, row := range t.Rows {
		line := t.Line(i)
		before := len(errs)

		name := cols.value(row, fieldName)
		if name == "" {
			name = strings.TrimSpace(cols.value(row, fieldFirstName) + " " + cols.value(row, fieldLastName))
		}

		if name == "" {
			errs = append(errs, rowError(line, "Tenant name is required"))
		}

		p := tenant.CreateParams{
			Name:   name,
			Email:  cols.value(row, fieldEmail),
			Phone:  cols.value(row, fieldPhone),
			Unit:   cols.value(row, fieldUnit),
			Status: tenant.StatusActive,
		}

		switch propName := cols.value(row, fieldProperty); {
		case propName == "":
			errs = append(errs, rowError(line, "Property is required"))
		default:
			id, ok := props.find(propName)
			if !ok {
				errs = append(errs, rowError(line, "unknown property %q", propName))
			}

			p.PropertyID = id
		}

		for _, m := range []struct {
			f   field
			dst *int64
		}{{fieldRent, &p.Rent}, {fieldBalance, &p.Balance}} {
			f, dst := m.f, m.dst
			raw := cols.value(row, f)
			if raw == "" {
				continue
			}

			cents, err := ParseAmount(raw)
			if err != nil {
				errs = append(errs, rowError(line, "invalid %s %q", f, raw))
				continue
			}

			*dst = cents
		}

		for _, m := range []struct {
			f   field
			dst *time.Time
		}{{fieldLeaseStart, &p.LeaseStart}, {fieldLeaseEnd, &p.LeaseEnd}} {
			raw := cols.value(row, m.f)
			if raw == "" {
				continue
			}

			d, err := ParseDate(raw)
			if err != nil {
				errs = append(errs, rowError(line, "invalid date %q", raw))
				continue
			}

			*m.dst = d
		}

		if raw := cols.value(row, fieldStatus); raw != "" {
			status, ok := tenantStatuses[strings.ToLower(raw)]
			if !ok {
				errs = append(errs, rowError(line, "unknown status %q", raw))
			}

			p.Status = status
		}

		if len(errs) == before {
			params = append(params, p)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	created, err := s.tenants.CreateBatch(ctx, params)
	s.metrics.AddImportedRows(string(KindTenants), "imported", len(created))

	if err != nil {
		return nil, fmt.Errorf("importing tenants: %w", err)
	}

	return &Result{Kind: KindTenants, Tenants: created}, nil
}

func (s *Service) importProperties(ctx context.Context, t *Table) (*Result, error) {
	cols := propertyProfile.resolve(t.Headers)

	var (
		params []property.CreateParams
		errs   RowErrors
	)

	for i, row := range t.Rows {
		line := t.Line(i)
		before := len(errs)

		p := property.CreateParams{
			Name:    cols.value(row, fieldName),
			Address: cols.value(row, fieldAddress),
			Type:    property.TypeResidential,
		}

		if p.Name == "" {
			errs = append(errs, rowError(line, "Property name is required"))
		}

		if raw := strings.ToLower(cols.value(row, fieldType)); raw != "" {
			switch {
			case strings.HasPrefix(raw, "mixed"):
				p.Type = property.TypeMixed
			case strings.HasPrefix(raw, "commercial"), raw == "office", raw == "retail":
				p.Type = property.TypeCommercial
			}
		}

		for _, m := range []struct {
			f   field
			dst *int
		}{{fieldUnits, &p.Units}, {fieldOccupied, &p.Occupied}} {
			f, dst := m.f, m.dst
			raw := cols.value(row, f)
			if raw == "" {
				continue
			}

			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				errs = append(errs, rowError(line, "invalid %s %q", f, raw))
				continue
			}

			*dst = n
		}

		if raw := cols.value(row, fieldValue); raw != "" {
			cents, err := ParseAmount(raw)
			if err != nil {
				errs = append(errs, rowError(line, "invalid value %q", raw))
			}

			p.Value = abs(cents)
		}

		if len(errs) == before {
			params = append(params, p)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	created := make([]*property.Property, 0, len(params))

	for i, p := range params {
		prop, err := s.properties.Create(ctx, p)
		if err != nil {
			s.metrics.AddImportedRows(string(KindProperties), "imported", len(created))
			return nil, fmt.Errorf("property %d: %w", i+1, err)
		}

		created = append(created, prop)
	}

	s.metrics.AddImportedRows(string(KindProperties), "imported", len(created))

	return &Result{Kind: KindProperties, Properties: created}, nil
}
