package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order matches selectTenantColumns.
func scanTenant(s scanner) (*tenant.Tenant, error) {
	var t tenant.Tenant

	var status string

	var email, phone, unit sql.NullString

	var leaseStart, leaseEnd sql.NullTime

	if err := s.Scan(
		&t.ID, &t.Name, &email, &phone, &t.PropertyID, &unit, &t.Rent,
		&leaseStart, &leaseEnd, &status, &t.Balance, &t.ApplicationID,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	); err != nil {
		return nil, err
	}

	t.Email = email.String
	t.Phone = phone.String
	t.Unit = unit.String
	t.LeaseStart = leaseStart.Time
	t.LeaseEnd = leaseEnd.Time
	t.Status = tenant.Status(status)

	return &t, nil
}

const selectTenantColumns = `
	id, name, email, phone, property_id, unit, rent,
	lease_start, lease_end, status, balance, application_id,
	created_at, updated_at, deleted_at
`

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}

	return t
}

func (s *Store) CreateTenant(ctx context.Context, t *tenant.Tenant) error {
	query := `
		INSERT INTO tenants (name, email, phone, property_id, unit, rent, lease_start, lease_end, status, balance, application_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.Name,
		t.Email,
		t.Phone,
		t.PropertyID,
		t.Unit,
		t.Rent,
		nullTime(t.LeaseStart),
		nullTime(t.LeaseEnd),
		t.Status,
		t.Balance,
		t.ApplicationID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return tenant.ErrExists
		}

		return fmt.Errorf("creating tenant: %w", err)
	}

	return nil
}

func (s *Store) GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	query := `SELECT ` + selectTenantColumns + ` FROM tenants WHERE id = $1 AND deleted_at IS NULL`

	t, err := scanTenant(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenant.ErrNotFound
		}

		return nil, fmt.Errorf("getting tenant: %w", err)
	}

	return t, nil
}

func (s *Store) GetTenantByEmail(ctx context.Context, email string) (*tenant.Tenant, error) {
	query := `SELECT ` + selectTenantColumns + ` FROM tenants WHERE LOWER(email) = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT 1`

	t, err := scanTenant(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenant.ErrNotFound
		}

		return nil, fmt.Errorf("getting tenant by email: %w", err)
	}

	return t, nil
}

func (s *Store) GetTenantByApplication(ctx context.Context, applicationID uuid.UUID) (*tenant.Tenant, error) {
	query := `SELECT ` + selectTenantColumns + ` FROM tenants WHERE application_id = $1 AND deleted_at IS NULL`

	t, err := scanTenant(s.db.QueryRowContext(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenant.ErrNotFound
		}

		return nil, fmt.Errorf("getting tenant by application: %w", err)
	}

	return t, nil
}

func (s *Store) ListTenants(ctx context.Context, filter tenant.ListFilter) ([]*tenant.Tenant, error) {
	query := `SELECT ` + selectTenantColumns + ` FROM tenants WHERE deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.PropertyID != nil {
		query += fmt.Sprintf(" AND property_id = $%d", argIdx)

		args = append(args, *filter.PropertyID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var out []*tenant.Tenant

	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tenant: %w", err)
		}

		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tenant rows: %w", err)
	}

	return out, nil
}

func (s *Store) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, email = $2, phone = $3, property_id = $4, unit = $5, rent = $6,
			lease_start = $7, lease_end = $8, status = $9, balance = $10, updated_at = NOW()
		WHERE id = $11 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		t.Name,
		t.Email,
		t.Phone,
		t.PropertyID,
		t.Unit,
		t.Rent,
		nullTime(t.LeaseStart),
		nullTime(t.LeaseEnd),
		t.Status,
		t.Balance,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating tenant: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return tenant.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE tenants
		SET deleted_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting tenant: %w", err)
	}

	return nil
}
