package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/property"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(s scanner) (*property.Property, error) {
	var p property.Property

	var typ string

	var address sql.NullString

	if err := s.Scan(
		&p.ID, &p.Name, &address, &typ, &p.Units, &p.Occupied, &p.Value,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	); err != nil {
		return nil, err
	}

	p.Address = address.String
	p.Type = property.Type(typ)

	return &p, nil
}

const selectPropertyColumns = `id, name, address, type, units, occupied, value, created_at, updated_at, deleted_at`

func (s *Store) CreateProperty(ctx context.Context, p *property.Property) error {
	query := `
		INSERT INTO properties (name, address, type, units, occupied, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.Name, p.Address, p.Type, p.Units, p.Occupied, p.Value,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating property: %w", err)
	}

	return nil
}

func (s *Store) GetProperty(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	query := `SELECT ` + selectPropertyColumns + ` FROM properties WHERE id = $1 AND deleted_at IS NULL`

	p, err := scanProperty(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, property.ErrNotFound
		}

		return nil, fmt.Errorf("getting property: %w", err)
	}

	return p, nil
}

func (s *Store) ListProperties(ctx context.Context) ([]*property.Property, error) {
	query := `SELECT ` + selectPropertyColumns + ` FROM properties WHERE deleted_at IS NULL ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var out []*property.Property

	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property rows: %w", err)
	}

	return out, nil
}

func (s *Store) UpdateProperty(ctx context.Context, p *property.Property) error {
	query := `
		UPDATE properties
		SET name = $1, address = $2, type = $3, units = $4, occupied = $5, value = $6, updated_at = NOW()
		WHERE id = $7 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, p.Name, p.Address, p.Type, p.Units, p.Occupied, p.Value, p.ID)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return property.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE properties SET deleted_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	return nil
}
