package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/tenantry/internal/categorize"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, rawDescription string) (categorize.Suggestion, error) {
	query := `
		SELECT category, description
		FROM category_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var sug categorize.Suggestion

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&sug.Category, &sug.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return categorize.Suggestion{}, nil
		}

		return categorize.Suggestion{}, fmt.Errorf("finding match: %w", err)
	}

	return sug, nil
}

// CreateMapping replaces any earlier mapping for the same pattern.
func (s *Store) CreateMapping(ctx context.Context, rawPattern string, sug categorize.Suggestion) error {
	query := `
		INSERT INTO category_mappings (raw_pattern, category, description, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (raw_pattern) DO UPDATE
		SET category = EXCLUDED.category, description = EXCLUDED.description, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, sug.Category, sug.Description); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
