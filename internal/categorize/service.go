// Package categorize maps raw bank descriptions onto ledger categories and
// friendlier descriptions, learning from manual corrections.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid mapping")

// Suggestion is what an imported row should be booked as.
type Suggestion struct {
	Category    string
	Description string
}

func (s Suggestion) Empty() bool {
	return s.Category == "" && s.Description == ""
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=categorize
type Repository interface {
	// FindMatch returns the mapping with the longest pattern contained in
	// rawDescription, or a zero Suggestion.
	FindMatch(ctx context.Context, rawDescription string) (Suggestion, error)
	CreateMapping(ctx context.Context, rawPattern string, s Suggestion) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type rule struct {
	keywords []string
	category string
}

// Keyword fallbacks, checked in order when nothing was learned.
var rules = []rule{
	{[]string{"security deposit", "deposit"}, "Security Deposit"},
	{[]string{"late fee", "late charge"}, "Late Fee"},
	{[]string{"rent", "zelle from", "venmo from"}, "Rent"},
	{[]string{"plumb", "hvac", "repair", "hardware", "home depot", "lowe's", "handyman"}, "Maintenance"},
	{[]string{"water", "electric", "gas co", "sewer", "trash", "utility"}, "Utilities"},
	{[]string{"insurance"}, "Insurance"},
	{[]string{"property tax", "county tax", "tax collector"}, "Property Tax"},
	{[]string{"mortgage", "loan pmt"}, "Mortgage"},
}

// Suggest returns the learned mapping for rawDescription, falling back to
// keyword rules for the category.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (Suggestion, error) {
	raw := strings.TrimSpace(rawDescription)
	if raw == "" {
		return Suggestion{}, nil
	}

	learned, err := s.repo.FindMatch(ctx, raw)
	if err != nil {
		return Suggestion{}, fmt.Errorf("finding mapping: %w", err)
	}

	if learned.Category == "" {
		learned.Category = Guess(raw)
	}

	return learned, nil
}

// Guess applies the keyword rules alone.
func Guess(rawDescription string) string {
	lower := strings.ToLower(rawDescription)

	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.category
			}
		}
	}

	return ""
}

// Learn remembers that descriptions containing rawPattern belong to s.
func (s *Service) Learn(ctx context.Context, rawPattern string, sug Suggestion) error {
	rawPattern = strings.TrimSpace(rawPattern)
	if rawPattern == "" || sug.Empty() {
		return fmt.Errorf("%w: pattern and a category or description are required", ErrInvalid)
	}

	return s.repo.CreateMapping(ctx, rawPattern, sug)
}
