package importer

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errNoAmount = errors.New("no amount")

// ParseAmount parses a money cell into cents. It accepts currency symbols,
// accounting parentheses for negatives, US grouping ("1,234.56") and
// European grouping ("1.234,56").
func ParseAmount(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, errNoAmount
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	clean = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ' ', '\u00a0':
			return -1
		}

		return r
	}, clean)

	if strings.HasSuffix(clean, "-") {
		negative = !negative
		clean = strings.TrimSuffix(clean, "-")
	}

	clean = normalizeSeparators(clean)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	if negative {
		d = d.Neg()
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// normalizeSeparators rewrites grouping and decimal marks to plain
// "1234.56". The rightmost of '.' and ',' is taken as the decimal mark when
// both appear; a lone ',' followed by exactly two digits is a decimal comma.
func normalizeSeparators(s string) string {
	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')

	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0 && strings.Count(s, ",") == 1 && len(s)-comma-1 <= 2:
		return strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		return strings.ReplaceAll(s, ",", "")
	}

	return s
}

var dateLayouts = []string{
	time.DateOnly,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// ParseDate accepts ISO, US slash, European dash and written-out dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	var firstErr error

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, firstErr
}
