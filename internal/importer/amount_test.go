package importer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tenantry/internal/importer"
)

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Plain", input: "1850", want: 185000},
		{name: "USDecimal", input: "1,234.56", want: 123456},
		{name: "Currency", input: "$1,850.00", want: 185000},
		{name: "Negative", input: "-42.5", want: -4250},
		{name: "Parentheses", input: "($99.10)", want: -9910},
		{name: "EuropeanDecimal", input: "1.234,56", want: 123456},
		{name: "EuropeanNegative", input: "-588,74", want: -58874},
		{name: "DecimalComma", input: "10,5", want: 1050},
		{name: "ThousandsComma", input: "12,000", want: 1200000},
		{name: "TrailingMinus", input: "15.00-", want: -1500},
		{name: "Euro", input: "€ 7,00", want: 700},
		{name: "Rounds", input: "0.005", want: 1},
		{name: "Empty", input: "  ", wantErr: true},
		{name: "Garbage", input: "n/a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.ParseAmount(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2026-03-07", "03/07/2026", "3/7/2026", "3/7/26", "07-03-2026", "Mar 7, 2026", "March 7, 2026", "7 Mar 2026"} {
		got, err := importer.ParseDate(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := importer.ParseDate("next tuesday")
	assert.Error(t, err)
}
