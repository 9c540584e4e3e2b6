package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1234.50", FormatAmount(123450))
	assert.Equal(t, "-0.05", FormatAmount(-5))
}

func TestFormatOptionalDate(t *testing.T) {
	assert.Equal(t, "-", FormatOptionalDate(nil))
	assert.Equal(t, "2026-07-01", FormatOptionalDate(new(time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC))))
}

func TestPacketName(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, "receipts-2025-01-01_2025-12-31.zip", packetName(packetReceipts, start, end, false))
	assert.Equal(t, "documents-all.zip", packetName(packetDocuments, time.Time{}, time.Time{}, true))
}

func TestFilterLabel(t *testing.T) {
	assert.Equal(t, "All", filterLabel(""))
	assert.Equal(t, "in progress", filterLabel("in_progress"))
}
