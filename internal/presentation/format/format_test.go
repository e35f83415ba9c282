package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := map[string]string{
		"22500":     "$22,500.00",
		"0":         "$0.00",
		"999.5":     "$999.50",
		"1234567.8": "$1,234,567.80",
		"38500.005": "$38,500.01",
		"-42":       "-$42.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, Currency(decimal.RequireFromString(in)), in)
	}
}

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want string
	}{
		{name: "past", end: now.Add(-time.Minute), want: "Ended"},
		{name: "exact", end: now, want: "Ended"},
		{name: "days", end: now.Add(2*24*time.Hour + 3*time.Hour + 10*time.Minute), want: "2d 3h"},
		{name: "hours", end: now.Add(5*time.Hour + 42*time.Minute), want: "5h 42m"},
		{name: "minutes", end: now.Add(17*time.Minute + 30*time.Second), want: "17m"},
		{name: "under_a_minute", end: now.Add(20 * time.Second), want: "0m"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TimeRemaining(tc.end, now))
		})
	}
}

func TestMinimumNextBid(t *testing.T) {
	assert.True(t, MinimumNextBid(decimal.NewFromInt(22500)).Equal(decimal.NewFromInt(22600)))
}
