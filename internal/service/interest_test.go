package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateInterestAmount(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		days      int
		method    string
		want      string
	}{
		{"simple one month", "100000", "18", 30, models.MethodSimple, "18000.00"},
		{"monthly same as simple", "100000", "18", 30, models.MethodMonthly, "18000.00"},
		{"simple partial month", "50000", "24", 28, models.MethodSimple, "11200.00"},
		{"simple two months", "100000", "18", 60, models.MethodSimple, "36000.00"},
		{"daily", "100000", "18", 73, models.MethodDaily, "3600.00"},
		{"daily one day", "36500", "10", 1, models.MethodDaily, "10.00"},
		{"compound one month", "100000", "12", 30, models.MethodCompound, "12000.00"},
		{"unknown method falls back to simple", "100000", "18", 30, "Reducing", "18000.00"},
		{"zero days", "100000", "18", 0, models.MethodSimple, "0.00"},
		{"negative days", "100000", "18", -10, models.MethodDaily, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateInterestAmount(dec(tt.principal), dec(tt.rate), tt.days, tt.method)
			assert.Equal(t, tt.want, got.Round(2).StringFixed(2))
		})
	}
}

func TestCalculateInterestAmountCompoundTwoMonths(t *testing.T) {
	// 100000 * ((1.10)^2 - 1) = 21000
	got := CalculateInterestAmount(dec("100000"), dec("10"), 60, models.MethodCompound)
	f, _ := got.Float64()
	assert.InDelta(t, 21000.0, f, 0.01)
}

func TestStatementBucketInterestUsesFixedDivisor(t *testing.T) {
	// The statement tail always divides by 30 regardless of method:
	// 100000 * 18 * 15 / 3000 = 9000
	got := statementBucketInterest(dec("100000"), dec("18"), 15)
	assert.Equal(t, "9000.00", got.Round(2).StringFixed(2))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 28, daysBetween(date(2024, 2, 6), date(2024, 3, 5)))
	assert.Equal(t, 0, daysBetween(date(2024, 3, 5), date(2024, 3, 5)))
	assert.Equal(t, -3, daysBetween(date(2024, 3, 5), date(2024, 3, 2)))
	// Time-of-day must not shift day counts.
	from := time.Date(2024, 2, 6, 23, 59, 0, 0, time.UTC)
	to := time.Date(2024, 3, 5, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 28, daysBetween(from, to))
}

func TestDaysBetweenAcrossDSTTransition(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is a 23-hour day in New York; it still counts as one day.
	assert.Equal(t, 1, daysBetween(
		time.Date(2024, 3, 10, 0, 0, 0, 0, ny),
		time.Date(2024, 3, 11, 0, 0, 0, 0, ny)))
	assert.Equal(t, 31, daysBetween(
		time.Date(2024, 3, 1, 0, 0, 0, 0, ny),
		time.Date(2024, 4, 1, 0, 0, 0, 0, ny)))
	// Fall-back day (25 hours) must not add a day either.
	assert.Equal(t, 1, daysBetween(
		time.Date(2024, 11, 3, 0, 0, 0, 0, ny),
		time.Date(2024, 11, 4, 0, 0, 0, 0, ny)))
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, date(2024, 2, 29), addMonths(date(2024, 1, 31), 1))
	assert.Equal(t, date(2023, 2, 28), addMonths(date(2023, 1, 31), 1))
	assert.Equal(t, date(2024, 2, 1), addMonths(date(2024, 1, 1), 1))
	assert.Equal(t, date(2024, 4, 30), addMonths(date(2024, 1, 30), 3))
}
