package service

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

var (
	hundred      = decimal.NewFromInt(100)
	daysPerMonth = decimal.NewFromInt(30)
	daysPerYear  = decimal.NewFromInt(365)
)

// CalculateInterestAmount computes interest for the given number of days
// using the scheme's calculation method. Rates are annual percentages applied
// per the product convention: Simple/Monthly treat days/30 as elapsed months
// and use the rate as a flat monthly multiplier. Unrecognized methods fall
// back to the Simple formula. Total function: days <= 0 yields zero.
//
// Results are intentionally unrounded; round to 2 decimal places only at the
// presentation boundary.
func CalculateInterestAmount(principal, interestRate decimal.Decimal, days int, method string) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}

	switch method {
	case models.MethodSimple, models.MethodMonthly:
		months := decimal.NewFromInt(int64(days)).Div(daysPerMonth)
		return principal.Mul(interestRate).Mul(months).Div(hundred)
	case models.MethodDaily:
		return principal.Mul(interestRate).Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear.Mul(hundred))
	case models.MethodCompound:
		months, _ := decimal.NewFromInt(int64(days)).Div(daysPerMonth).Float64()
		monthlyRate, _ := interestRate.Div(hundred).Float64()
		factor := math.Pow(1+monthlyRate, months) - 1
		return principal.Mul(decimal.NewFromFloat(factor))
	default:
		months := decimal.NewFromInt(int64(days)).Div(daysPerMonth)
		return principal.Mul(interestRate).Mul(months).Div(hundred)
	}
}

// statementBucketInterest is the formula used for the synthetic unpaid tail
// of an interest statement: principal * rate * days / (30 * 100), with a
// fixed 30-day divisor regardless of the scheme's calculation method. It
// deliberately diverges from CalculateInterestAmount; collapsing the two
// would change historical statement figures.
func statementBucketInterest(principal, interestRate decimal.Decimal, days int) decimal.Decimal {
	return principal.Mul(interestRate).Mul(decimal.NewFromInt(int64(days))).Div(daysPerMonth.Mul(hundred))
}

// dateOnly strips the time-of-day component so day arithmetic is stable.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns whole calendar days from one date to another, negative
// when "to" precedes "from". Both dates are re-anchored to UTC midnight so a
// DST transition in a zoned input cannot shorten a day.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// addMonths advances a date by calendar months, clamping to the last day of
// the target month (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, months int) time.Time {
	t = dateOnly(t)
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// round2 rounds a decimal to 2 places for presentation.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
