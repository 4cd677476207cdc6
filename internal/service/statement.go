package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

const statementDateLayout = "02/01/2006"

// BuildStatement reconstructs the full interest ledger for a loan: persisted
// statement lines of every completed receipt in till-date order, followed by
// a synthetic 30-day-bucketed tail covering the still-open period
// [fromDate, toDate). The tail is computed per request and never persisted.
// Pure with respect to its inputs.
func BuildStatement(loan *models.Loan, receipts []*models.Receipt, fromDate, toDate time.Time) []models.StatementLine {
	lines := make([]models.StatementLine, 0)
	currentPrincipal := loan.LoanAmount

	for _, receipt := range receipts {
		if len(receipt.InterestStatements) == 0 {
			continue
		}
		stmts := make([]models.InterestStatement, len(receipt.InterestStatements))
		copy(stmts, receipt.InterestStatements)
		sort.SliceStable(stmts, func(i, j int) bool {
			return stmts[i].FromDate.Before(stmts[j].FromDate)
		})
		for _, stmt := range stmts {
			lines = append(lines, models.StatementLine{
				FromDate:          stmt.FromDate.Format(statementDateLayout),
				ToDate:            stmt.ToDate.Format(statementDateLayout),
				Duration:          fmt.Sprintf("%d Days", stmt.DurationDays),
				InterestAccrued:   round2(stmt.InterestAccrued),
				TotalAccrued:      round2(stmt.TotalAccrued),
				InterestPaid:      round2(stmt.InterestPaid),
				PrincipalPaid:     round2(stmt.PrincipalPaid),
				AddedPrincipal:    round2(stmt.AddedPrincipal),
				AdjustedPrincipal: round2(stmt.AdjustedPrincipal),
				NewPrincipal:      round2(stmt.NewPrincipal),
				IsPaid:            true,
			})
		}
		currentPrincipal = receipt.OutstandingPrincipal
	}

	fromDate = dateOnly(fromDate)
	toDate = dateOnly(toDate)
	if !fromDate.Before(toDate) {
		return lines
	}

	totalAccrued := decimal.Zero
	for _, line := range lines {
		totalAccrued = totalAccrued.Add(line.TotalAccrued)
	}

	current := fromDate
	for current.Before(toDate) {
		next := current.AddDate(0, 0, 30)
		if next.After(toDate) {
			next = toDate
		}
		days := daysBetween(current, next)

		interestAccrued := statementBucketInterest(currentPrincipal, loan.InterestRate, days)
		totalAccrued = totalAccrued.Add(interestAccrued)

		lines = append(lines, models.StatementLine{
			FromDate:        current.Format(statementDateLayout),
			ToDate:          next.Format(statementDateLayout),
			Duration:        fmt.Sprintf("%d Days", days),
			InterestAccrued: round2(interestAccrued),
			TotalAccrued:    round2(totalAccrued),
			InterestPaid:    decimal.Zero,
			PrincipalPaid:   decimal.Zero,
			NewPrincipal:    currentPrincipal,
			IsPaid:          false,
		})

		current = next
	}

	return lines
}
