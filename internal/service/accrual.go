package service

import (
	"time"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

// AccrualPlan describes the interest-accrual window for a loan against a
// target date.
type AccrualPlan struct {
	// AdvanceInterestEndDate is loan date plus the scheme's advance months;
	// interest up to here was prepaid at issuance.
	AdvanceInterestEndDate time.Time

	// AccrualStartDate is the last completed receipt's TillDate, or the
	// advance end date when no receipt exists yet.
	AccrualStartDate time.Time

	// InterestStartDate is the accrual start shifted by grace days.
	InterestStartDate time.Time

	// TotalDaysDue is whole days from InterestStartDate to the target date,
	// floored at zero.
	TotalDaysDue int

	// DisplayDaysDue is max(0, target - AccrualStartDate), reported for
	// audit display when nothing is due.
	DisplayDaysDue int

	GraceDays int

	// InAdvanceWindow is set when no receipt exists and the target date is
	// still within the prepaid advance-interest period. Callers report this
	// distinctly from the grace period.
	InAdvanceWindow bool

	// InGracePeriod is set when grace days pushed the interest start past
	// the target date.
	InGracePeriod bool
}

// PlanAccrual determines where interest accrual starts for a loan given its
// most recent completed receipt (nil when none) and a target date.
func PlanAccrual(loan *models.Loan, scheme *models.Scheme, lastReceipt *models.Receipt, target time.Time) AccrualPlan {
	advanceMonths := 0
	graceDays := 0
	if scheme != nil {
		advanceMonths = scheme.AdvanceMonth
		graceDays = scheme.GraceDays
	}

	target = dateOnly(target)
	advanceEnd := addMonths(loan.LoanDate, advanceMonths)

	accrualStart := advanceEnd
	if lastReceipt != nil {
		accrualStart = dateOnly(lastReceipt.TillDate)
	}

	interestStart := accrualStart.AddDate(0, 0, graceDays)
	rawDays := daysBetween(interestStart, target)

	totalDays := rawDays
	if totalDays < 0 {
		totalDays = 0
	}
	displayDays := daysBetween(accrualStart, target)
	if displayDays < 0 {
		displayDays = 0
	}

	return AccrualPlan{
		AdvanceInterestEndDate: advanceEnd,
		AccrualStartDate:       accrualStart,
		InterestStartDate:      interestStart,
		TotalDaysDue:           totalDays,
		DisplayDaysDue:         displayDays,
		GraceDays:              graceDays,
		InAdvanceWindow:        lastReceipt == nil && !target.After(advanceEnd),
		InGracePeriod:          graceDays > 0 && rawDays < 0,
	}
}
