package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt payment types
const (
	PaymentTypeInterest = "interest"
	PaymentTypePartial  = "partial"
	PaymentTypeFull     = "full"
)

// Receipt statuses. A receipt is never deleted; cancellation flips the status
// and excludes it from the accrual timeline.
const (
	ReceiptStatusCompleted = "Completed"
	ReceiptStatusCancelled = "Cancelled"
)

// Receipt records one payment event against a loan. TillDate is the date up
// to which this payment settles interest; completed receipts ordered by
// TillDate then CreatedDate define the loan's accrual timeline.
type Receipt struct {
	ID                   uuid.UUID       `json:"id"`
	ReceiptNumber        string          `json:"receipt_number"`
	ReceiptDate          time.Time       `json:"receipt_date"`
	TillDate             time.Time       `json:"till_date"`
	GoldLoanID           uuid.UUID       `json:"gold_loan_id"`
	CustomerID           uuid.UUID       `json:"customer_id"`
	LoanNumber           string          `json:"loan_number"`
	PaymentType          string          `json:"payment_type"`
	PrincipalAmount      decimal.Decimal `json:"principal_amount"`
	InterestAmount       decimal.Decimal `json:"interest_amount"`
	OtherCredits         decimal.Decimal `json:"other_credits"`
	OtherDebits          decimal.Decimal `json:"other_debits"`
	DefaultAmount        decimal.Decimal `json:"default_amount"`
	AddLess              decimal.Decimal `json:"add_less"`
	NetPayable           decimal.Decimal `json:"net_payable"`
	CalculatedInterest   decimal.Decimal `json:"calculated_interest"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	OutstandingInterest  decimal.Decimal `json:"outstanding_interest"`
	Remarks              string          `json:"remarks,omitempty"`
	Status               string          `json:"status"`
	CreatedDate          time.Time       `json:"created_date"`
	UpdatedDate          *time.Time      `json:"updated_date,omitempty"`

	InterestStatements []InterestStatement `json:"interest_statements,omitempty"`
}

// InterestStatement is one persisted sub-period of accrual attached to a
// completed receipt. Immutable once the receipt is completed.
type InterestStatement struct {
	ID                uuid.UUID       `json:"id"`
	ReceiptID         uuid.UUID       `json:"receipt_id"`
	GoldLoanID        uuid.UUID       `json:"gold_loan_id"`
	FromDate          time.Time       `json:"from_date"`
	ToDate            time.Time       `json:"to_date"`
	DurationDays      int             `json:"duration_days"`
	InterestAccrued   decimal.Decimal `json:"interest_accrued"`
	TotalAccrued      decimal.Decimal `json:"total_accrued"`
	InterestPaid      decimal.Decimal `json:"interest_paid"`
	PrincipalPaid     decimal.Decimal `json:"principal_paid"`
	AddedPrincipal    decimal.Decimal `json:"added_principal"`
	AdjustedPrincipal decimal.Decimal `json:"adjusted_principal"`
	NewPrincipal      decimal.Decimal `json:"new_principal"`
	OpeningPrincipal  decimal.Decimal `json:"opening_principal"`
	ClosingPrincipal  decimal.Decimal `json:"closing_principal"`
	CreatedDate       time.Time       `json:"created_date"`
}

// StatementLine is one row of a reconstructed interest ledger. Historical
// lines come from persisted statements; the open unpaid tail is synthesized
// per request and never stored.
type StatementLine struct {
	FromDate          string          `json:"fromDate"`
	ToDate            string          `json:"toDate"`
	Duration          string          `json:"duration"`
	InterestAccrued   decimal.Decimal `json:"intAccrued"`
	TotalAccrued      decimal.Decimal `json:"totAccrued"`
	InterestPaid      decimal.Decimal `json:"intPaid"`
	PrincipalPaid     decimal.Decimal `json:"principalPaid"`
	AddedPrincipal    decimal.Decimal `json:"addedPrincipal"`
	AdjustedPrincipal decimal.Decimal `json:"adjPrincipal"`
	NewPrincipal      decimal.Decimal `json:"newPrincipal"`
	IsPaid            bool            `json:"isPaid"`
}
