package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan statuses. Open/Active/Closed are driven by the settlement engine;
// Matured and Auctioned are set by direct status overwrites.
const (
	LoanStatusOpen      = "Open"
	LoanStatusActive    = "Active"
	LoanStatusClosed    = "Closed"
	LoanStatusMatured   = "Matured"
	LoanStatusAuctioned = "Auctioned"
)

// Loan represents one gold pledge transaction
type Loan struct {
	ID                    uuid.UUID       `json:"id"`
	LoanNumber            string          `json:"loan_number"`
	CustomerID            uuid.UUID       `json:"customer_id"`
	SchemeID              uuid.UUID       `json:"scheme_id"`
	LoanDate              time.Time       `json:"loan_date"`
	MaturityDate          time.Time       `json:"maturity_date"`
	LoanAmount            decimal.Decimal `json:"loan_amount"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	AdvanceMonths         int             `json:"advance_months"`
	AdvanceInterestAmount decimal.Decimal `json:"advance_interest_amount"`
	ProcessingFeePercent  decimal.Decimal `json:"processing_fee_percent"`
	ProcessingFeeAmount   decimal.Decimal `json:"processing_fee_amount"`
	NetPayable            decimal.Decimal `json:"net_payable"`
	Status                string          `json:"status"`
	Remarks               string          `json:"remarks,omitempty"`
	CreatedDate           time.Time       `json:"created_date"`
	UpdatedDate           *time.Time      `json:"updated_date,omitempty"`

	Scheme *Scheme `json:"scheme,omitempty"`
}

// LoanSummary holds per-status loan counts
type LoanSummary struct {
	Live      int `json:"live"`
	Closed    int `json:"closed"`
	Matured   int `json:"matured"`
	Auctioned int `json:"auctioned"`
}
