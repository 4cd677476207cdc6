package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

// LoanRequest carries a new pledge to be issued. Advance interest and
// processing fee amounts are computed by the caller against the scheme.
type LoanRequest struct {
	LoanNumber            string          `json:"loan_number,omitempty"`
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
	Remarks               string          `json:"remarks,omitempty"`
}

// CreateLoan issues a new gold loan in status Open with a generated loan
// number. Outstanding principal starts equal to the loan amount and is only
// tracked through receipts thereafter.
func (s *Service) CreateLoan(ctx context.Context, req *LoanRequest) (*models.Loan, error) {
	if req.CustomerID == uuid.Nil || req.SchemeID == uuid.Nil {
		return nil, fmt.Errorf("customer and scheme are required: %w", ErrValidation)
	}
	if !req.LoanAmount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("loan amount must be positive: %w", ErrValidation)
	}
	if req.InterestRate.IsNegative() {
		return nil, fmt.Errorf("interest rate must not be negative: %w", ErrValidation)
	}
	if req.LoanDate.IsZero() {
		return nil, fmt.Errorf("loan date is required: %w", ErrValidation)
	}

	loanNumber := req.LoanNumber
	if loanNumber == "" {
		var err error
		loanNumber, err = s.store.NextLoanNumber(ctx, loanNumberPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to generate loan number: %w", err)
		}
	}

	loan := &models.Loan{
		ID:                    uuid.New(),
		LoanNumber:            loanNumber,
		CustomerID:            req.CustomerID,
		SchemeID:              req.SchemeID,
		LoanDate:              dateOnly(req.LoanDate),
		MaturityDate:          dateOnly(req.MaturityDate),
		LoanAmount:            req.LoanAmount,
		InterestRate:          req.InterestRate,
		AdvanceMonths:         req.AdvanceMonths,
		AdvanceInterestAmount: req.AdvanceInterestAmount,
		ProcessingFeePercent:  req.ProcessingFeePercent,
		ProcessingFeeAmount:   req.ProcessingFeeAmount,
		NetPayable:            req.NetPayable,
		Status:                models.LoanStatusOpen,
		Remarks:               req.Remarks,
		CreatedDate:           time.Now().UTC(),
	}

	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	s.log.Infof("Gold loan created: %s", loan.LoanNumber)
	return loan, nil
}

// GetLoan retrieves a loan with its scheme.
func (s *Service) GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	return s.store.FindLoan(ctx, id)
}

// LoanSummary returns loan counts by status.
func (s *Service) LoanSummary(ctx context.Context) (*models.LoanSummary, error) {
	return s.store.LoanSummary(ctx)
}

// UpdateLoanStatus overwrites a loan's status. Used for the externally driven
// transitions to Matured and Auctioned; no balance computation is involved.
func (s *Service) UpdateLoanStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case models.LoanStatusOpen, models.LoanStatusActive, models.LoanStatusClosed,
		models.LoanStatusMatured, models.LoanStatusAuctioned:
	default:
		return fmt.Errorf("unknown loan status %q: %w", status, ErrValidation)
	}
	if err := s.store.UpdateLoanStatus(ctx, id, status); err != nil {
		return err
	}
	s.log.Infof("Loan %s status set to %s", id, status)
	return nil
}

// MarkMaturedLoans flips Open/Active loans whose maturity date has passed to
// Matured. Invoked by the nightly sweep.
func (s *Service) MarkMaturedLoans(ctx context.Context, asOf time.Time) (int, error) {
	loans, err := s.store.FindLoansMaturedBefore(ctx, dateOnly(asOf))
	if err != nil {
		return 0, fmt.Errorf("failed to list matured loans: %w", err)
	}

	marked := 0
	for _, loan := range loans {
		if err := s.store.UpdateLoanStatus(ctx, loan.ID, models.LoanStatusMatured); err != nil {
			s.log.Errorf("Failed to mark loan %s as matured: %v", loan.LoanNumber, err)
			continue
		}
		marked++
	}
	if marked > 0 {
		s.log.Infof("Marked %d loan(s) as matured", marked)
	}
	return marked, nil
}

// SendMaturityReminders emails customers whose loans mature within the
// configured reminder window.
func (s *Service) SendMaturityReminders(ctx context.Context, asOf time.Time) error {
	if s.mailer == nil {
		return nil
	}

	from := dateOnly(asOf)
	to := from.AddDate(0, 0, s.config.MaturityReminderDays)
	loans, err := s.store.FindLoansMaturingWithin(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to list maturing loans: %w", err)
	}

	for _, loan := range loans {
		customer, err := s.store.FindCustomer(ctx, loan.CustomerID)
		if err != nil || customer.Email == "" {
			continue
		}
		err = s.mailer.SendMaturityReminder(customer.Email, customer.CustomerName,
			loan.LoanNumber, loan.MaturityDate, loan.LoanAmount)
		if err != nil {
			s.log.Errorf("Failed to send maturity reminder for %s: %v", loan.LoanNumber, err)
		}
	}
	return nil
}
