package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

// InterestQuote is the result of an interest calculation against a till date.
type InterestQuote struct {
	LoanDate               time.Time              `json:"loan_date"`
	AdvanceInterestEndDate time.Time              `json:"advance_interest_end_date"`
	AccrualStartDate       time.Time              `json:"interest_accrual_start_date"`
	InterestStartDate      time.Time              `json:"interest_start_date"`
	TillDate               time.Time              `json:"till_date"`
	GraceDays              int                    `json:"grace_days"`
	TotalDaysDue           int                    `json:"total_days_due"`
	OutstandingPrincipal   decimal.Decimal        `json:"outstanding_principal"`
	TotalInterestDue       decimal.Decimal        `json:"total_interest_due"`
	InterestStatements     []models.StatementLine `json:"interest_statements"`
	LastReceiptDate        *time.Time             `json:"last_receipt_date,omitempty"`
	LastReceiptNumber      string                 `json:"last_receipt_number,omitempty"`
	LastPaidUpTo           *time.Time             `json:"last_paid_up_to,omitempty"`
	Message                string                 `json:"message"`
	Note                   string                 `json:"note,omitempty"`
}

// ReceiptRequest carries one payment event to be settled against a loan.
type ReceiptRequest struct {
	GoldLoanID           uuid.UUID                  `json:"gold_loan_id"`
	CustomerID           uuid.UUID                  `json:"customer_id"`
	LoanNumber           string                     `json:"loan_number"`
	ReceiptNumber        string                     `json:"receipt_number,omitempty"`
	ReceiptDate          time.Time                  `json:"receipt_date"`
	// TillDate is derived by the engine on creation and ignored there; on an
	// update it replaces the stored paid-up-to date when provided.
	TillDate             time.Time                  `json:"till_date,omitempty"`
	PaymentType          string                     `json:"payment_type"`
	PrincipalAmount      decimal.Decimal            `json:"principal_amount"`
	InterestAmount       decimal.Decimal            `json:"interest_amount"`
	OtherCredits         decimal.Decimal            `json:"other_credits"`
	OtherDebits          decimal.Decimal            `json:"other_debits"`
	DefaultAmount        decimal.Decimal            `json:"default_amount"`
	AddLess              decimal.Decimal            `json:"add_less"`
	NetPayable           decimal.Decimal            `json:"net_payable"`
	CalculatedInterest   decimal.Decimal            `json:"calculated_interest"`
	OutstandingInterest  decimal.Decimal            `json:"outstanding_interest"`
	OutstandingPrincipal decimal.Decimal            `json:"outstanding_principal"`
	Remarks              string                     `json:"remarks,omitempty"`
	InterestStatements   []models.InterestStatement `json:"interest_statements,omitempty"`
}

// SettlementResult summarizes a created receipt.
type SettlementResult struct {
	ReceiptID        uuid.UUID       `json:"receipt_id"`
	ReceiptNumber    string          `json:"receipt_number"`
	ReceiptDate      time.Time       `json:"receipt_date"`
	TillDate         time.Time       `json:"till_date"`
	InterestPaid     decimal.Decimal `json:"interest_paid"`
	TotalInterestDue decimal.Decimal `json:"total_interest_due"`
	DaysCovered      int             `json:"days_covered"`
	TotalDaysDue     int             `json:"total_days_due"`
	Note             string          `json:"note,omitempty"`
}

func validPaymentType(t string) bool {
	switch t {
	case models.PaymentTypeInterest, models.PaymentTypePartial, models.PaymentTypeFull:
		return true
	}
	return false
}

// CalculateInterest computes the interest due on a loan up to tillDate
// together with the reconstructed statement ledger. Read-only.
func (s *Service) CalculateInterest(ctx context.Context, loanID uuid.UUID, tillDate time.Time) (*InterestQuote, error) {
	loan, err := s.store.FindLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	lastReceipt, err := s.store.FindLastCompletedReceipt(ctx, loanID)
	if err != nil {
		return nil, err
	}
	allReceipts, err := s.store.FindAllCompletedReceipts(ctx, loanID)
	if err != nil {
		return nil, err
	}

	plan := PlanAccrual(loan, loan.Scheme, lastReceipt, tillDate)

	quote := &InterestQuote{
		LoanDate:               loan.LoanDate,
		AdvanceInterestEndDate: plan.AdvanceInterestEndDate,
		AccrualStartDate:       plan.AccrualStartDate,
		InterestStartDate:      plan.InterestStartDate,
		TillDate:               dateOnly(tillDate),
		GraceDays:              plan.GraceDays,
		OutstandingPrincipal:   loan.LoanAmount,
		TotalInterestDue:       decimal.Zero,
		InterestStatements:     BuildStatement(loan, allReceipts, plan.AccrualStartDate, tillDate),
	}
	if lastReceipt != nil {
		quote.OutstandingPrincipal = lastReceipt.OutstandingPrincipal
		quote.LastReceiptDate = &lastReceipt.ReceiptDate
		quote.LastReceiptNumber = lastReceipt.ReceiptNumber
		quote.LastPaidUpTo = &lastReceipt.TillDate
	}

	advanceMonths := 0
	if loan.Scheme != nil {
		advanceMonths = loan.Scheme.AdvanceMonth
	}

	// Still within the prepaid advance-interest window: reported distinctly
	// from the grace period.
	if plan.InAdvanceWindow {
		quote.TotalDaysDue = 0
		quote.Message = "Still within advance interest period"
		quote.Note = fmt.Sprintf("Advance interest already collected for %d month(s)", advanceMonths)
		return quote, nil
	}

	// Grace period not elapsed, or already paid up to this date. The day
	// count reported here is measured from the accrual start, not the
	// grace-adjusted start.
	if plan.TotalDaysDue <= 0 {
		quote.TotalDaysDue = plan.DisplayDaysDue
		if plan.InGracePeriod {
			quote.Message = "Within grace period - no interest due yet"
		} else {
			quote.Message = "Interest already paid up to this date"
		}
		return quote, nil
	}

	method := models.MethodSimple
	if loan.Scheme != nil {
		method = loan.Scheme.CalculationMethod
	}
	totalInterestDue := CalculateInterestAmount(quote.OutstandingPrincipal, loan.InterestRate, plan.TotalDaysDue, method)

	quote.TotalDaysDue = plan.TotalDaysDue
	quote.TotalInterestDue = round2(totalInterestDue)
	quote.Message = "Interest calculated successfully"
	if plan.TotalDaysDue > 30 {
		quote.Note = fmt.Sprintf("Includes %.1f months of accumulated interest", float64(plan.TotalDaysDue)/30.0)
	}
	return quote, nil
}

// CreateReceipt settles a payment event: computes interest due for the open
// period, allocates the paid interest to days, derives the till date, rolls
// the outstanding principal forward and transitions the loan status. The
// outstanding principal is read, and everything derived from it computed,
// under the loan's row lock inside the settlement transaction, so the receipt
// insert and loan update commit atomically against the balance they were
// calculated from.
func (s *Service) CreateReceipt(ctx context.Context, req *ReceiptRequest) (*SettlementResult, error) {
	if err := validateReceiptRequest(req); err != nil {
		return nil, err
	}

	receiptNumber := req.ReceiptNumber
	if receiptNumber == "" {
		var err error
		receiptNumber, err = s.store.NextReceiptNumber(ctx, receiptNumberPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to generate receipt number: %w", err)
		}
	}

	var (
		receipt          *models.Receipt
		plan             AccrualPlan
		totalInterestDue decimal.Decimal
		loanStatus       string
	)
	err := s.store.Settle(ctx, req.GoldLoanID, func(loan *models.Loan, lastReceipt *models.Receipt) (*models.Receipt, error) {
		plan = PlanAccrual(loan, loan.Scheme, lastReceipt, req.ReceiptDate)
		totalDaysDue := plan.TotalDaysDue

		outstandingBefore := loan.LoanAmount
		if lastReceipt != nil {
			outstandingBefore = lastReceipt.OutstandingPrincipal
		}

		totalInterestDue = decimal.Zero
		if totalDaysDue > 0 {
			method := models.MethodSimple
			if loan.Scheme != nil {
				method = loan.Scheme.CalculationMethod
			}
			totalInterestDue = CalculateInterestAmount(outstandingBefore, loan.InterestRate, totalDaysDue, method)
		}

		receiptDate := dateOnly(req.ReceiptDate)
		var tillDate time.Time
		switch {
		case totalDaysDue == 0 || totalInterestDue.IsZero():
			// Nothing was owed; the payment trivially covers up to now.
			tillDate = receiptDate
		case req.InterestAmount.GreaterThanOrEqual(totalInterestDue):
			// Full period covered. Any excess over the due amount is not
			// tracked as credit.
			tillDate = receiptDate
		default:
			// Partial interest payment: allocate the paid amount to whole days.
			dailyInterest := totalInterestDue.Div(decimal.NewFromInt(int64(totalDaysDue)))
			daysPaidFor := req.InterestAmount.Div(dailyInterest).IntPart()
			tillDate = plan.InterestStartDate.AddDate(0, 0, int(daysPaidFor))
			if tillDate.After(receiptDate) {
				tillDate = receiptDate
			}
		}

		now := time.Now().UTC()
		receipt = &models.Receipt{
			ID:                   uuid.New(),
			ReceiptNumber:        receiptNumber,
			ReceiptDate:          receiptDate,
			TillDate:             tillDate,
			GoldLoanID:           req.GoldLoanID,
			CustomerID:           req.CustomerID,
			LoanNumber:           req.LoanNumber,
			PaymentType:          req.PaymentType,
			PrincipalAmount:      req.PrincipalAmount,
			InterestAmount:       req.InterestAmount,
			OtherCredits:         req.OtherCredits,
			OtherDebits:          req.OtherDebits,
			DefaultAmount:        req.DefaultAmount,
			AddLess:              req.AddLess,
			NetPayable:           req.NetPayable,
			CalculatedInterest:   req.CalculatedInterest,
			OutstandingPrincipal: outstandingBefore.Sub(req.PrincipalAmount),
			OutstandingInterest:  req.OutstandingInterest,
			Remarks:              req.Remarks,
			Status:               models.ReceiptStatusCompleted,
			CreatedDate:          now,
		}
		for i := range req.InterestStatements {
			stmt := req.InterestStatements[i]
			stmt.ID = uuid.New()
			stmt.ReceiptID = receipt.ID
			stmt.GoldLoanID = req.GoldLoanID
			stmt.CreatedDate = now
			receipt.InterestStatements = append(receipt.InterestStatements, stmt)
		}

		// Status transition: a full payment that clears the principal closes
		// the loan; anything else leaves it Active, including a payment
		// against a previously closed loan that leaves a balance.
		if req.PaymentType == models.PaymentTypeFull && receipt.OutstandingPrincipal.IsZero() {
			loan.Status = models.LoanStatusClosed
		} else {
			loan.Status = models.LoanStatusActive
		}
		updated := now
		loan.UpdatedDate = &updated
		loanStatus = loan.Status

		return receipt, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to settle receipt: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"receipt_number": receipt.ReceiptNumber,
		"loan_number":    receipt.LoanNumber,
		"till_date":      receipt.TillDate.Format("2006-01-02"),
		"loan_status":    loanStatus,
	}).Info("Receipt settled")

	s.notifyReceipt(ctx, receipt)

	result := &SettlementResult{
		ReceiptID:        receipt.ID,
		ReceiptNumber:    receipt.ReceiptNumber,
		ReceiptDate:      receipt.ReceiptDate,
		TillDate:         receipt.TillDate,
		InterestPaid:     receipt.InterestAmount,
		TotalInterestDue: round2(totalInterestDue),
		DaysCovered:      daysBetween(plan.InterestStartDate, receipt.TillDate),
		TotalDaysDue:     plan.TotalDaysDue,
	}
	if req.InterestAmount.LessThan(totalInterestDue) {
		result.Note = "Partial interest payment - unpaid interest will accumulate"
	}
	return result, nil
}

// UpdateReceipt corrects a completed receipt and replays the loan status
// transition, including reopening a closed loan that ends up with a balance.
func (s *Service) UpdateReceipt(ctx context.Context, id uuid.UUID, req *ReceiptRequest) (*models.Receipt, error) {
	if err := validateReceiptRequest(req); err != nil {
		return nil, err
	}

	receipt, err := s.store.FindReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt.Status == models.ReceiptStatusCancelled {
		return nil, fmt.Errorf("cannot update a cancelled receipt: %w", ErrInvalidState)
	}

	loan, err := s.store.FindLoan(ctx, req.GoldLoanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	receipt.ReceiptDate = dateOnly(req.ReceiptDate)
	if !req.TillDate.IsZero() {
		receipt.TillDate = dateOnly(req.TillDate)
	}
	receipt.PaymentType = req.PaymentType
	receipt.PrincipalAmount = req.PrincipalAmount
	receipt.InterestAmount = req.InterestAmount
	receipt.OtherCredits = req.OtherCredits
	receipt.OtherDebits = req.OtherDebits
	receipt.DefaultAmount = req.DefaultAmount
	receipt.AddLess = req.AddLess
	receipt.NetPayable = req.NetPayable
	receipt.CalculatedInterest = req.CalculatedInterest
	receipt.OutstandingPrincipal = req.OutstandingPrincipal
	receipt.OutstandingInterest = req.OutstandingInterest
	receipt.Remarks = req.Remarks
	receipt.UpdatedDate = &now

	for i := range req.InterestStatements {
		stmt := req.InterestStatements[i]
		stmt.ID = uuid.New()
		stmt.ReceiptID = receipt.ID
		stmt.GoldLoanID = req.GoldLoanID
		stmt.CreatedDate = now
		receipt.InterestStatements = append(receipt.InterestStatements, stmt)
	}

	statusChanged := false
	if req.PaymentType == models.PaymentTypeFull && req.OutstandingPrincipal.IsZero() {
		loan.Status = models.LoanStatusClosed
		statusChanged = true
	} else if loan.Status == models.LoanStatusClosed && req.OutstandingPrincipal.GreaterThan(decimal.Zero) {
		// A correction left the closed loan with a balance; reopen it.
		loan.Status = models.LoanStatusActive
		statusChanged = true
	}
	if statusChanged {
		loan.UpdatedDate = &now
	}

	if err := s.store.UpdateSettlement(ctx, receipt, loan); err != nil {
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}

	s.log.Infof("Receipt updated: %s", receipt.ReceiptNumber)
	return receipt, nil
}

// CancelReceipt flips a receipt to Cancelled. Cancelled receipts drop out of
// the accrual timeline but are retained for audit.
func (s *Service) CancelReceipt(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.store.FindReceipt(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.UpdateReceiptStatus(ctx, id, models.ReceiptStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel receipt: %w", err)
	}
	s.log.Infof("Receipt cancelled: %s", receipt.ReceiptNumber)
	return nil
}

// GetReceipt retrieves a receipt with its statement lines.
func (s *Service) GetReceipt(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	return s.store.FindReceipt(ctx, id)
}

// ListReceipts retrieves all receipts for a loan, newest first.
func (s *Service) ListReceipts(ctx context.Context, loanID uuid.UUID) ([]*models.Receipt, error) {
	return s.store.ListReceipts(ctx, loanID)
}

func validateReceiptRequest(req *ReceiptRequest) error {
	if req.GoldLoanID == uuid.Nil {
		return fmt.Errorf("gold loan id is required: %w", ErrValidation)
	}
	if req.ReceiptDate.IsZero() {
		return fmt.Errorf("receipt date is required: %w", ErrValidation)
	}
	if !validPaymentType(req.PaymentType) {
		return fmt.Errorf("unknown payment type %q: %w", req.PaymentType, ErrValidation)
	}
	if req.PrincipalAmount.IsNegative() {
		return fmt.Errorf("principal amount must not be negative: %w", ErrValidation)
	}
	if req.InterestAmount.IsNegative() {
		return fmt.Errorf("interest amount must not be negative: %w", ErrValidation)
	}
	return nil
}

func (s *Service) notifyReceipt(ctx context.Context, receipt *models.Receipt) {
	if s.mailer == nil {
		return
	}
	customer, err := s.store.FindCustomer(ctx, receipt.CustomerID)
	if err != nil || customer.Email == "" {
		return
	}
	if err := s.mailer.SendReceiptNotification(customer.Email, customer.CustomerName, receipt); err != nil {
		s.log.Errorf("Failed to send receipt notification for %s: %v", receipt.ReceiptNumber, err)
	}
}
