package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

const loanColumns = `
	gl.id, gl.loan_number, gl.customer_id, gl.scheme_id, gl.loan_date, gl.maturity_date,
	gl.loan_amount, gl.interest_rate, gl.advance_months, gl.advance_interest_amount,
	gl.processing_fee_percent, gl.processing_fee_amount, gl.net_payable, gl.status,
	COALESCE(gl.remarks, ''), gl.created_date, gl.updated_date`

func scanLoan(row interface{ Scan(...interface{}) error }, loan *models.Loan) error {
	return row.Scan(
		&loan.ID, &loan.LoanNumber, &loan.CustomerID, &loan.SchemeID, &loan.LoanDate, &loan.MaturityDate,
		&loan.LoanAmount, &loan.InterestRate, &loan.AdvanceMonths, &loan.AdvanceInterestAmount,
		&loan.ProcessingFeePercent, &loan.ProcessingFeeAmount, &loan.NetPayable, &loan.Status,
		&loan.Remarks, &loan.CreatedDate, &loan.UpdatedDate)
}

// CreateLoan inserts a new gold loan
func (r *Repository) CreateLoan(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO jewel.gold_loans (
			id, loan_number, customer_id, scheme_id, loan_date, maturity_date,
			loan_amount, interest_rate, advance_months, advance_interest_amount,
			processing_fee_percent, processing_fee_amount, net_payable, status,
			remarks, created_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		loan.ID, loan.LoanNumber, loan.CustomerID, loan.SchemeID, loan.LoanDate, loan.MaturityDate,
		loan.LoanAmount, loan.InterestRate, loan.AdvanceMonths, loan.AdvanceInterestAmount,
		loan.ProcessingFeePercent, loan.ProcessingFeeAmount, loan.NetPayable, loan.Status,
		loan.Remarks, loan.CreatedDate)
	return translateErr("failed to create loan", err)
}

// FindLoan retrieves a loan together with its scheme
func (r *Repository) FindLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	loan := &models.Loan{}
	query := `
		SELECT` + loanColumns + `
		FROM jewel.gold_loans gl
		WHERE gl.id = $1`
	if err := scanLoan(r.db.QueryRowContext(ctx, query, id), loan); err != nil {
		return nil, translateErr("failed to find loan", err)
	}

	scheme, err := findScheme(ctx, r.db, loan.SchemeID)
	if err != nil {
		return nil, err
	}
	loan.Scheme = scheme
	return loan, nil
}

func findScheme(ctx context.Context, q querier, id uuid.UUID) (*models.Scheme, error) {
	scheme := &models.Scheme{}
	query := `
		SELECT id, scheme_code, scheme_name, roi, calculation_method, grace_days,
		       advance_month, min_calc_days, is_active, created_date
		FROM jewel.schemes
		WHERE id = $1`
	err := q.QueryRowContext(ctx, query, id).Scan(
		&scheme.ID, &scheme.SchemeCode, &scheme.SchemeName, &scheme.Roi, &scheme.CalculationMethod,
		&scheme.GraceDays, &scheme.AdvanceMonth, &scheme.MinCalcDays, &scheme.IsActive, &scheme.CreatedDate)
	if err != nil {
		return nil, translateErr("failed to find scheme", err)
	}
	return scheme, nil
}

// UpdateLoanStatus overwrites a loan's status
func (r *Repository) UpdateLoanStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE jewel.gold_loans
		SET status = $2, updated_date = $3
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return translateErr("failed to update loan status", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return translateErr("failed to update loan status", sql.ErrNoRows)
	}
	return nil
}

// LoanSummary returns loan counts by status
func (r *Repository) LoanSummary(ctx context.Context) (*models.LoanSummary, error) {
	summary := &models.LoanSummary{}
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('Open', 'Active')),
			COUNT(*) FILTER (WHERE status = 'Closed'),
			COUNT(*) FILTER (WHERE status = 'Matured'),
			COUNT(*) FILTER (WHERE status = 'Auctioned')
		FROM jewel.gold_loans`
	err := r.db.QueryRowContext(ctx, query).Scan(
		&summary.Live, &summary.Closed, &summary.Matured, &summary.Auctioned)
	if err != nil {
		return nil, translateErr("failed to summarize loans", err)
	}
	return summary, nil
}

// FindLoansMaturedBefore lists Open/Active loans whose maturity date is on or
// before the given date.
func (r *Repository) FindLoansMaturedBefore(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	query := `
		SELECT` + loanColumns + `
		FROM jewel.gold_loans gl
		WHERE gl.status IN ('Open', 'Active') AND gl.maturity_date <= $1
		ORDER BY gl.maturity_date`
	return r.queryLoans(ctx, query, asOf)
}

// FindLoansMaturingWithin lists Open/Active loans maturing inside the window.
func (r *Repository) FindLoansMaturingWithin(ctx context.Context, from, to time.Time) ([]*models.Loan, error) {
	query := `
		SELECT` + loanColumns + `
		FROM jewel.gold_loans gl
		WHERE gl.status IN ('Open', 'Active') AND gl.maturity_date > $1 AND gl.maturity_date <= $2
		ORDER BY gl.maturity_date`
	return r.queryLoans(ctx, query, from, to)
}

func (r *Repository) queryLoans(ctx context.Context, query string, args ...interface{}) ([]*models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr("failed to query loans", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan := &models.Loan{}
		if err := scanLoan(rows, loan); err != nil {
			return nil, translateErr("failed to scan loan", err)
		}
		loans = append(loans, loan)
	}
	return loans, translateErr("failed to iterate loans", rows.Err())
}
