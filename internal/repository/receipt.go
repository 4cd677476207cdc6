package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

const receiptColumns = `
	r.id, r.receipt_number, r.receipt_date, r.till_date, r.gold_loan_id, r.customer_id,
	r.loan_number, r.payment_type, r.principal_amount, r.interest_amount, r.other_credits,
	r.other_debits, r.default_amount, r.add_less, r.net_payable, r.calculated_interest,
	r.outstanding_principal, r.outstanding_interest, COALESCE(r.remarks, ''), r.status,
	r.created_date, r.updated_date`

func scanReceipt(row interface{ Scan(...interface{}) error }, receipt *models.Receipt) error {
	return row.Scan(
		&receipt.ID, &receipt.ReceiptNumber, &receipt.ReceiptDate, &receipt.TillDate,
		&receipt.GoldLoanID, &receipt.CustomerID, &receipt.LoanNumber, &receipt.PaymentType,
		&receipt.PrincipalAmount, &receipt.InterestAmount, &receipt.OtherCredits,
		&receipt.OtherDebits, &receipt.DefaultAmount, &receipt.AddLess, &receipt.NetPayable,
		&receipt.CalculatedInterest, &receipt.OutstandingPrincipal, &receipt.OutstandingInterest,
		&receipt.Remarks, &receipt.Status, &receipt.CreatedDate, &receipt.UpdatedDate)
}

// FindReceipt retrieves a receipt with its interest statements
func (r *Repository) FindReceipt(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	query := `
		SELECT` + receiptColumns + `
		FROM jewel.receipts r
		WHERE r.id = $1`
	if err := scanReceipt(r.db.QueryRowContext(ctx, query, id), receipt); err != nil {
		return nil, translateErr("failed to find receipt", err)
	}

	statements, err := r.findStatements(ctx, "receipt_id = $1", id)
	if err != nil {
		return nil, err
	}
	receipt.InterestStatements = statements[id]
	return receipt, nil
}

// ListReceipts retrieves all receipts for a loan, newest receipt date first
func (r *Repository) ListReceipts(ctx context.Context, loanID uuid.UUID) ([]*models.Receipt, error) {
	query := `
		SELECT` + receiptColumns + `
		FROM jewel.receipts r
		WHERE r.gold_loan_id = $1
		ORDER BY r.receipt_date DESC, r.created_date DESC`
	return r.queryReceipts(ctx, query, loanID)
}

// FindLastCompletedReceipt returns the completed receipt with the greatest
// TillDate (CreatedDate breaking ties), or nil when the loan has none. The
// TillDate ordering, not ReceiptDate, defines the accrual timeline.
func (r *Repository) FindLastCompletedReceipt(ctx context.Context, loanID uuid.UUID) (*models.Receipt, error) {
	return lastCompletedReceipt(ctx, r.db, loanID)
}

func lastCompletedReceipt(ctx context.Context, q querier, loanID uuid.UUID) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	query := `
		SELECT` + receiptColumns + `
		FROM jewel.receipts r
		WHERE r.gold_loan_id = $1 AND r.status = 'Completed'
		ORDER BY r.till_date DESC, r.created_date DESC
		LIMIT 1`
	err := scanReceipt(q.QueryRowContext(ctx, query, loanID), receipt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateErr("failed to find last receipt", err)
	}
	return receipt, nil
}

// FindAllCompletedReceipts returns the loan's completed receipts with their
// statements, ascending by TillDate then CreatedDate.
func (r *Repository) FindAllCompletedReceipts(ctx context.Context, loanID uuid.UUID) ([]*models.Receipt, error) {
	query := `
		SELECT` + receiptColumns + `
		FROM jewel.receipts r
		WHERE r.gold_loan_id = $1 AND r.status = 'Completed'
		ORDER BY r.till_date, r.created_date`
	receipts, err := r.queryReceipts(ctx, query, loanID)
	if err != nil {
		return nil, err
	}

	statements, err := r.findStatements(ctx,
		"gold_loan_id = $1 AND receipt_id IN (SELECT id FROM jewel.receipts WHERE gold_loan_id = $1 AND status = 'Completed')",
		loanID)
	if err != nil {
		return nil, err
	}
	for _, receipt := range receipts {
		receipt.InterestStatements = statements[receipt.ID]
	}
	return receipts, nil
}

// Settle computes and persists one settlement against a loan. The loan row is
// locked first, the scheme and last completed receipt are read under that
// lock, the settle callback builds the receipt from the locked state, and the
// receipt insert plus loan update commit as one transaction. A concurrent
// settlement against the same loan blocks on the row lock and then reads the
// committed outstanding principal.
func (r *Repository) Settle(ctx context.Context, loanID uuid.UUID, settle func(loan *models.Loan, lastReceipt *models.Receipt) (*models.Receipt, error)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr("failed to begin settlement", err)
	}
	defer tx.Rollback()

	loan := &models.Loan{}
	lockQuery := `
		SELECT` + loanColumns + `
		FROM jewel.gold_loans gl
		WHERE gl.id = $1
		FOR UPDATE`
	if err := scanLoan(tx.QueryRowContext(ctx, lockQuery, loanID), loan); err != nil {
		return translateErr("failed to lock loan", err)
	}

	scheme, err := findScheme(ctx, tx, loan.SchemeID)
	if err != nil {
		return err
	}
	loan.Scheme = scheme

	lastReceipt, err := lastCompletedReceipt(ctx, tx, loanID)
	if err != nil {
		return err
	}

	receipt, err := settle(loan, lastReceipt)
	if err != nil {
		return err
	}

	if err := insertReceipt(ctx, tx, receipt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE jewel.gold_loans SET status = $2, updated_date = $3 WHERE id = $1`,
		loan.ID, loan.Status, loan.UpdatedDate); err != nil {
		return translateErr("failed to update loan", err)
	}

	return translateErr("failed to commit settlement", tx.Commit())
}

// UpdateSettlement rewrites a receipt's fields, appends its new statements
// and updates the loan status, atomically.
func (r *Repository) UpdateSettlement(ctx context.Context, receipt *models.Receipt, loan *models.Loan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr("failed to begin receipt update", err)
	}
	defer tx.Rollback()

	var current string
	if err := tx.QueryRowContext(ctx,
		`SELECT status FROM jewel.gold_loans WHERE id = $1 FOR UPDATE`,
		loan.ID).Scan(&current); err != nil {
		return translateErr("failed to lock loan", err)
	}

	query := `
		UPDATE jewel.receipts
		SET receipt_date = $2, till_date = $3, payment_type = $4, principal_amount = $5,
		    interest_amount = $6, other_credits = $7, other_debits = $8, default_amount = $9,
		    add_less = $10, net_payable = $11, calculated_interest = $12,
		    outstanding_principal = $13, outstanding_interest = $14, remarks = $15,
		    updated_date = $16
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query,
		receipt.ID, receipt.ReceiptDate, receipt.TillDate, receipt.PaymentType,
		receipt.PrincipalAmount, receipt.InterestAmount, receipt.OtherCredits,
		receipt.OtherDebits, receipt.DefaultAmount, receipt.AddLess, receipt.NetPayable,
		receipt.CalculatedInterest, receipt.OutstandingPrincipal, receipt.OutstandingInterest,
		receipt.Remarks, receipt.UpdatedDate); err != nil {
		return translateErr("failed to update receipt", err)
	}

	for i := range receipt.InterestStatements {
		stmt := &receipt.InterestStatements[i]
		if err := insertStatementIfNew(ctx, tx, stmt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE jewel.gold_loans SET status = $2, updated_date = $3 WHERE id = $1`,
		loan.ID, loan.Status, loan.UpdatedDate); err != nil {
		return translateErr("failed to update loan", err)
	}

	return translateErr("failed to commit receipt update", tx.Commit())
}

// UpdateReceiptStatus flips a receipt's status. Used for cancellation.
func (r *Repository) UpdateReceiptStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jewel.receipts SET status = $2, updated_date = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return translateErr("failed to update receipt status", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return translateErr("failed to update receipt status", sql.ErrNoRows)
	}
	return nil
}

func insertReceipt(ctx context.Context, tx *sql.Tx, receipt *models.Receipt) error {
	query := `
		INSERT INTO jewel.receipts (
			id, receipt_number, receipt_date, till_date, gold_loan_id, customer_id,
			loan_number, payment_type, principal_amount, interest_amount, other_credits,
			other_debits, default_amount, add_less, net_payable, calculated_interest,
			outstanding_principal, outstanding_interest, remarks, status, created_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21)`
	if _, err := tx.ExecContext(ctx, query,
		receipt.ID, receipt.ReceiptNumber, receipt.ReceiptDate, receipt.TillDate,
		receipt.GoldLoanID, receipt.CustomerID, receipt.LoanNumber, receipt.PaymentType,
		receipt.PrincipalAmount, receipt.InterestAmount, receipt.OtherCredits,
		receipt.OtherDebits, receipt.DefaultAmount, receipt.AddLess, receipt.NetPayable,
		receipt.CalculatedInterest, receipt.OutstandingPrincipal, receipt.OutstandingInterest,
		receipt.Remarks, receipt.Status, receipt.CreatedDate); err != nil {
		return translateErr("failed to insert receipt", err)
	}

	for i := range receipt.InterestStatements {
		stmt := &receipt.InterestStatements[i]
		if err := insertStatementIfNew(ctx, tx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func insertStatementIfNew(ctx context.Context, tx *sql.Tx, stmt *models.InterestStatement) error {
	query := `
		INSERT INTO jewel.interest_statements (
			id, receipt_id, gold_loan_id, from_date, to_date, duration_days,
			interest_accrued, total_accrued, interest_paid, principal_paid,
			added_principal, adjusted_principal, new_principal, opening_principal,
			closing_principal, created_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING`
	_, err := tx.ExecContext(ctx, query,
		stmt.ID, stmt.ReceiptID, stmt.GoldLoanID, stmt.FromDate, stmt.ToDate, stmt.DurationDays,
		stmt.InterestAccrued, stmt.TotalAccrued, stmt.InterestPaid, stmt.PrincipalPaid,
		stmt.AddedPrincipal, stmt.AdjustedPrincipal, stmt.NewPrincipal, stmt.OpeningPrincipal,
		stmt.ClosingPrincipal, stmt.CreatedDate)
	return translateErr("failed to insert interest statement", err)
}

func (r *Repository) queryReceipts(ctx context.Context, query string, args ...interface{}) ([]*models.Receipt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr("failed to query receipts", err)
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		receipt := &models.Receipt{}
		if err := scanReceipt(rows, receipt); err != nil {
			return nil, translateErr("failed to scan receipt", err)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, translateErr("failed to iterate receipts", rows.Err())
}

func (r *Repository) findStatements(ctx context.Context, where string, arg interface{}) (map[uuid.UUID][]models.InterestStatement, error) {
	query := `
		SELECT id, receipt_id, gold_loan_id, from_date, to_date, duration_days,
		       interest_accrued, total_accrued, interest_paid, principal_paid,
		       added_principal, adjusted_principal, new_principal, opening_principal,
		       closing_principal, created_date
		FROM jewel.interest_statements
		WHERE ` + where + `
		ORDER BY from_date, created_date`
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, translateErr("failed to query interest statements", err)
	}
	defer rows.Close()

	byReceipt := make(map[uuid.UUID][]models.InterestStatement)
	for rows.Next() {
		var stmt models.InterestStatement
		if err := rows.Scan(
			&stmt.ID, &stmt.ReceiptID, &stmt.GoldLoanID, &stmt.FromDate, &stmt.ToDate,
			&stmt.DurationDays, &stmt.InterestAccrued, &stmt.TotalAccrued, &stmt.InterestPaid,
			&stmt.PrincipalPaid, &stmt.AddedPrincipal, &stmt.AdjustedPrincipal, &stmt.NewPrincipal,
			&stmt.OpeningPrincipal, &stmt.ClosingPrincipal, &stmt.CreatedDate); err != nil {
			return nil, translateErr("failed to scan interest statement", err)
		}
		byReceipt[stmt.ReceiptID] = append(byReceipt[stmt.ReceiptID], stmt)
	}
	return byReceipt, translateErr("failed to iterate interest statements", rows.Err())
}
