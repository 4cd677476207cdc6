package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/config"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

// memStore is an in-memory Store used to exercise the engine without a
// database. Ordering semantics match the repository queries; mu stands in
// for the per-loan row lock the repository takes during Settle.
type memStore struct {
	mu        sync.Mutex
	loans     map[uuid.UUID]*models.Loan
	receipts  []*models.Receipt
	customers map[uuid.UUID]*models.Customer
	users     map[string]*models.User
	seq       int
	saveErr   error
}

func newMemStore() *memStore {
	return &memStore{
		loans:     make(map[uuid.UUID]*models.Loan),
		customers: make(map[uuid.UUID]*models.Customer),
		users:     make(map[string]*models.User),
	}
}

func (m *memStore) CreateLoan(_ context.Context, loan *models.Loan) error {
	m.loans[loan.ID] = loan
	return nil
}

func (m *memStore) FindLoan(_ context.Context, id uuid.UUID) (*models.Loan, error) {
	loan, ok := m.loans[id]
	if !ok {
		return nil, fmt.Errorf("loan %s: %w", id, ErrNotFound)
	}
	return loan, nil
}

func (m *memStore) UpdateLoanStatus(_ context.Context, id uuid.UUID, status string) error {
	loan, ok := m.loans[id]
	if !ok {
		return fmt.Errorf("loan %s: %w", id, ErrNotFound)
	}
	loan.Status = status
	return nil
}

func (m *memStore) LoanSummary(_ context.Context) (*models.LoanSummary, error) {
	summary := &models.LoanSummary{}
	for _, loan := range m.loans {
		switch loan.Status {
		case models.LoanStatusOpen, models.LoanStatusActive:
			summary.Live++
		case models.LoanStatusClosed:
			summary.Closed++
		case models.LoanStatusMatured:
			summary.Matured++
		case models.LoanStatusAuctioned:
			summary.Auctioned++
		}
	}
	return summary, nil
}

func (m *memStore) FindLoansMaturedBefore(_ context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	for _, loan := range m.loans {
		if (loan.Status == models.LoanStatusOpen || loan.Status == models.LoanStatusActive) &&
			!loan.MaturityDate.After(asOf) {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

func (m *memStore) FindLoansMaturingWithin(_ context.Context, from, to time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	for _, loan := range m.loans {
		if (loan.Status == models.LoanStatusOpen || loan.Status == models.LoanStatusActive) &&
			loan.MaturityDate.After(from) && !loan.MaturityDate.After(to) {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

func (m *memStore) NextLoanNumber(_ context.Context, prefix string) (string, error) {
	m.seq++
	return fmt.Sprintf("%s%s%04d", prefix, time.Now().UTC().Format("060102"), m.seq), nil
}

func (m *memStore) FindReceipt(_ context.Context, id uuid.UUID) (*models.Receipt, error) {
	for _, receipt := range m.receipts {
		if receipt.ID == id {
			return receipt, nil
		}
	}
	return nil, fmt.Errorf("receipt %s: %w", id, ErrNotFound)
}

func (m *memStore) ListReceipts(_ context.Context, loanID uuid.UUID) ([]*models.Receipt, error) {
	var receipts []*models.Receipt
	for _, receipt := range m.receipts {
		if receipt.GoldLoanID == loanID {
			receipts = append(receipts, receipt)
		}
	}
	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].ReceiptDate.After(receipts[j].ReceiptDate)
	})
	return receipts, nil
}

func (m *memStore) completedReceipts(loanID uuid.UUID) []*models.Receipt {
	var receipts []*models.Receipt
	for _, receipt := range m.receipts {
		if receipt.GoldLoanID == loanID && receipt.Status == models.ReceiptStatusCompleted {
			receipts = append(receipts, receipt)
		}
	}
	sort.SliceStable(receipts, func(i, j int) bool {
		if !receipts[i].TillDate.Equal(receipts[j].TillDate) {
			return receipts[i].TillDate.Before(receipts[j].TillDate)
		}
		return receipts[i].CreatedDate.Before(receipts[j].CreatedDate)
	})
	return receipts
}

func (m *memStore) FindLastCompletedReceipt(_ context.Context, loanID uuid.UUID) (*models.Receipt, error) {
	receipts := m.completedReceipts(loanID)
	if len(receipts) == 0 {
		return nil, nil
	}
	return receipts[len(receipts)-1], nil
}

func (m *memStore) FindAllCompletedReceipts(_ context.Context, loanID uuid.UUID) ([]*models.Receipt, error) {
	return m.completedReceipts(loanID), nil
}

// Settle holds the lock across the last-receipt read, the settle callback and
// the receipt append, matching where the repository's row lock sits.
func (m *memStore) Settle(_ context.Context, loanID uuid.UUID, settle func(*models.Loan, *models.Receipt) (*models.Receipt, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.loans[loanID]
	if !ok {
		return fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}

	var lastReceipt *models.Receipt
	if completed := m.completedReceipts(loanID); len(completed) > 0 {
		lastReceipt = completed[len(completed)-1]
	}

	receipt, err := settle(loan, lastReceipt)
	if err != nil {
		return err
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.receipts = append(m.receipts, receipt)
	return nil
}

func (m *memStore) UpdateSettlement(_ context.Context, receipt *models.Receipt, loan *models.Loan) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for i := range m.receipts {
		if m.receipts[i].ID == receipt.ID {
			m.receipts[i] = receipt
		}
	}
	m.loans[loan.ID] = loan
	return nil
}

func (m *memStore) UpdateReceiptStatus(_ context.Context, id uuid.UUID, status string) error {
	for _, receipt := range m.receipts {
		if receipt.ID == id {
			receipt.Status = status
			return nil
		}
	}
	return fmt.Errorf("receipt %s: %w", id, ErrNotFound)
}

func (m *memStore) NextReceiptNumber(_ context.Context, prefix string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("%s%s%04d", prefix, time.Now().UTC().Format("060102"), m.seq), nil
}

func (m *memStore) FindCustomer(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, ok := m.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return customer, nil
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	user.ID = uuid.New()
	m.users[user.Email] = user
	return nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return user, nil
}

func newTestService(store Store) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "test-secret", MaturityReminderDays: 7}
	return NewService(store, nil, log, cfg)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
