package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/config"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

// Store is the persistence gateway the engine works against. Completed
// receipts are always returned ordered by TillDate then CreatedDate; that
// ordering defines the accrual timeline.
type Store interface {
	CreateLoan(ctx context.Context, loan *models.Loan) error
	FindLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	UpdateLoanStatus(ctx context.Context, id uuid.UUID, status string) error
	LoanSummary(ctx context.Context) (*models.LoanSummary, error)
	FindLoansMaturedBefore(ctx context.Context, asOf time.Time) ([]*models.Loan, error)
	FindLoansMaturingWithin(ctx context.Context, from, to time.Time) ([]*models.Loan, error)
	NextLoanNumber(ctx context.Context, prefix string) (string, error)

	FindReceipt(ctx context.Context, id uuid.UUID) (*models.Receipt, error)
	ListReceipts(ctx context.Context, loanID uuid.UUID) ([]*models.Receipt, error)
	FindLastCompletedReceipt(ctx context.Context, loanID uuid.UUID) (*models.Receipt, error)
	FindAllCompletedReceipts(ctx context.Context, loanID uuid.UUID) ([]*models.Receipt, error)
	// Settle runs one settlement against a loan. The loan row is locked for
	// the duration; the loan, its scheme and the last completed receipt are
	// read under that lock, the settle callback builds the receipt from the
	// locked state, and the receipt insert plus loan update commit together.
	// Concurrent settlements against the same loan serialize on the lock.
	Settle(ctx context.Context, loanID uuid.UUID, settle func(loan *models.Loan, lastReceipt *models.Receipt) (*models.Receipt, error)) error
	UpdateSettlement(ctx context.Context, receipt *models.Receipt, loan *models.Loan) error
	UpdateReceiptStatus(ctx context.Context, id uuid.UUID, status string) error
	NextReceiptNumber(ctx context.Context, prefix string) (string, error)

	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Mailer sends customer-facing notifications. Sending is best effort; the
// engine logs and continues on failure.
type Mailer interface {
	SendReceiptNotification(to, name string, receipt *models.Receipt) error
	SendMaturityReminder(to, name, loanNumber string, maturityDate time.Time, loanAmount decimal.Decimal) error
}

// Number prefixes, combined with YYMMDD and a 4-digit sequence.
const (
	receiptNumberPrefix = "RED"
	loanNumberPrefix    = "GL"
)

// Service handles business logic
type Service struct {
	store  Store
	mailer Mailer
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service. The mailer may be nil, in which case
// notifications are skipped.
func NewService(store Store, mailer Mailer, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{store: store, mailer: mailer, log: log, config: cfg}
}
