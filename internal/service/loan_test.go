package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

func TestCreateLoan(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	loan, err := svc.CreateLoan(context.Background(), &LoanRequest{
		CustomerID:   uuid.New(),
		SchemeID:     uuid.New(),
		LoanDate:     time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC),
		MaturityDate: date(2025, 1, 1),
		LoanAmount:   dec("100000"),
		InterestRate: dec("18"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.LoanStatusOpen, loan.Status)
	assert.Regexp(t, `^GL\d{6}\d{4}$`, loan.LoanNumber)
	// Time-of-day is stripped from the business dates.
	assert.Equal(t, date(2024, 1, 1), loan.LoanDate)
	assert.NotEqual(t, uuid.Nil, loan.ID)
	assert.Contains(t, store.loans, loan.ID)
}

func TestCreateLoanKeepsProvidedNumber(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	loan, err := svc.CreateLoan(context.Background(), &LoanRequest{
		LoanNumber:   "GL2401010042",
		CustomerID:   uuid.New(),
		SchemeID:     uuid.New(),
		LoanDate:     date(2024, 1, 1),
		MaturityDate: date(2025, 1, 1),
		LoanAmount:   dec("100000"),
		InterestRate: dec("18"),
	})
	require.NoError(t, err)
	assert.Equal(t, "GL2401010042", loan.LoanNumber)
}

func TestCreateLoanValidation(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	base := func() *LoanRequest {
		return &LoanRequest{
			CustomerID:   uuid.New(),
			SchemeID:     uuid.New(),
			LoanDate:     date(2024, 1, 1),
			LoanAmount:   dec("100000"),
			InterestRate: dec("18"),
		}
	}

	tests := []struct {
		name   string
		mutate func(*LoanRequest)
	}{
		{"missing customer", func(r *LoanRequest) { r.CustomerID = uuid.Nil }},
		{"missing scheme", func(r *LoanRequest) { r.SchemeID = uuid.Nil }},
		{"zero amount", func(r *LoanRequest) { r.LoanAmount = decimal.Zero }},
		{"negative rate", func(r *LoanRequest) { r.InterestRate = dec("-1") }},
		{"missing loan date", func(r *LoanRequest) { r.LoanDate = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(req)
			_, err := svc.CreateLoan(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, store.loans)
}

func TestUpdateLoanStatusRejectsUnknown(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	loan := seedLoan(store, "100000", "18", date(2024, 1, 1), 0, 0)

	err := svc.UpdateLoanStatus(context.Background(), loan.ID, "Frozen")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.UpdateLoanStatus(context.Background(), loan.ID, models.LoanStatusAuctioned))
	assert.Equal(t, models.LoanStatusAuctioned, store.loans[loan.ID].Status)
}

func TestMarkMaturedLoans(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	overdue := seedLoan(store, "100000", "18", date(2023, 1, 1), 0, 0)
	overdue.MaturityDate = date(2024, 1, 1)

	current := seedLoan(store, "50000", "18", date(2024, 1, 1), 0, 0)
	current.MaturityDate = date(2025, 1, 1)

	closed := seedLoan(store, "25000", "18", date(2023, 1, 1), 0, 0)
	closed.MaturityDate = date(2023, 6, 1)
	closed.Status = models.LoanStatusClosed

	marked, err := svc.MarkMaturedLoans(context.Background(), date(2024, 6, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, marked)
	assert.Equal(t, models.LoanStatusMatured, store.loans[overdue.ID].Status)
	assert.Equal(t, models.LoanStatusOpen, store.loans[current.ID].Status)
	assert.Equal(t, models.LoanStatusClosed, store.loans[closed.ID].Status)
}

func TestLoanSummaryCounts(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	seedLoan(store, "100000", "18", date(2024, 1, 1), 0, 0)
	active := seedLoan(store, "50000", "18", date(2024, 1, 1), 0, 0)
	active.Status = models.LoanStatusActive
	closed := seedLoan(store, "25000", "18", date(2023, 1, 1), 0, 0)
	closed.Status = models.LoanStatusClosed
	matured := seedLoan(store, "75000", "18", date(2023, 1, 1), 0, 0)
	matured.Status = models.LoanStatusMatured

	summary, err := svc.LoanSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Live)
	assert.Equal(t, 1, summary.Closed)
	assert.Equal(t, 1, summary.Matured)
	assert.Equal(t, 0, summary.Auctioned)
}
