package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer holds the borrower details the loan engine needs
type Customer struct {
	ID           uuid.UUID `json:"id"`
	CustomerCode string    `json:"customer_code"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	CreatedDate  time.Time `json:"created_date"`
}
