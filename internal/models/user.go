package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a back-office user in the system
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedDate  time.Time `json:"created_date"`
}
