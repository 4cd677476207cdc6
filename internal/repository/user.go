package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	user.CreatedDate = time.Now().UTC()
	query := `
		INSERT INTO jewel.users (id, username, email, password_hash, created_date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedDate)
	return translateErr("failed to create user", err)
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_date
		FROM jewel.users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedDate)
	if err != nil {
		return nil, translateErr("failed to find user", err)
	}
	return user, nil
}
