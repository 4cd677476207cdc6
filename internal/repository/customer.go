package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
)

// FindCustomer retrieves a customer by id
func (r *Repository) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `
		SELECT id, customer_code, customer_name, COALESCE(email, ''), COALESCE(phone, ''), created_date
		FROM jewel.customers
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID, &customer.CustomerCode, &customer.CustomerName,
		&customer.Email, &customer.Phone, &customer.CreatedDate)
	if err != nil {
		return nil, translateErr("failed to find customer", err)
	}
	return customer, nil
}
