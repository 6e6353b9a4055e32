package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

type customerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB, logger *zap.Logger) *customerRepository {
	return &customerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *customerRepository) GetByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, name, email, phone, membership, wallet_balance, location
		FROM customers
		WHERE customer_id = $1
	`

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&customer.CustomerID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Membership,
		&customer.WalletBalance,
		&customer.Location,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "customer", ID: customerID}
	}
	if err != nil {
		r.logger.Error("Failed to get customer", zap.String("customer_id", customerID), zap.Error(err))
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	query := `
		SELECT customer_id, name, email, phone, membership, wallet_balance, location
		FROM customers
		ORDER BY customer_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list customers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		var customer domain.Customer
		err := rows.Scan(
			&customer.CustomerID,
			&customer.Name,
			&customer.Email,
			&customer.Phone,
			&customer.Membership,
			&customer.WalletBalance,
			&customer.Location,
		)
		if err != nil {
			return nil, err
		}
		customers = append(customers, &customer)
	}

	return customers, rows.Err()
}

// UpdateWalletBalance overwrites the stored balance with newBalance. It is
// not a compare-and-swap: concurrent refund approvals for the same customer
// can race and lose one update.
func (r *customerRepository) UpdateWalletBalance(ctx context.Context, customerID string, newBalance float64) (bool, error) {
	query := `
		UPDATE customers
		SET wallet_balance = $2
		WHERE customer_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, customerID, newBalance)
	if err != nil {
		r.logger.Error("Failed to update wallet balance", zap.String("customer_id", customerID), zap.Error(err))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
