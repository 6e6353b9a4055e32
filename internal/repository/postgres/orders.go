package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `
		SELECT order_id, customer_id, status, total_amount, order_date, expected_delivery
		FROM orders
		WHERE order_id = $1
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&order.OrderID,
		&order.CustomerID,
		&order.Status,
		&order.TotalAmount,
		&order.OrderDate,
		&order.ExpectedDelivery,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	query := `
		SELECT order_id, customer_id, status, total_amount, order_date, expected_delivery
		FROM orders
		WHERE customer_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		r.logger.Error("Failed to get customer orders", zap.String("customer_id", customerID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.OrderID,
			&order.CustomerID,
			&order.Status,
			&order.TotalAmount,
			&order.OrderDate,
			&order.ExpectedDelivery,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &order)
	}

	return orders, rows.Err()
}
