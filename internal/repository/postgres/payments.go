package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
)

type paymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) *paymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// GetByOrder returns the payment attached to an order, or nil when none
// exists. Orders without a payment record are a normal condition for the
// refund checks, not an error.
func (r *paymentRepository) GetByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := `
		SELECT payment_id, order_id, customer_id, status, amount, refund_date
		FROM payments
		WHERE order_id = $1
	`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get order payment", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}

	return payment, nil
}

func (r *paymentRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Payment, error) {
	query := `
		SELECT payment_id, order_id, customer_id, status, amount, refund_date
		FROM payments
		WHERE customer_id = $1
	`
	return r.queryPayments(ctx, query, customerID)
}

func (r *paymentRepository) GetFailedByCustomer(ctx context.Context, customerID string) ([]*domain.Payment, error) {
	query := `
		SELECT payment_id, order_id, customer_id, status, amount, refund_date
		FROM payments
		WHERE customer_id = $1 AND status = 'failed'
	`
	return r.queryPayments(ctx, query, customerID)
}

func (r *paymentRepository) queryPayments(ctx context.Context, query, customerID string) ([]*domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		r.logger.Error("Failed to query payments", zap.String("customer_id", customerID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var refundDate sql.NullString

	err := row.Scan(
		&payment.PaymentID,
		&payment.OrderID,
		&payment.CustomerID,
		&payment.Status,
		&payment.Amount,
		&refundDate,
	)
	if err != nil {
		return nil, err
	}

	if refundDate.Valid {
		payment.RefundDate = &refundDate.String
	}

	return &payment, nil
}
