package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

type subscriptionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *sql.DB, logger *zap.Logger) *subscriptionRepository {
	return &subscriptionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (subscription_id, customer_id, items, delivery_date, subscription_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	items, err := json.Marshal(sub.Items)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		sub.SubscriptionID,
		sub.CustomerID,
		items,
		sub.DeliveryDate,
		sub.SubscriptionType,
		sub.Status,
		sub.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create subscription", zap.String("subscription_id", sub.SubscriptionID), zap.Error(err))
		return err
	}

	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	query := `
		SELECT subscription_id, customer_id, items, delivery_date, subscription_type, status, created_at
		FROM subscriptions
		WHERE subscription_id = $1
	`

	sub, err := scanSubscription(r.db.QueryRowContext(ctx, query, subscriptionID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "subscription", ID: subscriptionID}
	}
	if err != nil {
		r.logger.Error("Failed to get subscription", zap.String("subscription_id", subscriptionID), zap.Error(err))
		return nil, err
	}

	return sub, nil
}

func (r *subscriptionRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Subscription, error) {
	query := `
		SELECT subscription_id, customer_id, items, delivery_date, subscription_type, status, created_at
		FROM subscriptions
		WHERE customer_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		r.logger.Error("Failed to get customer subscriptions", zap.String("customer_id", customerID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, subscriptionID string, status domain.SubscriptionStatus) (bool, error) {
	query := `
		UPDATE subscriptions
		SET status = $2
		WHERE subscription_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, subscriptionID, status)
	if err != nil {
		r.logger.Error("Failed to update subscription status", zap.String("subscription_id", subscriptionID), zap.Error(err))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func scanSubscription(row rowScanner) (*domain.Subscription, error) {
	var sub domain.Subscription
	var items []byte

	err := row.Scan(
		&sub.SubscriptionID,
		&sub.CustomerID,
		&items,
		&sub.DeliveryDate,
		&sub.SubscriptionType,
		&sub.Status,
		&sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &sub.Items); err != nil {
			return nil, err
		}
	}

	return &sub, nil
}
