package repository

import (
	"context"

	"github.com/Strizzyy/care-engine/internal/domain"
)

// CustomerRepository provides point lookups and the wallet mutation.
type CustomerRepository interface {
	GetByID(ctx context.Context, customerID string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	// UpdateWalletBalance is an unconditional set of the stored balance.
	// Returns true iff a record was modified.
	UpdateWalletBalance(ctx context.Context, customerID string, newBalance float64) (bool, error)
}

type OrderRepository interface {
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
}

type PaymentRepository interface {
	GetByOrder(ctx context.Context, orderID string) (*domain.Payment, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*domain.Payment, error)
	GetFailedByCustomer(ctx context.Context, customerID string) ([]*domain.Payment, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*domain.Subscription, error)
	UpdateStatus(ctx context.Context, subscriptionID string, status domain.SubscriptionStatus) (bool, error)
}

// EscalationRepository persists human-review cases. Add upserts on case_id:
// the workflow assumes caller-allocated unique IDs and never checks for
// collisions.
type EscalationRepository interface {
	Add(ctx context.Context, caseID, customerID, issueDetails string) error
	GetByCaseID(ctx context.Context, caseID string) (*domain.EscalationCase, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*domain.EscalationCase, error)
	List(ctx context.Context) ([]*domain.EscalationCase, error)
	Resolve(ctx context.Context, caseID string, resolution string) (bool, error)
}

// Repositories bundles all repository implementations.
type Repositories struct {
	Customers     CustomerRepository
	Orders        OrderRepository
	Payments      PaymentRepository
	Subscriptions SubscriptionRepository
	Escalations   EscalationRepository
}
