package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/internal/repository"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

type subscriptionService struct {
	repos  *repository.Repositories
	logger *zap.Logger
	now    func() time.Time
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repos *repository.Repositories, logger *zap.Logger) *subscriptionService {
	return &subscriptionService{
		repos:  repos,
		logger: logger,
		now:    time.Now,
	}
}

// Create persists a new subscription.
func (s *subscriptionService) Create(ctx context.Context, sub *domain.Subscription) error {
	s.logger.Info("Creating subscription",
		zap.String("subscription_id", sub.SubscriptionID),
		zap.String("customer_id", sub.CustomerID),
	)
	if err := s.repos.Subscriptions.Create(ctx, sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// GetForCustomer lists a customer's subscriptions.
func (s *subscriptionService) GetForCustomer(ctx context.Context, customerID string) ([]*domain.Subscription, error) {
	return s.repos.Subscriptions.GetByCustomer(ctx, customerID)
}

// Cancel sets a subscription's status to cancelled. Returns false when the
// subscription does not exist.
func (s *subscriptionService) Cancel(ctx context.Context, subscriptionID string) (bool, error) {
	s.logger.Info("Cancelling subscription", zap.String("subscription_id", subscriptionID))
	return s.repos.Subscriptions.UpdateStatus(ctx, subscriptionID, domain.SubscriptionStatusCancelled)
}

// Notification builds a delivery reminder for an active subscription whose
// delivery date is tomorrow or within the next 2-3 days. Returns nil when
// no reminder is due.
func (s *subscriptionService) Notification(ctx context.Context, subscriptionID string) (*SubscriptionNotification, error) {
	sub, err := s.repos.Subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if sub.Status != domain.SubscriptionStatusActive || sub.DeliveryDate == "" {
		return nil, nil
	}

	nextDelivery, err := time.Parse("2006-01-02", sub.DeliveryDate)
	if err != nil {
		s.logger.Error("Invalid delivery date",
			zap.String("subscription_id", subscriptionID),
			zap.String("delivery_date", sub.DeliveryDate),
		)
		return nil, nil
	}

	today := s.now().Truncate(24 * time.Hour)
	daysUntil := int(nextDelivery.Sub(today).Hours() / 24)

	names := make([]string, len(sub.Items))
	for i, item := range sub.Items {
		names[i] = item.Name
	}
	items := strings.Join(names, ", ")

	subscriptionType := sub.SubscriptionType
	if subscriptionType == "" {
		subscriptionType = "weekly"
	}

	switch {
	case daysUntil == 1:
		return &SubscriptionNotification{
			Message: fmt.Sprintf("Reminder: Your planned order %s will restock %s tomorrow on %s (%s).",
				subscriptionID, items, sub.DeliveryDate, subscriptionType),
			SubscriptionID: subscriptionID,
			DeliveryDate:   sub.DeliveryDate,
		}, nil
	case daysUntil >= 2 && daysUntil <= 3:
		return &SubscriptionNotification{
			Message: fmt.Sprintf("Reminder: Your planned order %s will restock %s on %s (%s).",
				subscriptionID, items, sub.DeliveryDate, subscriptionType),
			SubscriptionID: subscriptionID,
			DeliveryDate:   sub.DeliveryDate,
		}, nil
	}

	return nil, nil
}
