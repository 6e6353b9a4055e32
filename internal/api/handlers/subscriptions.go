package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/internal/repository"
	"github.com/Strizzyy/care-engine/internal/service"
)

// SubscriptionRequest is the create-subscription payload
type SubscriptionRequest struct {
	CustomerID       string                    `json:"customer_id" binding:"required"`
	Items            []domain.SubscriptionItem `json:"items" binding:"required,min=1"`
	DeliveryDate     string                    `json:"delivery_date" binding:"required"`
	SubscriptionType string                    `json:"subscription_type"`
}

// HandleCreateSubscription handles POST /subscription
func HandleCreateSubscription(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		subscriptionType := req.SubscriptionType
		if subscriptionType == "" {
			subscriptionType = "weekly"
		}

		subscriptionID := "SUB" + strings.ToUpper(uuid.New().String()[:8])
		sub := &domain.Subscription{
			SubscriptionID:   subscriptionID,
			CustomerID:       req.CustomerID,
			Items:            req.Items,
			DeliveryDate:     req.DeliveryDate,
			SubscriptionType: subscriptionType,
			Status:           domain.SubscriptionStatusActive,
			CreatedAt:        time.Now().Format(time.RFC3339),
		}

		subscriptionService := service.NewSubscriptionService(repos, logger)
		if err := subscriptionService.Create(c.Request.Context(), sub); err != nil {
			logger.Error("Failed to create subscription", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscription"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":         "Subscription " + subscriptionID + " created successfully",
			"subscription_id": subscriptionID,
		})
	}
}

// HandleGetSubscriptions handles GET /subscriptions/:customer_id
func HandleGetSubscriptions(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Param("customer_id")

		subscriptionService := service.NewSubscriptionService(repos, logger)
		subscriptions, err := subscriptionService.GetForCustomer(c.Request.Context(), customerID)
		if err != nil {
			logger.Error("Failed to get subscriptions", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"subscriptions": subscriptions})
	}
}

// HandleCancelSubscription handles POST /subscription/cancel/:subscription_id
func HandleCancelSubscription(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		subscriptionID := c.Param("subscription_id")

		subscriptionService := service.NewSubscriptionService(repos, logger)
		cancelled, err := subscriptionService.Cancel(c.Request.Context(), subscriptionID)
		if err != nil {
			logger.Error("Failed to cancel subscription", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !cancelled {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Subscription " + subscriptionID + " cancelled"})
	}
}

// HandleSubscriptionNotifications handles GET /subscription/notifications/:customer_id
func HandleSubscriptionNotifications(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Param("customer_id")
		ctx := c.Request.Context()

		subscriptionService := service.NewSubscriptionService(repos, logger)
		subscriptions, err := subscriptionService.GetForCustomer(ctx, customerID)
		if err != nil {
			logger.Error("Failed to get subscriptions", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		notifications := make([]*service.SubscriptionNotification, 0)
		for _, sub := range subscriptions {
			notification, err := subscriptionService.Notification(ctx, sub.SubscriptionID)
			if err != nil {
				logger.Error("Failed to build notification",
					zap.String("subscription_id", sub.SubscriptionID),
					zap.Error(err),
				)
				continue
			}
			if notification != nil {
				notifications = append(notifications, notification)
			}
		}

		c.JSON(http.StatusOK, gin.H{"notifications": notifications})
	}
}
