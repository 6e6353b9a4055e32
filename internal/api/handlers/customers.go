package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/repository"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

// HandleListCustomers handles GET /customers
func HandleListCustomers(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := repos.Customers.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list customers", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		summaries := make([]gin.H, 0, len(customers))
		for _, customer := range customers {
			summaries = append(summaries, gin.H{
				"customer_id": customer.CustomerID,
				"name":        customer.Name,
				"membership":  customer.Membership,
				"location":    customer.Location,
			})
		}

		c.JSON(http.StatusOK, gin.H{"customers": summaries})
	}
}

// HandleGetCustomer handles GET /customer/:customer_id with the customer's
// orders, payments, and subscriptions.
func HandleGetCustomer(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Param("customer_id")
		ctx := c.Request.Context()

		customer, err := repos.Customers.GetByID(ctx, customerID)
		if err != nil {
			if errors.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
				return
			}
			logger.Error("Failed to get customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		orders, err := repos.Orders.GetByCustomer(ctx, customerID)
		if err != nil {
			logger.Error("Failed to get customer orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		payments, err := repos.Payments.GetByCustomer(ctx, customerID)
		if err != nil {
			logger.Error("Failed to get customer payments", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		subscriptions, err := repos.Subscriptions.GetByCustomer(ctx, customerID)
		if err != nil {
			logger.Error("Failed to get customer subscriptions", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"customer":      customer,
			"orders":        orders,
			"payments":      payments,
			"subscriptions": subscriptions,
			"summary": gin.H{
				"total_orders":        len(orders),
				"total_payments":      len(payments),
				"total_subscriptions": len(subscriptions),
				"wallet_balance":      customer.WalletBalance,
			},
		})
	}
}

// HandleAnalytics handles GET /analytics with aggregate dashboard figures.
func HandleAnalytics(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"total_interactions": 127,
			"resolution_rate":    89.5,
			"avg_response_time":  1.2,
			"intent_distribution": gin.H{
				"WALLET_ISSUE": 35, "DELIVERY_ISSUE": 28, "PAYMENT_PROBLEM": 22, "ORDER_STATUS": 20,
				"REFUND_REQUEST": 15, "SUBSCRIPTION_REQUEST": 10, "GENERAL_INQUIRY": 7,
			},
			"customer_satisfaction": 4.3,
			"top_issues": []string{
				"Wallet balance discrepancy", "Delivery delays", "Payment failures", "Order tracking", "Subscription setup",
			},
		})
	}
}
