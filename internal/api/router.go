package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/api/handlers"
	"github.com/Strizzyy/care-engine/internal/api/middleware"
	"github.com/Strizzyy/care-engine/internal/config"
	"github.com/Strizzyy/care-engine/internal/realtime"
	"github.com/Strizzyy/care-engine/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	repos *repository.Repositories,
	classifier handlers.IntentClassifier,
	resolver handlers.RequestResolver,
	hub *realtime.Hub,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Format(time.RFC3339)})
	})

	// Customer-facing routes
	router.POST("/chat", handlers.HandleChat(repos, classifier, resolver, logger))
	router.POST("/validate", handlers.HandleValidate(repos, resolver, logger))
	router.GET("/customers", handlers.HandleListCustomers(repos, logger))
	router.GET("/customer/:customer_id", handlers.HandleGetCustomer(repos, logger))

	// Subscriptions
	router.POST("/subscription", handlers.HandleCreateSubscription(repos, logger))
	router.GET("/subscriptions/:customer_id", handlers.HandleGetSubscriptions(repos, logger))
	router.POST("/subscription/cancel/:subscription_id", handlers.HandleCancelSubscription(repos, logger))
	router.GET("/subscription/notifications/:customer_id", handlers.HandleSubscriptionNotifications(repos, logger))

	// Agent routes (human-review dashboard)
	agentRoutes := router.Group("")
	agentRoutes.Use(middleware.AgentAuth(cfg.Agent, logger))
	{
		agentRoutes.GET("/escalations/all", handlers.HandleListEscalations(repos, logger))
		agentRoutes.GET("/escalations/:customer_id", handlers.HandleCustomerEscalations(repos, logger))
		agentRoutes.GET("/escalation/:case_id", handlers.HandleGetEscalation(repos, logger))
		agentRoutes.POST("/escalation/:case_id/resolve", handlers.HandleResolveEscalation(repos, logger))
		agentRoutes.GET("/ws/escalations", handlers.HandleEscalationFeed(hub, logger))
	}

	router.GET("/analytics", handlers.HandleAnalytics(logger))

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
