package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/internal/repository"
	"github.com/Strizzyy/care-engine/internal/service"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

// IntentClassifier maps free text to an intent label.
type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, message string) (domain.Intent, error)
}

// RequestResolver runs one request through the resolution workflow.
type RequestResolver interface {
	Resolve(ctx context.Context, req service.ResolveRequest) *service.ResolveResult
}

// ChatRequest is the inbound chat payload
type ChatRequest struct {
	Message    string `json:"message" binding:"required"`
	CustomerID string `json:"customer_id" binding:"required"`
}

// ChatResponse is the chat endpoint's reply
type ChatResponse struct {
	Response string                  `json:"response"`
	Intent   string                  `json:"intent"`
	Status   domain.ResolutionStatus `json:"status"`
	CaseID   string                  `json:"case_id"`
	OrderID  string                  `json:"order_id,omitempty"`
}

// HandleChat handles POST /chat
func HandleChat(repos *repository.Repositories, classifier IntentClassifier, resolver RequestResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		logger.Info("Processing chat",
			zap.String("customer_id", req.CustomerID),
			zap.String("message", req.Message),
		)

		// Verify customer exists before entering the workflow.
		if _, err := repos.Customers.GetByID(ctx, req.CustomerID); err != nil {
			if errors.IsNotFound(err) {
				caseID := uuid.New().String()
				if escErr := repos.Escalations.Add(ctx, caseID, req.CustomerID, "Customer not found. Message: "+req.Message); escErr != nil {
					logger.Error("Failed to record escalation", zap.Error(escErr))
				}
				c.JSON(http.StatusOK, ChatResponse{
					Response: "Customer ID " + req.CustomerID + " not found. Please verify your customer ID.",
					Intent:   "ERROR",
					Status:   domain.StatusEscalated,
					CaseID:   caseID,
				})
				return
			}
			logger.Error("Failed to verify customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		intent, err := classifier.ClassifyIntent(ctx, req.Message)
		if err != nil {
			logger.Error("Intent classification failed", zap.Error(err))
			caseID := uuid.New().String()
			if escErr := repos.Escalations.Add(ctx, caseID, req.CustomerID, "Error: "+err.Error()+". Message: "+req.Message); escErr != nil {
				logger.Error("Failed to record escalation", zap.Error(escErr))
			}
			c.JSON(http.StatusOK, ChatResponse{
				Response: "I apologize, but I encountered an error. Your request has been escalated for review.",
				Intent:   "ERROR",
				Status:   domain.StatusEscalated,
				CaseID:   caseID,
			})
			return
		}

		caseID := uuid.New().String()
		result := resolver.Resolve(ctx, service.ResolveRequest{
			Intent:     intent,
			Message:    req.Message,
			CustomerID: req.CustomerID,
			CaseID:     caseID,
		})

		c.JSON(http.StatusOK, ChatResponse{
			Response: result.Message,
			Intent:   string(intent),
			Status:   result.Status,
			CaseID:   result.CaseID,
			OrderID:  result.OrderID,
		})
	}
}

// ValidateResponse is the refund validation endpoint's reply
type ValidateResponse struct {
	Status      domain.ResolutionStatus `json:"status"`
	Message     string                  `json:"message"`
	Category    string                  `json:"category"`
	Priority    string                  `json:"priority"`
	ReferenceID string                  `json:"reference_id"`
	CaseID      string                  `json:"case_id,omitempty"`
	OrderID     string                  `json:"order_id,omitempty"`
	Verdict     *domain.OracleVerdict   `json:"validation_details,omitempty"`
}

// HandleValidate handles POST /validate: a refund request with an uploaded
// image of the damaged item.
func HandleValidate(repos *repository.Repositories, resolver RequestResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		message := c.PostForm("message")
		customerID := c.DefaultPostForm("customer_id", "WM001")

		ctx := c.Request.Context()
		logger.Info("Processing validation request",
			zap.String("customer_id", customerID),
			zap.String("file", fileHeader.Filename),
		)

		if _, err := repos.Customers.GetByID(ctx, customerID); err != nil {
			if errors.IsNotFound(err) {
				caseID := uuid.New().String()
				if escErr := repos.Escalations.Add(ctx, caseID, customerID, "Customer not found. Message: "+message); escErr != nil {
					logger.Error("Failed to record escalation", zap.Error(escErr))
				}
				c.JSON(http.StatusOK, ValidateResponse{
					Status:      domain.StatusEscalated,
					Message:     "Customer ID " + customerID + " not found. Escalated for manual review.",
					Category:    "Refund Request",
					Priority:    "High",
					ReferenceID: "REF-ERR-" + time.Now().Format("20060102150405"),
					CaseID:      caseID,
				})
				return
			}
			logger.Error("Failed to verify customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
			return
		}
		defer file.Close()
		contents, err := io.ReadAll(file)
		if err != nil || len(contents) == 0 {
			c.JSON(http.StatusOK, ValidateResponse{
				Status:      domain.StatusEscalated,
				Message:     "No valid image data received. Please upload a clear image of the damaged item.",
				Category:    "Refund Request",
				Priority:    "High",
				ReferenceID: "REF-ERR-" + time.Now().Format("20060102150405"),
			})
			return
		}

		caseID := uuid.New().String()

		// Quick amount lookup when the message names an order.
		var refundAmount *float64
		if orderID := service.ExtractOrderID(message); orderID != "" {
			if order, err := repos.Orders.GetByID(ctx, orderID); err == nil {
				refundAmount = &order.TotalAmount
			} else {
				fallback := 100.0
				refundAmount = &fallback
			}
		}

		result := resolver.Resolve(ctx, service.ResolveRequest{
			Intent:       domain.IntentRefundRequest,
			Message:      message,
			CustomerID:   customerID,
			CaseID:       caseID,
			Image:        contents,
			RefundAmount: refundAmount,
		})

		priority := "High"
		if result.Status == domain.StatusResolved {
			priority = "Standard"
		}

		c.JSON(http.StatusOK, ValidateResponse{
			Status:      result.Status,
			Message:     result.Message,
			Category:    "Refund Request",
			Priority:    priority,
			ReferenceID: "REF-" + time.Now().Format("20060102150405"),
			CaseID:      result.CaseID,
			OrderID:     result.OrderID,
			Verdict:     result.Verdict,
		})
	}
}
