package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/repository"
	"github.com/Strizzyy/care-engine/internal/service"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

// HandleListEscalations handles GET /escalations/all
func HandleListEscalations(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		escalations, err := repos.Escalations.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list escalations", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"escalations": escalations})
	}
}

// HandleCustomerEscalations handles GET /escalations/:customer_id
func HandleCustomerEscalations(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Param("customer_id")
		escalations, err := repos.Escalations.GetByCustomer(c.Request.Context(), customerID)
		if err != nil {
			logger.Error("Failed to get customer escalations", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"escalations": escalations})
	}
}

// HandleGetEscalation handles GET /escalation/:case_id
func HandleGetEscalation(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID := c.Param("case_id")
		escalation, err := repos.Escalations.GetByCaseID(c.Request.Context(), caseID)
		if err != nil {
			if errors.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Escalation case not found"})
				return
			}
			logger.Error("Failed to get escalation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"escalation": escalation})
	}
}

// HandleResolveEscalation handles POST /escalation/:case_id/resolve, the
// human-agent action that closes a case and applies an approved refund.
func HandleResolveEscalation(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID := c.Param("case_id")

		var resolution service.CaseResolution
		if err := c.ShouldBindJSON(&resolution); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		escalationService := service.NewEscalationService(repos, logger)
		if err := escalationService.Resolve(c.Request.Context(), caseID, resolution); err != nil {
			if errors.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Escalation case not found"})
				return
			}
			logger.Error("Failed to resolve escalation", zap.String("case_id", caseID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve escalation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Escalation case " + caseID + " resolved",
			"resolution": resolution,
		})
	}
}
