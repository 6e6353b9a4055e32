package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

// confidenceThreshold is the minimum oracle confidence for an automatic
// refund approval. A resolved verdict below it is downgraded to escalated.
const confidenceThreshold = 0.7

// validateRefund runs the refund checks in order: order present, order not
// cancelled, payment not already refunded, image present, then the oracle
// verdict with the confidence cutoff. An approved verdict credits the
// customer's wallet exactly once. A non-nil error means an unanticipated
// store fault; the caller's top-level catch converts it into an escalation.
func (s *ResolutionService) validateRefund(ctx context.Context, state *workflowState) (*domain.OracleVerdict, error) {
	s.logger.Info("Validating refund request",
		zap.String("customer_id", state.customerID),
		zap.String("order_id", state.orderID),
	)

	if state.order == nil {
		return &domain.OracleVerdict{
			Status:  domain.StatusEscalated,
			Message: fmt.Sprintf("Order %s not found. Escalated for manual review.", state.orderID),
			Reason:  domain.ReasonOrderNotFound,
		}, nil
	}

	if state.order.Status == domain.OrderStatusCancelled {
		return &domain.OracleVerdict{
			Status:  domain.StatusEscalated,
			Message: fmt.Sprintf("Order %s is cancelled. No refund applicable.", state.orderID),
			Reason:  domain.ReasonOrderCancelled,
		}, nil
	}

	payment, err := s.repos.Payments.GetByOrder(ctx, state.orderID)
	if err != nil {
		return nil, err
	}
	if payment != nil && payment.Status == domain.PaymentStatusRefunded {
		refundDate := ""
		if payment.RefundDate != nil {
			refundDate = *payment.RefundDate
		}
		return &domain.OracleVerdict{
			Status:  domain.StatusEscalated,
			Message: fmt.Sprintf("Order %s was already refunded on %s.", state.orderID, refundDate),
			Reason:  domain.ReasonAlreadyRefunded,
		}, nil
	}

	if len(state.image) == 0 {
		return &domain.OracleVerdict{
			Status:  domain.StatusEscalated,
			Message: "No valid image data provided for validation.",
			Reason:  domain.ReasonNoImage,
		}, nil
	}

	contextText := fmt.Sprintf("Customer: %s, Order: %s, Amount: ₹%.2f",
		state.customerID, state.orderID, *state.refundAmount)

	raw, err := s.oracle.Classify(ctx, state.image, contextText)
	if err != nil {
		s.logger.Error("Oracle call failed", zap.String("order_id", state.orderID), zap.Error(err))
		return &domain.OracleVerdict{
			Status:  domain.StatusEscalated,
			Message: fmt.Sprintf("Technical error during validation: %v. Escalated for manual review.", err),
			Reason:  domain.ReasonTechnicalError,
		}, nil
	}

	verdict, ok := parseVerdict(raw)
	if !ok {
		s.logger.Error("Failed to parse oracle response", zap.String("raw", raw))
		return &domain.OracleVerdict{
			Status:  domain.StatusEscalated,
			Message: "Unable to analyze image properly. Escalated for manual review.",
			Reason:  domain.ReasonParsingError,
		}, nil
	}

	s.logger.Info("Oracle verdict",
		zap.String("status", string(verdict.Status)),
		zap.Float64("confidence", verdict.Confidence),
	)

	if verdict.Status == domain.StatusResolved && verdict.Confidence >= confidenceThreshold {
		customer, err := s.repos.Customers.GetByID(ctx, state.customerID)
		if err != nil {
			if errors.IsNotFound(err) {
				verdict.Status = domain.StatusEscalated
				verdict.Message = "Customer not found during refund processing. Escalated for manual review."
				return verdict, nil
			}
			return nil, err
		}

		newBalance := customer.WalletBalance + *state.refundAmount
		if _, err := s.repos.Customers.UpdateWalletBalance(ctx, state.customerID, newBalance); err != nil {
			return nil, err
		}

		verdict.Message = fmt.Sprintf("Refund of ₹%.2f processed successfully. New wallet balance: ₹%.2f",
			*state.refundAmount, newBalance)
		s.logger.Info("Refund processed",
			zap.String("customer_id", state.customerID),
			zap.Float64("new_balance", newBalance),
		)
	} else if verdict.Confidence < confidenceThreshold {
		verdict.Status = domain.StatusEscalated
		verdict.Message = fmt.Sprintf("Image analysis inconclusive (confidence: %.2f). Escalated for human review.", verdict.Confidence)
	}

	return verdict, nil
}

// parseVerdict validates the oracle's raw text into a verdict. Status values
// outside resolved/escalated are coerced to escalated, out-of-range
// confidence is clamped to 0, and missing required fields fail the parse.
func parseVerdict(raw string) (*domain.OracleVerdict, bool) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.TrimSpace(text)

	var aux struct {
		Status     *string  `json:"status"`
		Message    *string  `json:"message"`
		Confidence *float64 `json:"confidence"`
		Reason     string   `json:"reason"`
	}
	if err := json.Unmarshal([]byte(text), &aux); err != nil {
		return nil, false
	}
	if aux.Status == nil || aux.Message == nil || aux.Confidence == nil {
		return nil, false
	}

	status := domain.ResolutionStatus(*aux.Status)
	if status != domain.StatusResolved && status != domain.StatusEscalated {
		status = domain.StatusEscalated
	}

	confidence := *aux.Confidence
	if confidence < 0.0 || confidence > 1.0 {
		confidence = 0.0
	}

	return &domain.OracleVerdict{
		Status:     status,
		Message:    *aux.Message,
		Confidence: confidence,
		Reason:     domain.RefundReason(aux.Reason),
	}, true
}

// escalationDetails is the structured payload embedded in a refund
// escalation's issue details.
type escalationDetails struct {
	CustomerMessage  string                `json:"customer_message"`
	OrderID          string                `json:"order_id"`
	RefundAmount     *float64              `json:"refund_amount"`
	ValidationResult *domain.OracleVerdict `json:"validation_result"`
	ImageProvided    bool                  `json:"image_provided"`
}

func (d escalationDetails) json() string {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprintf("%+v", d)
	}
	return string(b)
}
