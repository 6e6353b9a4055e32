package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/internal/repository"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

var orderIDPattern = regexp.MustCompile(`ORD[0-9]{3}`)

// workflowState is the ephemeral state of one workflow execution. It is
// created fresh per request and never shared.
type workflowState struct {
	intent       domain.Intent
	message      string
	customerID   string
	caseID       string
	orderID      string
	order        *domain.Order
	image        []byte
	refundAmount *float64
	status       domain.ResolutionStatus
	response     string
	verdict      *domain.OracleVerdict
}

// ResolutionService is the request-resolution workflow engine. Every
// invocation ends in exactly one terminal status, and every escalated
// outcome has a persisted escalation case before Resolve returns.
type ResolutionService struct {
	repos    *repository.Repositories
	oracle   OracleClient
	notifier EscalationNotifier
	logger   *zap.Logger
}

// NewResolutionService creates a new resolution service
func NewResolutionService(repos *repository.Repositories, oracle OracleClient, notifier EscalationNotifier, logger *zap.Logger) *ResolutionService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &ResolutionService{
		repos:    repos,
		oracle:   oracle,
		notifier: notifier,
		logger:   logger,
	}
}

// Resolve runs one request through the workflow. It never returns a fault:
// any unhandled error becomes a persisted escalation plus a generic
// escalated result.
func (s *ResolutionService) Resolve(ctx context.Context, req ResolveRequest) *ResolveResult {
	s.logger.Info("Processing request",
		zap.String("customer_id", req.CustomerID),
		zap.String("intent", string(req.Intent)),
		zap.String("case_id", req.CaseID),
	)

	state := &workflowState{
		intent:       req.Intent,
		message:      req.Message,
		customerID:   req.CustomerID,
		caseID:       req.CaseID,
		image:        req.Image,
		refundAmount: req.RefundAmount,
	}

	if err := s.run(ctx, state); err != nil {
		s.logger.Error("Workflow execution failed",
			zap.String("case_id", state.caseID),
			zap.Error(err),
		)
		details := fmt.Sprintf("Workflow error: %v. Original message: %s", err, state.message)
		// Best effort: the caller still gets an escalated outcome when even
		// the escalation write fails.
		if escErr := s.addEscalation(ctx, state, details); escErr != nil {
			s.logger.Error("Failed to persist workflow-error escalation",
				zap.String("case_id", state.caseID),
				zap.Error(escErr),
			)
		}
		return &ResolveResult{
			Status:  domain.StatusEscalated,
			Message: "We encountered a technical issue processing your request. It has been escalated for manual review.",
			CaseID:  state.caseID,
			OrderID: state.orderID,
		}
	}

	return &ResolveResult{
		Status:  state.status,
		Message: state.response,
		CaseID:  state.caseID,
		OrderID: state.orderID,
		Verdict: state.verdict,
	}
}

func (s *ResolutionService) run(ctx context.Context, state *workflowState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in workflow: %v", r)
		}
	}()

	if err := s.orderContextStage(ctx, state); err != nil {
		return err
	}

	if state.intent != domain.IntentRefundRequest {
		return s.otherIntentStage(ctx, state)
	}
	if state.status == domain.StatusEscalated {
		return nil
	}
	if state.order == nil {
		return nil
	}
	return s.refundStage(ctx, state)
}

// orderContextStage resolves the order the refund refers to: an explicit
// ORD### reference in the message, or the customer's most recent delivered
// order when an image was supplied without one.
func (s *ResolutionService) orderContextStage(ctx context.Context, state *workflowState) error {
	if state.intent != domain.IntentRefundRequest {
		return nil
	}

	state.orderID = ExtractOrderID(state.message)

	if state.orderID == "" && len(state.image) > 0 {
		s.logger.Info("No order ID in message, inferring from recent orders",
			zap.String("customer_id", state.customerID),
		)
		orders, err := s.repos.Orders.GetByCustomer(ctx, state.customerID)
		if err != nil {
			s.logger.Error("Failed to get customer orders", zap.Error(err))
		} else {
			state.orderID = mostRecentDelivered(orders)
		}
	}

	if state.orderID == "" {
		state.status = domain.StatusEscalated
		state.response = "Please provide a valid order ID (e.g., ORD001) for your refund request."
		return s.addEscalation(ctx, state, "No order ID provided: "+state.message)
	}

	order, err := s.repos.Orders.GetByID(ctx, state.orderID)
	if err != nil {
		if errors.IsNotFound(err) {
			state.status = domain.StatusEscalated
			state.response = fmt.Sprintf("Order %s not found. Escalated for manual review.", state.orderID)
			return s.addEscalation(ctx, state, "Order not found: "+state.message)
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", state.orderID), zap.Error(err))
		state.status = domain.StatusEscalated
		state.response = fmt.Sprintf("Error retrieving order %s. Escalated for manual review.", state.orderID)
		return s.addEscalation(ctx, state, fmt.Sprintf("Error fetching order: %v. Message: %s", err, state.message))
	}

	state.order = order
	if state.refundAmount == nil {
		amount := order.TotalAmount
		state.refundAmount = &amount
	}

	return nil
}

// refundStage asks for an image when none was supplied, otherwise delegates
// to the refund resolver and persists an escalation on a negative verdict.
func (s *ResolutionService) refundStage(ctx context.Context, state *workflowState) error {
	if len(state.image) == 0 {
		state.status = domain.StatusPendingImage
		state.response = fmt.Sprintf("Please upload an image of the damaged item for order %s to process your refund.", state.orderID)
		return nil
	}

	verdict, err := s.validateRefund(ctx, state)
	if err != nil {
		return err
	}

	state.verdict = verdict
	state.status = verdict.Status
	state.response = verdict.Message

	if verdict.Status == domain.StatusEscalated {
		details := escalationDetails{
			CustomerMessage:  state.message,
			OrderID:          state.orderID,
			RefundAmount:     state.refundAmount,
			ValidationResult: verdict,
			ImageProvided:    true,
		}
		return s.addEscalation(ctx, state, "Refund validation escalated: "+details.json())
	}

	return nil
}

// otherIntentStage handles every non-refund intent with direct store queries.
func (s *ResolutionService) otherIntentStage(ctx context.Context, state *workflowState) error {
	customer, err := s.repos.Customers.GetByID(ctx, state.customerID)
	if err != nil {
		if errors.IsNotFound(err) {
			state.status = domain.StatusError
			state.response = "Customer not found."
			return nil
		}
		return err
	}

	switch state.intent {
	case domain.IntentWalletIssue:
		failed, err := s.repos.Payments.GetFailedByCustomer(ctx, state.customerID)
		if err != nil {
			return err
		}
		if len(failed) > 0 {
			state.status = domain.StatusEscalated
			state.response = "We've detected payment issues. Escalated for review."
			return s.addEscalation(ctx, state, state.message)
		}
		state.status = domain.StatusResolved
		state.response = fmt.Sprintf("Your wallet balance is ₹%.2f. No issues detected.", customer.WalletBalance)

	case domain.IntentDeliveryIssue:
		orderID := ExtractOrderID(state.message)
		if orderID == "" {
			state.status = domain.StatusEscalated
			state.response = "Unable to track delivery without an order ID. Please provide a valid order ID (e.g., ORD001)."
			return s.addEscalation(ctx, state, state.message)
		}
		order, err := s.repos.Orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.IsNotFound(err) {
				state.status = domain.StatusEscalated
				state.response = "Unable to track delivery. Escalated for manual review."
				return s.addEscalation(ctx, state, state.message)
			}
			return err
		}
		state.status = domain.StatusResolved
		state.response = fmt.Sprintf("Order %s status: %s. Expected delivery: %s.", orderID, order.Status, order.ExpectedDelivery)

	case domain.IntentPaymentProblem:
		failed, err := s.repos.Payments.GetFailedByCustomer(ctx, state.customerID)
		if err != nil {
			return err
		}
		if len(failed) > 0 {
			state.status = domain.StatusEscalated
			state.response = fmt.Sprintf("Found %d failed payment(s). Escalated for review.", len(failed))
			return s.addEscalation(ctx, state, state.message)
		}
		state.status = domain.StatusResolved
		state.response = "No payment issues found."

	case domain.IntentOrderStatus:
		orderID := ExtractOrderID(state.message)
		if orderID == "" {
			state.status = domain.StatusEscalated
			state.response = "Please provide a valid order ID (e.g., ORD001)."
			return s.addEscalation(ctx, state, state.message)
		}
		order, err := s.repos.Orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.IsNotFound(err) {
				state.status = domain.StatusEscalated
				state.response = "Order not found. Please provide a valid order ID."
				return s.addEscalation(ctx, state, state.message)
			}
			return err
		}
		state.status = domain.StatusResolved
		state.response = fmt.Sprintf("Order %s status: %s. Expected delivery: %s.", orderID, order.Status, order.ExpectedDelivery)

	default:
		state.status = domain.StatusEscalated
		state.response = "Unable to process your request automatically. Escalated for manual review."
		return s.addEscalation(ctx, state, state.message)
	}

	return nil
}

func (s *ResolutionService) addEscalation(ctx context.Context, state *workflowState, issueDetails string) error {
	if err := s.repos.Escalations.Add(ctx, state.caseID, state.customerID, issueDetails); err != nil {
		return err
	}
	s.logger.Info("Escalation recorded", zap.String("case_id", state.caseID))
	s.notifier.EscalationCreated(state.caseID, state.customerID, issueDetails)
	return nil
}

// ExtractOrderID returns the first ORD### reference in the message, or "".
func ExtractOrderID(message string) string {
	return orderIDPattern.FindString(message)
}

// mostRecentDelivered picks the delivered order with the greatest order date.
// Dates are compared as the stored strings, not parsed.
func mostRecentDelivered(orders []*domain.Order) string {
	var delivered []*domain.Order
	for _, order := range orders {
		if order.Status == domain.OrderStatusDelivered {
			delivered = append(delivered, order)
		}
	}
	if len(delivered) == 0 {
		return ""
	}
	sort.Slice(delivered, func(i, j int) bool {
		return delivered[i].OrderDate > delivered[j].OrderDate
	})
	return delivered[0].OrderID
}
