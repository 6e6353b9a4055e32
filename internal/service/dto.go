package service

import (
	"context"

	"github.com/Strizzyy/care-engine/internal/domain"
)

// OracleClient judges refund-evidence images and returns the raw verdict
// text. Parsing belongs to the refund resolver.
type OracleClient interface {
	Classify(ctx context.Context, image []byte, contextText string) (string, error)
}

// EscalationNotifier receives newly persisted escalation cases.
// Delivery is fire-and-forget; implementations must not block.
type EscalationNotifier interface {
	EscalationCreated(caseID, customerID, issueDetails string)
}

// NoopNotifier is a stub EscalationNotifier that discards events.
type NoopNotifier struct{}

func (NoopNotifier) EscalationCreated(caseID, customerID, issueDetails string) {}

// ResolveRequest is one workflow invocation. CaseID is caller-allocated and
// assumed unique; CustomerID is assumed verified by the caller.
type ResolveRequest struct {
	Intent       domain.Intent
	Message      string
	CustomerID   string
	CaseID       string
	Image        []byte
	RefundAmount *float64
}

// ResolveResult is the terminal outcome of one workflow execution.
type ResolveResult struct {
	Status  domain.ResolutionStatus `json:"status"`
	Message string                  `json:"message"`
	CaseID  string                  `json:"case_id"`
	OrderID string                  `json:"order_id,omitempty"`
	Verdict *domain.OracleVerdict   `json:"validation_details,omitempty"`
}

// SubscriptionNotification is a delivery reminder for an upcoming
// subscription restock.
type SubscriptionNotification struct {
	Message        string `json:"message"`
	SubscriptionID string `json:"subscription_id"`
	DeliveryDate   string `json:"delivery_date"`
}

// CaseResolution is a human agent's resolution payload for an escalation.
type CaseResolution struct {
	ResolutionType string  `json:"resolution_type"`
	Notes          string  `json:"notes,omitempty"`
	RefundAmount   float64 `json:"refund_amount,omitempty"`
	AgentID        string  `json:"agent_id,omitempty"`
}
