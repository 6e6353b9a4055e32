package domain

// Intent classifies the purpose of a customer message. The classifier may
// emit labels outside this set; those hit the generic escalation branch.
type Intent string

const (
	IntentRefundRequest  Intent = "REFUND_REQUEST"
	IntentWalletIssue    Intent = "WALLET_ISSUE"
	IntentDeliveryIssue  Intent = "DELIVERY_ISSUE"
	IntentPaymentProblem Intent = "PAYMENT_PROBLEM"
	IntentOrderStatus    Intent = "ORDER_STATUS"
	IntentGeneralInquiry Intent = "GENERAL_INQUIRY"
)

// ResolutionStatus is the terminal outcome of one workflow execution.
type ResolutionStatus string

const (
	StatusResolved     ResolutionStatus = "resolved"
	StatusEscalated    ResolutionStatus = "escalated"
	StatusPendingImage ResolutionStatus = "pending_image"
	StatusError        ResolutionStatus = "error"
)

// IsTerminal checks if the status is one of the four terminal outcomes.
func (s ResolutionStatus) IsTerminal() bool {
	switch s {
	case StatusResolved, StatusEscalated, StatusPendingImage, StatusError:
		return true
	default:
		return false
	}
}

// OrderStatus is an open enumeration; the workflow only branches on
// delivered and cancelled.
type OrderStatus string

const (
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusPending   OrderStatus = "pending"
)

// PaymentStatus is an open enumeration; the workflow only branches on
// failed and refunded.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// SubscriptionStatus tracks a subscription's lifecycle.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// EscalationStatus is one-way: pending -> resolved.
type EscalationStatus string

const (
	EscalationStatusPending  EscalationStatus = "pending"
	EscalationStatusResolved EscalationStatus = "resolved"
)

// RefundReason records why a refund validation short-circuited or failed.
// Oracle-supplied reasons (e.g. damage_visible, unclear_image) pass through
// as-is.
type RefundReason string

const (
	ReasonOrderNotFound   RefundReason = "order_not_found"
	ReasonOrderCancelled  RefundReason = "order_cancelled"
	ReasonAlreadyRefunded RefundReason = "already_refunded"
	ReasonNoImage         RefundReason = "no_image"
	ReasonParsingError    RefundReason = "parsing_error"
	ReasonTechnicalError  RefundReason = "technical_error"
)
