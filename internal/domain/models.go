package domain

// Customer is a known customer account. WalletBalance holds store credit;
// only approved refunds mutate it through this service.
type Customer struct {
	CustomerID    string
	Name          string
	Email         string
	Phone         string
	Membership    string
	WalletBalance float64
	Location      string
}

// Order is read-only from the resolution core's perspective.
// Date fields keep the stored ISO-8601 string representation; the
// recent-order inference sorts on the raw string.
type Order struct {
	OrderID          string
	CustomerID       string
	Status           OrderStatus
	TotalAmount      float64
	OrderDate        string
	ExpectedDelivery string
}

// Payment is the payment record attached to an order.
type Payment struct {
	PaymentID  string
	OrderID    string
	CustomerID string
	Status     PaymentStatus
	Amount     float64
	RefundDate *string
}

// Subscription is a recurring planned order.
type Subscription struct {
	SubscriptionID   string
	CustomerID       string
	Items            []SubscriptionItem
	DeliveryDate     string
	SubscriptionType string
	Status           SubscriptionStatus
	CreatedAt        string
}

type SubscriptionItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// EscalationCase is a request the workflow could not auto-resolve, queued
// for a human agent. Case IDs are caller-allocated; a colliding ID upserts.
type EscalationCase struct {
	CaseID         string
	CustomerID     string
	IssueDetails   string
	Status         EscalationStatus
	EscalationTime string
	Resolution     *string
	ResolvedAt     *string
}

// OracleVerdict is the parsed result of the image-classification oracle.
// Status is constrained to resolved/escalated at the parse boundary and
// Confidence is clamped into [0, 1].
type OracleVerdict struct {
	Status     ResolutionStatus `json:"status"`
	Message    string           `json:"message"`
	Confidence float64          `json:"confidence"`
	Reason     RefundReason     `json:"reason,omitempty"`
}
