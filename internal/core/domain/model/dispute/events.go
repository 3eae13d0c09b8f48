package dispute

import "escrow/internal/pkg/ddd"

const (
	RaisedEventName   = "dispute.raised"
	ResolvedEventName = "dispute.resolved"
)

type Raised struct {
	ddd.BaseEvent
	DisputeID string `json:"dispute_id"`
	OrderID   string `json:"order_id"`
	RaisedBy  string `json:"raised_by"`
	Reason    string `json:"reason"`
}

type Resolved struct {
	ddd.BaseEvent
	DisputeID    string `json:"dispute_id"`
	OrderID      string `json:"order_id"`
	Decision     string `json:"decision"`
	RefundAmount string `json:"refund_amount"`
	Penalty      string `json:"penalty,omitempty"`
	ResolvedBy   string `json:"resolved_by"`
}
