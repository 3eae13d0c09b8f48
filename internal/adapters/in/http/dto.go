package http

import (
	"time"

	"escrow/internal/core/application/usecases/queries"
	"escrow/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type PlaceOrderRequest struct {
	ListingID       string           `json:"listing_id" validate:"required,uuid"`
	SellerID        string           `json:"seller_id" validate:"required,uuid"`
	BuyerID         string           `json:"buyer_id,omitempty" validate:"omitempty,uuid"`
	ItemPrice       decimal.Decimal  `json:"item_price"`
	DeliveryFee     *decimal.Decimal `json:"delivery_fee,omitempty"`
	PaymentMethod   string           `json:"payment_method" validate:"required"`
	PickupAddress   string           `json:"pickup_address" validate:"required,max=500"`
	DeliveryAddress string           `json:"delivery_address" validate:"required,max=500"`
}

type ConfirmPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" validate:"required,max=128"`
}

type AssignCourierRequest struct {
	CourierID string `json:"courier_id" validate:"required,uuid"`
}

type SubmitProofRequest struct {
	Checkpoint string   `json:"checkpoint" validate:"required,oneof=pickup delivery"`
	Photos     []string `json:"photos" validate:"dive,required,max=2048"`
	Latitude   *float64 `json:"latitude" validate:"required"`
	Longitude  *float64 `json:"longitude" validate:"required"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
	Code       string   `json:"code" validate:"required,len=6,numeric"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type RaiseDisputeRequest struct {
	Reason      string   `json:"reason" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Evidence    []string `json:"evidence" validate:"dive,required,max=2048"`
}

type RateCounterpartyRequest struct {
	RatedUserID string `json:"rated_user_id" validate:"required,uuid"`
	Score       int    `json:"score" validate:"required,min=1,max=5"`
	Review      string `json:"review" validate:"max=1000"`
}

type ReviewDisputeRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type PenaltyRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Type   string `json:"type" validate:"required,oneof=warning strike ban"`
	Reason string `json:"reason" validate:"max=500"`
}

type ResolveDisputeRequest struct {
	Decision     string           `json:"decision" validate:"required,oneof=refund-buyer release-seller partial-refund"`
	RefundAmount *decimal.Decimal `json:"refund_amount,omitempty"`
	Penalty      *PenaltyRequest  `json:"penalty,omitempty"`
	Notes        string           `json:"notes" validate:"max=2000"`
}

type UpsertMemberRequest struct {
	Role         string `json:"role" validate:"required,oneof=buyer seller courier admin"`
	Availability string `json:"availability" validate:"required,oneof=available busy offline"`
}

type OrderResponse struct {
	ID                           string     `json:"id"`
	ListingID                    string     `json:"listing_id"`
	BuyerID                      string     `json:"buyer_id"`
	SellerID                     string     `json:"seller_id"`
	CourierID                    *string    `json:"courier_id,omitempty"`
	Status                       string     `json:"status"`
	EscrowStatus                 string     `json:"escrow_status"`
	EscrowAmount                 string     `json:"escrow_amount"`
	ItemPrice                    string     `json:"item_price"`
	DeliveryFee                  string     `json:"delivery_fee"`
	PlatformCommission           string     `json:"platform_commission"`
	SellerPayout                 string     `json:"seller_payout"`
	TotalAmount                  string     `json:"total_amount"`
	PaymentMethod                string     `json:"payment_method"`
	PaymentReference             string     `json:"payment_reference,omitempty"`
	PickupAddress                string     `json:"pickup_address"`
	DeliveryAddress              string     `json:"delivery_address"`
	PickupCode                   string     `json:"pickup_code,omitempty"`
	DeliveryCode                 string     `json:"delivery_code,omitempty"`
	DeliveryConfirmationDeadline *time.Time `json:"delivery_confirmation_deadline,omitempty"`
	AutoConfirmed                bool       `json:"auto_confirmed"`
	Version                      int64      `json:"version"`
	CreatedAt                    time.Time  `json:"created_at"`
	UpdatedAt                    time.Time  `json:"updated_at"`
}

type HistoryEntryResponse struct {
	Seq       int64     `json:"seq"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Note      string    `json:"note,omitempty"`
}

type TransactionResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Amount      string     `json:"amount"`
	FromUserID  *string    `json:"from_user_id,omitempty"`
	ToUserID    *string    `json:"to_user_id,omitempty"`
	Status      string     `json:"status"`
	Reference   string     `json:"reference"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ProofResponse struct {
	ID          string    `json:"id"`
	Checkpoint  string    `json:"checkpoint"`
	Photos      []string  `json:"photos"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Accuracy    *float64  `json:"accuracy,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	VerifiedBy  string    `json:"verified_by"`
	Confirmed   bool      `json:"confirmed"`
}

type DisputeSummaryResponse struct {
	ID         string     `json:"id"`
	RaisedBy   string     `json:"raised_by"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	Decision   string     `json:"decision,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

type ResolutionResponse struct {
	Decision      string  `json:"decision"`
	RefundAmount  string  `json:"refund_amount"`
	Notes         string  `json:"notes,omitempty"`
	PenaltyUserID *string `json:"penalty_user_id,omitempty"`
	PenaltyType   string  `json:"penalty_type,omitempty"`
	PenaltyReason string  `json:"penalty_reason,omitempty"`
}

type DisputeResponse struct {
	ID           string              `json:"id"`
	OrderID      string              `json:"order_id"`
	RaisedBy     string              `json:"raised_by"`
	RaisedByRole string              `json:"raised_by_role"`
	Reason       string              `json:"reason"`
	Description  string              `json:"description"`
	Evidence     []string            `json:"evidence"`
	Status       string              `json:"status"`
	AdminNotes   string              `json:"admin_notes,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	ResolvedAt   *time.Time          `json:"resolved_at,omitempty"`
	ResolvedBy   *string             `json:"resolved_by,omitempty"`
	Resolution   *ResolutionResponse `json:"resolution,omitempty"`
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toOrderResponse(o queries.GetOrderQueryResponse) OrderResponse {
	return OrderResponse{
		ID:                           o.ID.String(),
		ListingID:                    o.ListingID.String(),
		BuyerID:                      o.BuyerID.String(),
		SellerID:                     o.SellerID.String(),
		CourierID:                    idString(o.CourierID),
		Status:                       o.Status,
		EscrowStatus:                 o.EscrowStatus,
		EscrowAmount:                 o.EscrowAmount.String(),
		ItemPrice:                    o.ItemPrice.String(),
		DeliveryFee:                  o.DeliveryFee.String(),
		PlatformCommission:           o.PlatformCommission.String(),
		SellerPayout:                 o.SellerPayout.String(),
		TotalAmount:                  o.TotalAmount.String(),
		PaymentMethod:                o.PaymentMethod,
		PaymentReference:             o.PaymentReference,
		PickupAddress:                o.PickupAddress,
		DeliveryAddress:              o.DeliveryAddress,
		PickupCode:                   o.PickupCode,
		DeliveryCode:                 o.DeliveryCode,
		DeliveryConfirmationDeadline: o.DeliveryConfirmationDeadline,
		AutoConfirmed:                o.AutoConfirmed,
		Version:                      o.Version,
		CreatedAt:                    o.CreatedAt,
		UpdatedAt:                    o.UpdatedAt,
	}
}

func toHistoryResponse(entries []queries.GetStatusHistoryQueryResponse) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntryResponse{
			Seq:       e.Seq,
			Status:    e.Status,
			At:        e.At,
			ActorID:   e.ActorID.String(),
			ActorRole: e.ActorRole,
			Note:      e.Note,
		}
	}
	return out
}

func toTransactionsResponse(txs []queries.GetOrderTransactionsQueryResponse) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		out[i] = TransactionResponse{
			ID:          t.ID.String(),
			Type:        t.Type,
			Amount:      t.Amount.String(),
			FromUserID:  idString(t.FromUserID),
			ToUserID:    idString(t.ToUserID),
			Status:      t.Status,
			Reference:   t.Reference,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
			CompletedAt: t.CompletedAt,
		}
	}
	return out
}

func toProofsResponse(proofs []queries.GetOrderProofsQueryResponse) []ProofResponse {
	out := make([]ProofResponse, len(proofs))
	for i, p := range proofs {
		out[i] = ProofResponse{
			ID:          p.ID.String(),
			Checkpoint:  p.Checkpoint,
			Photos:      p.Photos,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			Accuracy:    p.Accuracy,
			SubmittedAt: p.SubmittedAt,
			VerifiedBy:  p.VerifiedBy.String(),
			Confirmed:   p.Confirmed,
		}
	}
	return out
}

func toDisputeSummariesResponse(disputes []queries.GetOrderDisputesQueryResponse) []DisputeSummaryResponse {
	out := make([]DisputeSummaryResponse, len(disputes))
	for i, d := range disputes {
		out[i] = DisputeSummaryResponse{
			ID:         d.ID.String(),
			RaisedBy:   d.RaisedBy.String(),
			Reason:     d.Reason,
			Status:     d.Status,
			Decision:   d.Decision,
			CreatedAt:  d.CreatedAt,
			ResolvedAt: d.ResolvedAt,
		}
	}
	return out
}

func toDisputeResponse(d queries.GetDisputeQueryResponse) DisputeResponse {
	resp := DisputeResponse{
		ID:           d.ID.String(),
		OrderID:      d.OrderID.String(),
		RaisedBy:     d.RaisedBy.String(),
		RaisedByRole: d.RaisedByRole,
		Reason:       d.Reason,
		Description:  d.Description,
		Evidence:     d.Evidence,
		Status:       d.Status,
		AdminNotes:   d.AdminNotes,
		CreatedAt:    d.CreatedAt,
		ResolvedAt:   d.ResolvedAt,
		ResolvedBy:   idString(d.ResolvedBy),
	}
	if r := d.Resolution; r != nil {
		resp.Resolution = &ResolutionResponse{
			Decision:      r.Decision,
			RefundAmount:  r.RefundAmount.String(),
			Notes:         r.Notes,
			PenaltyUserID: idString(r.PenaltyUserID),
			PenaltyType:   r.PenaltyType,
			PenaltyReason: r.PenaltyReason,
		}
	}
	return resp
}
