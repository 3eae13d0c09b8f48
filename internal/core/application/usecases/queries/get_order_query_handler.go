package queries

import (
	"context"
	"database/sql"

	"escrow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order row.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if _, err := authorizeOrderRead(ctx, h.db, query.OrderID(), query.Actor()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var (
		resp                                         GetOrderQueryResponse
		id, listingID, buyerID, sellerID             uuid.UUID
		courierID                                    uuid.NullUUID
		escrow, item, fee, commission, payout, total decimal.Decimal
		pickupCode, deliveryCode                     string
		deadline                                     sql.NullTime
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			listing_id,
			buyer_id,
			seller_id,
			courier_id,
			status,
			escrow_status,
			escrow_amount,
			item_price,
			delivery_fee,
			platform_commission,
			seller_payout,
			total_amount,
			payment_method,
			payment_reference,
			pickup_address,
			delivery_address,
			pickup_code,
			delivery_code,
			delivery_confirmation_deadline,
			auto_confirmed,
			version,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&id,
		&listingID,
		&buyerID,
		&sellerID,
		&courierID,
		&resp.Status,
		&resp.EscrowStatus,
		&escrow,
		&item,
		&fee,
		&commission,
		&payout,
		&total,
		&resp.PaymentMethod,
		&resp.PaymentReference,
		&resp.PickupAddress,
		&resp.DeliveryAddress,
		&pickupCode,
		&deliveryCode,
		&deadline,
		&resp.AutoConfirmed,
		&resp.Version,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID = kernel.UUIDFromGoogle(id)
	resp.ListingID = kernel.UUIDFromGoogle(listingID)
	resp.BuyerID = kernel.UUIDFromGoogle(buyerID)
	resp.SellerID = kernel.UUIDFromGoogle(sellerID)
	resp.CourierID = nullableID(courierID)
	resp.DeliveryConfirmationDeadline = nullableTime(deadline)
	resp.CreatedAt = resp.CreatedAt.UTC()
	resp.UpdatedAt = resp.UpdatedAt.UTC()

	amounts := []*kernel.Money{&resp.EscrowAmount, &resp.ItemPrice, &resp.DeliveryFee, &resp.PlatformCommission, &resp.SellerPayout, &resp.TotalAmount}
	for i, d := range []decimal.Decimal{escrow, item, fee, commission, payout, total} {
		m, err := kernel.NewMoney(d)
		if err != nil {
			return GetOrderQueryResponse{}, err
		}
		*amounts[i] = m
	}

	actor := query.Actor()
	if actor.IsPrivileged() || (actor.Is(kernel.RoleSeller) && actor.ID().IsEqual(resp.SellerID)) {
		resp.PickupCode = pickupCode
	}
	if actor.IsPrivileged() || (actor.Is(kernel.RoleBuyer) && actor.ID().IsEqual(resp.BuyerID)) {
		resp.DeliveryCode = deliveryCode
	}

	return resp, nil
}
