package order

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/pricing"
	"escrow/internal/core/domain/model/verification"
)

// Snapshot is the persisted shape of an order, used by repositories to
// rebuild the aggregate.
type Snapshot struct {
	ID                           kernel.UUID
	Parties                      Parties
	CourierID                    *kernel.UUID
	Fees                         pricing.Breakdown
	EscrowAmount                 kernel.Money
	EscrowStatus                 EscrowStatus
	PickupAddress                string
	DeliveryAddress              string
	PickupCode                   verification.Code
	DeliveryCode                 verification.Code
	PaymentMethod                PaymentMethod
	PaymentReference             string
	Status                       Status
	History                      []HistoryEntry
	DeliveryConfirmationDeadline *time.Time
	AutoConfirmed                bool
	Version                      int64
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

// Restore rebuilds an order read from storage. The restored status and
// version become the expected values for the next conditional update.
func Restore(s Snapshot) (*Order, error) {
	o := &Order{
		escrowAmount:     s.EscrowAmount,
		escrowStatus:     s.EscrowStatus,
		paymentReference: s.PaymentReference,
		history:          append([]HistoryEntry(nil), s.History...),
		autoConfirmed:    s.AutoConfirmed,
		version:          s.Version,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		isConstructed:    true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setParties(s.Parties),
		o.setFees(s.Fees),
		o.setAddresses(s.PickupAddress, s.DeliveryAddress),
		o.setPaymentMethod(s.PaymentMethod),
		o.setCodes(s.PickupCode, s.DeliveryCode),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	// setFees resets the escrow amount.
	o.escrowAmount = s.EscrowAmount
	o.status = s.Status

	if s.CourierID != nil {
		id := *s.CourierID
		o.courierID = &id
	}
	if s.DeliveryConfirmationDeadline != nil {
		d := *s.DeliveryConfirmationDeadline
		o.deliveryConfirmationDeadline = &d
	}
	o.MarkPersisted()
	return o, nil
}

// Snapshot returns the persisted shape of o.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                           o.id,
		Parties:                      Parties{ListingID: o.listingID, BuyerID: o.buyerID, SellerID: o.sellerID},
		CourierID:                    o.CourierID(),
		Fees:                         o.fees,
		EscrowAmount:                 o.escrowAmount,
		EscrowStatus:                 o.escrowStatus,
		PickupAddress:                o.pickupAddress,
		DeliveryAddress:              o.deliveryAddress,
		PickupCode:                   o.pickupCode,
		DeliveryCode:                 o.deliveryCode,
		PaymentMethod:                o.paymentMethod,
		PaymentReference:             o.paymentReference,
		Status:                       o.status,
		History:                      o.History(),
		DeliveryConfirmationDeadline: o.DeliveryConfirmationDeadline(),
		AutoConfirmed:                o.autoConfirmed,
		Version:                      o.version,
		CreatedAt:                    o.createdAt,
		UpdatedAt:                    o.updatedAt,
	}
}
