package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/pricing"
	"escrow/internal/core/domain/model/verification"
	"escrow/internal/pkg/ddd"
	"escrow/internal/pkg/errs"
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	ErrPaymentAmountMismatch  = errors.New("payment amount mismatch")
	ErrOrderNotDisputable     = errors.New("order not disputable")
	ErrConfirmationWindowOpen = errors.New("confirmation window still open")
)

// Order is the aggregate root of one escrowed sale.
//
// Order follows these invariants:
//   - The fee breakdown conserves money (checked by pricing)
//   - escrowAmount equals totalAmount from payment on, and zero before
//   - Pickup and delivery codes are issued at creation and never change
//   - statusHistory only grows, by exactly one entry per transition
//   - version grows by one per transition
type Order struct {
	ddd.BaseAggregate

	id        kernel.UUID
	listingID kernel.UUID
	buyerID   kernel.UUID
	sellerID  kernel.UUID
	courierID *kernel.UUID

	fees         pricing.Breakdown
	escrowAmount kernel.Money
	escrowStatus EscrowStatus

	pickupAddress   string
	deliveryAddress string
	pickupCode      verification.Code
	deliveryCode    verification.Code

	paymentMethod    PaymentMethod
	paymentReference string

	status                       Status
	history                      []HistoryEntry
	deliveryConfirmationDeadline *time.Time
	autoConfirmed                bool

	// loadedStatus and loadedVersion are what storage held when the order was
	// read; repositories update conditionally on both.
	version       int64
	loadedStatus  Status
	loadedVersion int64

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// Parties groups the external identities an order references.
type Parties struct {
	ListingID kernel.UUID
	BuyerID   kernel.UUID
	SellerID  kernel.UUID
}

// NewOrder creates a pending, unfunded order and records the creation in its
// history. The codes come from verification.GenerateCode.
func NewOrder(
	id kernel.UUID,
	parties Parties,
	fees pricing.Breakdown,
	pickupAddress, deliveryAddress string,
	paymentMethod PaymentMethod,
	pickupCode, deliveryCode verification.Code,
	actor kernel.Actor,
	now time.Time,
) (*Order, error) {
	o := &Order{
		escrowStatus:  EscrowUnfunded,
		status:        Pending,
		loadedStatus:  Unknown,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setParties(parties),
		o.setFees(fees),
		o.setAddresses(pickupAddress, deliveryAddress),
		o.setPaymentMethod(paymentMethod),
		o.setCodes(pickupCode, deliveryCode),
	); err != nil {
		return nil, err
	}

	entry := HistoryEntry{Status: Pending, At: o.createdAt, ActorID: actor.ID(), ActorRole: actor.Role(), Note: "order placed"}
	o.history = append(o.history, entry)
	o.RaiseDomainEvent(newStatusChanged(o, Unknown, entry))
	return o, nil
}

// Validate ensures the order was created through NewOrder or Restore.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                 { return o.id }
func (o *Order) ListingID() kernel.UUID          { return o.listingID }
func (o *Order) BuyerID() kernel.UUID            { return o.buyerID }
func (o *Order) SellerID() kernel.UUID           { return o.sellerID }
func (o *Order) Fees() pricing.Breakdown         { return o.fees }
func (o *Order) EscrowAmount() kernel.Money      { return o.escrowAmount }
func (o *Order) EscrowStatus() EscrowStatus      { return o.escrowStatus }
func (o *Order) PickupAddress() string           { return o.pickupAddress }
func (o *Order) DeliveryAddress() string         { return o.deliveryAddress }
func (o *Order) PickupCode() verification.Code   { return o.pickupCode }
func (o *Order) DeliveryCode() verification.Code { return o.deliveryCode }
func (o *Order) PaymentMethod() PaymentMethod    { return o.paymentMethod }
func (o *Order) PaymentReference() string        { return o.paymentReference }
func (o *Order) Status() Status                  { return o.status }
func (o *Order) AutoConfirmed() bool             { return o.autoConfirmed }
func (o *Order) Version() int64                  { return o.version }
func (o *Order) LoadedStatus() Status            { return o.loadedStatus }
func (o *Order) LoadedVersion() int64            { return o.loadedVersion }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) UpdatedAt() time.Time            { return o.updatedAt }
func (o *Order) History() []HistoryEntry         { return append([]HistoryEntry(nil), o.history...) }
func (o *Order) IsNew() bool                     { return o.loadedStatus == Unknown }
func (o *Order) HasCourier() bool                { return o.courierID != nil }
func (o *Order) IsFrozen() bool                  { return o.status == Disputed }
func (o *Order) IsTerminal() bool                { return o.status.IsTerminal() }

// CodeFor returns the code issued for checkpoint c.
func (o *Order) CodeFor(c verification.Checkpoint) verification.Code {
	if c == verification.Pickup {
		return o.pickupCode
	}
	return o.deliveryCode
}

// CourierID returns nil until a courier is assigned.
func (o *Order) CourierID() *kernel.UUID {
	if o.courierID == nil {
		return nil
	}
	id := *o.courierID
	return &id
}

// UnearnedDeliveryFee is the delivery fee while no courier has been
// assigned, zero afterwards. It always goes back to the buyer.
func (o *Order) UnearnedDeliveryFee() kernel.Money {
	if o.courierID != nil {
		return kernel.ZeroMoney()
	}
	return o.fees.DeliveryFee()
}

// DeliveryConfirmationDeadline is nil until delivery is verified.
func (o *Order) DeliveryConfirmationDeadline() *time.Time {
	if o.deliveryConfirmationDeadline == nil {
		return nil
	}
	d := *o.deliveryConfirmationDeadline
	return &d
}

// MarkPersisted is called by repositories after a successful write so the
// next conditional update compares against the stored state.
func (o *Order) MarkPersisted() {
	o.loadedStatus = o.status
	o.loadedVersion = o.version
}

// ConfirmPayment moves a pending order to paid once the external gateway
// reports that exactly totalAmount reached escrow.
func (o *Order) ConfirmPayment(amount kernel.Money, reference string, actor kernel.Actor, now time.Time) error {
	if !actor.IsPrivileged() {
		return kernel.NotPermitted(actor, "confirm payments")
	}
	next, err := o.status.Next(TriggerConfirmPayment)
	if err != nil {
		return err
	}
	if !amount.Equal(o.fees.TotalAmount()) {
		return errs.NewPreconditionFailedError(ErrPaymentAmountMismatch,
			fmt.Sprintf("received %s, expected %s", amount, o.fees.TotalAmount()))
	}

	o.escrowAmount = o.fees.TotalAmount()
	o.escrowStatus = EscrowHeld
	o.paymentReference = strings.TrimSpace(reference)
	o.apply(next, actor, now, "payment confirmed")
	return nil
}

// AssignCourier records the courier chosen by dispatch. Availability is
// checked by the caller against the member directory.
func (o *Order) AssignCourier(courierID kernel.UUID, actor kernel.Actor, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	selfAssign := actor.Is(kernel.RoleCourier) && actor.ID().IsEqual(courierID)
	if !actor.IsPrivileged() && !selfAssign {
		return kernel.NotPermitted(actor, "assign couriers")
	}
	if courierID.IsEqual(o.buyerID) || courierID.IsEqual(o.sellerID) {
		return errs.NewValueIsInvalidErrorWithCause("courierId", errors.New("courier must not be a party to the sale"))
	}
	next, err := o.status.Next(TriggerAssignCourier)
	if err != nil {
		return err
	}

	o.courierID = &courierID
	o.apply(next, actor, now, "courier assigned")
	return nil
}

// VerifyCheckpoint confirms proof against the code issued for its checkpoint
// and fires picked-up or delivered. A verified delivery opens the buyer's
// confirmation window.
func (o *Order) VerifyCheckpoint(proof *verification.Proof, actor kernel.Actor, now time.Time, window time.Duration) error {
	if err := proof.Validate(); err != nil {
		return err
	}
	if !proof.OrderID().IsEqual(o.id) {
		return errs.NewValueIsInvalidErrorWithCause("proof", fmt.Errorf("proof belongs to order %s", proof.OrderID()))
	}
	if !o.isAssignedCourier(actor) && !actor.Is(kernel.RoleAdmin) {
		return kernel.NotPermitted(actor, "submit proofs for this order")
	}
	if err := proof.Confirm(o.CodeFor(proof.Checkpoint())); err != nil {
		return err
	}

	trigger, note := TriggerConfirmPickup, "pickup verified"
	if proof.Checkpoint() == verification.Delivery {
		trigger, note = TriggerConfirmDelivery, "delivery verified"
	}
	next, err := o.status.Next(trigger)
	if err != nil {
		return err
	}

	if trigger == TriggerConfirmDelivery {
		deadline := now.UTC().Add(window)
		o.deliveryConfirmationDeadline = &deadline
	}
	o.apply(next, actor, now, note)
	return nil
}

// MarkInTransit is reported by the assigned courier after pickup.
func (o *Order) MarkInTransit(actor kernel.Actor, now time.Time) error {
	if !o.isAssignedCourier(actor) && !actor.Is(kernel.RoleAdmin) {
		return kernel.NotPermitted(actor, "mark this order in transit")
	}
	next, err := o.status.Next(TriggerMarkInTransit)
	if err != nil {
		return err
	}
	o.apply(next, actor, now, "in transit")
	return nil
}

// ConfirmReceipt is the buyer's explicit acceptance of a delivered order.
func (o *Order) ConfirmReceipt(actor kernel.Actor, now time.Time) error {
	isBuyer := actor.Is(kernel.RoleBuyer) && actor.ID().IsEqual(o.buyerID)
	if !isBuyer && !actor.Is(kernel.RoleAdmin) {
		return kernel.NotPermitted(actor, "confirm receipt of this order")
	}
	return o.complete(actor, now, false, "receipt confirmed by buyer")
}

// AutoConfirm completes a delivered order whose confirmation window has
// elapsed. It takes the same path as ConfirmReceipt.
func (o *Order) AutoConfirm(now time.Time) error {
	if o.status != Delivered {
		return errs.NewPreconditionFailedError(ErrInvalidTransition, fmt.Sprintf("%s does not accept %s", o.status, TriggerComplete))
	}
	if o.deliveryConfirmationDeadline == nil || !ShouldAutoConfirm(*o.deliveryConfirmationDeadline, now) {
		return errs.NewPreconditionFailedError(ErrConfirmationWindowOpen, o.id.String())
	}
	return o.complete(kernel.SystemActor(), now, true, "auto-confirmed after deadline")
}

func (o *Order) complete(actor kernel.Actor, now time.Time, auto bool, note string) error {
	next, err := o.status.Next(TriggerComplete)
	if err != nil {
		return err
	}
	o.escrowStatus = EscrowReleased
	o.autoConfirmed = auto
	o.apply(next, actor, now, note)
	return nil
}

// RaiseDispute freezes the order. A delivered order stays disputable until
// the buyer or the auto-confirmation sweep completes it.
func (o *Order) RaiseDispute(actor kernel.Actor, now time.Time, reason string) error {
	if !o.IsParty(actor) {
		return kernel.NotPermitted(actor, "dispute this order")
	}
	if !o.status.IsDisputable() {
		return errs.NewPreconditionFailedError(ErrOrderNotDisputable, fmt.Sprintf("order is %s", o.status))
	}
	next, err := o.status.Next(TriggerRaiseDispute)
	if err != nil {
		return err
	}
	o.apply(next, actor, now, reason)
	return nil
}

// Resolution outcomes applied to a disputed order.
func (o *Order) ResolveRefund(actor kernel.Actor, now time.Time, note string) error {
	return o.resolve(TriggerResolveRefund, EscrowRefunded, actor, now, note)
}

func (o *Order) ResolveRelease(actor kernel.Actor, now time.Time, note string) error {
	return o.resolve(TriggerResolveRelease, EscrowReleased, actor, now, note)
}

// ResolvePartial completes the order; the escrow is released with part of it
// paid back to the buyer.
func (o *Order) ResolvePartial(actor kernel.Actor, now time.Time, note string) error {
	return o.resolve(TriggerResolvePartial, EscrowReleased, actor, now, note)
}

func (o *Order) resolve(trigger Trigger, escrow EscrowStatus, actor kernel.Actor, now time.Time, note string) error {
	if !actor.Is(kernel.RoleAdmin) {
		return kernel.NotPermitted(actor, "resolve disputes")
	}
	next, err := o.status.Next(trigger)
	if err != nil {
		return err
	}
	o.escrowStatus = escrow
	o.apply(next, actor, now, note)
	return nil
}

// Cancel is allowed before a courier is assigned. A paid order is refunded in
// full; refunded reports whether the caller must record that refund.
func (o *Order) Cancel(actor kernel.Actor, now time.Time, reason string) (refunded bool, err error) {
	if !o.IsParty(actor) && !actor.Is(kernel.RoleAdmin) {
		return false, kernel.NotPermitted(actor, "cancel this order")
	}
	if o.courierID != nil {
		return false, errs.NewPreconditionFailedError(ErrInvalidTransition, "courier already assigned")
	}
	next, err := o.status.Next(TriggerCancel)
	if err != nil {
		return false, err
	}

	refunded = o.escrowStatus == EscrowHeld
	if refunded {
		o.escrowStatus = EscrowRefunded
	}
	o.apply(next, actor, now, reason)
	return refunded, nil
}

// IsParty reports whether actor is the buyer or the seller of this order.
func (o *Order) IsParty(actor kernel.Actor) bool {
	return (actor.Is(kernel.RoleBuyer) && actor.ID().IsEqual(o.buyerID)) ||
		(actor.Is(kernel.RoleSeller) && actor.ID().IsEqual(o.sellerID))
}

func (o *Order) isAssignedCourier(actor kernel.Actor) bool {
	return o.courierID != nil && actor.Is(kernel.RoleCourier) && actor.ID().IsEqual(*o.courierID)
}

func (o *Order) apply(next Status, actor kernel.Actor, now time.Time, note string) {
	from := o.status
	entry := HistoryEntry{
		Status:    next,
		At:        now.UTC(),
		ActorID:   actor.ID(),
		ActorRole: actor.Role(),
		Note:      strings.TrimSpace(note),
	}
	o.status = next
	o.history = append(o.history, entry)
	o.version++
	o.updatedAt = entry.At
	o.RaiseDomainEvent(newStatusChanged(o, from, entry))
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(p Parties) error {
	if err := errors.Join(p.ListingID.Validate(), p.BuyerID.Validate(), p.SellerID.Validate()); err != nil {
		return err
	}
	if p.BuyerID.IsEqual(p.SellerID) {
		return errs.NewValueIsInvalidErrorWithCause("sellerId", errors.New("buyer and seller must differ"))
	}
	o.listingID, o.buyerID, o.sellerID = p.ListingID, p.BuyerID, p.SellerID
	return nil
}

func (o *Order) setFees(fees pricing.Breakdown) error {
	if err := fees.Check(); err != nil {
		return err
	}
	o.fees = fees
	o.escrowAmount = kernel.ZeroMoney()
	return nil
}

func (o *Order) setAddresses(pickup, delivery string) error {
	pickup, delivery = strings.TrimSpace(pickup), strings.TrimSpace(delivery)
	var problems []error
	if pickup == "" {
		problems = append(problems, errs.NewValueIsRequiredError("pickupAddress"))
	}
	if delivery == "" {
		problems = append(problems, errs.NewValueIsRequiredError("deliveryAddress"))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}
	o.pickupAddress, o.deliveryAddress = pickup, delivery
	return nil
}

func (o *Order) setPaymentMethod(m PaymentMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	o.paymentMethod = m
	return nil
}

func (o *Order) setCodes(pickup, delivery verification.Code) error {
	if err := errors.Join(pickup.Validate(), delivery.Validate()); err != nil {
		return err
	}
	o.pickupCode, o.deliveryCode = pickup, delivery
	return nil
}
