package services

import (
	"fmt"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/ledger"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/pricing"
	"escrow/internal/pkg/errs"
)

// Outcome names the money movement an order transition calls for.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	// OutcomeHold moves the buyer's payment into escrow.
	OutcomeHold
	// OutcomeRelease pays the seller, the courier and the platform.
	OutcomeRelease
	// OutcomeRefund returns the whole escrow to the buyer.
	OutcomeRefund
	// OutcomePartial refunds part of the escrow and releases the rest.
	OutcomePartial
)

var outcomeNames = map[Outcome]string{
	OutcomeUnknown: "unknown",
	OutcomeHold:    "hold",
	OutcomeRelease: "release",
	OutcomeRefund:  "refund",
	OutcomePartial: "partial",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return outcomeNames[OutcomeUnknown]
}

// Settlement plans the ledger entries for an order outcome.
//
// Every disbursement plan sums exactly to the order's escrow amount. Entries
// with a zero amount are left out. When no courier was ever assigned the
// delivery fee was never earned and goes back to the buyer.
//
// A refund R is always the whole amount the buyer gets back, so the refund
// entry equals the ruling. It is drawn from a fixed waterfall: the unearned
// delivery fee, then the seller payout, then the courier payment, and only
// then the platform commission. R may not be below the unearned fee.
//
// Example usage:
//
//	entries, err := services.NewSettlement().Plan(o, services.OutcomePartial, &refund)
//	if err != nil {
//	    // integrity violation, nothing should be recorded
//	}
type Settlement struct{}

func NewSettlement() Settlement {
	return Settlement{}
}

// Plan returns the entries for the outcome. refund is only read for OutcomePartial.
func (s Settlement) Plan(o *order.Order, outcome Outcome, refund *kernel.Money) ([]ledger.Entry, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	fees := o.Fees()
	if err := fees.Check(); err != nil {
		return nil, err
	}

	buyer, seller := o.BuyerID(), o.SellerID()
	courier := o.CourierID()
	label := o.ID().String()

	switch outcome {
	case OutcomeHold:
		return []ledger.Entry{{
			Type:        ledger.EscrowHold,
			Amount:      fees.TotalAmount(),
			From:        &buyer,
			Description: "escrow hold for order " + label,
		}}, nil

	case OutcomeRefund:
		return s.verify(o, []ledger.Entry{{
			Type:        ledger.Refund,
			Amount:      o.EscrowAmount(),
			To:          &buyer,
			Description: "full refund for order " + label,
		}})

	case OutcomeRelease:
		return s.split(o, o.UnearnedDeliveryFee(), &buyer, &seller, courier, label)

	case OutcomePartial:
		if refund == nil {
			return nil, errs.NewValueIsRequiredError("refundAmount")
		}
		floor := o.UnearnedDeliveryFee()
		if !refund.IsPositive() || refund.LessThan(floor) || !refund.LessThan(fees.TotalAmount()) {
			return nil, errs.NewValueIsOutOfRangeError("refundAmount", refund.String(), floor.String(), fees.TotalAmount().String())
		}
		return s.split(o, *refund, &buyer, &seller, courier, label)
	}

	return nil, errs.NewValueIsInvalidErrorWithCause("outcome", fmt.Errorf("%s has no settlement", outcome))
}

func (s Settlement) split(o *order.Order, refund kernel.Money, buyer, seller, courier *kernel.UUID, label string) ([]ledger.Entry, error) {
	fees := o.Fees()

	feePool := o.UnearnedDeliveryFee()
	sellerPool := fees.SellerPayout()
	commissionPool := fees.PlatformCommission()
	courierPool := kernel.ZeroMoney()
	if courier != nil {
		courierPool = fees.DeliveryFee()
	}

	remaining := refund
	draw := func(pool *kernel.Money) {
		taken := remaining.Min(*pool)
		*pool, _ = pool.Sub(taken)
		remaining, _ = remaining.Sub(taken)
	}
	draw(&feePool)
	draw(&sellerPool)
	draw(&courierPool)
	draw(&commissionPool)

	if feePool.IsPositive() || remaining.IsPositive() {
		return nil, errs.NewIntegrityViolationError(pricing.ErrConservationViolation,
			fmt.Sprintf("order %s cannot refund %s", o.ID(), refund))
	}

	description := "refund for order " + label
	if unearned := o.UnearnedDeliveryFee(); unearned.IsPositive() {
		description = fmt.Sprintf("refund for order %s, includes unearned delivery fee %s", label, unearned)
	}

	var entries []ledger.Entry
	add := func(e ledger.Entry) {
		if e.Amount.IsPositive() {
			entries = append(entries, e)
		}
	}
	add(ledger.Entry{Type: ledger.Refund, Amount: refund, To: buyer, Description: description})
	add(ledger.Entry{Type: ledger.SellerPayout, Amount: sellerPool, To: seller, Description: "seller payout for order " + label})
	add(ledger.Entry{Type: ledger.CourierPayment, Amount: courierPool, To: courier, Description: "courier payment for order " + label})
	add(ledger.Entry{Type: ledger.PlatformCommission, Amount: commissionPool, Description: "platform commission for order " + label})

	return s.verify(o, entries)
}

// verify rejects a plan that would create or destroy money.
func (s Settlement) verify(o *order.Order, entries []ledger.Entry) ([]ledger.Entry, error) {
	total := kernel.ZeroMoney()
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	if !total.Equal(o.EscrowAmount()) {
		return nil, errs.NewIntegrityViolationError(pricing.ErrConservationViolation,
			fmt.Sprintf("order %s disburses %s from escrow of %s", o.ID(), total, o.EscrowAmount()))
	}
	return entries, nil
}
