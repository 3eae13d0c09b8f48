// Package pricing turns an item price, a delivery fee and a commission rate
// into the payout breakdown that an order escrows.
package pricing

import (
	"errors"
	"fmt"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrConservationViolation = errors.New("fee breakdown does not conserve money")

	// DefaultCommissionRate and DefaultDeliveryFee are the marketplace defaults.
	DefaultCommissionRate = decimal.RequireFromString("0.05")
	DefaultDeliveryFee    = kernel.MustMoney("20.00")
)

// Breakdown is the fee split of one order. It always satisfies
//
//	PlatformCommission + SellerPayout == ItemPrice
//	ItemPrice + DeliveryFee == TotalAmount
type Breakdown struct {
	itemPrice          kernel.Money
	deliveryFee        kernel.Money
	commissionRate     decimal.Decimal
	platformCommission kernel.Money
	sellerPayout       kernel.Money
	totalAmount        kernel.Money
}

// ComputeFees is pure and deterministic. The commission is rounded half-up
// to the minor unit and the seller payout absorbs the remainder.
func ComputeFees(itemPrice, deliveryFee kernel.Money, commissionRate decimal.Decimal) (Breakdown, error) {
	if err := ValidateRate(commissionRate); err != nil {
		return Breakdown{}, err
	}

	commission := itemPrice.MulRate(commissionRate)
	sellerPayout, err := itemPrice.Sub(commission)
	if err != nil {
		return Breakdown{}, errs.NewIntegrityViolationError(ErrConservationViolation, err.Error())
	}

	b := Breakdown{
		itemPrice:          itemPrice,
		deliveryFee:        deliveryFee,
		commissionRate:     commissionRate,
		platformCommission: commission,
		sellerPayout:       sellerPayout,
		totalAmount:        itemPrice.Add(deliveryFee),
	}
	if err = b.Check(); err != nil {
		return Breakdown{}, err
	}
	return b, nil
}

// RestoreBreakdown rebuilds a stored breakdown and re-checks conservation.
func RestoreBreakdown(
	itemPrice, deliveryFee, platformCommission, sellerPayout, totalAmount kernel.Money,
	commissionRate decimal.Decimal,
) (Breakdown, error) {
	b := Breakdown{
		itemPrice:          itemPrice,
		deliveryFee:        deliveryFee,
		commissionRate:     commissionRate,
		platformCommission: platformCommission,
		sellerPayout:       sellerPayout,
		totalAmount:        totalAmount,
	}
	if err := b.Check(); err != nil {
		return Breakdown{}, err
	}
	return b, nil
}

func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return errs.NewValueIsOutOfRangeError("commissionRate", rate.String(), 0, 1)
	}
	return nil
}

// Check verifies both conservation equations.
func (b Breakdown) Check() error {
	if !b.platformCommission.Add(b.sellerPayout).Equal(b.itemPrice) {
		return errs.NewIntegrityViolationError(ErrConservationViolation,
			fmt.Sprintf("commission %s + seller payout %s != item price %s", b.platformCommission, b.sellerPayout, b.itemPrice))
	}
	if !b.itemPrice.Add(b.deliveryFee).Equal(b.totalAmount) {
		return errs.NewIntegrityViolationError(ErrConservationViolation,
			fmt.Sprintf("item price %s + delivery fee %s != total %s", b.itemPrice, b.deliveryFee, b.totalAmount))
	}
	return nil
}

func (b Breakdown) ItemPrice() kernel.Money          { return b.itemPrice }
func (b Breakdown) DeliveryFee() kernel.Money        { return b.deliveryFee }
func (b Breakdown) CommissionRate() decimal.Decimal  { return b.commissionRate }
func (b Breakdown) PlatformCommission() kernel.Money { return b.platformCommission }
func (b Breakdown) SellerPayout() kernel.Money       { return b.sellerPayout }
func (b Breakdown) TotalAmount() kernel.Money        { return b.totalAmount }

// CourierPayout equals the delivery fee.
func (b Breakdown) CourierPayout() kernel.Money { return b.deliveryFee }

// PlatformEarnings equals the commission; the platform keeps nothing of the delivery fee.
func (b Breakdown) PlatformEarnings() kernel.Money { return b.platformCommission }
