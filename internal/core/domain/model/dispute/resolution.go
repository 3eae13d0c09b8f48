package dispute

import (
	"errors"
	"fmt"
	"strings"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

var ErrInvalidRefundAmount = errors.New("invalid refund amount")

// Resolution is the admin's ruling. RefundAmount is what goes back to the
// buyer: the full total for refund-buyer, the refund floor for
// release-seller and the admin-chosen amount for partial-refund.
type Resolution struct {
	decision     Decision
	refundAmount kernel.Money
	penalty      *Penalty
	notes        string
}

// RefundLimits bound what a ruling may give back to the buyer. Floor is the
// part of the escrow owed to the buyer whatever the ruling, such as a
// delivery fee no courier ever earned.
type RefundLimits struct {
	Total kernel.Money
	Floor kernel.Money
}

// NewResolution validates the ruling against the order's limits. A partial
// refund must satisfy max(floor, 0.01) <= refundAmount < total.
func NewResolution(decision Decision, refundAmount *kernel.Money, limits RefundLimits, penalty *Penalty, notes string) (Resolution, error) {
	if err := decision.Validate(); err != nil {
		return Resolution{}, err
	}

	r := Resolution{decision: decision, notes: strings.TrimSpace(notes)}
	switch decision {
	case RefundBuyer:
		r.refundAmount = limits.Total
	case ReleaseSeller:
		r.refundAmount = limits.Floor
	case PartialRefund:
		if refundAmount == nil {
			return Resolution{}, errs.NewValueIsRequiredErrorWithCause("refundAmount", ErrInvalidRefundAmount)
		}
		if !refundAmount.IsPositive() || refundAmount.LessThan(limits.Floor) || !refundAmount.LessThan(limits.Total) {
			low := "0.00 (exclusive)"
			if limits.Floor.IsPositive() {
				low = limits.Floor.String()
			}
			return Resolution{}, errs.NewValueIsOutOfRangeErrorWithCause("refundAmount", refundAmount.String(),
				low, fmt.Sprintf("%s (exclusive)", limits.Total), ErrInvalidRefundAmount)
		}
		r.refundAmount = *refundAmount
	}

	if penalty != nil {
		p := *penalty
		if err := p.Type.Validate(); err != nil {
			return Resolution{}, err
		}
		r.penalty = &p
	}
	return r, nil
}

// RestoreResolution rebuilds a stored resolution.
func RestoreResolution(decision Decision, refundAmount kernel.Money, penalty *Penalty, notes string) Resolution {
	r := Resolution{decision: decision, refundAmount: refundAmount, notes: notes}
	if penalty != nil {
		p := *penalty
		r.penalty = &p
	}
	return r
}

func (r Resolution) Decision() Decision         { return r.decision }
func (r Resolution) RefundAmount() kernel.Money { return r.refundAmount }
func (r Resolution) Notes() string              { return r.notes }

// Penalty returns nil when no penalty was imposed.
func (r Resolution) Penalty() *Penalty {
	if r.penalty == nil {
		return nil
	}
	p := *r.penalty
	return &p
}
