package ledger

import (
	"fmt"

	"escrow/internal/pkg/errs"
)

type TransactionType int

const (
	TypeUnknown TransactionType = iota
	EscrowHold
	PlatformCommission
	CourierPayment
	SellerPayout
	Refund
)

var typeNames = map[TransactionType]string{
	TypeUnknown:        "unknown",
	EscrowHold:         "escrow-hold",
	PlatformCommission: "platform-commission",
	CourierPayment:     "courier-payment",
	SellerPayout:       "seller-payout",
	Refund:             "refund",
}

func (t TransactionType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return typeNames[TypeUnknown]
}

func (t TransactionType) Validate() error {
	if t <= TypeUnknown || t > Refund {
		return errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%d is not a valid transaction type", t))
	}
	return nil
}

// IsDisbursement is true for the movements that pay escrow out. The escrow
// hold itself is not one.
func (t TransactionType) IsDisbursement() bool {
	return t == PlatformCommission || t == CourierPayment || t == SellerPayout || t == Refund
}

func ParseTransactionType(name string) (TransactionType, error) {
	for t, n := range typeNames {
		if t != TypeUnknown && n == name {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a valid transaction type", name))
}

type TransactionStatus int

const (
	StatusUnknown TransactionStatus = iota
	Pending
	Completed
	Failed
)

var statusNames = map[TransactionStatus]string{
	StatusUnknown: "unknown",
	Pending:       "pending",
	Completed:     "completed",
	Failed:        "failed",
}

func (s TransactionStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

func ParseTransactionStatus(name string) (TransactionStatus, error) {
	for s, n := range statusNames {
		if s != StatusUnknown && n == name {
			return s, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid transaction status", name))
}
