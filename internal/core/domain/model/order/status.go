package order

import (
	"fmt"

	"escrow/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	pending ─> paid ─> courier-assigned ─> picked-up ─> in-transit ─> delivered ─> completed
//	   │        │ └──────────────┴────────────┴────────────┴────────────┴─> disputed ─┬─> refunded
//	   └────────┴─> cancelled                                                         └─> completed
type Status int

const (
	Unknown Status = iota
	Pending
	Paid
	CourierAssigned
	PickedUp
	InTransit
	Delivered
	Completed
	Disputed
	Refunded
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:         "unknown",
	Pending:         "pending",
	Paid:            "paid",
	CourierAssigned: "courier-assigned",
	PickedUp:        "picked-up",
	InTransit:       "in-transit",
	Delivered:       "delivered",
	Completed:       "completed",
	Disputed:        "disputed",
	Refunded:        "refunded",
	Cancelled:       "cancelled",
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Paid, CourierAssigned, PickedUp, InTransit, Delivered, Completed, Disputed, Refunded, Cancelled}
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func ParseStatus(name string) (Status, error) {
	for _, s := range AllStatuses() {
		if statusNames[s] == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Refunded || s == Cancelled
}

// IsDisputable reports whether a dispute may be raised from s.
func (s Status) IsDisputable() bool {
	return s == Paid || s == CourierAssigned || s == PickedUp || s == InTransit || s == Delivered
}

// EscrowStatus tracks the funds held for an order.
type EscrowStatus int

const (
	EscrowUnknown EscrowStatus = iota
	EscrowUnfunded
	EscrowHeld
	EscrowReleased
	EscrowRefunded
)

var escrowNames = map[EscrowStatus]string{
	EscrowUnknown:  "unknown",
	EscrowUnfunded: "unfunded",
	EscrowHeld:     "held",
	EscrowReleased: "released",
	EscrowRefunded: "refunded",
}

func (e EscrowStatus) String() string {
	if name, ok := escrowNames[e]; ok {
		return name
	}
	return escrowNames[EscrowUnknown]
}

func ParseEscrowStatus(name string) (EscrowStatus, error) {
	for e, n := range escrowNames {
		if e != EscrowUnknown && n == name {
			return e, nil
		}
	}
	return EscrowUnknown, errs.NewValueIsInvalidErrorWithCause("escrowStatus", fmt.Errorf("%q is not a valid escrow status", name))
}

// PaymentMethod is how the buyer paid into escrow.
type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = iota
	MTNMobileMoney
	VodafoneCash
	AirtelTigoMoney
	CashOnDelivery
	BankTransfer
)

var paymentMethodNames = map[PaymentMethod]string{
	PaymentMethodUnknown: "unknown",
	MTNMobileMoney:       "mtn-momo",
	VodafoneCash:         "vodafone-cash",
	AirtelTigoMoney:      "airteltigo-money",
	CashOnDelivery:       "cash-on-delivery",
	BankTransfer:         "bank-transfer",
}

func (p PaymentMethod) String() string {
	if name, ok := paymentMethodNames[p]; ok {
		return name
	}
	return paymentMethodNames[PaymentMethodUnknown]
}

func (p PaymentMethod) Validate() error {
	if p <= PaymentMethodUnknown || p > BankTransfer {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%d is not a valid payment method", p))
	}
	return nil
}

func ParsePaymentMethod(name string) (PaymentMethod, error) {
	for p, n := range paymentMethodNames {
		if p != PaymentMethodUnknown && n == name {
			return p, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a valid payment method", name))
}
