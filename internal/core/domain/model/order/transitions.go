package order

import (
	"errors"
	"fmt"

	"escrow/internal/pkg/errs"
)

var ErrInvalidTransition = errors.New("invalid transition")

// Trigger is an event that may move an order to another status.
type Trigger int

const (
	TriggerUnknown Trigger = iota
	TriggerConfirmPayment
	TriggerAssignCourier
	TriggerConfirmPickup
	TriggerMarkInTransit
	TriggerConfirmDelivery
	TriggerComplete
	TriggerRaiseDispute
	TriggerResolveRefund
	TriggerResolveRelease
	TriggerResolvePartial
	TriggerCancel
)

var triggerNames = map[Trigger]string{
	TriggerUnknown:         "unknown",
	TriggerConfirmPayment:  "confirm-payment",
	TriggerAssignCourier:   "assign-courier",
	TriggerConfirmPickup:   "confirm-pickup",
	TriggerMarkInTransit:   "mark-in-transit",
	TriggerConfirmDelivery: "confirm-delivery",
	TriggerComplete:        "complete",
	TriggerRaiseDispute:    "raise-dispute",
	TriggerResolveRefund:   "resolve-refund",
	TriggerResolveRelease:  "resolve-release",
	TriggerResolvePartial:  "resolve-partial",
	TriggerCancel:          "cancel",
}

func (t Trigger) String() string {
	if name, ok := triggerNames[t]; ok {
		return name
	}
	return triggerNames[TriggerUnknown]
}

type rule struct {
	from []Status
	to   Status
}

// transitions is the only place order statuses are allowed to change.
var transitions = map[Trigger]rule{
	TriggerConfirmPayment:  {from: []Status{Pending}, to: Paid},
	TriggerAssignCourier:   {from: []Status{Paid}, to: CourierAssigned},
	TriggerConfirmPickup:   {from: []Status{CourierAssigned}, to: PickedUp},
	TriggerMarkInTransit:   {from: []Status{PickedUp}, to: InTransit},
	TriggerConfirmDelivery: {from: []Status{InTransit}, to: Delivered},
	TriggerComplete:        {from: []Status{Delivered}, to: Completed},
	TriggerRaiseDispute:    {from: []Status{Paid, CourierAssigned, PickedUp, InTransit, Delivered}, to: Disputed},
	TriggerResolveRefund:   {from: []Status{Disputed}, to: Refunded},
	TriggerResolveRelease:  {from: []Status{Disputed}, to: Completed},
	TriggerResolvePartial:  {from: []Status{Disputed}, to: Completed},
	TriggerCancel:          {from: []Status{Pending, Paid}, to: Cancelled},
}

// Triggers lists every trigger that has a rule.
func Triggers() []Trigger {
	return []Trigger{
		TriggerConfirmPayment, TriggerAssignCourier, TriggerConfirmPickup, TriggerMarkInTransit,
		TriggerConfirmDelivery, TriggerComplete, TriggerRaiseDispute, TriggerResolveRefund,
		TriggerResolveRelease, TriggerResolvePartial, TriggerCancel,
	}
}

// Next returns the status trigger t leads to from s, or an InvalidTransition
// precondition error.
func (s Status) Next(t Trigger) (Status, error) {
	r, ok := transitions[t]
	if !ok {
		return Unknown, errs.NewPreconditionFailedError(ErrInvalidTransition, fmt.Sprintf("unknown trigger %s", t))
	}
	for _, from := range r.from {
		if from == s {
			return r.to, nil
		}
	}
	return Unknown, errs.NewPreconditionFailedError(ErrInvalidTransition, fmt.Sprintf("%s does not accept %s", s, t))
}

// Accepts reports whether t is valid from s.
func (s Status) Accepts(t Trigger) bool {
	_, err := s.Next(t)
	return err == nil
}
