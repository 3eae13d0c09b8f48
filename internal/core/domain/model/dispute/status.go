package dispute

import (
	"fmt"

	"escrow/internal/pkg/errs"
)

type Status int

const (
	StatusUnknown Status = iota
	Open
	UnderReview
	ResolvedRefund
	ResolvedRelease
	ResolvedPartial
)

var statusNames = map[Status]string{
	StatusUnknown:   "unknown",
	Open:            "open",
	UnderReview:     "under-review",
	ResolvedRefund:  "resolved-refund",
	ResolvedRelease: "resolved-release",
	ResolvedPartial: "resolved-partial",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if s != StatusUnknown && n == name {
			return s, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid dispute status", name))
}

// IsActive is true while the dispute blocks the order.
func (s Status) IsActive() bool {
	return s == Open || s == UnderReview
}

func (s Status) IsResolved() bool {
	return s == ResolvedRefund || s == ResolvedRelease || s == ResolvedPartial
}

// Decision is the admin's monetary ruling.
type Decision int

const (
	DecisionUnknown Decision = iota
	RefundBuyer
	ReleaseSeller
	PartialRefund
)

var decisionNames = map[Decision]string{
	DecisionUnknown: "unknown",
	RefundBuyer:     "refund-buyer",
	ReleaseSeller:   "release-seller",
	PartialRefund:   "partial-refund",
}

func (d Decision) String() string {
	if name, ok := decisionNames[d]; ok {
		return name
	}
	return decisionNames[DecisionUnknown]
}

func (d Decision) Validate() error {
	if d <= DecisionUnknown || d > PartialRefund {
		return errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%d is not a valid decision", d))
	}
	return nil
}

func ParseDecision(name string) (Decision, error) {
	for d, n := range decisionNames {
		if d != DecisionUnknown && n == name {
			return d, nil
		}
	}
	return DecisionUnknown, errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is not a valid decision", name))
}

// resolvedStatus maps a decision to the terminal dispute status it produces.
func (d Decision) resolvedStatus() Status {
	switch d {
	case RefundBuyer:
		return ResolvedRefund
	case ReleaseSeller:
		return ResolvedRelease
	case PartialRefund:
		return ResolvedPartial
	default:
		return StatusUnknown
	}
}
