package dispute

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

type PenaltyType int

const (
	PenaltyUnknown PenaltyType = iota
	Warning
	Strike
	Ban
)

var penaltyNames = map[PenaltyType]string{
	PenaltyUnknown: "unknown",
	Warning:        "warning",
	Strike:         "strike",
	Ban:            "ban",
}

func (p PenaltyType) String() string {
	if name, ok := penaltyNames[p]; ok {
		return name
	}
	return penaltyNames[PenaltyUnknown]
}

func (p PenaltyType) Validate() error {
	if p <= PenaltyUnknown || p > Ban {
		return errs.NewValueIsInvalidErrorWithCause("penaltyType", fmt.Errorf("%d is not a valid penalty", p))
	}
	return nil
}

func ParsePenaltyType(name string) (PenaltyType, error) {
	for p, n := range penaltyNames {
		if p != PenaltyUnknown && n == name {
			return p, nil
		}
	}
	return PenaltyUnknown, errs.NewValueIsInvalidErrorWithCause("penaltyType", fmt.Errorf("%q is not a valid penalty", name))
}

// Penalty is applied to one user as part of a resolution.
type Penalty struct {
	UserID    kernel.UUID
	Type      PenaltyType
	Reason    string
	AppliedAt time.Time
}

func NewPenalty(userID kernel.UUID, penaltyType PenaltyType, reason string, at time.Time) (Penalty, error) {
	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("penaltyReason")
	}
	if err := errors.Join(userID.Validate(), penaltyType.Validate(), reasonErr); err != nil {
		return Penalty{}, err
	}
	return Penalty{UserID: userID, Type: penaltyType, Reason: reason, AppliedAt: at.UTC()}, nil
}
