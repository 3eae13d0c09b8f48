package verification

import (
	"fmt"

	"escrow/internal/pkg/errs"
)

// Checkpoint is a physical handoff that requires proof.
type Checkpoint int

const (
	CheckpointUnknown Checkpoint = iota
	Pickup
	Delivery
)

var checkpointNames = map[Checkpoint]string{
	CheckpointUnknown: "unknown",
	Pickup:            "pickup",
	Delivery:          "delivery",
}

func (c Checkpoint) String() string {
	if s, ok := checkpointNames[c]; ok {
		return s
	}
	return checkpointNames[CheckpointUnknown]
}

func (c Checkpoint) Validate() error {
	if c != Pickup && c != Delivery {
		return errs.NewValueIsInvalidErrorWithCause("checkpoint", fmt.Errorf("%d is not a valid checkpoint", c))
	}
	return nil
}

func ParseCheckpoint(s string) (Checkpoint, error) {
	switch s {
	case "pickup":
		return Pickup, nil
	case "delivery":
		return Delivery, nil
	default:
		return CheckpointUnknown, errs.NewValueIsInvalidErrorWithCause("checkpoint", fmt.Errorf("%q is not a valid checkpoint", s))
	}
}
