package party

import (
	"fmt"

	"escrow/internal/pkg/errs"
)

// Availability is a courier's willingness to take a new order.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	Available
	Busy
	Offline
)

var availabilityNames = map[Availability]string{
	AvailabilityUnknown: "unknown",
	Available:           "available",
	Busy:                "busy",
	Offline:             "offline",
}

func (a Availability) String() string {
	if name, ok := availabilityNames[a]; ok {
		return name
	}
	return availabilityNames[AvailabilityUnknown]
}

func (a Availability) Validate() error {
	if a <= AvailabilityUnknown || a > Offline {
		return errs.NewValueIsInvalidErrorWithCause("availability", fmt.Errorf("%d is not a valid availability", a))
	}
	return nil
}

func ParseAvailability(name string) (Availability, error) {
	for a, n := range availabilityNames {
		if a != AvailabilityUnknown && n == name {
			return a, nil
		}
	}
	return AvailabilityUnknown, errs.NewValueIsInvalidErrorWithCause("availability", fmt.Errorf("%q is not a valid availability", name))
}
