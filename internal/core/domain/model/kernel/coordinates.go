package kernel

import (
	"errors"
	"math"

	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/guard"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0

	earthRadiusKm = 6371.0
)

var ErrCoordinatesAreNotConstructed = errs.NewValueIsRequiredError("coordinates must be created via NewCoordinates")

// Coordinates is a GPS fix captured with a verification proof.
type Coordinates struct {
	latitude  float64
	longitude float64
	accuracy  *float64
	guard     guard.ConstructorGuard
}

// NewCoordinates validates latitude, longitude and the optional accuracy
// radius in metres.
func NewCoordinates(latitude, longitude float64, accuracy *float64) (Coordinates, error) {
	var problems []error
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		problems = append(problems, errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude))
	}
	if math.IsNaN(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		problems = append(problems, errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude))
	}
	if accuracy != nil && (math.IsNaN(*accuracy) || *accuracy < 0) {
		problems = append(problems, errs.NewValueIsOutOfRangeError("accuracy", *accuracy, 0, "unbounded"))
	}
	if err := errors.Join(problems...); err != nil {
		return Coordinates{}, err
	}

	c := Coordinates{
		latitude:  latitude,
		longitude: longitude,
		guard:     guard.NewConstructorGuard(),
	}
	if accuracy != nil {
		a := *accuracy
		c.accuracy = &a
	}
	return c, nil
}

func (c Coordinates) Latitude() float64  { return c.latitude }
func (c Coordinates) Longitude() float64 { return c.longitude }

// Accuracy returns nil when the device did not report one.
func (c Coordinates) Accuracy() *float64 {
	if c.accuracy == nil {
		return nil
	}
	a := *c.accuracy
	return &a
}

func (c Coordinates) Validate() error {
	return c.guard.Validate(ErrCoordinatesAreNotConstructed)
}

// DistanceKm is the great-circle (haversine) distance to other.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	lat1 := toRadians(c.latitude)
	lat2 := toRadians(other.latitude)
	dLat := toRadians(other.latitude - c.latitude)
	dLon := toRadians(other.longitude - c.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
