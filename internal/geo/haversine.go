package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMetres is the mean Earth radius used for great-circle distances.
const EarthRadiusMetres = 6371000.0

var ErrInvalidCoordinate = errors.New("invalid coordinate")

type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

// Distance returns the Haversine distance between a and b in metres.
func Distance(a, b Point) (float64, error) {
	if !a.Valid() || !b.Valid() {
		return 0, fmt.Errorf("%w: (%f, %f) or (%f, %f)", ErrInvalidCoordinate,
			a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	}

	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMetres * c, nil
}

// Within reports whether p lies inside the circle of radius metres around centre.
func Within(p, centre Point, radius float64) (bool, error) {
	d, err := Distance(p, centre)
	if err != nil {
		return false, err
	}
	return d <= radius, nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
