package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bangalore = Point{Latitude: 12.9716, Longitude: 77.5946}

func TestDistance_Properties(t *testing.T) {
	t.Parallel()

	points := []Point{
		bangalore,
		{Latitude: 0, Longitude: 0},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
	}
	for _, a := range points {
		d, err := Distance(a, a)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-6)

		for _, b := range points {
			ab, err := Distance(a, b)
			require.NoError(t, err)
			ba, err := Distance(b, a)
			require.NoError(t, err)
			assert.InDelta(t, ab, ba, 1e-6)
		}
	}
}

func TestDistance_KnownValues(t *testing.T) {
	t.Parallel()

	// one degree of latitude is ~111.195 km on a 6371 km sphere
	d, err := Distance(Point{0, 0}, Point{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 111195, d, 1)

	// ~10 km north of the site centre
	north := Point{Latitude: bangalore.Latitude + 0.0899322, Longitude: bangalore.Longitude}
	d, err = Distance(bangalore, north)
	require.NoError(t, err)
	assert.InDelta(t, 10000, d, 5)
}

func TestWithin(t *testing.T) {
	t.Parallel()

	ok, err := Within(bangalore, bangalore, 0.001)
	require.NoError(t, err)
	assert.True(t, ok)

	far := Point{Latitude: bangalore.Latitude + 0.0899322, Longitude: bangalore.Longitude}
	ok, err = Within(far, bangalore, 500)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDistance_InvalidCoordinates(t *testing.T) {
	t.Parallel()

	tests := []Point{
		{Latitude: 90.0001, Longitude: 0},
		{Latitude: -91, Longitude: 0},
		{Latitude: 0, Longitude: 180.5},
		{Latitude: 0, Longitude: -181},
	}
	for _, p := range tests {
		_, err := Distance(p, bangalore)
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
		_, err = Within(bangalore, p, 100)
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	}
}
