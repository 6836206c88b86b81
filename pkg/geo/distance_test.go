package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	koramangala = NewCoordinate(12.9357, 77.6245)
	silkBoard   = NewCoordinate(12.9176, 77.6221)
	marathE     = NewCoordinate(12.9575, 77.7030)
)

func TestGreatCircleDistanceMatchesHaversine(t *testing.T) {
	s2Dist := GreatCircleDistance(koramangala, silkBoard)
	havDist := CalculateHaversineDistance(koramangala.Lat, koramangala.Lon, silkBoard.Lat, silkBoard.Lon)

	assert.InDelta(t, havDist, s2Dist, 1e-6)
	assert.InDelta(t, 2.03, s2Dist, 0.05)
	assert.Equal(t, 0.0, GreatCircleDistance(marathE, marathE))
}

func TestPathLength(t *testing.T) {
	path := []Coordinate{koramangala, silkBoard, marathE}
	want := GreatCircleDistance(koramangala, silkBoard) + GreatCircleDistance(silkBoard, marathE)

	assert.InDelta(t, want, PathLength(path), 1e-9)
	assert.Equal(t, 0.0, PathLength(path[:1]))
	assert.Equal(t, 0.0, PathLength(nil))
}

func TestGetDestinationPoint(t *testing.T) {
	lat, lon := GetDestinationPoint(koramangala.Lat, koramangala.Lon, 45, 1.5)
	assert.InDelta(t, 1.5, CalculateHaversineDistance(koramangala.Lat, koramangala.Lon, lat, lon), 1e-6)
	assert.Greater(t, lat, koramangala.Lat)
	assert.Greater(t, lon, koramangala.Lon)
}

func TestPolylineRoundTrip(t *testing.T) {
	// reference value from the encoded polyline algorithm documentation
	encoded := PolylineFromCoords([]Coordinate{
		NewCoordinate(38.5, -120.2),
		NewCoordinate(40.7, -120.95),
		NewCoordinate(43.252, -126.453),
	})
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)

	coords, err := CoordsFromPolyline(encoded)
	require.NoError(t, err)
	require.Len(t, coords, 3)
	assert.InDelta(t, 43.252, coords[2].Lat, 1e-5)

	assert.Equal(t, "", PolylineFromCoords(nil))
}

func TestCoordinateValid(t *testing.T) {
	assert.True(t, koramangala.Valid())
	assert.False(t, NewCoordinate(91, 0).Valid())
	assert.False(t, NewCoordinate(0, -181).Valid())
}
