package geo

import (
	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes coords with the Google encoded polyline algorithm (precision 5).
func PolylineFromCoords(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}
	points := make([][]float64, 0, len(coords))
	for _, c := range coords {
		points = append(points, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(points))
}

// CoordsFromPolyline decodes an encoded polyline.
func CoordsFromPolyline(encoded string) ([]Coordinate, error) {
	points, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, 0, len(points))
	for _, p := range points {
		coords = append(coords, NewCoordinate(p[0], p[1]))
	}
	return coords, nil
}
