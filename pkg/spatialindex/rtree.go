package spatialindex

import (
	"sort"

	"github.com/lintang-b-s/livetraffic/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr     *rtree.RTreeG[Junction]
	coords map[string]geo.Coordinate
}

type Junction struct {
	Name       string
	Coordinate geo.Coordinate
}

// JunctionDistance is a search hit with its distance to the query point in km.
type JunctionDistance struct {
	Junction
	DistanceKM float64
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[Junction]
	return &Rtree{
		tr:     &tr,
		coords: make(map[string]geo.Coordinate),
	}
}

// Build indexes every junction as a point.
func (rt *Rtree) Build(junctions map[string]geo.Coordinate, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("junctions", len(junctions)))
	for name, c := range junctions {
		point := [2]float64{c.Lon, c.Lat}
		rt.tr.Insert(point, point, Junction{Name: name, Coordinate: c})
		rt.coords[name] = c
	}
	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

func (rt *Rtree) GetCoordinate(name string) (geo.Coordinate, bool) {
	c, ok := rt.coords[name]
	return c, ok
}

// SearchWithinRadius returns junctions within radius (in km) from (qLat, qLon), nearest first.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []JunctionDistance {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius*1.5)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius*1.5)
	q := geo.NewCoordinate(qLat, qLon)

	results := make([]JunctionDistance, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data Junction) bool {
			dist := geo.GreatCircleDistance(q, data.Coordinate)
			if dist <= radius {
				results = append(results, JunctionDistance{Junction: data, DistanceKM: dist})
			}
			return true
		})

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKM != results[j].DistanceKM {
			return results[i].DistanceKM < results[j].DistanceKM
		}
		return results[i].Name < results[j].Name
	})
	return results
}

// Nearest returns the junction closest to (qLat, qLon) within radius km.
func (rt *Rtree) Nearest(qLat, qLon, radius float64) (JunctionDistance, bool) {
	hits := rt.SearchWithinRadius(qLat, qLon, radius)
	if len(hits) == 0 {
		return JunctionDistance{}, false
	}
	return hits[0], true
}
