package domain

import "encoding/json"

// Point is a query location. Field order mirrors GeoJSON coordinate order:
// longitude first, then latitude.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Ring is a linear ring of points. Rings are implicitly closed; the last
// point does not need to repeat the first for containment to work.
type Ring []Point

// Polygon is one outer ring followed by zero or more hole rings.
type Polygon []Ring

// Geometry is the GeoJSON-like geometry attached to upstream features.
// Coordinates are kept raw until the type is known.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// pointInRing runs the even-odd ray-casting crossing test. Points exactly on
// a ring edge have implementation-defined containment.
func pointInRing(p Point, ring Ring) bool {
	n := len(ring)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat

		if ((yi > p.Lat) != (yj > p.Lat)) &&
			(p.Lon < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi) {
			inside = !inside
		}
	}
	return inside
}

// PointInPolygon reports whether p falls inside the polygon's outer ring and
// outside every hole ring. A malformed (empty) polygon contains nothing.
func PointInPolygon(p Point, poly Polygon) bool {
	if len(poly) == 0 || len(poly[0]) == 0 {
		return false
	}
	if !pointInRing(p, poly[0]) {
		return false
	}
	for _, hole := range poly[1:] {
		if pointInRing(p, hole) {
			return false
		}
	}
	return true
}

// PointInGeometry tests containment against a Polygon or MultiPolygon
// geometry. Unknown types, nil geometries, and undecodable coordinates all
// report false rather than erroring.
func PointInGeometry(p Point, g *Geometry) bool {
	if g == nil {
		return false
	}
	for _, poly := range g.Polygons() {
		if PointInPolygon(p, poly) {
			return true
		}
	}
	return false
}

// Polygons decodes the geometry into its constituent polygons. A Polygon
// geometry yields one entry, a MultiPolygon one per member. Anything else
// yields nil.
func (g *Geometry) Polygons() []Polygon {
	if g == nil || len(g.Coordinates) == 0 {
		return nil
	}
	switch g.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil
		}
		if poly := buildPolygon(coords); poly != nil {
			return []Polygon{poly}
		}
		return nil
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil
		}
		polys := make([]Polygon, 0, len(coords))
		for _, pc := range coords {
			if poly := buildPolygon(pc); poly != nil {
				polys = append(polys, poly)
			}
		}
		return polys
	default:
		return nil
	}
}

// buildPolygon converts raw GeoJSON ring coordinates ([lon, lat] pairs) into
// a Polygon, dropping malformed positions.
func buildPolygon(coords [][][]float64) Polygon {
	if len(coords) == 0 {
		return nil
	}
	poly := make(Polygon, 0, len(coords))
	for _, rawRing := range coords {
		ring := make(Ring, 0, len(rawRing))
		for _, pos := range rawRing {
			if len(pos) < 2 {
				continue
			}
			ring = append(ring, Point{Lon: pos[0], Lat: pos[1]})
		}
		poly = append(poly, ring)
	}
	return poly
}
