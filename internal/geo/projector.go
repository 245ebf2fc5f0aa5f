package geo

import "math"

// WGS-84 ellipsoid.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257223563
)

// PlanarPoint is a position in meters relative to a projector reference;
// it is only meaningful together with the reference that produced it.
type PlanarPoint struct {
	X float64
	Y float64
}

// Distance returns the straight-line distance from the reference.
func (pt PlanarPoint) Distance() float64 {
	return math.Hypot(pt.X, pt.Y)
}

// Projector converts coordinates to planar meters relative to a fixed
// reference. The two scale factors are computed once from the WGS-84
// radii of curvature at the reference, which keeps the projection
// accurate for the small extents a track search covers.
type Projector struct {
	origin   Coordinate
	latScale float64 // meters per degree of latitude
	lonScale float64 // meters per degree of longitude
}

// NewProjector builds a projector centered on ref. With legacyLonCosine
// set the curvature radii are evaluated at the reference longitude
// instead of its latitude, reproducing the output of older builds.
func NewProjector(ref Coordinate, legacyLonCosine bool) Projector {
	at := ref.Lat
	if legacyLonCosine {
		at = ref.Lon
	}

	phi := at * math.Pi / 180
	e2 := flattening * (2 - flattening)
	w2 := 1 - e2*math.Sin(phi)*math.Sin(phi)

	meridional := semiMajorAxis * (1 - e2) / (w2 * math.Sqrt(w2))
	primeVertical := semiMajorAxis / math.Sqrt(w2)

	return Projector{
		origin:   ref,
		latScale: meridional * math.Pi / 180,
		lonScale: primeVertical * math.Cos(phi) * math.Pi / 180,
	}
}

// Origin returns the reference coordinate the projector is centered on.
func (p Projector) Origin() Coordinate {
	return p.origin
}

// Project converts c to planar meters relative to the reference.
func (p Projector) Project(c Coordinate) PlanarPoint {
	return PlanarPoint{
		X: (c.Lon - p.origin.Lon) * p.lonScale,
		Y: (c.Lat - p.origin.Lat) * p.latScale,
	}
}

// SegmentDistance returns the distance from the reference to the segment
// between two consecutive planar points. The frame is rotated so the
// segment lies along the x-axis; when the rotated x-coordinates of the
// endpoints straddle zero the reference projects onto the segment and the
// perpendicular offset is the distance, otherwise it is the straight-line
// distance to the current point.
func SegmentDistance(prev, cur PlanarPoint) float64 {
	sin, cos := math.Sincos(math.Atan2(cur.Y-prev.Y, cur.X-prev.X))

	prevX := prev.X*cos + prev.Y*sin
	curX := cur.X*cos + cur.Y*sin

	if prevX*curX <= 0 {
		return math.Abs(cur.Y*cos - cur.X*sin)
	}

	return cur.Distance()
}
