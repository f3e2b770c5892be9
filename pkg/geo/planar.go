package geo

import (
	"math"

	"github.com/arvinsaputra/waypointsnap/pkg/util"
)

// MetersPerDegreeLat converts a one-degree latitude delta into meters
// under the equirectangular approximation; longitude deltas need an
// extra cos(lat) factor, see Approximator.
const MetersPerDegreeLat = earthRadiusM * math.Pi / 180.0

// Approximator caches the per-query constants needed to planarize
// distances near one fixed latitude (spec §4.2, §9: "longitude
// scaling is computed once at projector construction from the input
// latitude, not from each segment's latitude" — correct to sub-meter
// at road scale, wrong by tens of meters at global scale; the
// trade-off is intentional and must be preserved).
type Approximator struct {
	lon, lat, lonScale float64
}

func NewApproximator(p Coordinate) Approximator {
	return Approximator{
		lon:      p.Lon,
		lat:      p.Lat,
		lonScale: math.Cos(util.DegreeToRadians(p.Lat)),
	}
}

func (a Approximator) LonScale() float64 { return a.lonScale }

// DistanceSquared returns the squared planar distance, in meters²,
// from the approximator's fixed point to p. Never square-rooted on
// the hot path (spec §4.2).
func (a Approximator) DistanceSquared(p Coordinate) float64 {
	dx := (p.Lon - a.lon) * a.lonScale * MetersPerDegreeLat
	dy := (p.Lat - a.lat) * MetersPerDegreeLat
	return dx*dx + dy*dy
}

// ProjectOntoSegment projects the approximator's point onto segment
// u->v using the equirectangular approximation (spec §4.2): longitude
// deltas are scaled by cos(lat), latitude deltas are used as-is, and
// the result is clamped to the segment's endpoints. Zero-length
// segments return u.
func (a Approximator) ProjectOntoSegment(u, v Coordinate) Coordinate {
	if u.Equal(v) {
		return u
	}
	bx := v.Lon - u.Lon
	by := v.Lat - u.Lat
	bx2 := bx * a.lonScale

	sq := bx2*bx2 + by*by
	scale := (a.lon-u.Lon)*a.lonScale*bx2 + (a.lat-u.Lat)*by

	if scale <= 0 {
		return u
	}
	if scale >= sq {
		return v
	}
	scale /= sq
	return Coordinate{Lon: u.Lon + bx*scale, Lat: u.Lat + by*scale}
}

// BoundingBoxHalfExtents returns the half-width (longitude) and
// half-height (latitude), in degrees, of the axis-aligned rectangle
// that fully contains every point within radiusMeters of (lat,lon)
// under the equirectangular metric above. Used by the tile binner to
// build an expanding search box whose rtree hits are a superset of
// the true candidate bins.
func BoundingBoxHalfExtents(lat, radiusMeters float64) (dLon, dLat float64) {
	lonScale := math.Cos(util.DegreeToRadians(lat))
	if lonScale < 1e-6 {
		lonScale = 1e-6
	}
	dLat = radiusMeters / MetersPerDegreeLat
	dLon = radiusMeters / (MetersPerDegreeLat * lonScale)
	return dLon, dLat
}

// LowerBoundToBox returns the minimum possible planar distance, in
// meters, from (lat,lon) to the closest point of the axis-aligned box
// [minLon,minLat]-[maxLon,maxLat], under the same equirectangular
// metric as DistanceSquared. Zero when the point is inside the box.
func LowerBoundToBox(lat, lon, lonScale, minLon, minLat, maxLon, maxLat float64) float64 {
	clampedLon := util.ClampFloat(lon, minLon, maxLon)
	clampedLat := util.ClampFloat(lat, minLat, maxLat)
	dx := (lon - clampedLon) * lonScale * MetersPerDegreeLat
	dy := (lat - clampedLat) * MetersPerDegreeLat
	return math.Sqrt(dx*dx + dy*dy)
}
