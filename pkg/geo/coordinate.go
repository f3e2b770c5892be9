package geo

import (
	"math"

	"github.com/arvinsaputra/waypointsnap/pkg/util"
)

// Coordinate is a geographic point, longitude first to match the
// graph's on-disk shape encoding.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func NewCoordinate(lon, lat float64) Coordinate {
	return Coordinate{Lon: lon, Lat: lat}
}

func (c Coordinate) GetLon() float64 { return c.Lon }
func (c Coordinate) GetLat() float64 { return c.Lat }

func (c Coordinate) Equal(o Coordinate) bool {
	return c.Lon == o.Lon && c.Lat == o.Lat
}

const earthRadiusM = 6371000.0

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// HaversineDistanceMeters returns the great-circle distance between two
// points in meters. Used outside the hot projection loop (finalize,
// tangent sampling) where the equirectangular shortcut isn't needed.
func HaversineDistanceMeters(a, b Coordinate) float64 {
	lat1 := util.DegreeToRadians(a.Lat)
	lon1 := util.DegreeToRadians(a.Lon)
	lat2 := util.DegreeToRadians(b.Lat)
	lon2 := util.DegreeToRadians(b.Lon)

	h := havFunction(lat2-lat1) + math.Cos(lat1)*math.Cos(lat2)*havFunction(lon2-lon1)
	c := 2.0 * math.Asin(math.Sqrt(h))
	return earthRadiusM * c
}

func radToDeg(r float64) float64 {
	return 180.0 * r / math.Pi
}

// DestinationPoint returns the point `distMeters` away from (lat,lon)
// along `bearingDeg` on the sphere, as (lat, lon). The tile binner
// does not use it: its search boxes come from BoundingBoxHalfExtents.
func DestinationPoint(lat, lon, bearingDeg, distMeters float64) (float64, float64) {
	dr := distMeters / earthRadiusM
	bearing := util.DegreeToRadians(bearingDeg)
	lat1 := util.DegreeToRadians(lat)
	lon1 := util.DegreeToRadians(lon)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(dr) + math.Cos(lat1)*math.Sin(dr)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(dr)*math.Cos(lat1),
		math.Cos(dr)-math.Sin(lat1)*math.Sin(lat2),
	)
	return radToDeg(lat2), normalizeLongitude(radToDeg(lon2))
}

func normalizeLongitude(lon float64) float64 {
	return math.Mod(lon+540, 360) - 180.0
}

// AffineCombination returns u*(1-coef) + v*coef, matching PointLL's
// AffineCombination used while walking shape points for tangent
// sampling.
func AffineCombination(coef float64, u, v Coordinate) Coordinate {
	return Coordinate{
		Lon: u.Lon*(1-coef) + v.Lon*coef,
		Lat: u.Lat*(1-coef) + v.Lat*coef,
	}
}

// Heading returns the initial bearing in degrees [0,360) from a to b.
func Heading(a, b Coordinate) float64 {
	dLon := util.DegreeToRadians(b.Lon - a.Lon)
	lat1 := util.DegreeToRadians(a.Lat)
	lat2 := util.DegreeToRadians(b.Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(radToDeg(math.Atan2(y, x))+360, 360.0)
}

// CircularDistance is the smallest angle between two headings given in
// degrees, always in [0,180].
func CircularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// SignedArea2 is twice the signed area of the triangle (u,v,p), used
// as a half-plane / left-of-segment test in raw lon/lat space. This is
// intentionally NOT equirectangular-scaled: the original implementation
// performs this test directly on (lon,lat) pairs, which is why very
// long segments can misclassify side near the poles or across large
// longitude spans. Do not "fix" this without a separate specification.
func SignedArea2(u, v, p Coordinate) float64 {
	return (v.Lon-u.Lon)*(p.Lat-u.Lat) - (v.Lat-u.Lat)*(p.Lon-u.Lon)
}
