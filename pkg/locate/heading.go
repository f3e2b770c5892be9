package locate

import (
	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
)

// walkShape walks along shape starting from point (which lies on the
// segment index->index+1), accumulating up to meters of polyline
// length in the given direction, and returns the resulting point.
// Sampling continues past segment boundaries when a segment is
// shorter than the remaining budget (spec §4.8); it stops, returning
// the last reachable point, if the polyline runs out before meters is
// consumed.
func walkShape(shape []geo.Coordinate, index int, point geo.Coordinate, meters float64, increasing bool) geo.Coordinate {
	cur := point
	i := index
	remaining := meters
	for remaining > 0 {
		var target geo.Coordinate
		if increasing {
			if i+1 >= len(shape) {
				break
			}
			target = shape[i+1]
		} else {
			if i < 0 {
				break
			}
			target = shape[i]
		}

		segLen := geo.HaversineDistanceMeters(cur, target)
		if segLen <= 0 {
			cur = target
			if increasing {
				i++
			} else {
				i--
			}
			continue
		}
		if segLen >= remaining {
			return geo.AffineCombination(remaining/segLen, cur, target)
		}
		remaining -= segLen
		cur = target
		if increasing {
			i++
		} else {
			i--
		}
	}
	return cur
}

// tangentAngle estimates the polyline's heading at point (spec §4.8).
// On a forward edge "before" walks toward decreasing shape indices and
// "after" toward increasing; on a reverse edge the before direction is
// along increasing indices instead.
func tangentAngle(shape []geo.Coordinate, index int, point geo.Coordinate, forward bool, sampleMeters float64) float64 {
	beforeIncreasing := !forward
	afterIncreasing := forward

	u := walkShape(shape, index, point, sampleMeters, beforeIncreasing)
	v := walkShape(shape, index, point, sampleMeters, afterIncreasing)

	switch {
	case u.Equal(point) && v.Equal(point):
		return geo.Heading(shape[0], shape[len(shape)-1])
	case u.Equal(point):
		return geo.Heading(point, v)
	case v.Equal(point):
		return geo.Heading(u, point)
	default:
		return geo.Heading(u, v)
	}
}

// headingFilter reports whether a candidate path-edge survives the
// heading test (spec §4.9): no heading supplied, or the snap is beyond
// NO_HEADING meters, always passes; otherwise the tangent must be
// within the location's tolerance of the supplied heading.
func headingFilter(loc tilegraph.Location, distMeters, tangentDeg float64, cfg config.Search) bool {
	if !loc.HasHeading {
		return true
	}
	if distMeters > cfg.NoHeadingMeters {
		return true
	}
	return geo.CircularDistance(loc.HeadingDeg, tangentDeg) <= loc.HeadingTolerance()
}

// sideOfStreet implements spec §4.10. Intentionally not
// curvature-corrected: see geo.SignedArea2's doc comment.
func sideOfStreet(loc tilegraph.Location, shape []geo.Coordinate, index int, distMeters float64, reverse bool, cfg config.Search) tilegraph.SideOfStreet {
	if distMeters < cfg.SideOfStreetSnapMeters {
		return tilegraph.SideNone
	}
	if geo.HaversineDistanceMeters(loc.Point, shape[0]) < cfg.SideOfStreetSnapMeters ||
		geo.HaversineDistanceMeters(loc.Point, shape[len(shape)-1]) < cfg.SideOfStreetSnapMeters {
		return tilegraph.SideNone
	}
	area := geo.SignedArea2(shape[index], shape[index+1], loc.Point)
	left := area > 0
	if reverse {
		left = !left
	}
	if left {
		return tilegraph.SideLeft
	}
	return tilegraph.SideRight
}
