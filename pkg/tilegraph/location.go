package tilegraph

import (
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/util"
	"github.com/go-playground/validator/v10"
)

// StopType mirrors spec.md §3: a BREAK location terminates a leg, a
// THROUGH location is a waypoint the route must pass through.
type StopType int

const (
	Break StopType = iota
	Through
)

// Location is one input to Search. It is immutable for the duration
// of a call and, aside from the floating point point itself, made of
// plain comparable fields so a batch of Locations can be deduplicated
// by value (spec §6) and used directly as a map key in the result.
type Location struct {
	Point geo.Coordinate `validate:"required"`

	HasHeading          bool
	HeadingDeg          float64 `validate:"omitempty,gte=0,lt=360"`
	HasHeadingTolerance bool
	HeadingToleranceDeg float64 `validate:"omitempty,gt=0,lte=180"`

	RadiusMeters        float64 `validate:"gte=0"`
	MinimumReachability uint32
	StopType            StopType `validate:"oneof=0 1"`
}

const DefaultAngleWidthDeg = 60.0

// HeadingTolerance returns the location's heading tolerance, or the
// default width when none was supplied.
func (l Location) HeadingTolerance() float64 {
	if l.HasHeadingTolerance {
		return l.HeadingToleranceDeg
	}
	return DefaultAngleWidthDeg
}

var validate = validator.New()

// Validate rejects contract-violating locations (spec §7:
// "programmer errors... are contract violations; detection is
// best-effort").
func Validate(l Location) error {
	if err := validate.Struct(l); err != nil {
		return util.WrapErrorf(err, util.ErrInvalidLocation, "validate location")
	}
	return nil
}

// SideOfStreet classifies a snap relative to the edge's centerline.
type SideOfStreet int

const (
	SideNone SideOfStreet = iota
	SideLeft
	SideRight
)

func (s SideOfStreet) Flip() SideOfStreet {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return s
	}
}

// PathEdge is one directed edge correlation for a Location (spec §3).
type PathEdge struct {
	EdgeID          GraphId
	DistanceAlong   float64
	SnappedPoint    geo.Coordinate
	DistanceMeters  float64
	Side            SideOfStreet
	Reachability    int
}

// Correlation is the full result for one Location: the ordered set of
// path-edges it best corresponds to.
type Correlation struct {
	Location Location
	Edges    []PathEdge
}
