package geo

import (
	"math"
	"testing"
)

func TestApproximatorDistanceSquaredMatchesHaversineAtShortRange(t *testing.T) {
	origin := NewCoordinate(-122.42, 37.78)
	approx := NewApproximator(origin)

	target := NewCoordinate(-122.419, 37.781)
	want := HaversineDistanceMeters(origin, target)
	got := math.Sqrt(approx.DistanceSquared(target))

	if diff := math.Abs(got - want); diff > 1.0 {
		t.Fatalf("planar distance %.3f diverged from haversine %.3f by %.3fm", got, want, diff)
	}
}

func TestProjectOntoSegmentClampsToEndpoints(t *testing.T) {
	approx := NewApproximator(NewCoordinate(-122.5, 37.5))
	u := NewCoordinate(-122.0, 37.0)
	v := NewCoordinate(-121.0, 37.0)

	if got := approx.ProjectOntoSegment(u, v); !got.Equal(u) {
		t.Fatalf("point west of segment should clamp to u, got %+v", got)
	}

	approx2 := NewApproximator(NewCoordinate(-120.0, 37.5))
	if got := approx2.ProjectOntoSegment(u, v); !got.Equal(v) {
		t.Fatalf("point east of segment should clamp to v, got %+v", got)
	}
}

func TestProjectOntoSegmentDegenerateReturnsU(t *testing.T) {
	approx := NewApproximator(NewCoordinate(0, 0))
	u := NewCoordinate(1, 1)
	if got := approx.ProjectOntoSegment(u, u); !got.Equal(u) {
		t.Fatalf("zero-length segment should project to u, got %+v", got)
	}
}

func TestBoundingBoxHalfExtentsGrowsWithRadius(t *testing.T) {
	dLon1, dLat1 := BoundingBoxHalfExtents(37.5, 100)
	dLon2, dLat2 := BoundingBoxHalfExtents(37.5, 200)
	if dLon2 <= dLon1 || dLat2 <= dLat1 {
		t.Fatalf("half-extents should grow with radius: %v/%v vs %v/%v", dLon1, dLat1, dLon2, dLat2)
	}
}

func TestCircularDistanceWrapsAround(t *testing.T) {
	if got := CircularDistance(350, 10); math.Abs(got-20) > 1e-9 {
		t.Fatalf("expected wraparound distance 20, got %v", got)
	}
	if got := CircularDistance(10, 350); math.Abs(got-20) > 1e-9 {
		t.Fatalf("expected symmetric wraparound distance 20, got %v", got)
	}
}
