package locate

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
	"github.com/arvinsaputra/waypointsnap/pkg/tilestore"
)

func testReader(t *testing.T) tilegraph.Reader {
	t.Helper()
	tile := tilestore.GenerateSynthTile(tilestore.SynthConfig{
		TileID: 1, Level: 0,
		MinLon: -122.45, MinLat: 37.75, MaxLon: -122.40, MaxLat: 37.80,
		GridSize: 6, Seed: 7, BinGridDim: 3,
	})
	store := tilestore.NewMemoryStore()
	store.AddTile(tile)
	reader, err := store.NewReader(16, 1000, zap.NewNop())
	if err != nil {
		t.Fatalf("build reader: %v", err)
	}
	return reader
}

func TestSearchSnapsPointNearALatticeEdge(t *testing.T) {
	reader := testReader(t)
	cfg := config.DefaultSearch()

	loc := tilegraph.Location{
		Point:        geo.NewCoordinate(-122.425, 37.775),
		RadiusMeters: 500,
		StopType:     tilegraph.Break,
	}

	result := Search(context.Background(), []tilegraph.Location{loc}, reader, nil, nil, cfg, zap.NewNop())
	corr, ok := result[loc]
	if !ok {
		t.Fatalf("expected a correlation for the query point, got none")
	}
	if len(corr.Edges) == 0 {
		t.Fatalf("expected at least one path edge")
	}
	for _, e := range corr.Edges {
		if e.DistanceAlong < 0 || e.DistanceAlong > 1 {
			t.Errorf("distance_along out of range: %v", e.DistanceAlong)
		}
	}
}

func TestSearchEmptyInputReturnsEmptyMap(t *testing.T) {
	reader := testReader(t)
	cfg := config.DefaultSearch()
	result := Search(context.Background(), nil, reader, nil, nil, cfg, zap.NewNop())
	if len(result) != 0 {
		t.Fatalf("expected empty map for empty input, got %d entries", len(result))
	}
}

func TestSearchDedupsIdenticalLocations(t *testing.T) {
	reader := testReader(t)
	cfg := config.DefaultSearch()
	loc := tilegraph.Location{
		Point:        geo.NewCoordinate(-122.425, 37.775),
		RadiusMeters: 500,
		StopType:     tilegraph.Break,
	}
	result := Search(context.Background(), []tilegraph.Location{loc, loc}, reader, nil, nil, cfg, zap.NewNop())
	if len(result) != 1 {
		t.Fatalf("expected exactly one correlation for duplicate locations, got %d", len(result))
	}
}

func TestSearchCancelledContextReturnsEmptyMap(t *testing.T) {
	reader := testReader(t)
	cfg := config.DefaultSearch()
	loc := tilegraph.Location{
		Point:        geo.NewCoordinate(-122.425, 37.775),
		RadiusMeters: 500,
		StopType:     tilegraph.Break,
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	result := Search(ctx, []tilegraph.Location{loc}, reader, nil, nil, cfg, zap.NewNop())
	if len(result) != 0 {
		t.Fatalf("expected empty map once context is already cancelled, got %d entries", len(result))
	}
}
