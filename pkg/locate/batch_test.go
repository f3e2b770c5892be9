package locate

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
)

func TestBatchRunsOneResultPerJob(t *testing.T) {
	reader := testReader(t)
	cfg := config.DefaultSearch()

	jobs := []Job{
		{Locations: []tilegraph.Location{{Point: geo.NewCoordinate(-122.43, 37.76), RadiusMeters: 500, StopType: tilegraph.Break}}},
		{Locations: []tilegraph.Location{{Point: geo.NewCoordinate(-122.42, 37.78), RadiusMeters: 500, StopType: tilegraph.Break}}},
	}

	results, err := Batch(context.Background(), jobs, reader, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
}
