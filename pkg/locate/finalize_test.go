package locate

import (
	"testing"

	"go.uber.org/zap"

	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
	"github.com/arvinsaputra/waypointsnap/pkg/tilestore"
)

func TestEdgeSnapEmitsEvilTwinWithComplementaryDistanceAlong(t *testing.T) {
	tile := tilestore.GenerateSynthTile(tilestore.SynthConfig{
		TileID: 1, Level: 0,
		MinLon: -122.45, MinLat: 37.75, MaxLon: -122.40, MaxLat: 37.80,
		GridSize: 4, Seed: 5, BinGridDim: 2,
	})
	store := tilestore.NewMemoryStore()
	store.AddTile(tile)
	reader, err := store.NewReader(16, 1000, zap.NewNop())
	if err != nil {
		t.Fatalf("build reader: %v", err)
	}
	cfg := config.DefaultSearch()

	edge := &tile.Edges[0]
	info, _ := tile.EdgeInfo(edge.EdgeInfoOffset)
	mid := geo.AffineCombination(0.5, info.Shape[0], info.Shape[len(info.Shape)-1])

	loc := tilegraph.Location{Point: mid, RadiusMeters: 100, StopType: tilegraph.Break}
	p := newProjector(loc, reader, cfg)

	c := candidate{
		sqDistance: 0,
		point:      mid,
		index:      0,
		edgeID:     tile.ID.WithIndex(0),
		edge:       edge,
		edgeInfo:   info,
		tile:       tile,
	}

	edges := edgeSnap(p, c, reader, allowAllEdges, cfg, nil)
	if len(edges) != 2 {
		t.Fatalf("expected a primary edge and its evil twin, got %d edges: %+v", len(edges), edges)
	}
	if edges[0].EdgeID == edges[1].EdgeID {
		t.Fatalf("evil twin must be a distinct edge id, got %+v", edges)
	}
	sum := edges[0].DistanceAlong + edges[1].DistanceAlong
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected complementary distance_along summing to 1, got %v + %v", edges[0].DistanceAlong, edges[1].DistanceAlong)
	}
	if edges[0].Side == edges[1].Side && edges[0].Side != tilegraph.SideNone {
		t.Fatalf("evil twin should flip side of street, got %v and %v", edges[0].Side, edges[1].Side)
	}
}
