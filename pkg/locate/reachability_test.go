package locate

import (
	"testing"

	"go.uber.org/zap"

	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
	"github.com/arvinsaputra/waypointsnap/pkg/tilestore"
)

func allowAllEdges(*tilegraph.DirectedEdge) float64 { return 1 }
func blockNoNodes(*tilegraph.NodeInfo) bool          { return false }

func TestCheckReachabilitySkippedWhenLimitZero(t *testing.T) {
	rt := newReachTable(16)
	got := rt.checkReachability(nil, allowAllEdges, blockNoNodes, 0, nil, nil, &tilegraph.DirectedEdge{})
	if got != 0 {
		t.Fatalf("expected 0 when max_reach_limit is 0, got %d", got)
	}
}

func TestCheckReachabilityCachesByEndNode(t *testing.T) {
	tile := tilestore.GenerateSynthTile(tilestore.SynthConfig{
		TileID: 1, Level: 0,
		MinLon: -122.45, MinLat: 37.75, MaxLon: -122.40, MaxLat: 37.80,
		GridSize: 4, Seed: 1, BinGridDim: 2,
	})
	store := tilestore.NewMemoryStore()
	store.AddTile(tile)
	reader, err := store.NewReader(16, 1000, zap.NewNop())
	if err != nil {
		t.Fatalf("build reader: %v", err)
	}

	edge := &tile.Edges[0]
	rt := newReachTable(64)
	run := []*projector{{}} // one projector with an empty reachable list forces the probe to run

	first := rt.checkReachability(reader, allowAllEdges, blockNoNodes, 5, run, tile, edge)
	if first <= 0 {
		t.Fatalf("expected a positive reachability count, got %d", first)
	}

	second := rt.get(edge.EndNode)
	if second != first {
		t.Fatalf("expected cached reachability %d for repeated end node, got %d", first, second)
	}
}

func TestCheckReachabilityShortCircuitsWhenAllProjectorsHaveReachable(t *testing.T) {
	tile := tilestore.GenerateSynthTile(tilestore.SynthConfig{
		TileID: 1, Level: 0,
		MinLon: -122.45, MinLat: 37.75, MaxLon: -122.40, MaxLat: 37.80,
		GridSize: 4, Seed: 1, BinGridDim: 2,
	})
	rt := newReachTable(64)
	run := []*projector{{reachable: []candidate{{sqDistance: 1}}}}

	got := rt.checkReachability(nil, allowAllEdges, blockNoNodes, 7, run, tile, &tile.Edges[0])
	if got != 7 {
		t.Fatalf("expected the short-circuit to report max_reach_limit (7), got %d", got)
	}
}
