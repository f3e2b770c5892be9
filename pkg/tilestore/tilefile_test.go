package tilestore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadTileRoundTrip(t *testing.T) {
	tile := GenerateSynthTile(SynthConfig{
		TileID: 9, Level: 2,
		MinLon: -122.45, MinLat: 37.75, MaxLon: -122.40, MaxLat: 37.80,
		GridSize: 4, Seed: 3, BinGridDim: 2,
	})

	path := filepath.Join(t.TempDir(), "tile.bin")
	if err := WriteTile(path, tile); err != nil {
		t.Fatalf("write tile: %v", err)
	}

	got, err := ReadTile(path)
	if err != nil {
		t.Fatalf("read tile: %v", err)
	}

	if got.ID != tile.ID {
		t.Fatalf("tile id mismatch: got %v want %v", got.ID, tile.ID)
	}
	if len(got.Nodes) != len(tile.Nodes) || len(got.Edges) != len(tile.Edges) {
		t.Fatalf("node/edge counts mismatch: got %d/%d want %d/%d",
			len(got.Nodes), len(got.Edges), len(tile.Nodes), len(tile.Edges))
	}
	for i := range tile.Edges {
		if got.OpposingIndex[i] != tile.OpposingIndex[i] {
			t.Errorf("edge %d opposing index mismatch: got %d want %d", i, got.OpposingIndex[i], tile.OpposingIndex[i])
		}
		if got.Edges[i].Forward != tile.Edges[i].Forward {
			t.Errorf("edge %d forward bit mismatch", i)
		}
	}
	for i := range tile.EdgeInfos {
		wantShape := tile.EdgeInfos[i].Shape
		gotShape := got.EdgeInfos[i].Shape
		if len(gotShape) != len(wantShape) {
			t.Fatalf("edge info %d shape length mismatch: got %d want %d", i, len(gotShape), len(wantShape))
		}
		for j := range wantShape {
			if diff := gotShape[j].Lon - wantShape[j].Lon; diff > 1e-5 || diff < -1e-5 {
				t.Errorf("edge info %d point %d lon mismatch: got %v want %v", i, j, gotShape[j].Lon, wantShape[j].Lon)
			}
		}
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected tile file to exist on disk: %v", err)
	}
}

func TestOpposingIndexIsSymmetric(t *testing.T) {
	tile := GenerateSynthTile(SynthConfig{
		TileID: 1, Level: 0,
		MinLon: -122.45, MinLat: 37.75, MaxLon: -122.40, MaxLat: 37.80,
		GridSize: 5, Seed: 11, BinGridDim: 2,
	})
	for i, opp := range tile.OpposingIndex {
		if int(opp) >= len(tile.Edges) {
			t.Fatalf("edge %d opposing index %d out of range", i, opp)
		}
		if int(tile.OpposingIndex[opp]) != i {
			t.Errorf("opposing index not symmetric: edge %d -> %d -> %d", i, opp, tile.OpposingIndex[opp])
		}
		if tile.Edges[i].Forward == tile.Edges[opp].Forward {
			t.Errorf("edge %d and its opposing edge %d should have opposite Forward bits", i, opp)
		}
	}
}
