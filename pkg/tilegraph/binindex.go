package tilegraph

import "github.com/tidwall/rtree"

// BinRef is one spatial bin's bounding box plus the tile/bin it
// belongs to. It carries its own bounding box so the tile binner can
// enumerate candidate bins without ever touching a Tile's edge data —
// the binner is purely geometric (spec §4.1).
type BinRef struct {
	Tile                           GraphId
	Bin                            int
	MinLon, MinLat, MaxLon, MaxLat float64
}

// BinIndex is a spatial index over every registered tile's bins,
// generalizing the teacher's Rtree (pkg/spatialindex/rtree.go) from a
// single fixed-radius query into a structure the tile binner can run
// an expanding-ring search against.
type BinIndex struct {
	tr *rtree.RTreeG[BinRef]
}

func NewBinIndex() *BinIndex {
	var tr rtree.RTreeG[BinRef]
	return &BinIndex{tr: &tr}
}

// Register indexes every non-empty bin of a freshly loaded/built
// tile. Safe to call once per tile; callers should not re-register a
// tile id.
func (bi *BinIndex) Register(tileID GraphId, bins []Bin) {
	for i, b := range bins {
		if len(b.Edges) == 0 {
			continue
		}
		bi.tr.Insert(
			[2]float64{b.MinLon, b.MinLat},
			[2]float64{b.MaxLon, b.MaxLat},
			BinRef{Tile: tileID, Bin: i, MinLon: b.MinLon, MinLat: b.MinLat, MaxLon: b.MaxLon, MaxLat: b.MaxLat},
		)
	}
}

// Search reports every registered bin whose bounding box intersects
// [minLon,minLat]-[maxLon,maxLat].
func (bi *BinIndex) Search(minLon, minLat, maxLon, maxLat float64, visit func(BinRef) bool) {
	bi.tr.Search(
		[2]float64{minLon, minLat},
		[2]float64{maxLon, maxLat},
		func(_, _ [2]float64, data BinRef) bool {
			return visit(data)
		},
	)
}

func (bi *BinIndex) Len() int {
	return bi.tr.Len()
}
