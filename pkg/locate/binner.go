package locate

import (
	"math"

	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
)

// binTuple is one (tile, bin, lower_bound_distance) step of the
// binner's lazy sequence (spec §4.1).
type binTuple struct {
	Tile       tilegraph.GraphId
	Bin        int
	LowerBound float64
}

const initialRingMeters = 500.0

type pendingBin struct {
	ref        tilegraph.BinRef
	lowerBound float64
}

// tileBinner enumerates bins around one fixed point in non-decreasing
// order of their lower-bound distance, by expanding a search ring over
// the reader's BinIndex. The binner never reads a tile's edges or
// shapes — only the precomputed bin bounding boxes in the index — so
// it stays purely geometric per spec §4.1.
type tileBinner struct {
	index  *tilegraph.BinIndex
	lat    float64
	lon    float64
	scale  float64
	cutoff float64

	searched float64
	found    map[binKey]struct{}
	pending  []pendingBin
	done     bool
}

type binKey struct {
	tile tilegraph.GraphId
	bin  int
}

func newTileBinner(index *tilegraph.BinIndex, point geo.Coordinate, lonScale, cutoffMeters float64) *tileBinner {
	return &tileBinner{
		index:  index,
		lat:    point.Lat,
		lon:    point.Lon,
		scale:  lonScale,
		cutoff: cutoffMeters,
		found:  make(map[binKey]struct{}),
	}
}

// next returns the next (tile, bin, lower_bound) tuple, or ok=false
// once the sequence is exhausted (ring expansion reached the cutoff
// with nothing left to offer).
func (b *tileBinner) next() (binTuple, bool) {
	if b.done {
		return binTuple{}, false
	}
	for {
		if idx, ok := b.popSafe(); ok {
			p := b.pending[idx]
			b.pending = append(b.pending[:idx], b.pending[idx+1:]...)
			return binTuple{Tile: p.ref.Tile, Bin: p.ref.Bin, LowerBound: p.lowerBound}, true
		}

		if b.searched >= b.cutoff {
			b.done = true
			return binTuple{}, false
		}

		nextRadius := b.searched * 2
		if nextRadius <= 0 {
			nextRadius = initialRingMeters
		}
		if nextRadius > b.cutoff {
			nextRadius = b.cutoff
		}

		dLon, dLat := geo.BoundingBoxHalfExtents(b.lat, nextRadius)
		minLon, maxLon := b.lon-dLon, b.lon+dLon
		minLat, maxLat := b.lat-dLat, b.lat+dLat

		b.index.Search(minLon, minLat, maxLon, maxLat, func(ref tilegraph.BinRef) bool {
			key := binKey{ref.Tile, ref.Bin}
			if _, seen := b.found[key]; seen {
				return true
			}
			b.found[key] = struct{}{}
			lb := geo.LowerBoundToBox(b.lat, b.lon, b.scale, ref.MinLon, ref.MinLat, ref.MaxLon, ref.MaxLat)
			b.pending = append(b.pending, pendingBin{ref: ref, lowerBound: lb})
			return true
		})

		b.searched = nextRadius
	}
}

// popSafe returns the index of the pending bin with the smallest
// lower bound, if that lower bound is provably final (<= the radius
// already fully searched — any bin further out would have been found
// by that round's search box, which fully contains the disk of that
// radius).
func (b *tileBinner) popSafe() (int, bool) {
	best := -1
	bestLB := math.Inf(1)
	for i, p := range b.pending {
		if p.lowerBound > b.searched {
			continue
		}
		if p.lowerBound < bestLB {
			bestLB = p.lowerBound
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
