package locate

import (
	"math"

	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
)

// candidate is one projection of one input onto one edge (spec §3).
type candidate struct {
	sqDistance float64
	point      geo.Coordinate
	index      int

	edgeID       tilegraph.GraphId
	edge         *tilegraph.DirectedEdge
	edgeInfo     *tilegraph.EdgeInfo
	tile         *tilegraph.Tile
	reachability int
}

// projector carries one Location's search state: its bin enumerator,
// its current bin, and its best-so-far candidate lists (spec §3).
type projector struct {
	location tilegraph.Location
	binner   *tileBinner
	approx   geo.Approximator

	hasBin    bool
	curTileID tilegraph.GraphId
	curTile   *tilegraph.Tile
	binIndex  int

	sqRadius float64

	reachable   []candidate
	unreachable []candidate
}

func newProjector(loc tilegraph.Location, reader tilegraph.Reader, cfg config.Search) *projector {
	approx := geo.NewApproximator(loc.Point)
	p := &projector{
		location: loc,
		binner:   newTileBinner(reader.BinIndex(), loc.Point, approx.LonScale(), cfg.SearchCutoffMeters),
		approx:   approx,
		sqRadius: loc.RadiusMeters * loc.RadiusMeters,
	}
	p.reachable = make([]candidate, 0, 8)
	p.unreachable = make([]candidate, 0, 8)
	p.nextBin(reader, cfg)
	return p
}

// hasNextBin reports whether this projector still has work to do.
func (p *projector) hasNextBin() bool {
	return p.hasBin
}

// lessProjector implements the bin-handler's sort order (spec §4.3): finished
// projectors (no bin) sort to the end; among unfinished ones, primary
// key is the current tile, secondary the bin index.
func lessProjector(a, b *projector) bool {
	if a.hasBin != b.hasBin {
		return a.hasBin // unfinished (true) before finished (false)
	}
	if !a.hasBin {
		return false
	}
	if a.curTileID != b.curTileID {
		return lessGraphId(a.curTileID, b.curTileID)
	}
	return a.binIndex < b.binIndex
}

func lessGraphId(a, b tilegraph.GraphId) bool {
	if a.TileID != b.TileID {
		return a.TileID < b.TileID
	}
	if a.Level != b.Level {
		return a.Level < b.Level
	}
	return a.Index < b.Index
}

func (p *projector) hasSameBin(o *projector) bool {
	return p.hasBin && o.hasBin && p.curTileID == o.curTileID && p.binIndex == o.binIndex
}

// nextBin advances to the next bin in increasing lower-bound-distance
// order, applying both early-termination conditions of spec §4.5.
func (p *projector) nextBin(reader tilegraph.Reader, cfg config.Search) {
	for {
		t, ok := p.binner.next()
		if !ok {
			p.hasBin = false
			p.curTile = nil
			return
		}
		if t.LowerBound > cfg.SearchCutoffMeters {
			p.hasBin = false
			p.curTile = nil
			return
		}
		if len(p.reachable) > 0 && t.LowerBound > math.Sqrt(p.reachable[len(p.reachable)-1].sqDistance) {
			p.hasBin = false
			p.curTile = nil
			return
		}

		tile, ok := reader.GetGraphTile(t.Tile)
		if !ok {
			// reader unavailable for this tile: skip it and keep
			// pulling from the binner (spec §7).
			continue
		}
		p.curTile = tile
		p.curTileID = t.Tile
		p.binIndex = t.Bin
		p.hasBin = true
		return
	}
}

// project projects the input point onto segment u->v using the cached
// equirectangular scale (spec §4.2).
func (p *projector) project(u, v geo.Coordinate) geo.Coordinate {
	return p.approx.ProjectOntoSegment(u, v)
}

func (p *projector) distanceSquared(point geo.Coordinate) float64 {
	return p.approx.DistanceSquared(point)
}
