package locate

import (
	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
)

// finalize converts one projector's accumulated candidates into the
// location's path-edges (spec §4.7), reachable candidates first. The
// heading-filter reserve promotion in edgeSnap/nodeSnap (spec §9) is
// gated on the cumulative result across every candidate of this
// location, not on what one candidate alone produced (search.cc
// checks correlated.edges.size(), which is shared across the whole
// location), so out is threaded through and grown in place rather
// than built up per call and concatenated after the fact.
func finalize(p *projector, reader tilegraph.Reader, edgeFilter tilegraph.EdgeFilter, cfg config.Search) []tilegraph.PathEdge {
	all := make([]candidate, 0, len(p.reachable)+len(p.unreachable))
	all = append(all, p.reachable...)
	all = append(all, p.unreachable...)

	var out []tilegraph.PathEdge
	for _, c := range all {
		out = finalizeCandidate(p, c, reader, edgeFilter, cfg, out)
	}
	return out
}

// finalizeCandidate classifies a candidate as a node snap or an edge
// snap (spec §4.7). When both front and back are true, the begin-node
// branch wins.
func finalizeCandidate(p *projector, c candidate, reader tilegraph.Reader, edgeFilter tilegraph.EdgeFilter, cfg config.Search, out []tilegraph.PathEdge) []tilegraph.PathEdge {
	shape := c.edgeInfo.Shape
	front := c.point.Equal(shape[0]) || geo.HaversineDistanceMeters(c.point, shape[0]) < cfg.NodeSnapMeters
	back := c.point.Equal(shape[len(shape)-1]) || geo.HaversineDistanceMeters(c.point, shape[len(shape)-1]) < cfg.NodeSnapMeters
	forward := c.edge.Forward

	switch {
	case (front && forward) || (back && !forward):
		node, nodeTile, ok := beginNode(reader, c)
		if !ok {
			return out
		}
		return nodeSnap(p, c, node, nodeTile, reader, edgeFilter, cfg, out)
	case (back && forward) || (front && !forward):
		node, nodeTile, ok := endNode(reader, c)
		if !ok {
			return out
		}
		return nodeSnap(p, c, node, nodeTile, reader, edgeFilter, cfg, out)
	default:
		return edgeSnap(p, c, reader, edgeFilter, cfg, out)
	}
}

func beginNode(reader tilegraph.Reader, c candidate) (*tilegraph.NodeInfo, *tilegraph.Tile, bool) {
	opp, oppTile, ok := reader.GetOpposingEdge(c.edgeID)
	if !ok {
		return nil, nil, false
	}
	return reader.GetEndNode(opp, oppTile)
}

func endNode(reader tilegraph.Reader, c candidate) (*tilegraph.NodeInfo, *tilegraph.Tile, bool) {
	return reader.GetEndNode(c.edge, c.tile)
}

// edgeSnap implements spec §4.7's "snap along the edge" branch: a
// partial-length/side-of-street path-edge for the candidate's own
// edge, plus its opposing twin with complementary distance-along and
// flipped side (spec §9's "evil-twin policy" — never deduped).
func edgeSnap(p *projector, c candidate, reader tilegraph.Reader, edgeFilter tilegraph.EdgeFilter, cfg config.Search, out []tilegraph.PathEdge) []tilegraph.PathEdge {
	shape := c.edgeInfo.Shape

	partial := 0.0
	for i := 0; i < c.index; i++ {
		partial += geo.HaversineDistanceMeters(shape[i], shape[i+1])
	}
	partial += geo.HaversineDistanceMeters(shape[c.index], c.point)
	if partial > c.edge.LengthMeters {
		partial = c.edge.LengthMeters
	}

	ratio := 0.0
	if c.edge.LengthMeters > 0 {
		ratio = partial / c.edge.LengthMeters
	}
	if !c.edge.Forward {
		ratio = 1 - ratio
	}

	distMeters := geo.HaversineDistanceMeters(p.location.Point, c.point)
	side := sideOfStreet(p.location, shape, c.index, distMeters, !c.edge.Forward, cfg)
	tangent := tangentAngle(shape, c.index, c.point, c.edge.Forward, cfg.HeadingSampleMeters)

	primary := tilegraph.PathEdge{
		EdgeID:         c.edgeID,
		DistanceAlong:  ratio,
		SnappedPoint:   c.point,
		DistanceMeters: distMeters,
		Side:           side,
		Reachability:   c.reachability,
	}

	var reserve []tilegraph.PathEdge
	if headingFilter(p.location, distMeters, tangent, cfg) {
		out = append(out, primary)
	} else {
		reserve = append(reserve, primary)
	}

	oppID, _, ok := reader.GetOpposingEdgeId(c.edgeID)
	if ok {
		if oppEdge, _, ok2 := reader.GetOpposingEdge(c.edgeID); ok2 && edgeFilter(oppEdge) != 0 {
			oppTangent := tangentAngle(shape, c.index, c.point, oppEdge.Forward, cfg.HeadingSampleMeters)
			oppPE := tilegraph.PathEdge{
				EdgeID:         oppID,
				DistanceAlong:  1 - ratio,
				SnappedPoint:   c.point,
				DistanceMeters: distMeters,
				Side:           side.Flip(),
				Reachability:   c.reachability,
			}
			if headingFilter(p.location, distMeters, oppTangent, cfg) {
				out = append(out, oppPE)
			} else {
				reserve = append(reserve, oppPE)
			}
		}
	}

	if len(out) == 0 {
		out = append(out, reserve...)
	}
	return out
}

type nodeEdge struct {
	id   tilegraph.GraphId
	edge *tilegraph.DirectedEdge
	tile *tilegraph.Tile
}

// collectNodeEdges gathers every edge filter-accepted outgoing edge at
// node, following transition edges exactly one level deep and not
// recursing into further transitions from there (spec §4.7).
func collectNodeEdges(reader tilegraph.Reader, tile *tilegraph.Tile, node *tilegraph.NodeInfo, edgeFilter tilegraph.EdgeFilter, followTransitions bool) []nodeEdge {
	var out []nodeEdge
	for i := uint32(0); i < node.EdgeCount; i++ {
		e, ok := tile.DirectedEdge(node.EdgeIndex + i)
		if !ok {
			continue
		}
		if e.IsTransition {
			if !followTransitions {
				continue
			}
			n, nTile, ok2 := reader.GetEndNode(e, tile)
			if !ok2 {
				continue
			}
			out = append(out, collectNodeEdges(reader, nTile, n, edgeFilter, false)...)
			continue
		}
		if edgeFilter(e) == 0 {
			continue
		}
		out = append(out, nodeEdge{id: tile.ID.WithIndex(node.EdgeIndex + i), edge: e, tile: tile})
	}
	return out
}

// nodeSnap implements spec §4.7's node-snap expansion: one path-edge
// per accepted outgoing edge (distance-along 0), plus each one's
// opposing edge (distance-along 1), heading-filtered with reserve
// promotion, with THROUGH-stop-with-heading post-filtering.
func nodeSnap(p *projector, c candidate, node *tilegraph.NodeInfo, nodeTile *tilegraph.Tile, reader tilegraph.Reader, edgeFilter tilegraph.EdgeFilter, cfg config.Search, out []tilegraph.PathEdge) []tilegraph.PathEdge {
	edges := collectNodeEdges(reader, nodeTile, node, edgeFilter, true)
	distMeters := geo.HaversineDistanceMeters(p.location.Point, node.Point)

	start := len(out)
	var reserve []tilegraph.PathEdge

	for _, ne := range edges {
		shape, ok := edgeShape(ne.tile, ne.edge)
		if !ok {
			continue
		}
		idx := 0
		if !ne.edge.Forward {
			idx = len(shape) - 2
		}
		tangent := tangentAngle(shape, idx, node.Point, ne.edge.Forward, cfg.HeadingSampleMeters)
		pe := tilegraph.PathEdge{
			EdgeID:         ne.id,
			DistanceAlong:  0,
			SnappedPoint:   node.Point,
			DistanceMeters: distMeters,
			Side:           tilegraph.SideNone,
			Reachability:   c.reachability,
		}
		if headingFilter(p.location, distMeters, tangent, cfg) {
			out = append(out, pe)
		} else {
			reserve = append(reserve, pe)
		}

		oppID, _, ok := reader.GetOpposingEdgeId(ne.id)
		if !ok {
			continue
		}
		oppEdge, oppTile, ok2 := reader.GetOpposingEdge(ne.id)
		if !ok2 || edgeFilter(oppEdge) == 0 {
			continue
		}
		oppShape, ok3 := edgeShape(oppTile, oppEdge)
		if !ok3 {
			continue
		}
		oppIdx := 0
		if !oppEdge.Forward {
			oppIdx = len(oppShape) - 2
		}
		oppTangent := tangentAngle(oppShape, oppIdx, node.Point, oppEdge.Forward, cfg.HeadingSampleMeters)
		oppPE := tilegraph.PathEdge{
			EdgeID:         oppID,
			DistanceAlong:  1,
			SnappedPoint:   node.Point,
			DistanceMeters: distMeters,
			Side:           tilegraph.SideNone,
			Reachability:   c.reachability,
		}
		if headingFilter(p.location, distMeters, oppTangent, cfg) {
			out = append(out, oppPE)
		} else {
			reserve = append(reserve, oppPE)
		}
	}

	if len(out) == 0 {
		out = append(out, reserve...)
	}

	if p.location.StopType == tilegraph.Through && p.location.HasHeading {
		kept := out[:start:start]
		for _, pe := range out[start:] {
			if pe.DistanceAlong != 1 {
				kept = append(kept, pe)
			}
		}
		out = kept
	}

	return out
}

func edgeShape(tile *tilegraph.Tile, edge *tilegraph.DirectedEdge) ([]geo.Coordinate, bool) {
	info, ok := tile.EdgeInfo(edge.EdgeInfoOffset)
	if !ok || !info.Valid() {
		return nil, false
	}
	return info.Shape, true
}
