package locate

import (
	"sort"

	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
)

// binHandler owns every projector for one Search call and drives the
// outer/inner loop of spec §4.3/§4.4 to completion. maxReachLimit is
// fixed for the whole call: the largest minimum_reachability among
// every input location (search.cc takes the max once, not per bin).
type binHandler struct {
	reader        tilegraph.Reader
	edgeFilter    tilegraph.EdgeFilter
	nodeFilter    tilegraph.NodeFilter
	cfg           config.Search
	maxReachLimit uint32
	reach         *reachTable
	projectors    []*projector
}

func newBinHandler(
	reader tilegraph.Reader,
	edgeFilter tilegraph.EdgeFilter,
	nodeFilter tilegraph.NodeFilter,
	cfg config.Search,
	projectors []*projector,
) *binHandler {
	var maxReachLimit uint32
	for _, p := range projectors {
		if p.location.MinimumReachability > maxReachLimit {
			maxReachLimit = p.location.MinimumReachability
		}
	}
	reserve := cfg.ReachTableReserveFactor
	if maxReachLimit > 0 {
		reserve *= int(maxReachLimit)
	}
	return &binHandler{
		reader:        reader,
		edgeFilter:    edgeFilter,
		nodeFilter:    nodeFilter,
		cfg:           cfg,
		maxReachLimit: maxReachLimit,
		reach:         newReachTable(reserve),
		projectors:    projectors,
	}
}

// run drives the outer loop until every projector is finished or the
// caller's interruption hook fires.
func (h *binHandler) run(interrupted func() bool) {
	for {
		if interrupted != nil && interrupted() {
			return
		}

		sort.SliceStable(h.projectors, func(i, j int) bool {
			return lessProjector(h.projectors[i], h.projectors[j])
		})

		if len(h.projectors) == 0 || !h.projectors[0].hasNextBin() {
			return
		}

		end := 1
		for end < len(h.projectors) && h.projectors[0].hasSameBin(h.projectors[end]) {
			end++
		}
		run := h.projectors[:end]

		h.handleBin(run)

		for _, p := range run {
			p.nextBin(h.reader, h.cfg)
		}
	}
}

// handleBin is the per-bin inner loop of spec §4.4.
func (h *binHandler) handleBin(run []*projector) {
	lead := run[0]
	bin := lead.curTile.GetBin(lead.binIndex)

	for _, edgeID := range bin.Edges {
		edge, tile, ok := h.reader.GetDirectedEdge(edgeID)
		if !ok {
			continue
		}

		usable := h.edgeFilter(edge)
		useID := edgeID
		useEdge := edge
		useTile := tile
		if usable == 0 {
			oppID, oppTile, ok := h.reader.GetOpposingEdgeId(edgeID)
			if !ok {
				continue
			}
			opp, ok := oppTile.DirectedEdge(oppID.Index)
			if !ok || h.edgeFilter(opp) == 0 {
				continue
			}
			useID = oppID
			useEdge = opp
			useTile = oppTile
		}

		edgeInfo, ok := useTile.EdgeInfo(useEdge.EdgeInfoOffset)
		if !ok || !edgeInfo.Valid() {
			continue
		}

		reach := h.reach.checkReachability(h.reader, h.edgeFilter, h.nodeFilter, h.maxReachLimit, run, useTile, useEdge)

		for _, p := range run {
			best, bestIdx, bestSq, found := bestSegment(p, edgeInfo.Shape)
			if !found {
				continue
			}
			admit(p, candidate{
				sqDistance:   bestSq,
				point:        best,
				index:        bestIdx,
				edgeID:       useID,
				edge:         useEdge,
				edgeInfo:     edgeInfo,
				tile:         useTile,
				reachability: reach,
			}, reach, p.location.MinimumReachability)
		}
	}
}

// bestSegment projects p's input onto every consecutive pair of shape,
// keeping the minimum squared-distance segment (spec §4.4 step 3).
func bestSegment(p *projector, shape []geo.Coordinate) (geo.Coordinate, int, float64, bool) {
	if len(shape) < 2 {
		return geo.Coordinate{}, 0, 0, false
	}
	bestIdx := 0
	bestPoint := p.project(shape[0], shape[1])
	bestSq := p.distanceSquared(bestPoint)
	for i := 1; i < len(shape)-1; i++ {
		pt := p.project(shape[i], shape[i+1])
		sq := p.distanceSquared(pt)
		if sq < bestSq {
			bestSq = sq
			bestPoint = pt
			bestIdx = i
		}
	}
	return bestPoint, bestIdx, bestSq, true
}

// admit implements spec §4.4 step 4's exact append-then-swap
// admission rule.
func admit(p *projector, c candidate, reachability int, minReach uint32) {
	var list *[]candidate
	if uint32(reachability) >= minReach {
		list = &p.reachable
	} else {
		list = &p.unreachable
	}
	b := *list

	if len(b) == 0 {
		*list = append(b, c)
		return
	}

	last := b[len(b)-1]
	inRadius := c.sqDistance < p.sqRadius
	better := c.sqDistance < last.sqDistance
	lastInRadius := last.sqDistance < p.sqRadius

	switch {
	case !inRadius && !better:
		return
	case !lastInRadius:
		b[len(b)-1] = c
	case better:
		*list = append(b, c)
	default:
		*list = append(b, c)
		n := len(*list)
		(*list)[n-1], (*list)[n-2] = (*list)[n-2], (*list)[n-1]
	}
}
