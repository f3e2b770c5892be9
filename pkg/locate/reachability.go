package locate

import "github.com/arvinsaputra/waypointsnap/pkg/tilegraph"

// reachTable is the process-local mapping from end-node id to a slot
// index, paired with an append-only vector of slot counts (spec §3,
// §4.6). It is owned exclusively by one search call.
type reachTable struct {
	indices map[tilegraph.GraphId]int
	counts  []int
}

func newReachTable(reserve int) *reachTable {
	return &reachTable{
		indices: make(map[tilegraph.GraphId]int, reserve),
		counts:  make([]int, 0, reserve),
	}
}

// get returns the cached reachability of an end node, or -1 when
// unknown.
func (rt *reachTable) get(endNode tilegraph.GraphId) int {
	if idx, ok := rt.indices[endNode]; ok {
		return rt.counts[idx]
	}
	return -1
}

// checkReachability is the bin handler's "is it even worth checking"
// gate (spec §4.4 step 2, §4.6): skipped entirely when
// max_reach_limit is 0; otherwise a cached result for the edge's end
// node is returned when there is one, the check is short-circuited to
// max_reach_limit when every projector in the run already has a
// reachable candidate, and failing both a bounded probe runs.
func (rt *reachTable) checkReachability(
	reader tilegraph.Reader,
	edgeFilter tilegraph.EdgeFilter,
	nodeFilter tilegraph.NodeFilter,
	maxReachLimit uint32,
	run []*projector,
	tile *tilegraph.Tile,
	edge *tilegraph.DirectedEdge,
) int {
	if maxReachLimit == 0 {
		return 0
	}

	if idx, ok := rt.indices[edge.EndNode]; ok {
		return rt.counts[idx]
	}

	check := false
	for _, p := range run {
		if len(p.reachable) == 0 {
			check = true
			break
		}
	}
	if !check {
		return int(maxReachLimit)
	}

	node, nodeTile, ok := reader.GetEndNode(edge, tile)
	if !ok {
		return 0
	}

	reachIndex := len(rt.counts)
	rt.counts = append(rt.counts, 0)
	rt.depthFirst(reader, edgeFilter, nodeFilter, maxReachLimit, nodeTile, node, reachIndex)
	return rt.counts[len(rt.counts)-1]
}

// depthFirst is the bounded-depth probe of spec §4.6: it expands only
// along edges the edge filter accepts and through nodes the node
// filter does not block, stopping once the active slot's count hits
// max_reach_limit. Collisions with a node already bound to another
// slot trigger a merge and unwind the recursion back to the probe
// that started it (spec §9's "collisions unwind to the probe's
// entry"). It reports whether such a merge happened.
func (rt *reachTable) depthFirst(
	reader tilegraph.Reader,
	edgeFilter tilegraph.EdgeFilter,
	nodeFilter tilegraph.NodeFilter,
	maxReachLimit uint32,
	tile *tilegraph.Tile,
	node *tilegraph.NodeInfo,
	reachIndex int,
) bool {
	for i := uint32(0); rt.counts[len(rt.counts)-1] < int(maxReachLimit) && i < node.EdgeCount; i++ {
		edge, ok := tile.DirectedEdge(node.EdgeIndex + i)
		if !ok || edgeFilter(edge) == 0 {
			continue
		}
		n, nTile, ok := reader.GetEndNode(edge, tile)
		if !ok || nodeFilter(n) {
			continue
		}

		if existing, seen := rt.indices[edge.EndNode]; seen {
			if existing == reachIndex {
				// same probe, already visited: skip
				continue
			}
			// cross-collision: merge the older slot into this one,
			// minus one to avoid double-counting the shared node.
			last := len(rt.counts) - 1
			rt.counts[last] += rt.counts[existing] - 1
			rt.counts[existing] = rt.counts[last]
			return true
		}

		rt.indices[edge.EndNode] = reachIndex
		rt.counts[len(rt.counts)-1]++

		if rt.depthFirst(reader, edgeFilter, nodeFilter, maxReachLimit, nTile, n, reachIndex) {
			return true
		}
	}
	return false
}
