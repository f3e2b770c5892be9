package tilegraph

import "github.com/arvinsaputra/waypointsnap/pkg/geo"

// DirectedEdge is one direction of one physical road segment. Every
// physical segment is represented by two DirectedEdges, forward and
// reverse, each other's "opposing" edge.
type DirectedEdge struct {
	Forward        bool
	LengthMeters   float64
	EndNode        GraphId
	EdgeInfoOffset uint32
	// IsTransition is set when this edge is a hierarchy-level
	// transition rather than a real road segment; the node-snap crawl
	// follows it exactly one level deep (spec §4.7) without
	// recursing into further transitions.
	IsTransition bool
	// Impassable marks the direction of a one-way street that exists
	// only so its opposing edge has somewhere to point; a default
	// EdgeFilter rejects it outright.
	Impassable bool
}

// NodeInfo is a graph vertex: a geographic point plus the contiguous
// range of outgoing directed edges that start there.
type NodeInfo struct {
	Point      geo.Coordinate
	EdgeIndex  uint32
	EdgeCount  uint32
	TrafficLight bool
}

// EdgeInfo carries the polyline shape shared by an edge and its
// opposing twin. Shape always has at least 2 points; index i in a
// Candidate means the projection landed on segment shape[i]->shape[i+1].
type EdgeInfo struct {
	Shape []geo.Coordinate
}

func (ei *EdgeInfo) Valid() bool {
	return ei != nil && len(ei.Shape) >= 2
}

// Bin is a fixed spatial sub-cell of a tile holding the ids of every
// directed edge whose shape intersects the cell.
type Bin struct {
	MinLon, MinLat, MaxLon, MaxLat float64
	Edges                          []GraphId
}

// Tile is one paged unit of the road graph: a fixed grid of bins plus
// the directed edges and nodes they reference. OpposingIndex is a
// concrete store's bookkeeping: index i's opposing directed edge is
// OpposingIndex[i], always resolved within this same tile. Readers
// that can only page same-tile opposing edges (most road tile
// layouts keep a physical segment's two directions co-resident) use
// this directly; a reader spanning tile boundaries for opposing edges
// would need its own bookkeeping instead.
type Tile struct {
	ID            GraphId
	BinGridDim    int
	Bins          []Bin
	Edges         []DirectedEdge
	OpposingIndex []uint32
	Nodes         []NodeInfo
	EdgeInfos     []EdgeInfo
}

func (t *Tile) DirectedEdge(index uint32) (*DirectedEdge, bool) {
	if t == nil || int(index) >= len(t.Edges) {
		return nil, false
	}
	return &t.Edges[index], true
}

func (t *Tile) Node(index uint32) (*NodeInfo, bool) {
	if t == nil || int(index) >= len(t.Nodes) {
		return nil, false
	}
	return &t.Nodes[index], true
}

func (t *Tile) EdgeInfo(offset uint32) (*EdgeInfo, bool) {
	if t == nil || int(offset) >= len(t.EdgeInfos) {
		return nil, false
	}
	return &t.EdgeInfos[offset], true
}

func (t *Tile) GetBin(index int) Bin {
	if t == nil || index < 0 || index >= len(t.Bins) {
		return Bin{}
	}
	return t.Bins[index]
}

// EdgeFilter decides whether a directed edge may be used for snapping
// or reachability expansion. Zero means unusable; must be pure and
// cheap, it runs in the bin handler's inner loop.
type EdgeFilter func(*DirectedEdge) float64

// NodeFilter reports whether a node should block a reachability probe
// (true means "do not traverse through this node").
type NodeFilter func(*NodeInfo) bool

// Reader is the external collaborator that pages tiles and resolves
// opposing edges/end nodes. Implementations are assumed to cache
// internally and must be safe for concurrent readers (spec §5).
type Reader interface {
	GetGraphTile(id GraphId) (*Tile, bool)
	GetDirectedEdge(id GraphId) (*DirectedEdge, *Tile, bool)
	GetOpposingEdgeId(id GraphId) (GraphId, *Tile, bool)
	GetOpposingEdge(id GraphId) (*DirectedEdge, *Tile, bool)
	// GetEndNode resolves a directed edge's end node, returning the
	// tile that node lives in (which may differ from the edge's own
	// tile at a tile boundary).
	GetEndNode(edge *DirectedEdge, tile *Tile) (*NodeInfo, *Tile, bool)
	// BinIndex returns the spatial index over every tile's bins. It is
	// geometry-only metadata (bin bounding boxes), not tile contents,
	// so handing it to the purely-geometric tile binner (spec §4.1)
	// doesn't violate the binner's contract.
	BinIndex() *BinIndex
}
