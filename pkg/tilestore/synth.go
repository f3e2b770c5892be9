package tilestore

import (
	"golang.org/x/exp/rand"

	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
)

// SynthConfig describes a synthetic grid-road tile, used by demos and
// tests that don't need a real OSM extract. Seeded generation mirrors
// the teacher's cmd/trainer/online_mapmatch_mht/main.go use of
// golang.org/x/exp/rand.
type SynthConfig struct {
	TileID                         int64
	Level                          uint8
	MinLon, MinLat, MaxLon, MaxLat float64
	GridSize                       int
	Seed                           uint64
	JitterMeters                   float64
	BinGridDim                     int
}

// GenerateSynthTile builds a GridSize x GridSize lattice of nodes
// connected by straight streets, with every physical segment
// represented as a forward/reverse directed-edge pair sharing one
// EdgeInfo (spec §9's evil-twin policy), grouped per node so each
// NodeInfo's edge range is contiguous.
func GenerateSynthTile(cfg SynthConfig) *tilegraph.Tile {
	n := cfg.GridSize
	if n < 2 {
		n = 2
	}
	if cfg.TileID == 0 {
		center := geo.NewCoordinate((cfg.MinLon+cfg.MaxLon)/2, (cfg.MinLat+cfg.MaxLat)/2)
		cfg.TileID = geo.TileIDForPoint(center)
	}
	r := rand.New(rand.NewSource(cfg.Seed))

	points := make([]geo.Coordinate, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			lon := cfg.MinLon + (cfg.MaxLon-cfg.MinLon)*float64(col)/float64(n-1)
			lat := cfg.MinLat + (cfg.MaxLat-cfg.MinLat)*float64(row)/float64(n-1)
			if cfg.JitterMeters > 0 {
				dLon, dLat := geo.BoundingBoxHalfExtents(lat, cfg.JitterMeters)
				lon += (r.Float64()*2 - 1) * dLon
				lat += (r.Float64()*2 - 1) * dLat
			}
			points[row*n+col] = geo.NewCoordinate(lon, lat)
		}
	}

	perNode := make([][]tilegraph.DirectedEdge, n*n)
	var edgeInfos []tilegraph.EdgeInfo

	type pairRef struct {
		aNode, aPos int
		bNode, bPos int
	}
	var pairs []pairRef

	addSegment := func(a, b int) {
		shape := []geo.Coordinate{points[a], points[b]}
		length := geo.HaversineDistanceMeters(points[a], points[b])
		infoIdx := uint32(len(edgeInfos))
		edgeInfos = append(edgeInfos, tilegraph.EdgeInfo{Shape: shape})

		aPos := len(perNode[a])
		perNode[a] = append(perNode[a], tilegraph.DirectedEdge{
			Forward:        true,
			LengthMeters:   length,
			EndNode:        tilegraph.GraphId{TileID: cfg.TileID, Level: cfg.Level, Index: uint32(b)},
			EdgeInfoOffset: infoIdx,
		})
		bPos := len(perNode[b])
		perNode[b] = append(perNode[b], tilegraph.DirectedEdge{
			Forward:        false,
			LengthMeters:   length,
			EndNode:        tilegraph.GraphId{TileID: cfg.TileID, Level: cfg.Level, Index: uint32(a)},
			EdgeInfoOffset: infoIdx,
		})
		pairs = append(pairs, pairRef{aNode: a, aPos: aPos, bNode: b, bPos: bPos})
	}

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			idx := row*n + col
			if col+1 < n {
				addSegment(idx, idx+1)
			}
			if row+1 < n {
				addSegment(idx, idx+n)
			}
		}
	}

	nodes := make([]tilegraph.NodeInfo, n*n)
	nodeStart := make([]uint32, n*n)
	var edges []tilegraph.DirectedEdge
	for i := range perNode {
		nodeStart[i] = uint32(len(edges))
		edges = append(edges, perNode[i]...)
		nodes[i] = tilegraph.NodeInfo{
			Point:     points[i],
			EdgeIndex: nodeStart[i],
			EdgeCount: uint32(len(perNode[i])),
		}
	}

	opposing := make([]uint32, len(edges))
	for _, p := range pairs {
		aIdx := nodeStart[p.aNode] + uint32(p.aPos)
		bIdx := nodeStart[p.bNode] + uint32(p.bPos)
		opposing[aIdx] = bIdx
		opposing[bIdx] = aIdx
	}

	binGridDim := cfg.BinGridDim
	if binGridDim < 1 {
		binGridDim = 1
	}
	bins := buildBins(binGridDim, cfg.MinLon, cfg.MinLat, cfg.MaxLon, cfg.MaxLat, nodes, edges, cfg.TileID, cfg.Level)

	return &tilegraph.Tile{
		ID:            tilegraph.GraphId{TileID: cfg.TileID, Level: cfg.Level},
		BinGridDim:    binGridDim,
		Bins:          bins,
		Edges:         edges,
		OpposingIndex: opposing,
		Nodes:         nodes,
		EdgeInfos:     edgeInfos,
	}
}

// buildBins assigns every directed edge to the grid cells its shape
// touches, the way a real tile builder would bucket edges into bins
// for the tile binner's spatial index. Shapes are straight segments
// between the edge's two nodes, so every cell in the block spanned by
// the end points' cells is assigned; that covers every cell the
// segment crosses.
func buildBins(dim int, minLon, minLat, maxLon, maxLat float64, nodes []tilegraph.NodeInfo, edges []tilegraph.DirectedEdge, tileID int64, level uint8) []tilegraph.Bin {
	bins := make([]tilegraph.Bin, dim*dim)
	lonStep := (maxLon - minLon) / float64(dim)
	latStep := (maxLat - minLat) / float64(dim)
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			bins[r*dim+c] = tilegraph.Bin{
				MinLon: minLon + float64(c)*lonStep,
				MinLat: minLat + float64(r)*latStep,
				MaxLon: minLon + float64(c+1)*lonStep,
				MaxLat: minLat + float64(r+1)*latStep,
			}
		}
	}

	cellOf := func(p geo.Coordinate) (int, int) {
		c := int((p.Lon - minLon) / lonStep)
		r := int((p.Lat - minLat) / latStep)
		if c < 0 {
			c = 0
		}
		if c >= dim {
			c = dim - 1
		}
		if r < 0 {
			r = 0
		}
		if r >= dim {
			r = dim - 1
		}
		return r, c
	}

	for nodeIdx := range nodes {
		node := &nodes[nodeIdx]
		for i := uint32(0); i < node.EdgeCount; i++ {
			edge := &edges[node.EdgeIndex+i]
			r1, c1 := cellOf(node.Point)
			r2, c2 := cellOf(nodesPointOf(nodes, edge.EndNode))
			id := tilegraph.GraphId{TileID: tileID, Level: level, Index: node.EdgeIndex + i}
			for r := min(r1, r2); r <= max(r1, r2); r++ {
				for c := min(c1, c2); c <= max(c1, c2); c++ {
					addEdgeToBin(bins, dim, r, c, id)
				}
			}
		}
	}
	return bins
}

func nodesPointOf(nodes []tilegraph.NodeInfo, id tilegraph.GraphId) geo.Coordinate {
	if int(id.Index) >= len(nodes) {
		return geo.Coordinate{}
	}
	return nodes[id.Index].Point
}

func addEdgeToBin(bins []tilegraph.Bin, dim, r, c int, id tilegraph.GraphId) {
	idx := r*dim + c
	bins[idx].Edges = append(bins[idx].Edges, id)
}
