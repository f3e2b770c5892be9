package tilestore

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"

	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
	"github.com/arvinsaputra/waypointsnap/pkg/util"
)

// WriteTile persists a tile as a bzip2-compressed text record,
// following the teacher's datastructure.WriteGraph convention
// (bzip2.NewWriter + bufio.Writer + fmt.Fprintf).
func WriteTile(filename string, t *tilegraph.Tile) error {
	f, err := os.Create(filename)
	if err != nil {
		return util.WrapErrorf(err, util.ErrTileUnavailable, "create tile file %s", filename)
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)
	defer w.Flush()

	fmt.Fprintf(w, "%d %d %d %d %d %d\n",
		t.ID.TileID, t.ID.Level, len(t.Nodes), len(t.Edges), len(t.EdgeInfos), t.BinGridDim)

	for _, n := range t.Nodes {
		tl := 0
		if n.TrafficLight {
			tl = 1
		}
		fmt.Fprintf(w, "%s %s %d %d %d\n",
			formatFloat(n.Point.Lon), formatFloat(n.Point.Lat), n.EdgeIndex, n.EdgeCount, tl)
	}

	for i, e := range t.Edges {
		fwd, trans := 0, 0
		if e.Forward {
			fwd = 1
		}
		if e.IsTransition {
			trans = 1
		}
		fmt.Fprintf(w, "%d %s %s %d %d %d\n",
			fwd, formatFloat(e.LengthMeters), graphIDString(e.EndNode), e.EdgeInfoOffset, trans, t.OpposingIndex[i])
	}

	for _, ei := range t.EdgeInfos {
		fmt.Fprintf(w, "%s\n", encodeShape(ei.Shape))
	}

	fmt.Fprintf(w, "%d\n", len(t.Bins))
	for _, b := range t.Bins {
		ids := make([]string, len(b.Edges))
		for i, id := range b.Edges {
			ids[i] = graphIDString(id)
		}
		fmt.Fprintf(w, "%s %s %s %s %s\n",
			formatFloat(b.MinLon), formatFloat(b.MinLat), formatFloat(b.MaxLon), formatFloat(b.MaxLat),
			strings.Join(ids, ","))
	}

	return nil
}

// ReadTile loads a tile file written by WriteTile.
func ReadTile(filename string) (*tilegraph.Tile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrTileUnavailable, "open tile file %s", filename)
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}

	s := bufio.NewScanner(bz)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	header, err := nextFields(s)
	if err != nil {
		return nil, err
	}
	if len(header) != 6 {
		return nil, util.WrapErrorf(nil, util.ErrMalformedShape, "tile header has %d fields", len(header))
	}
	tileID, _ := strconv.ParseInt(header[0], 10, 64)
	level, _ := strconv.ParseUint(header[1], 10, 8)
	numNodes, _ := strconv.Atoi(header[2])
	numEdges, _ := strconv.Atoi(header[3])
	numEdgeInfos, _ := strconv.Atoi(header[4])
	binGridDim, _ := strconv.Atoi(header[5])

	t := &tilegraph.Tile{
		ID:            tilegraph.GraphId{TileID: tileID, Level: uint8(level)},
		BinGridDim:    binGridDim,
		Nodes:         make([]tilegraph.NodeInfo, numNodes),
		Edges:         make([]tilegraph.DirectedEdge, numEdges),
		OpposingIndex: make([]uint32, numEdges),
		EdgeInfos:     make([]tilegraph.EdgeInfo, numEdgeInfos),
	}

	for i := 0; i < numNodes; i++ {
		fields, err := nextFields(s)
		if err != nil {
			return nil, err
		}
		lon, _ := strconv.ParseFloat(fields[0], 64)
		lat, _ := strconv.ParseFloat(fields[1], 64)
		edgeIndex, _ := strconv.ParseUint(fields[2], 10, 32)
		edgeCount, _ := strconv.ParseUint(fields[3], 10, 32)
		t.Nodes[i] = tilegraph.NodeInfo{
			Point:        geo.NewCoordinate(lon, lat),
			EdgeIndex:    uint32(edgeIndex),
			EdgeCount:    uint32(edgeCount),
			TrafficLight: fields[4] == "1",
		}
	}

	for i := 0; i < numEdges; i++ {
		fields, err := nextFields(s)
		if err != nil {
			return nil, err
		}
		length, _ := strconv.ParseFloat(fields[1], 64)
		endNode, err := parseGraphID(fields[2])
		if err != nil {
			return nil, err
		}
		offset, _ := strconv.ParseUint(fields[3], 10, 32)
		opp, _ := strconv.ParseUint(fields[5], 10, 32)
		t.Edges[i] = tilegraph.DirectedEdge{
			Forward:        fields[0] == "1",
			LengthMeters:   length,
			EndNode:        endNode,
			EdgeInfoOffset: uint32(offset),
			IsTransition:   fields[4] == "1",
		}
		t.OpposingIndex[i] = uint32(opp)
	}

	for i := 0; i < numEdgeInfos; i++ {
		if !s.Scan() {
			return nil, util.WrapErrorf(s.Err(), util.ErrMalformedShape, "tile %d missing edge info %d", tileID, i)
		}
		shape, err := decodeShape(s.Text())
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrMalformedShape, "tile %d edge info %d", tileID, i)
		}
		t.EdgeInfos[i] = tilegraph.EdgeInfo{Shape: shape}
	}

	binCountFields, err := nextFields(s)
	if err != nil {
		return nil, err
	}
	numBins, _ := strconv.Atoi(binCountFields[0])
	t.Bins = make([]tilegraph.Bin, numBins)
	for i := 0; i < numBins; i++ {
		fields, err := nextFields(s)
		if err != nil {
			return nil, err
		}
		minLon, _ := strconv.ParseFloat(fields[0], 64)
		minLat, _ := strconv.ParseFloat(fields[1], 64)
		maxLon, _ := strconv.ParseFloat(fields[2], 64)
		maxLat, _ := strconv.ParseFloat(fields[3], 64)
		var edges []tilegraph.GraphId
		if len(fields) > 4 && fields[4] != "" {
			for _, tok := range strings.Split(fields[4], ",") {
				id, err := parseGraphID(tok)
				if err != nil {
					return nil, err
				}
				edges = append(edges, id)
			}
		}
		t.Bins[i] = tilegraph.Bin{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat, Edges: edges}
	}

	return t, nil
}

func nextFields(s *bufio.Scanner) ([]string, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, util.WrapErrorf(nil, util.ErrMalformedShape, "unexpected end of tile file")
	}
	return strings.Fields(s.Text()), nil
}

func graphIDString(id tilegraph.GraphId) string {
	return fmt.Sprintf("%d:%d:%d", id.TileID, id.Level, id.Index)
}

func parseGraphID(s string) (tilegraph.GraphId, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return tilegraph.GraphId{}, util.WrapErrorf(nil, util.ErrMalformedShape, "malformed graph id %q", s)
	}
	tileID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return tilegraph.GraphId{}, err
	}
	level, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return tilegraph.GraphId{}, err
	}
	index, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return tilegraph.GraphId{}, err
	}
	return tilegraph.GraphId{TileID: tileID, Level: uint8(level), Index: uint32(index)}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
