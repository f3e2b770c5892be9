// Package tilegraph is the data model for the tiled road graph the
// location-correlation core searches over: compact ids, directed edge
// and node records, and the external-collaborator interfaces (tile
// reader, edge filter, node filter) the core is built against.
package tilegraph

import "fmt"

// GraphId identifies a tile, a hierarchy level within that tile's
// region, and an index inside the tile (a directed edge ordinal or a
// node ordinal, depending on context). Equality and hashing are exact,
// so GraphId is a plain comparable struct usable as a map key.
type GraphId struct {
	TileID int64
	Level  uint8
	Index  uint32
}

var InvalidGraphId = GraphId{TileID: -1}

func (id GraphId) IsValid() bool {
	return id.TileID >= 0
}

func (id GraphId) String() string {
	return fmt.Sprintf("%d/%d/%d", id.TileID, id.Level, id.Index)
}

// WithIndex returns a copy of id pointing at a different in-tile
// index, keeping the same tile and level.
func (id GraphId) WithIndex(index uint32) GraphId {
	id.Index = index
	return id
}
