package tilestore

import (
	"go.uber.org/zap"

	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
)

// MemoryStore holds a set of tiles entirely in memory and indexes
// each tile's bins once, when AddTile registers it. It is the Loader a
// CachedReader is built from for synthetic and OSM-built demos/tests.
type MemoryStore struct {
	tiles map[tilegraph.GraphId]*tilegraph.Tile
	bins  *tilegraph.BinIndex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tiles: make(map[tilegraph.GraphId]*tilegraph.Tile),
		bins:  tilegraph.NewBinIndex(),
	}
}

// AddTile registers a tile and its bins. Call once per tile id.
func (s *MemoryStore) AddTile(t *tilegraph.Tile) {
	key := tilegraph.GraphId{TileID: t.ID.TileID, Level: t.ID.Level}
	s.tiles[key] = t
	s.bins.Register(key, t.Bins)
}

func (s *MemoryStore) Load(id tilegraph.GraphId) (*tilegraph.Tile, bool) {
	t, ok := s.tiles[tilegraph.GraphId{TileID: id.TileID, Level: id.Level}]
	return t, ok
}

func (s *MemoryStore) BinIndex() *tilegraph.BinIndex {
	return s.bins
}

// NewReader wraps the store behind a rate-limited LRU CachedReader,
// ready to hand to locate.Search as a tilegraph.Reader.
func (s *MemoryStore) NewReader(cacheCapacity int, coldLoadsPerSecond float64, logger *zap.Logger) (*CachedReader, error) {
	return NewCachedReader(cacheCapacity, coldLoadsPerSecond, s.Load, s.bins, logger)
}
