package tilestore

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
)

// Loader resolves a tile id to its tile on a cache miss. Implementations
// are expected to be comparatively slow (disk read + decompression);
// the CachedReader is what makes repeated lookups cheap.
type Loader func(id tilegraph.GraphId) (*tilegraph.Tile, bool)

// CachedReader is the concrete tilegraph.Reader the core runs
// against: an LRU-cached front end over a Loader, rate-limited on
// cache misses the way a production tile server throttles cold
// decompression, grounded in the teacher's pkg/engine.go
// (lru.New[...]) — added properly to go.mod since this package
// actually imports it.
type CachedReader struct {
	cache   *lru.Cache[tilegraph.GraphId, *tilegraph.Tile]
	limiter *rate.Limiter
	load    Loader
	bins    *tilegraph.BinIndex
	logger  *zap.Logger
}

// NewCachedReader builds a reader with capacity tiles held in memory
// and coldLoadsPerSecond bounding how fast Loader may be invoked on
// cache misses. bins must already be populated for every tile the
// loader can return.
func NewCachedReader(capacity int, coldLoadsPerSecond float64, load Loader, bins *tilegraph.BinIndex, logger *zap.Logger) (*CachedReader, error) {
	cache, err := lru.New[tilegraph.GraphId, *tilegraph.Tile](capacity)
	if err != nil {
		return nil, err
	}
	burst := int(coldLoadsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &CachedReader{
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(coldLoadsPerSecond), burst),
		load:    load,
		bins:    bins,
		logger:  logger,
	}, nil
}

func tileKey(id tilegraph.GraphId) tilegraph.GraphId {
	return tilegraph.GraphId{TileID: id.TileID, Level: id.Level}
}

func (r *CachedReader) GetGraphTile(id tilegraph.GraphId) (*tilegraph.Tile, bool) {
	key := tileKey(id)
	if t, ok := r.cache.Get(key); ok {
		return t, true
	}
	if err := r.limiter.Wait(context.Background()); err != nil && r.logger != nil {
		r.logger.Warn("tile load throttle interrupted", zap.Error(err))
	}
	t, ok := r.load(key)
	if !ok {
		return nil, false
	}
	r.cache.Add(key, t)
	return t, true
}

func (r *CachedReader) GetDirectedEdge(id tilegraph.GraphId) (*tilegraph.DirectedEdge, *tilegraph.Tile, bool) {
	t, ok := r.GetGraphTile(id)
	if !ok {
		return nil, nil, false
	}
	e, ok := t.DirectedEdge(id.Index)
	if !ok {
		return nil, nil, false
	}
	return e, t, true
}

// GetOpposingEdgeId resolves id's opposing edge via its owning tile's
// OpposingIndex bookkeeping (same-tile only, see Tile's doc comment).
func (r *CachedReader) GetOpposingEdgeId(id tilegraph.GraphId) (tilegraph.GraphId, *tilegraph.Tile, bool) {
	t, ok := r.GetGraphTile(id)
	if !ok || int(id.Index) >= len(t.OpposingIndex) {
		return tilegraph.GraphId{}, nil, false
	}
	oppID := id.WithIndex(t.OpposingIndex[id.Index])
	if _, ok := t.DirectedEdge(oppID.Index); !ok {
		return tilegraph.GraphId{}, nil, false
	}
	return oppID, t, true
}

func (r *CachedReader) GetOpposingEdge(id tilegraph.GraphId) (*tilegraph.DirectedEdge, *tilegraph.Tile, bool) {
	oppID, t, ok := r.GetOpposingEdgeId(id)
	if !ok {
		return nil, nil, false
	}
	e, ok := t.DirectedEdge(oppID.Index)
	if !ok {
		return nil, nil, false
	}
	return e, t, true
}

func (r *CachedReader) GetEndNode(edge *tilegraph.DirectedEdge, tile *tilegraph.Tile) (*tilegraph.NodeInfo, *tilegraph.Tile, bool) {
	nodeTile := tile
	if edge.EndNode.TileID != tile.ID.TileID || edge.EndNode.Level != tile.ID.Level {
		t, ok := r.GetGraphTile(edge.EndNode)
		if !ok {
			return nil, nil, false
		}
		nodeTile = t
	}
	n, ok := nodeTile.Node(edge.EndNode.Index)
	if !ok {
		return nil, nil, false
	}
	return n, nodeTile, true
}

func (r *CachedReader) BinIndex() *tilegraph.BinIndex {
	return r.bins
}
