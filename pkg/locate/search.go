// Package locate implements the location-correlation core: tile
// binner, segment projector, bin handler, reachability prober and
// finalizer, wired together by Search.
package locate

import (
	"context"

	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
	"github.com/arvinsaputra/waypointsnap/pkg/util"
	"go.uber.org/zap"
)

// Search is the core's sole inbound operation (spec §6): given a
// batch of locations, a tile reader, and edge/node filters, it returns
// the best correlation for each distinct location. Duplicate
// locations (equal in every field) are deduplicated internally; an
// empty or fully-interrupted search returns an empty map. ctx is
// checked between bin rounds only; a reachability probe already in
// progress runs to completion before the next check. On cancellation
// the call returns an empty map (spec §5, §7).
func Search(
	ctx context.Context,
	locations []tilegraph.Location,
	reader tilegraph.Reader,
	edgeFilter tilegraph.EdgeFilter,
	nodeFilter tilegraph.NodeFilter,
	cfg config.Search,
	logger *zap.Logger,
) map[tilegraph.Location]tilegraph.Correlation {
	result := make(map[tilegraph.Location]tilegraph.Correlation)
	if len(locations) == 0 {
		return result
	}

	if edgeFilter == nil {
		edgeFilter = func(e *tilegraph.DirectedEdge) float64 {
			if e.Impassable {
				return 0
			}
			return 1
		}
	}
	if nodeFilter == nil {
		nodeFilter = func(*tilegraph.NodeInfo) bool { return false }
	}

	unique := dedupLocations(locations)

	projectors := make([]*projector, 0, len(unique))
	for _, loc := range unique {
		if err := tilegraph.Validate(loc); err != nil {
			if logger != nil {
				logger.Warn("dropping invalid location", zap.Error(err))
			}
			continue
		}
		projectors = append(projectors, newProjector(loc, reader, cfg))
	}
	if len(projectors) == 0 {
		return result
	}

	interrupted := func() bool { return util.StopConcurrentOperation(ctx) }

	handler := newBinHandler(reader, edgeFilter, nodeFilter, cfg, projectors)
	handler.run(interrupted)

	if interrupted() {
		return make(map[tilegraph.Location]tilegraph.Correlation)
	}

	for _, p := range projectors {
		edges := finalize(p, reader, edgeFilter, cfg)
		if len(edges) == 0 {
			continue
		}
		result[p.location] = tilegraph.Correlation{Location: p.location, Edges: edges}
	}
	return result
}

// dedupLocations removes value-equal duplicates, preserving the first
// occurrence's order (spec §6).
func dedupLocations(locations []tilegraph.Location) []tilegraph.Location {
	seen := make(map[tilegraph.Location]struct{}, len(locations))
	out := make([]tilegraph.Location, 0, len(locations))
	for _, loc := range locations {
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}
	return out
}
