package locate

import (
	"context"

	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one independent Search call to run as part of a Batch: its
// own location set and its own filters. Jobs share only the reader
// (spec §5: "they share only the reader... no mutable state flows
// between them").
type Job struct {
	Locations  []tilegraph.Location
	EdgeFilter tilegraph.EdgeFilter
	NodeFilter tilegraph.NodeFilter
}

// Batch runs every job's Search concurrently, bounded by
// cfg.BatchWorkers, the way the teacher dispatches independent
// per-request work with golang.org/x/sync/errgroup. Jobs do not fail
// individually, so the returned error is always nil; cancelling ctx
// makes every in-flight Search return an empty map rather than
// blocking.
func Batch(
	ctx context.Context,
	jobs []Job,
	reader tilegraph.Reader,
	cfg config.Search,
	logger *zap.Logger,
) ([]map[tilegraph.Location]tilegraph.Correlation, error) {
	results := make([]map[tilegraph.Location]tilegraph.Correlation, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers(cfg))

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = Search(gctx, job.Locations, reader, job.EdgeFilter, job.NodeFilter, cfg, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func batchWorkers(cfg config.Search) int {
	if cfg.BatchWorkers <= 0 {
		return 1
	}
	return cfg.BatchWorkers
}
