// Command waypointsnap runs the location-correlation search against
// either a real OSM PBF extract or a synthetic grid tile, and prints
// the resulting correlations as JSON. It mirrors the teacher's
// cmd/engine/main.go shape: flags, a zap logger, viper-backed config,
// then a single top-level call into the library.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/arvinsaputra/waypointsnap/pkg/config"
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/arvinsaputra/waypointsnap/pkg/locate"
	"github.com/arvinsaputra/waypointsnap/pkg/logr"
	"github.com/arvinsaputra/waypointsnap/pkg/tilegraph"
	"github.com/arvinsaputra/waypointsnap/pkg/tilestore"
)

func main() {
	osmPath := flag.String("osm", "", "path to an OSM PBF extract; when empty a synthetic grid tile is used instead")
	configPath := flag.String("config", "", "directory containing an optional config.yaml")
	dev := flag.Bool("dev", false, "use a human-readable development logger")
	lon := flag.Float64("lon", 0, "query point longitude")
	lat := flag.Float64("lat", 0, "query point latitude")
	radius := flag.Float64("radius", 50, "search radius in meters")
	flag.Parse()

	logger, err := logr.New(*dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	store := tilestore.NewMemoryStore()
	if *osmPath != "" {
		tile, err := tilestore.BuildTileFromPBF(*osmPath, 0, 0, cfg.BinGridDim)
		if err != nil {
			logger.Fatal("build tile from osm", zap.Error(err))
		}
		store.AddTile(tile)
	} else {
		tile := tilestore.GenerateSynthTile(tilestore.SynthConfig{
			Level:        0,
			MinLon:       -122.45, MinLat: 37.75, MaxLon: -122.40, MaxLat: 37.80,
			GridSize:     8, Seed: 42, JitterMeters: 3, BinGridDim: cfg.BinGridDim,
		})
		store.AddTile(tile)
		if *lon == 0 && *lat == 0 {
			*lon, *lat = -122.425, 37.775
		}
	}

	reader, err := store.NewReader(64, 50, logger)
	if err != nil {
		logger.Fatal("build cached reader", zap.Error(err))
	}

	loc := tilegraph.Location{
		Point:        geo.NewCoordinate(*lon, *lat),
		RadiusMeters: *radius,
		StopType:     tilegraph.Break,
	}

	jobs := []locate.Job{{Locations: []tilegraph.Location{loc}}}
	batchResults, err := locate.Batch(context.Background(), jobs, reader, cfg, logger)
	if err != nil {
		logger.Fatal("batch search", zap.Error(err))
	}

	out := make([]tilegraph.Correlation, 0, len(batchResults[0]))
	for _, c := range batchResults[0] {
		out = append(out, c)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Fatal("encode results", zap.Error(err))
	}
}
