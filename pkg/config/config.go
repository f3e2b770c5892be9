// Package config seeds and reads the search engine's tuning knobs,
// following the teacher's pkg/http/server.go pattern of viper defaults
// plus an optional config file on disk.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Search holds the tunables spec.md §6 calls out as compile-time or
// config constants, plus a couple of resource knobs spec.md §5 leaves
// to the implementation (bin grid dimension, reach table reserve
// factor, batch worker count).
type Search struct {
	SearchCutoffMeters      float64
	NodeSnapMeters          float64
	SideOfStreetSnapMeters  float64
	NoHeadingMeters         float64
	HeadingSampleMeters     float64
	DefaultAngleWidthDeg    float64
	BinGridDim              int
	ReachTableReserveFactor int
	BatchWorkers            int
}

func DefaultSearch() Search {
	return Search{
		SearchCutoffMeters:      35000,
		NodeSnapMeters:          5,
		SideOfStreetSnapMeters:  5,
		NoHeadingMeters:         30,
		HeadingSampleMeters:     30,
		DefaultAngleWidthDeg:    60,
		BinGridDim:              5,
		ReachTableReserveFactor: 1024,
		BatchWorkers:            4,
	}
}

// Load seeds viper with the defaults above, optionally overlaying a
// config.yaml/.json under configPath (same SetConfigName/AddConfigPath
// dance as the teacher's util.ReadConfig, except a missing file is not
// fatal here — the defaults are a complete configuration on their
// own).
func Load(configPath string) (Search, error) {
	s := DefaultSearch()

	viper.SetDefault("search.cutoff_meters", s.SearchCutoffMeters)
	viper.SetDefault("search.node_snap_meters", s.NodeSnapMeters)
	viper.SetDefault("search.side_of_street_snap_meters", s.SideOfStreetSnapMeters)
	viper.SetDefault("search.no_heading_meters", s.NoHeadingMeters)
	viper.SetDefault("search.heading_sample_meters", s.HeadingSampleMeters)
	viper.SetDefault("search.default_angle_width_deg", s.DefaultAngleWidthDeg)
	viper.SetDefault("search.bin_grid_dim", s.BinGridDim)
	viper.SetDefault("search.reach_table_reserve_factor", s.ReachTableReserveFactor)
	viper.SetDefault("search.batch_workers", s.BatchWorkers)

	if configPath != "" {
		viper.SetConfigName("config")
		viper.AddConfigPath(configPath)
		if err := viper.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return s, fmt.Errorf("fatal error config file: %w", err)
			}
		}
	}

	s.SearchCutoffMeters = viper.GetFloat64("search.cutoff_meters")
	s.NodeSnapMeters = viper.GetFloat64("search.node_snap_meters")
	s.SideOfStreetSnapMeters = viper.GetFloat64("search.side_of_street_snap_meters")
	s.NoHeadingMeters = viper.GetFloat64("search.no_heading_meters")
	s.HeadingSampleMeters = viper.GetFloat64("search.heading_sample_meters")
	s.DefaultAngleWidthDeg = viper.GetFloat64("search.default_angle_width_deg")
	s.BinGridDim = viper.GetInt("search.bin_grid_dim")
	s.ReachTableReserveFactor = viper.GetInt("search.reach_table_reserve_factor")
	s.BatchWorkers = viper.GetInt("search.batch_workers")

	return s, nil
}
