// Package engineconfig holds the engine's tuning constants. The defaults are
// empirically chosen values carried over from production sessions; a YAML
// file can override any subset of them.
package engineconfig

import (
	"os"
	"path/filepath"
	"time"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// EngineConfigPath is the default config file path, relative to the process
// working directory.
const EngineConfigPath = "config/engine.yaml"

// Config carries every tunable constant of the collision and placement
// engine. Zero values in an override file mean "keep the default".
type Config struct {
	// SpatialCellSize is the broad-phase grid cell size in world units.
	SpatialCellSize float32 `yaml:"spatial_cell_size"`
	// FloorCellSize is the floor-height sampling grid spacing.
	FloorCellSize float32 `yaml:"floor_cell_size"`
	// FloorPercentile picks the global floor from sorted samples (0..1).
	FloorPercentile float32 `yaml:"floor_percentile"`
	// ThrottleMillis bounds per-frame collision cost during drags.
	ThrottleMillis int `yaml:"throttle_millis"`
	// BoundsTolerance expands the background bounds for the end-of-drag
	// containment test.
	BoundsTolerance float32 `yaml:"bounds_tolerance"`
	// MaxOutsideDistance is how far a box center may leave the expanded
	// bounds before the placement is rejected.
	MaxOutsideDistance float32 `yaml:"max_outside_distance"`
	// PlacementPadding inflates candidate boxes during placement screening.
	PlacementPadding float32 `yaml:"placement_padding"`
	// PlacementGap is the extra ring spacing beyond the requested footprint.
	PlacementGap float32 `yaml:"placement_gap"`
	// FloorClearance lifts placed boxes off the sampled floor.
	FloorClearance float32 `yaml:"floor_clearance"`
	// StackClearance separates stacked fallback placements vertically.
	StackClearance float32 `yaml:"stack_clearance"`
}

// Default returns the production tuning values.
func Default() Config {
	return Config{
		SpatialCellSize:    2.0,
		FloorCellSize:      1.0,
		FloorPercentile:    0.10,
		ThrottleMillis:     16,
		BoundsTolerance:    0.1,
		MaxOutsideDistance: 2.0,
		PlacementPadding:   0.3,
		PlacementGap:       0.8,
		FloorClearance:     0.05,
		StackClearance:     0.3,
	}
}

// ThrottleWindow returns the collision throttle as a duration.
func (c Config) ThrottleWindow() time.Duration {
	return time.Duration(c.ThrottleMillis) * time.Millisecond
}

// Load reads overrides from path and merges them onto Default. A missing or
// invalid file yields Default without error; fields left out of the file keep
// their default values.
func Load(path string) (Config, error) {
	merged := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return merged, nil
	}
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return merged, nil
	}
	if err := copier.CopyWithOption(&merged, &override, copier.Option{IgnoreEmpty: true}); err != nil {
		return Default(), err
	}
	return merged, nil
}

// Save writes cfg to path, creating the config directory if needed.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
