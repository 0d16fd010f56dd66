package config

import (
	"os"

	"github.com/railsched/railsched/timeutil"
	"gopkg.in/yaml.v3"
)

// Cost is a floating-point monetary cost. Railsched never tries to
// model currency precision beyond float64.
type Cost float64

// ShuntingConfig holds the minimum dwell/coupling durations used by the
// network's can_reach headway calculation.
type ShuntingConfig struct {
	Minimal       timeutil.Duration
	DeadHeadTrip  timeutil.Duration
	Coupling      timeutil.Duration
}

// MaintenanceConfig holds the maintenance distance-limit credit.
type MaintenanceConfig struct {
	MaximalDistance timeutil.Distance
}

// CostsConfig holds the per-second/per-activity cost coefficients that
// feed both the objective framework's soft-cost level and the
// min-cost-flow solver's edge costs.
type CostsConfig struct {
	Staff        Cost
	ServiceTrip  Cost
	Maintenance  Cost
	DeadHeadTrip Cost
	Idle         Cost
}

// Config is the solver's full parameter set, mirroring the instance
// document's parameters object.
type Config struct {
	ForbidDeadHeadTrip bool
	DayLimitThreshold  timeutil.Duration
	Shunting           ShuntingConfig
	Maintenance        MaintenanceConfig
	Costs              CostsConfig
	// MaxDistance is the validation clamp: input distances above it
	// are reduced to it with a warning.
	MaxDistance timeutil.Distance
}

// Default returns a Config with permissive defaults: no forbidden
// dead-head trips, no day limit, zero shunting overhead, no maintenance
// credit, zero costs, and a 100000km MAX_DISTANCE clamp.
func Default() Config {
	return Config{
		ForbidDeadHeadTrip: false,
		DayLimitThreshold:  timeutil.Infinity,
		Shunting: ShuntingConfig{
			Minimal:      timeutil.Zero,
			DeadHeadTrip: timeutil.Zero,
			Coupling:     timeutil.Zero,
		},
		Maintenance: MaintenanceConfig{MaximalDistance: timeutil.InfiniteDistance},
		Costs:       CostsConfig{},
		MaxDistance: timeutil.FromMeters(100_000_000),
	}
}

// yamlOverride is the subset of Config that an override file may set;
// zero-valued in yaml is treated as "leave the default", matching the
// permissive override style of the CLI's --config flag.
type yamlOverride struct {
	ForbidDeadHeadTrip bool     `yaml:"forbidDeadHeadTrip"`
	DayLimitThreshold  string   `yaml:"dayLimitThreshold"`
	Shunting           struct {
		Minimal      string `yaml:"minimal"`
		DeadHeadTrip string `yaml:"deadHeadTrip"`
		Coupling     string `yaml:"coupling"`
	} `yaml:"shunting"`
	Maintenance struct {
		MaximalDistanceKm float64 `yaml:"maximalDistanceKm"`
	} `yaml:"maintenance"`
	Costs struct {
		Staff        float64 `yaml:"staff"`
		ServiceTrip  float64 `yaml:"serviceTrip"`
		Maintenance  float64 `yaml:"maintenance"`
		DeadHeadTrip float64 `yaml:"deadHeadTrip"`
		Idle         float64 `yaml:"idle"`
	} `yaml:"costs"`
}

// LoadYAMLOverride reads a YAML file at path and applies any fields it
// sets on top of base, returning the merged Config. A missing duration
// string ("") leaves the corresponding base field untouched.
func LoadYAMLOverride(path string, base Config) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	var ov yamlOverride
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return base, err
	}

	cfg := base
	cfg.ForbidDeadHeadTrip = ov.ForbidDeadHeadTrip
	if ov.DayLimitThreshold != "" {
		if d, err := timeutil.ParseDuration(ov.DayLimitThreshold); err == nil {
			cfg.DayLimitThreshold = d
		}
	}
	if ov.Shunting.Minimal != "" {
		if d, err := timeutil.ParseDuration(ov.Shunting.Minimal); err == nil {
			cfg.Shunting.Minimal = d
		}
	}
	if ov.Shunting.DeadHeadTrip != "" {
		if d, err := timeutil.ParseDuration(ov.Shunting.DeadHeadTrip); err == nil {
			cfg.Shunting.DeadHeadTrip = d
		}
	}
	if ov.Shunting.Coupling != "" {
		if d, err := timeutil.ParseDuration(ov.Shunting.Coupling); err == nil {
			cfg.Shunting.Coupling = d
		}
	}
	if ov.Maintenance.MaximalDistanceKm > 0 {
		cfg.Maintenance.MaximalDistance = timeutil.FromKilometers(ov.Maintenance.MaximalDistanceKm)
	}
	if ov.Costs.Staff > 0 {
		cfg.Costs.Staff = Cost(ov.Costs.Staff)
	}
	if ov.Costs.ServiceTrip > 0 {
		cfg.Costs.ServiceTrip = Cost(ov.Costs.ServiceTrip)
	}
	if ov.Costs.Maintenance > 0 {
		cfg.Costs.Maintenance = Cost(ov.Costs.Maintenance)
	}
	if ov.Costs.DeadHeadTrip > 0 {
		cfg.Costs.DeadHeadTrip = Cost(ov.Costs.DeadHeadTrip)
	}
	if ov.Costs.Idle > 0 {
		cfg.Costs.Idle = Cost(ov.Costs.Idle)
	}
	return cfg, nil
}
