package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - At least two locations (source and target must be distinct countries)
//   - Duplicate country codes and out-of-range coordinates
//   - Non-empty attack type labels and a positive tick interval
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Generator.TickIntervalMs <= 0 {
		errs = append(errs, "generator: tick_interval_ms must be positive")
	}
	if len(cfg.Generator.AttackTypes) == 0 {
		errs = append(errs, "generator: attack_types must not be empty")
	}
	for i, t := range cfg.Generator.AttackTypes {
		if t == "" {
			errs = append(errs, fmt.Sprintf("generator: attack_types[%d] is empty", i))
		}
	}

	if len(cfg.Generator.Locations) < 2 {
		errs = append(errs, "generator: at least two locations are required")
	}
	seen := make(map[string]int)
	for i, loc := range cfg.Generator.Locations {
		if loc.Country == "" {
			errs = append(errs, fmt.Sprintf("locations[%d]: country is required", i))
			continue
		}
		if prev, ok := seen[loc.Country]; ok {
			errs = append(errs, fmt.Sprintf("duplicate country %q (locations[%d] and locations[%d])", loc.Country, prev, i))
		} else {
			seen[loc.Country] = i
		}
		if loc.Lat < -90 || loc.Lat > 90 {
			errs = append(errs, fmt.Sprintf("location %s: lat %.4f out of range [-90,90]", loc.Country, loc.Lat))
		}
		if loc.Lng < -180 || loc.Lng > 180 {
			errs = append(errs, fmt.Sprintf("location %s: lng %.4f out of range [-180,180]", loc.Country, loc.Lng))
		}
	}

	if cfg.Intel.TimeoutMs < 0 {
		errs = append(errs, "intel: timeout_ms must not be negative")
	}
	if cfg.History.WarmDays < 0 {
		errs = append(errs, "history: warm_days must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
