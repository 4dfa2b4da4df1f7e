// Package seed generates, loads and verifies the synthetic claims dataset.
// All randomness comes from a single seeded stream so a run is reproducible.
package seed

import "fmt"

// Config controls the statistical shape of one generation run.
type Config struct {
	Seed                int64 `json:"seed"`
	ProvidersPerRegion  int   `json:"providers_per_region"`
	CodesPerSystem      int   `json:"codes_per_system"`
	InjuryTypes         int   `json:"injury_types"`
	Claims              int   `json:"claims"`
	LookbackDays        int   `json:"lookback_days"`
	MaxCodesPerClaim    int   `json:"max_codes_per_claim"`
	MaxInjuriesPerClaim int   `json:"max_injuries_per_claim"`
}

// DefaultConfig returns the standard dataset shape: 39 providers, 84 codes,
// 16 injury types and 1200 claims over a three-year lookback window.
func DefaultConfig(seed int64) Config {
	return Config{
		Seed:                seed,
		ProvidersPerRegion:  3,
		CodesPerSystem:      21,
		InjuryTypes:         16,
		Claims:              1200,
		LookbackDays:        1095,
		MaxCodesPerClaim:    3,
		MaxInjuriesPerClaim: 2,
	}
}

// Validate rejects shapes that cannot produce a consistent dataset. These are
// configuration errors and are reported before any row is generated.
func (c Config) Validate() error {
	if c.ProvidersPerRegion < 1 {
		return fmt.Errorf("seed config: providers_per_region must be >= 1, got %d", c.ProvidersPerRegion)
	}
	if c.CodesPerSystem < 1 {
		return fmt.Errorf("seed config: codes_per_system must be >= 1, got %d", c.CodesPerSystem)
	}
	if c.InjuryTypes < 1 {
		return fmt.Errorf("seed config: injury_types must be >= 1, got %d", c.InjuryTypes)
	}
	if c.Claims < 1 {
		return fmt.Errorf("seed config: claims must be >= 1, got %d", c.Claims)
	}
	if c.LookbackDays < 0 {
		return fmt.Errorf("seed config: lookback_days must be >= 0, got %d", c.LookbackDays)
	}
	if c.MaxCodesPerClaim < 1 {
		return fmt.Errorf("seed config: max_codes_per_claim must be >= 1, got %d", c.MaxCodesPerClaim)
	}
	if c.MaxInjuriesPerClaim < 1 {
		return fmt.Errorf("seed config: max_injuries_per_claim must be >= 1, got %d", c.MaxInjuriesPerClaim)
	}
	return nil
}
