// Package config loads the tunables spec.md section 9 says must never be
// widened silently: the coercion iteration cap, the fast-follower-probe
// toggle, and the default-constructor auto-copy toggle.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config mirrors the shape of a project manifest's [adapt] table.
type Config struct {
	Adapt Adapt `toml:"adapt"`
}

type Adapt struct {
	// CoercionIterationCap bounds how many coercion steps the coerce stage
	// may insert for a single actual before it reports a
	// coercion-chain-divergence invariant failure. spec.md section 9: "the
	// source says arbitrarily, 6" - widening this is a deliberate,
	// recorded config change, never a silent one.
	CoercionIterationCap int `toml:"coercion_iteration_cap"`
	// EmitFastFollowerChecks toggles generation of the four static/dynamic
	// fast-follower probe functions in the promotion wrapper family.
	EmitFastFollowerChecks bool `toml:"emit_fast_follower_checks"`
	// AutoCopyDefaultConstructorFields toggles the extra auto_copy wrap
	// spec.md section 4.3 describes for default-constructor field writes;
	// see DESIGN.md's open-question decision before flipping it.
	AutoCopyDefaultConstructorFields bool `toml:"auto_copy_default_constructor_fields"`
}

// Default returns the configuration spec.md documents.
func Default() Config {
	return Config{Adapt: Adapt{
		CoercionIterationCap:             6,
		EmitFastFollowerChecks:           true,
		AutoCopyDefaultConstructorFields: true,
	}}
}

// Load reads a TOML manifest from path, filling any field it does not set
// from Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Adapt.CoercionIterationCap <= 0 {
		cfg.Adapt.CoercionIterationCap = Default().Adapt.CoercionIterationCap
	}
	return cfg, nil
}
