// Package config loads simulation settings from a Starlark file.
//
// Every setting is optional; absent settings keep their defaults. A
// settings file is ordinary Starlark, so values may be computed:
//
//	population = 16
//	mutation_rate = 4 / 100
//	step_cap = 1 << 16
package config

import (
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/primeval/evolve"
	"github.com/ezrec/primeval/sim"
)

const (
	PROGRAM_PATH_DEFAULT = "primeval.prog" // Winning-program dump path.

	RATE_MIN = 0.01 // Lowest permitted mutation rate.
	RATE_MAX = 0.10 // Highest permitted mutation rate.
)

// Config holds the simulation settings.
type Config struct {
	Population   int     // Machines in the population.
	Rate         float64 // Per-byte mutation probability.
	StepCap      int     // Ticks before a non-halting machine is scored.
	Speed        int     // Run-phase ticks per frame.
	Seed         uint64  // RNG seed; zero selects a time-based seed.
	ProgramPath  string  // Winning-program dump path.
	DetectStalls bool    // Enable the degenerate-loop detector.
}

// Default returns the settings used when no file overrides them.
func Default() Config {
	return Config{
		Population:   evolve.POPULATION_SIZE,
		Rate:         evolve.RATE_DEFAULT,
		StepCap:      evolve.STEP_CAP,
		Speed:        sim.SPEED_DEFAULT,
		ProgramPath:  PROGRAM_PATH_DEFAULT,
		DetectStalls: true,
	}
}

// Load evaluates the Starlark settings file at path over the defaults.
func Load(path string) (cfg Config, err error) {
	cfg = Default()

	src, err := os.ReadFile(path)
	if err != nil {
		return
	}

	err = cfg.Parse(path, src)
	if err != nil {
		return
	}

	err = cfg.Validate()
	return
}

// Parse evaluates Starlark source over the current settings. Globals
// with recognized names override settings; other globals are permitted
// as scratch values.
func (cfg *Config) Parse(name string, src []byte) (err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}

	dict, err := starlark.ExecFileOptions(&opts, &thread, name, src, starlark.StringDict{})
	if err != nil {
		return
	}

	for key, setter := range map[string]func(starlark.Value) error{
		"population":    func(v starlark.Value) error { return asInt(v, &cfg.Population) },
		"mutation_rate": func(v starlark.Value) error { return asFloat(v, &cfg.Rate) },
		"step_cap":      func(v starlark.Value) error { return asInt(v, &cfg.StepCap) },
		"speed":         func(v starlark.Value) error { return asInt(v, &cfg.Speed) },
		"seed":          func(v starlark.Value) error { return asUint64(v, &cfg.Seed) },
		"program_path":  func(v starlark.Value) error { return asString(v, &cfg.ProgramPath) },
		"detect_stalls": func(v starlark.Value) error { return asBool(v, &cfg.DetectStalls) },
	} {
		value, ok := dict[key]
		if !ok {
			continue
		}
		err = setter(value)
		if err != nil {
			err = &ErrSetting{Key: key, Err: err}
			return
		}
	}

	return
}

// Validate checks settings ranges.
func (cfg *Config) Validate() (err error) {
	switch {
	case cfg.Population < 1:
		err = &ErrSetting{Key: "population", Err: ErrSettingRange}
	case cfg.Rate < RATE_MIN || cfg.Rate > RATE_MAX:
		err = &ErrSetting{Key: "mutation_rate", Err: ErrSettingRange}
	case cfg.StepCap < 1:
		err = &ErrSetting{Key: "step_cap", Err: ErrSettingRange}
	case cfg.Speed < 1 || cfg.Speed > sim.SPEED_MAX:
		err = &ErrSetting{Key: "speed", Err: ErrSettingRange}
	case cfg.ProgramPath == "":
		err = &ErrSetting{Key: "program_path", Err: ErrSettingRange}
	}

	return
}

func asInt(value starlark.Value, out *int) (err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = ErrSettingType
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrSettingType
		return
	}

	*out = int(st_int64)
	return
}

func asUint64(value starlark.Value, out *uint64) (err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = ErrSettingType
		return
	}
	st_uint64, ok := st_int.Uint64()
	if !ok {
		err = ErrSettingType
		return
	}

	*out = st_uint64
	return
}

func asFloat(value starlark.Value, out *float64) (err error) {
	switch st := value.(type) {
	case starlark.Float:
		*out = float64(st)
	case starlark.Int:
		st_int64, ok := st.Int64()
		if !ok {
			err = ErrSettingType
			return
		}
		*out = float64(st_int64)
	default:
		err = ErrSettingType
	}

	return
}

func asString(value starlark.Value, out *string) (err error) {
	st_str, ok := value.(starlark.String)
	if !ok {
		err = ErrSettingType
		return
	}

	*out = string(st_str)
	return
}

func asBool(value starlark.Value, out *bool) (err error) {
	st_bool, ok := value.(starlark.Bool)
	if !ok {
		err = ErrSettingType
		return
	}

	*out = bool(st_bool)
	return
}
