package flightpath

import (
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = defaultConfig()
)

// Config holds the package-level numeric tunables named throughout
// spec.md: the Kepler solver's tolerance and iteration budget, the
// eccentricity band where its starter switches, and the segment-
// stepping constants originally hardcoded in the C++ source
// (original_source/actor/src/path.cc) as kMaxOrbitPeriodDurationPerStep,
// kMinBallisticStepDuration, and kMaxMassRatioChangePerStep.
//
// Loaded lazily on first use from a conf.toml found in the directory
// named by FLIGHTPATH_CONFIG, mirroring the teacher's SMD_CONFIG
// convention (ChristopherRabotin-smd/config.go). Unset or missing
// config silently falls back to the defaults below, so the library
// works out of the box.
type Config struct {
	KeplerTolerance        float64 // Newton-iteration convergence threshold
	KeplerIterationCap     int     // hard cap before NumericalDivergence
	KeplerHighEccentricity float64 // eccentricity at which the starter switches
	MaxStepPeriodFraction  float64 // base ballistic step as a fraction of orbital period
	MinBallisticStep       float64 // seconds; floor against Zeno-style SOI convergence
	MaxMassRatioPerStep    float64 // mass fraction consumed per thrust-segment slice
	LogLevel               string
}

func defaultConfig() Config {
	return Config{
		KeplerTolerance:        1e-12,
		KeplerIterationCap:     14,
		KeplerHighEccentricity: 0.9,
		MaxStepPeriodFraction:  0.01,
		MinBallisticStep:       15.0,
		MaxMassRatioPerStep:    0.001,
		LogLevel:               "info",
	}
}

// currentConfig returns the package configuration, loading it from
// FLIGHTPATH_CONFIG/conf.toml on first access. Unlike the teacher's
// smdConfig(), a missing environment variable or config file is not
// fatal: the defaults above apply instead, since this package (a
// library, not the teacher's mission-design application) must remain
// usable with zero setup.
func currentConfig() Config {
	if cfgLoaded {
		return config
	}
	cfgLoaded = true
	confPath := os.Getenv("FLIGHTPATH_CONFIG")
	if confPath == "" {
		return config
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		return config
	}
	cfg := defaultConfig()
	if viper.IsSet("kepler.tolerance") {
		cfg.KeplerTolerance = viper.GetFloat64("kepler.tolerance")
	}
	if viper.IsSet("kepler.iteration_cap") {
		cfg.KeplerIterationCap = viper.GetInt("kepler.iteration_cap")
	}
	if viper.IsSet("kepler.high_eccentricity") {
		cfg.KeplerHighEccentricity = viper.GetFloat64("kepler.high_eccentricity")
	}
	if viper.IsSet("segment.max_step_period_fraction") {
		cfg.MaxStepPeriodFraction = viper.GetFloat64("segment.max_step_period_fraction")
	}
	if viper.IsSet("segment.min_ballistic_step") {
		cfg.MinBallisticStep = viper.GetFloat64("segment.min_ballistic_step")
	}
	if viper.IsSet("segment.max_mass_ratio_per_step") {
		cfg.MaxMassRatioPerStep = viper.GetFloat64("segment.max_mass_ratio_per_step")
	}
	if viper.IsSet("general.log_level") {
		cfg.LogLevel = viper.GetString("general.log_level")
	}
	config = cfg
	return config
}

// SetConfig overrides the package configuration directly, bypassing
// viper. Intended for tests and for embedders that already manage
// their own configuration layer.
func SetConfig(c Config) {
	config = c
	cfgLoaded = true
}
