package rbmk

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the small set of runtime-tunable knobs exposed over viper
// (C1). An absent or partial config file is not an error here, since every
// field has a sensible built-in default.
type Config struct {
	LayoutPath            string  `mapstructure:"layout_path"`
	DefaultTargetPowerPct float64 `mapstructure:"default_target_power_pct"`
	DefaultTimeStep       float64 `mapstructure:"default_time_step"`
	AutoRegulatorEnabled  bool    `mapstructure:"auto_regulator_enabled"`
	LogLevel              string  `mapstructure:"log_level"`
}

// DefaultConfig returns the built-in configuration used when no file is
// present or a file omits a key.
func DefaultConfig() Config {
	return Config{
		LayoutPath:            "",
		DefaultTargetPowerPct: 100,
		DefaultTimeStep:       0.1,
		AutoRegulatorEnabled:  false,
		LogLevel:              "info",
	}
}

// LoadConfig reads a TOML/YAML/JSON config file (viper auto-detects by
// extension) from path and overlays it on DefaultConfig. A missing path is
// not an error: LoadConfig("") and a path that does not exist both return
// the defaults, since every setting here has a physically reasonable
// built-in value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("layout_path", cfg.LayoutPath)
	v.SetDefault("default_target_power_pct", cfg.DefaultTargetPowerPct)
	v.SetDefault("default_time_step", cfg.DefaultTimeStep)
	v.SetDefault("auto_regulator_enabled", cfg.AutoRegulatorEnabled)
	v.SetDefault("log_level", cfg.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("rbmk: reading config %s: %w", path, err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("rbmk: parsing config %s: %w", path, err)
	}
	cfg.DefaultTargetPowerPct = clamp(cfg.DefaultTargetPowerPct, 0, TargetPowerMax)
	cfg.DefaultTimeStep = clamp(cfg.DefaultTimeStep, MinTimeStep, MaxTimeStep)
	return cfg, nil
}

// ApplyTo configures a freshly constructed Core from this configuration: the
// time step, the target power and the auto-regulator flag. LayoutPath is
// resolved separately by Layout, and LogLevel is not applied to the Core's
// logger.
func (cfg Config) ApplyTo(c *Core) {
	c.SetTimeStep(cfg.DefaultTimeStep)
	c.SetTargetPower(cfg.DefaultTargetPowerPct)
	c.SetAutoRegulatorEnabled(cfg.AutoRegulatorEnabled)
}

// Layout resolves the core layout this configuration names: the built-in
// DefaultLayout when LayoutPath is empty, or the layout-description file at
// LayoutPath otherwise.
func (cfg Config) Layout() (*CoreLayout, error) {
	if cfg.LayoutPath == "" {
		return DefaultLayout(), nil
	}
	return LoadLayout(cfg.LayoutPath)
}
