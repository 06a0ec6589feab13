// Package config reads and writes tool configuration files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/movlab/motionprim/internal/calibrate"
)

const (
	DefaultDataDir       = ".motionprim"
	DefaultDt            = 0.01
	DefaultGoalTolerance = 0.05
	DefaultIntegrator    = "rk4"
	DefaultFPS           = 30
)

type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Calibrate CalibrateConfig `yaml:"calibrate"`
	Reproduce ReproduceConfig `yaml:"reproduce"`
	Play      PlayConfig      `yaml:"play"`
}

type CalibrateConfig struct {
	MinBasis       int     `yaml:"min_basis"`
	MaxBasis       int     `yaml:"max_basis"`
	Sensitivity    float64 `yaml:"sensitivity"`
	VelocityCutoff float64 `yaml:"velocity_cutoff"`
	PhaseCutoff    float64 `yaml:"phase_cutoff"`
	MinSamples     int     `yaml:"min_samples"`
}

type ReproduceConfig struct {
	Dt            float64 `yaml:"dt"`
	GoalTolerance float64 `yaml:"goal_tolerance"`
	Integrator    string  `yaml:"integrator"`
}

type PlayConfig struct {
	FPS int `yaml:"fps"`
}

func DefaultConfig() *Config {
	cal := calibrate.Default()
	return &Config{
		DataDir: DefaultDataDir,
		Calibrate: CalibrateConfig{
			MinBasis:       cal.MinBasis,
			MaxBasis:       cal.MaxBasis,
			Sensitivity:    cal.Sensitivity,
			VelocityCutoff: cal.VelocityCutoff,
			PhaseCutoff:    cal.PhaseCutoff,
			MinSamples:     cal.MinSamples,
		},
		Reproduce: ReproduceConfig{
			Dt:            DefaultDt,
			GoalTolerance: DefaultGoalTolerance,
			Integrator:    DefaultIntegrator,
		},
		Play: PlayConfig{FPS: DefaultFPS},
	}
}

// Load reads path on top of the defaults, so a partial file only
// overrides what it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToCalibrate maps the file representation onto the selector's config.
func (c *Config) ToCalibrate() calibrate.Config {
	return calibrate.Config{
		MinBasis:       c.Calibrate.MinBasis,
		MaxBasis:       c.Calibrate.MaxBasis,
		Sensitivity:    c.Calibrate.Sensitivity,
		VelocityCutoff: c.Calibrate.VelocityCutoff,
		PhaseCutoff:    c.Calibrate.PhaseCutoff,
		MinSamples:     c.Calibrate.MinSamples,
	}
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}
	if err := c.ToCalibrate().Validate(); err != nil {
		return err
	}
	if c.Reproduce.Dt <= 0 {
		return fmt.Errorf("config: reproduce dt must be positive, got %g", c.Reproduce.Dt)
	}
	if c.Reproduce.GoalTolerance <= 0 {
		return fmt.Errorf("config: goal_tolerance must be positive, got %g", c.Reproduce.GoalTolerance)
	}
	switch c.Reproduce.Integrator {
	case "euler", "rk4":
	default:
		return fmt.Errorf("config: unknown integrator %q", c.Reproduce.Integrator)
	}
	if c.Play.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.Play.FPS)
	}
	return nil
}
