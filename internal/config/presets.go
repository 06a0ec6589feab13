package config

import "sort"

// Presets are ready-made configurations for common recording styles.
// "fine" follows small wiggles at the cost of more kernels; "coarse"
// smooths over noise on jittery captures.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"fine":    finePreset(),
	"coarse":  coarsePreset(),
}

func finePreset() *Config {
	cfg := DefaultConfig()
	cfg.Calibrate.Sensitivity = 0.02
	cfg.Calibrate.MaxBasis = 60
	cfg.Reproduce.Dt = 0.005
	return cfg
}

func coarsePreset() *Config {
	cfg := DefaultConfig()
	cfg.Calibrate.Sensitivity = 0.1
	cfg.Calibrate.MaxBasis = 25
	return cfg
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
