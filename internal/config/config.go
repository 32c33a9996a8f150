package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/signalnine/solvercmp/internal/loader"
	"github.com/signalnine/solvercmp/internal/report"
)

const (
	DefaultTimeout   = 1200
	DefaultThreshold = 30
)

type Config struct {
	RunDir            string   `yaml:"run_dir"`
	Timeout           int      `yaml:"timeout"`
	PreprocessTimeout int      `yaml:"preprocess_timeout"`
	Threshold         int      `yaml:"threshold"`
	Benchmarks        []string `yaml:"benchmarks"`
	Include           []string `yaml:"include"`
	Exclude           []string `yaml:"exclude"`
	Preprocessing     bool     `yaml:"preprocessing"`
	NumInstances      int      `yaml:"num_instances"`
	Format            string   `yaml:"format"`
	Plot              Plot     `yaml:"plot"`
}

type Plot struct {
	Enabled    bool    `yaml:"enabled"`
	Dir        string  `yaml:"dir"`
	SizeInches float64 `yaml:"size_inches"`
}

func Default() *Config {
	return &Config{
		Timeout:    DefaultTimeout,
		Threshold:  DefaultThreshold,
		Benchmarks: []string{loader.AllBenchmarks},
		Format:     report.FormatTSV,
		Plot:       Plot{Dir: ".", SizeInches: 6},
	}
}

// Load decodes path over Default, so keys absent from the file keep their
// defaults and explicit zeros such as "threshold: 0" are kept.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks bounds after flags and file values are merged. An empty
// benchmark list or plot dir is reset to its default.
func (cfg *Config) Validate() error {
	if cfg.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1")
	}
	if cfg.PreprocessTimeout < 0 {
		return fmt.Errorf("preprocess_timeout must not be negative")
	}
	if cfg.Threshold < 0 {
		return fmt.Errorf("threshold must not be negative")
	}
	if cfg.NumInstances < 0 {
		return fmt.Errorf("num_instances must not be negative")
	}
	if !slices.Contains(report.Formats, cfg.Format) {
		return fmt.Errorf("unknown format %q (want one of %v)", cfg.Format, report.Formats)
	}
	if cfg.Plot.SizeInches <= 0 {
		return fmt.Errorf("plot.size_inches must be positive")
	}
	if len(cfg.Benchmarks) == 0 {
		cfg.Benchmarks = []string{loader.AllBenchmarks}
	}
	if cfg.Plot.Dir == "" {
		cfg.Plot.Dir = "."
	}
	return nil
}

// EffectivePreprocessTimeout falls back to Timeout when PreprocessTimeout is
// 0. A zero bound would reject every sidecar, so 0 always means "use timeout".
func (cfg *Config) EffectivePreprocessTimeout() int {
	if cfg.PreprocessTimeout > 0 {
		return cfg.PreprocessTimeout
	}
	return cfg.Timeout
}

func (cfg *Config) LoaderOptions() loader.Options {
	return loader.Options{
		Timeout:           cfg.Timeout,
		PreprocessTimeout: cfg.EffectivePreprocessTimeout(),
		Preprocessing:     cfg.Preprocessing,
		Benchmarks:        cfg.Benchmarks,
	}
}

func (cfg *Config) RunFilter() loader.RunFilter {
	return loader.RunFilter{Include: cfg.Include, Exclude: cfg.Exclude}
}
