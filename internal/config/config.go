// Package config loads the YAML evaluation-suite definition: which models
// to evaluate, the class names, and where the aux-value table lives.
package config

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Config is a parsed suite file.
type Config struct {
	Suite      string        `yaml:"suite"`
	ClassNames []string      `yaml:"class_names"`
	AuxCSV     *AuxCSVConfig `yaml:"aux_csv,omitempty"`
	Workers    int           `yaml:"workers,omitempty"`
	CacheDir   string        `yaml:"cache_dir,omitempty"`
	Models     []ModelConfig `yaml:"models"`
}

// AuxCSVConfig points at the external table supplying aux values per
// sample id.
type AuxCSVConfig struct {
	Path        string `yaml:"path"`
	IDColumn    string `yaml:"id_column"`
	ValueColumn string `yaml:"value_column"`
}

// ModelConfig names one model, its predictions file and its externally
// measured inference statistics. Metadata is free-form YAML decoded into
// ModelOptions on demand.
type ModelConfig struct {
	Name            string         `yaml:"name"`
	Predictions     string         `yaml:"predictions"`
	InferenceTimeMs float64        `yaml:"inference_time_ms"`
	Throughput      float64        `yaml:"throughput"`
	Metadata        map[string]any `yaml:"metadata,omitempty"`
}

// ModelOptions are the recognized per-model metadata keys.
type ModelOptions struct {
	ROCParallelism int    `mapstructure:"roc_parallelism"`
	AccuracyCI     bool   `mapstructure:"accuracy_ci"`
	Notes          string `mapstructure:"notes"`
}

// Options decodes the model's metadata map into typed options. Unknown keys
// are rejected so typos in suite files surface immediately.
func (m ModelConfig) Options() (ModelOptions, error) {
	var opts ModelOptions
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: true,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(m.Metadata); err != nil {
		return opts, fmt.Errorf("model %s: metadata: %w", m.Name, err)
	}
	return opts, nil
}

// K returns the class count implied by the class-name list.
func (c *Config) K() int { return len(c.ClassNames) }

// Load reads and validates a suite file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the structural preconditions of a suite file.
func (c *Config) Validate() error {
	if len(c.ClassNames) < 2 {
		return fmt.Errorf("need at least 2 class names, got %d", len(c.ClassNames))
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("no models defined")
	}
	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if m.Name == "" {
			return fmt.Errorf("model %d has no name", i)
		}
		if m.Predictions == "" {
			return fmt.Errorf("model %s has no predictions file", m.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate model name %s", m.Name)
		}
		seen[m.Name] = true
		if _, err := m.Options(); err != nil {
			return err
		}
	}
	if c.AuxCSV != nil {
		if c.AuxCSV.Path == "" || c.AuxCSV.IDColumn == "" || c.AuxCSV.ValueColumn == "" {
			return fmt.Errorf("aux_csv needs path, id_column and value_column")
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}
