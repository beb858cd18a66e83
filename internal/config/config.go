package config

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"
)

// Config drives a batch cleanup run.
type Config struct {
	// Inputs are files or directories to process.
	Inputs []string `yaml:"inputs"`

	// DryRun reports duplications without rewriting any file.
	DryRun bool `yaml:"dry_run"`

	// Workers is the number of files processed concurrently.
	// Zero or one means sequential processing.
	Workers int `yaml:"workers"`

	// Filter is an optional expression selecting which policies to
	// clean, evaluated with "policy" in scope. For example:
	//   policy.UID startsWith "http://example.com/policy:"
	Filter string `yaml:"filter"`

	Audit AuditConfig `yaml:"audit"`
}

// AuditConfig holds configuration for the removal audit trail.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type"` // e.g., "file", "memory"

	// Config captures the remaining sink-specific fields.
	Config map[string]any `yaml:",inline"`
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return fmt.Errorf("no inputs configured")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.Filter != "" {
		if _, err := expr.Compile(c.Filter, expr.AsBool()); err != nil {
			return fmt.Errorf("compiling filter expression: %w", err)
		}
	}
	if c.Audit.Enabled {
		switch c.Audit.Type {
		case "file", "memory", "":
		default:
			return fmt.Errorf("unknown audit type '%s'", c.Audit.Type)
		}
	}
	return nil
}
