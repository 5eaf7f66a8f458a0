package config

import (
	"fmt"

	"github.com/kbukum/datakit/logger"
)

// BaseConfig contains the essential fields every datakit embedder needs.
// Projects extend it by embedding it in their own config structs:
//
//	type LoaderConfig struct {
//	    config.BaseConfig `yaml:",inline" mapstructure:",squash"`
//	    Checkpoint checkpoint.Config `yaml:"checkpoint" mapstructure:"checkpoint"`
//	}
type BaseConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("base.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	for _, v := range validEnvs {
		if c.Environment == v {
			return c.Logging.Validate()
		}
	}
	return fmt.Errorf("base.environment must be one of [development, staging, production] (got: %s)", c.Environment)
}
