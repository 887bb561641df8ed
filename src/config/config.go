package config

import (
	"fmt"
	"os"

	"pigdevice/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Environment overrides (telemetry settings come from the deployment
	// environment in production, the YAML values are fallbacks)
	config.applyEnvOverrides()

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyEnvOverrides layers IOT_* environment variables over the YAML values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("IOT_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := os.Getenv("IOT_REGION"); v != "" {
		c.Telemetry.Region = v
	}
	if v := os.Getenv("IOT_CLIENT_ID"); v != "" {
		c.Telemetry.ClientID = v
	}
	if v := os.Getenv("IOT_TOPIC_BALANCE_PREFIX"); v != "" {
		c.Telemetry.TopicPrefix = v
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	if c.DefaultCurrency == "" {
		return fmt.Errorf("default currency cannot be empty")
	}
	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("default currency must be a 3-letter ISO code, got '%s'", c.DefaultCurrency)
	}

	// Telemetry settings are optional: a missing endpoint/region means the
	// process runs in degraded mode without a telemetry connection.
	if c.Telemetry.TopicPrefix == "" {
		c.Telemetry.TopicPrefix = "smpg/devices"
	}
	if c.Telemetry.CertDir == "" {
		c.Telemetry.CertDir = "certificates"
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
