package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"pigdevice/src/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
name: pigdevice
host: 127.0.0.1
port: 4090
log_level: INFO
default_currency: EUR
donation_base_url: https://donate.example.org
telemetry:
  topic_prefix: smpg/devices
`

func TestNewConfigLoadsYAML(t *testing.T) {
	cfg, err := config.NewConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Name != "pigdevice" || cfg.Port != 4090 {
		t.Errorf("got (%s, %d), want (pigdevice, 4090)", cfg.Name, cfg.Port)
	}
	if cfg.DefaultCurrency != "EUR" {
		t.Errorf("default currency: got %s", cfg.DefaultCurrency)
	}
}

func TestTelemetryDefaultsApplied(t *testing.T) {
	yaml := `
name: pigdevice
host: 127.0.0.1
port: 4090
default_currency: EUR
`
	cfg, err := config.NewConfig(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Telemetry.TopicPrefix != "smpg/devices" {
		t.Errorf("topic prefix default: got %s, want smpg/devices", cfg.Telemetry.TopicPrefix)
	}
	if cfg.Telemetry.CertDir != "certificates" {
		t.Errorf("cert dir default: got %s, want certificates", cfg.Telemetry.CertDir)
	}
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	t.Setenv("IOT_ENDPOINT", "abc123.iot.eu-central-1.amazonaws.com")
	t.Setenv("IOT_REGION", "eu-central-1")
	t.Setenv("IOT_TOPIC_BALANCE_PREFIX", "custom/prefix")

	cfg, err := config.NewConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Telemetry.Endpoint != "abc123.iot.eu-central-1.amazonaws.com" {
		t.Errorf("endpoint: got %s", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.Region != "eu-central-1" {
		t.Errorf("region: got %s", cfg.Telemetry.Region)
	}
	if cfg.Telemetry.TopicPrefix != "custom/prefix" {
		t.Errorf("topic prefix: got %s", cfg.Telemetry.TopicPrefix)
	}
}

func TestValidationRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", "host: x\nport: 4090\ndefault_currency: EUR\n"},
		{"bad port", "name: p\nhost: x\nport: 80\ndefault_currency: EUR\n"},
		{"missing currency", "name: p\nhost: x\nport: 4090\n"},
		{"bad currency", "name: p\nhost: x\nport: 4090\ndefault_currency: EURO\n"},
	}

	for _, tc := range cases {
		if _, err := config.NewConfig(writeConfig(t, tc.yaml)); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}
