package models

// MConfig Structure
type MConfig struct {
	Name            string           `yaml:"name"`
	Host            string           `yaml:"host"`
	Port            int              `yaml:"port"`
	LogLevel        string           `yaml:"log_level"`
	DefaultCurrency string           `yaml:"default_currency"`
	DonationBaseURL string           `yaml:"donation_base_url"`
	Telemetry       MTelemetryConfig `yaml:"telemetry"`
}

type MTelemetryConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Region      string `yaml:"region"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	CertDir     string `yaml:"cert_dir"`
}
