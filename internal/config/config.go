// Package config provides layered configuration loading: built-in defaults,
// an optional YAML file, then environment variable overrides.
package config

import (
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shineum/mailsend-lite/internal/validate"
)

// Config holds the complete application configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Provider     string             `yaml:"provider"`
	Sender       SenderConfig       `yaml:"sender"`
	SES          SESConfig          `yaml:"ses"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	SendGrid     *SendGridConfig    `yaml:"sendgrid"`
	AuthDB       AuthDBConfig       `yaml:"authdb"`
	BounceLimits BounceLimitsConfig `yaml:"bouncelimits"`
	Relay        RelayConfig        `yaml:"relay"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// HTTPConfig holds the HTTP listener configuration.
type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// SenderConfig is the From identity shared by every provider.
type SenderConfig struct {
	Address string `yaml:"address"`
	Name    string `yaml:"name"`
}

// From renders the sender as an RFC 5322 address, "Name <address>".
func (s SenderConfig) From() string {
	if s.Name == "" {
		return s.Address
	}
	return (&mail.Address{Name: s.Name, Address: s.Address}).String()
}

// SESConfig holds AWS SES configuration. When Keys is empty the SDK's
// default credential chain is used.
type SESConfig struct {
	Region string  `yaml:"region"`
	Keys   SESKeys `yaml:"keys"`
}

// SESKeys is an optional static credential pair.
type SESKeys struct {
	Access string `yaml:"access"`
	Secret string `yaml:"secret"`
}

// SMTPConfig holds the outbound SMTP relay configuration.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// SendGridConfig holds the third-party mail API key. The whole section is
// optional.
type SendGridConfig struct {
	Key string `yaml:"key"`
}

// AuthDBConfig points at the account database service.
type AuthDBConfig struct {
	BaseURI string `yaml:"baseuri"`
}

// BounceLimitsConfig toggles bounce limit enforcement.
type BounceLimitsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RelayConfig holds the development relay configuration. An empty Listen
// disables the relay.
type RelayConfig struct {
	Listen   string `yaml:"listen"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ValidationError reports a configuration key holding an unusable value.
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

// Load loads configuration from environment variables over the defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SESStaticKeys returns true if an explicit SES credential pair is set.
func (c *Config) SESStaticKeys() bool {
	return c.SES.Keys.Access != "" && c.SES.Keys.Secret != ""
}

// SMTPAuthEnabled returns true if both SMTP user and password are set.
func (c *Config) SMTPAuthEnabled() bool {
	return c.SMTP.User != "" && c.SMTP.Password != ""
}

// Validate checks every value with the same predicates used for inbound
// requests. The first failure is returned as a *ValidationError.
func (c *Config) Validate() error {
	if !validate.Provider(c.Provider) {
		return &ValidationError{Key: "provider", Reason: fmt.Sprintf("unsupported provider %q", c.Provider)}
	}
	if !validate.EmailAddress(c.Sender.Address) {
		return &ValidationError{Key: "sender.address", Reason: "not a valid email address"}
	}
	if !validate.SenderName(c.Sender.Name) {
		return &ValidationError{Key: "sender.name", Reason: "not a valid sender name"}
	}

	if !validate.AWSRegion(c.SES.Region) {
		return &ValidationError{Key: "ses.region", Reason: fmt.Sprintf("unsupported region %q", c.SES.Region)}
	}
	if (c.SES.Keys.Access == "") != (c.SES.Keys.Secret == "") {
		return &ValidationError{Key: "ses.keys", Reason: "access and secret must be set together"}
	}
	if c.SES.Keys.Access != "" && !validate.AWSAccess(c.SES.Keys.Access) {
		return &ValidationError{Key: "ses.keys.access", Reason: "malformed access key id"}
	}
	if c.SES.Keys.Secret != "" && !validate.AWSSecret(c.SES.Keys.Secret) {
		return &ValidationError{Key: "ses.keys.secret", Reason: "malformed secret access key"}
	}

	if !validate.Host(c.SMTP.Host) {
		return &ValidationError{Key: "smtp.host", Reason: fmt.Sprintf("not a valid host %q", c.SMTP.Host)}
	}
	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return &ValidationError{Key: "smtp.port", Reason: fmt.Sprintf("port %d out of range", c.SMTP.Port)}
	}
	if (c.SMTP.User == "") != (c.SMTP.Password == "") {
		return &ValidationError{Key: "smtp.user", Reason: "user and password must be set together"}
	}

	if c.SendGrid != nil && !validate.SendGridAPIKey(c.SendGrid.Key) {
		return &ValidationError{Key: "sendgrid.key", Reason: "malformed API key"}
	}
	if !validate.BaseURI(c.AuthDB.BaseURI) {
		return &ValidationError{Key: "authdb.baseuri", Reason: fmt.Sprintf("not a valid base URI %q", c.AuthDB.BaseURI)}
	}

	if (c.Relay.CertFile == "") != (c.Relay.KeyFile == "") {
		return &ValidationError{Key: "relay.cert_file", Reason: "certificate and key files must be set together"}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Key: "logging.level", Reason: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}

	return nil
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.HTTP.Listen = ":8001"
	c.Provider = validate.ProviderSES
	c.Sender.Address = "accounts@firefox.com"
	c.Sender.Name = "Firefox Accounts"
	c.SES.Region = "us-east-1"
	c.SMTP.Host = "127.0.0.1"
	c.SMTP.Port = 25
	c.AuthDB.BaseURI = "http://127.0.0.1:8000/"
	c.BounceLimits.Enabled = true
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() error {
	if v := os.Getenv("HTTP_LISTEN"); v != "" {
		c.HTTP.Listen = v
	}
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider = v
	}

	if v := os.Getenv("SENDER_ADDRESS"); v != "" {
		c.Sender.Address = v
	}
	if v := os.Getenv("SENDER_NAME"); v != "" {
		c.Sender.Name = v
	}

	if v := os.Getenv("SES_REGION"); v != "" {
		c.SES.Region = v
	}
	if v := os.Getenv("SES_ACCESS_KEY_ID"); v != "" {
		c.SES.Keys.Access = v
	}
	if v := os.Getenv("SES_SECRET_ACCESS_KEY"); v != "" {
		c.SES.Keys.Secret = v
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Key: "smtp.port", Reason: fmt.Sprintf("invalid type: %q is not a number", v)}
		}
		c.SMTP.Port = port
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.SMTP.User = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}

	if v := os.Getenv("SENDGRID_KEY"); v != "" {
		c.SendGrid = &SendGridConfig{Key: v}
	}
	if v := os.Getenv("AUTHDB_BASEURI"); v != "" {
		c.AuthDB.BaseURI = v
	}
	if v := os.Getenv("BOUNCELIMITS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return &ValidationError{Key: "bouncelimits.enabled", Reason: fmt.Sprintf("invalid type: %q is not a boolean", v)}
		}
		c.BounceLimits.Enabled = enabled
	}

	if v := os.Getenv("RELAY_LISTEN"); v != "" {
		c.Relay.Listen = v
	}
	if v := os.Getenv("RELAY_TLS_CERT_FILE"); v != "" {
		c.Relay.CertFile = v
	}
	if v := os.Getenv("RELAY_TLS_KEY_FILE"); v != "" {
		c.Relay.KeyFile = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	return nil
}
