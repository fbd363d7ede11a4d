package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Auth       AuthConfig       `yaml:"auth"`
	Policy     PolicyConfig     `yaml:"policy"`
	Security   SecurityConfig   `yaml:"security"`
	Logging    LoggingConfig    `yaml:"logging"`
	Demo       DemoConfig       `yaml:"demo"`
	Validation ValidationConfig `yaml:"validation"`
}

// ValidationConfig overrides payload size limits; zero fields keep the
// built-in defaults.
type ValidationConfig struct {
	MaxTitleLen    int `yaml:"max_title_len"`
	MaxSegmentLen  int `yaml:"max_segment_len"`
	MaxSegments    int `yaml:"max_segments"`
	MaxTags        int `yaml:"max_tags"`
	MaxTagLen      int `yaml:"max_tag_len"`
	MaxNameLen     int `yaml:"max_name_len"`
	MinPasswordLen int `yaml:"min_password_len"`
}

// ServerConfig holds http and tls settings.
type ServerConfig struct {
	Address string    `yaml:"address"`
	Port    int       `yaml:"port"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// StorageConfig points at the local KV used for the persisted identity
// record. Content itself is in-memory only and resets on restart.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// AuthConfig tunes the identity provider.
type AuthConfig struct {
	// Latency is the simulated round-trip delay applied to login and
	// register. Tests set it to zero.
	Latency Duration `yaml:"latency"`
	// BcryptCost overrides the credential hash cost; zero means the
	// library default.
	BcryptCost int `yaml:"bcrypt_cost"`
}

// PolicyConfig holds contract knobs.
type PolicyConfig struct {
	// LenientUpdates restores the original behavior of silently ignoring
	// updates from non-owners instead of returning a forbidden error.
	LenientUpdates bool `yaml:"lenient_updates"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DemoConfig controls the scheduled reset of the seeded content.
type DemoConfig struct {
	ResetEnabled bool   `yaml:"reset_enabled"`
	ResetCron    string `yaml:"reset_cron"`
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// Duration is a wrapper around time.Duration that supports YAML parsing
// from strings like "800ms" or plain numbers (interpreted as seconds).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*d = Duration(0)
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*d = Duration(0)
		return nil
	}
	if td, err := time.ParseDuration(raw); err == nil {
		*d = Duration(td)
		return nil
	}
	// allow numeric seconds
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*d = Duration(time.Duration(f * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration value: %q", node.Value)
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }
