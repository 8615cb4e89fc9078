package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cravindra/hyperverge-cli/pkg/hyperverge"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultHost is the API endpoint used when none is configured.
	DefaultHost = hyperverge.DefaultHost

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// envPrefix prefixes all environment variable overrides.
	envPrefix = "HYPERVERGE_"
)

// Config is the resolved configuration for one invocation. Precedence, low
// to high: defaults, config file, HYPERVERGE_* environment variables, CLI
// flags (merged by the command layer). The value is built once at startup
// and treated as immutable afterwards.
type Config struct {
	AppID       string    `yaml:"app_id" json:"appId"`
	AppKey      string    `yaml:"app_key" json:"appKey"`
	Host        string    `yaml:"host" json:"host"`
	Output      string    `yaml:"output" json:"output"`
	LogLevel    string    `yaml:"log_level" json:"logLevel"`
	ThrottleRPS float64   `yaml:"throttle_rps" json:"throttleRps"`
	S3          *S3Config `yaml:"s3,omitempty" json:"s3,omitempty"`
}

// S3Config configures the object writer used for s3:// output destinations.
type S3Config struct {
	Region          string `yaml:"region,omitempty" json:"region,omitempty"`
	EndpointURL     string `yaml:"endpoint_url,omitempty" json:"endpointUrl,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"accessKeyId,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secretAccessKey,omitempty"`
	ForcePathStyle  bool   `yaml:"force_path_style,omitempty" json:"forcePathStyle,omitempty"`
}

// Load reads an optional configuration file (YAML, or JSON when the path
// ends in .json), applies environment overrides and defaults. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if strings.EqualFold(filepath.Ext(path), ".json") {
			err = json.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}

		if err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyEnv overrides file values from HYPERVERGE_* environment variables.
func (c *Config) applyEnv() error {
	overrides := map[string]*string{
		"APP_ID":    &c.AppID,
		"APP_KEY":   &c.AppKey,
		"HOST":      &c.Host,
		"OUTPUT":    &c.Output,
		"LOG_LEVEL": &c.LogLevel,
	}

	for suffix, target := range overrides {
		if v, ok := os.LookupEnv(envPrefix + suffix); ok {
			*target = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "THROTTLE_RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %sTHROTTLE_RPS %q: %w", envPrefix, v, err)
		}

		c.ThrottleRPS = rps
	}

	return nil
}

// applyDefaults sets default values for unspecified options.
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks invocation-independent settings.
func (c *Config) Validate() error {
	if c.ThrottleRPS < 0 {
		return fmt.Errorf("throttle_rps must not be negative, got %v", c.ThrottleRPS)
	}

	if strings.HasPrefix(c.Output, "s3://") && c.S3 == nil {
		return fmt.Errorf("output %q requires an s3 configuration block", c.Output)
	}

	return nil
}

// ValidateRequest checks the input selection and credentials for one
// invocation. The test action needs neither credentials nor an input.
func (c *Config) ValidateRequest(action hyperverge.Action, file, directory string) error {
	if !hyperverge.IsValidAction(string(action)) {
		return fmt.Errorf("unknown action %q", action)
	}

	if action == hyperverge.ActionTest {
		return nil
	}

	if file != "" && directory != "" {
		return fmt.Errorf("file and directory are mutually exclusive")
	}

	if file == "" && directory == "" {
		return fmt.Errorf("action %s requires a file or a directory", action)
	}

	if c.AppID == "" {
		return fmt.Errorf("action %s requires an appId credential", action)
	}

	if c.AppKey == "" {
		return fmt.Errorf("action %s requires an appKey credential", action)
	}

	return nil
}
