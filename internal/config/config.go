package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	ierr "github.com/vulnops/snyk-collection-sync/internal/errors"
)

const (
	// DefaultBaseURL is the Snyk REST API base.
	DefaultBaseURL = "https://api.snyk.io/rest"
	// DefaultAPIVersion is the version query parameter sent on every request.
	DefaultAPIVersion = "2024-10-15"
	// DefaultConfigFile is the conventional config file name next to the binary.
	DefaultConfigFile = "config.json"
)

// Configuration carries the credentials and API settings for one run. It is
// passed explicitly into the API client rather than kept as ambient state so
// the same process could run against several organizations.
type Configuration struct {
	APIToken   string `mapstructure:"api_token" validate:"required"`
	OrgID      string `mapstructure:"org_id" validate:"required"`
	BaseURL    string `mapstructure:"base_url"`
	APIVersion string `mapstructure:"api_version"`
	LogLevel   string `mapstructure:"log_level"`
}

// Load reads a JSON config file and applies SNYK_-prefixed environment
// overrides. A missing or malformed file is an error: callers that reach
// Load need the file's credentials to proceed.
func Load(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("json")

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("api_version", DefaultAPIVersion)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("SNYK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("create %s with your Snyk api_token and org_id", configFile).
			Mark(ierr.ErrConfig)
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("could not parse configuration file %s", configFile).
			Mark(ierr.ErrConfig)
	}

	config.applyDefaults()
	return &config, nil
}

// GetDefaultConfig returns a configuration with API defaults and no
// credentials. Useful when both credential values come from the command line.
func GetDefaultConfig() *Configuration {
	c := &Configuration{}
	c.applyDefaults()
	return c
}

func (c *Configuration) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that the configuration carries everything a run needs.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return ierr.WithError(err).
			WithHint("both the API token and organization ID are required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
