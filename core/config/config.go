// Package config holds run configuration for the dashboard generators and
// the dev server. Settings come from built-in defaults, an optional YAML
// file, and the environment (GITHUB_TOKEN, optionally via a .env file).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/githubpartners/issues-dashboard/core/dashboard"
)

// DefaultFile is the config file looked for when none is given explicitly.
const DefaultFile = "dashboard.yaml"

// TokenEnvVar names the environment variable holding the GitHub token.
const TokenEnvVar = "GITHUB_TOKEN"

// ServerConfig holds dev server settings.
type ServerConfig struct {
	Bind                  string `yaml:"bind"`
	Port                  int    `yaml:"port"`
	DocsDir               string `yaml:"docs_dir"`
	RefreshTimeoutSeconds int    `yaml:"refresh_timeout_seconds"`
}

// Config is the full run configuration.
type Config struct {
	Repo            string           `yaml:"repo"`
	MetaIssueNumber int              `yaml:"meta_issue_number"`
	MetaOut         string           `yaml:"meta_out"`
	IssuesOut       string           `yaml:"issues_out"`
	State           string           `yaml:"state"`
	RetentionDays   int              `yaml:"retention_days"`
	Categories      []string         `yaml:"categories"`
	KeywordRules    []dashboard.Rule `yaml:"keyword_rules"`
	Server          ServerConfig     `yaml:"server"`

	// Token is read from the environment, never from the config file.
	Token string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Repo:            "githubpartners/microsoft-learn",
		MetaIssueNumber: 223,
		MetaOut:         "docs/reports/dashboard_issue_223.json",
		IssuesOut:       "docs/reports/dashboard_all_issues.json",
		State:           "all",
		RetentionDays:   dashboard.DefaultRetentionDays,
		Categories:      dashboard.KnownCategories(),
		KeywordRules:    dashboard.DefaultRules(),
		Server: ServerConfig{
			Bind:                  "127.0.0.1",
			Port:                  8000,
			DocsDir:               "docs",
			RefreshTimeoutSeconds: 120,
		},
	}
}

// Retention returns the closed-issue retention window as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// RefreshTimeout returns the per-script dev server timeout as a duration.
func (c *Config) RefreshTimeout() time.Duration {
	return time.Duration(c.Server.RefreshTimeoutSeconds) * time.Second
}

// Load builds the configuration: defaults, overlaid with the YAML file at
// path if one exists, then the token from the environment. An empty path
// means DefaultFile, which is allowed to be absent; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file, defaults apply.
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// .env is optional; real environment wins over file entries.
	_ = godotenv.Load()
	cfg.Token = os.Getenv(TokenEnvVar)

	return cfg, nil
}
