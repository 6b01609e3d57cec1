package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Config struct {
	DrivePath          string   `yaml:"drivePath"`
	ThresholdGigabytes *float64 `yaml:"thresholdGigabytes"`
	SlackChannelID     string   `yaml:"slackChannelId"`
	SlackToken         string   `yaml:"slackToken"`
	SlackAPIURL        string   `yaml:"slackApiUrl"` // optional, e.g. a proxy or test server
	FoldersToClean     []string `yaml:"foldersToClean"`

	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}

type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayUrl"` // empty disables pushing
	Job            string `yaml:"job"`
}

// DefaultMetricsJob is used when metrics.job is not set.
const DefaultMetricsJob = "snapshot_janitor"

// ValidationError lists every problem found in a loaded config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// Validate checks required fields and folder paths.
func (c *Config) Validate() error {
	var problems []string

	if c.DrivePath == "" {
		problems = append(problems, "drivePath is required")
	}
	if c.ThresholdGigabytes == nil {
		problems = append(problems, "thresholdGigabytes is required")
	} else if *c.ThresholdGigabytes < 0 {
		problems = append(problems, "thresholdGigabytes must not be negative")
	}
	if c.SlackChannelID == "" {
		problems = append(problems, "slackChannelId is required")
	}
	if c.SlackToken == "" {
		problems = append(problems, "slackToken is required")
	}
	if len(c.FoldersToClean) == 0 {
		problems = append(problems, "foldersToClean must list at least one folder")
	}
	for _, f := range c.FoldersToClean {
		if !filepath.IsLocal(filepath.FromSlash(f)) {
			problems = append(problems, fmt.Sprintf("foldersToClean entry %q must be a relative path inside drivePath", f))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Threshold returns the configured threshold in GiB.
func (c *Config) Threshold() float64 {
	if c.ThresholdGigabytes == nil {
		return 0
	}
	return *c.ThresholdGigabytes
}

// Roots resolves foldersToClean against drivePath.
func (c *Config) Roots() []string {
	roots := make([]string, 0, len(c.FoldersToClean))
	for _, f := range c.FoldersToClean {
		roots = append(roots, filepath.Join(c.DrivePath, filepath.FromSlash(f)))
	}
	return roots
}

// MetricsJob returns the Pushgateway job name.
func (c *Config) MetricsJob() string {
	if c.Metrics.Job == "" {
		return DefaultMetricsJob
	}
	return c.Metrics.Job
}
