package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/ghe-archiver/internal/naming"
)

type Config struct {
	Dir          DirConfig       `yaml:"dir"`
	DateFormat   string          `yaml:"dateFormat"`
	Extension    string          `yaml:"extension"`
	Compression  string          `yaml:"compression"` // "none", "gzip", "zstd"
	Retention    RetentionConfig `yaml:"retention"`
	Email        EmailConfig     `yaml:"email"`
	Log          LogConfig       `yaml:"log"`
	Schedule     ScheduleConfig  `yaml:"schedule"`
	Metrics      MetricsConfig   `yaml:"metrics"`
	ConfigReload ReloadConfig    `yaml:"configReload"`
}

type DirConfig struct {
	Archives string `yaml:"archives"`
	Snapshot string `yaml:"snapshot"`
}

type RetentionConfig struct {
	Days        int  `yaml:"days"`
	Weeks       int  `yaml:"weeks"`
	Months      int  `yaml:"months"`
	Years       int  `yaml:"years"`
	Concurrency int  `yaml:"concurrency"`
	DryRun      bool `yaml:"dryRun"`
}

type EmailConfig struct {
	Sender     string     `yaml:"sender"`
	Recipients []string   `yaml:"recipients"`
	SMTP       SMTPConfig `yaml:"smtp"`
}

type SMTPConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	TLS      string        `yaml:"tls"` // "none", "opportunistic", "mandatory"
	Timeout  time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Dir       string `yaml:"dir"`
	Level     string `yaml:"level"`  // "info", "debug", etc.
	Format    string `yaml:"format"` // "json", "console"
	Retention int    `yaml:"retention"`
}

type ScheduleConfig struct {
	Archive string `yaml:"archive"` // cron expression, empty disables
	Prune   string `yaml:"prune"`
}

type MetricsConfig struct {
	Listen   string `yaml:"listen"`   // e.g. ":9108", serve mode only
	Textfile string `yaml:"textfile"` // node_exporter textfile collector output
}

type ReloadConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Method       string        `yaml:"method"` // "auto", "poll", "fsnotify"
	PollInterval time.Duration `yaml:"pollInterval"`
	Debounce     time.Duration `yaml:"debounce"`
}

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	return &Config{
		Dir: DirConfig{
			Archives: "/data/archives",
			Snapshot: "/data/user/current",
		},
		DateFormat:  naming.DefaultLayout,
		Extension:   naming.DefaultExt,
		Compression: "none",
		Retention: RetentionConfig{
			Days:        7,
			Weeks:       4,
			Months:      12,
			Years:       5,
			Concurrency: 8,
		},
		Email: EmailConfig{
			Sender:     "github@your-company-name.com",
			Recipients: []string{"github-ops@your-company-name.com"},
			SMTP: SMTPConfig{
				Host:    "localhost",
				Port:    25,
				TLS:     "opportunistic",
				Timeout: 30 * time.Second,
			},
		},
		Log: LogConfig{
			Level:     "info",
			Format:    "console",
			Retention: 4,
		},
		ConfigReload: ReloadConfig{
			Method:       "auto",
			PollInterval: 10 * time.Second,
			Debounce:     500 * time.Millisecond,
		},
	}
}

// Codec returns the naming codec described by the configuration.
func (c *Config) Codec() naming.Codec {
	return naming.New(c.DateFormat, c.Extension)
}

// Validate checks the configuration for values the tool cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if c.Dir.Archives == "" {
		errs = append(errs, errors.New("dir.archives is required"))
	}
	if err := c.Codec().Validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.Compression {
	case "", "none", "gzip", "zstd":
	default:
		errs = append(errs, fmt.Errorf("unknown compression %q", c.Compression))
	}

	r := c.Retention
	if r.Days < 0 || r.Weeks < 0 || r.Months < 0 || r.Years < 0 {
		errs = append(errs, errors.New("retention windows must not be negative"))
	}

	switch c.Email.SMTP.TLS {
	case "", "none", "opportunistic", "mandatory":
	default:
		errs = append(errs, fmt.Errorf("unknown smtp tls policy %q", c.Email.SMTP.TLS))
	}

	for name, spec := range map[string]string{"schedule.archive": c.Schedule.Archive, "schedule.prune": c.Schedule.Prune} {
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", name, spec, err))
		}
	}

	switch c.ConfigReload.Method {
	case "", "auto", "poll", "fsnotify":
	default:
		errs = append(errs, fmt.Errorf("unknown configReload.method %q", c.ConfigReload.Method))
	}

	return errors.Join(errs...)
}
