package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
dir:
  archives: /backups/archives
  snapshot: $(GHE_SNAPSHOT_DIR)
dateFormat: 2006-01-02-Mon
extension: .tar.gz
compression: gzip
retention:
  days: 3
  weeks: 3
  months: 3
  years: 3
email:
  sender: a-sender@example.com
  recipients:
    - user1@example.com
    - user2@example.com
  smtp:
    host: smtp.example.com
    port: 587
    tls: mandatory
log:
  dir: /var/log/ghe-archiver
  level: debug
  retention: 8
schedule:
  archive: "0 2 * * *"
  prune: "30 3 * * *"
configReload:
  enabled: true
  method: poll
  pollInterval: 5s
`

func TestParse(t *testing.T) {
	t.Setenv("GHE_SNAPSHOT_DIR", "/data/user/current")

	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "/backups/archives", cfg.Dir.Archives)
	assert.Equal(t, "/data/user/current", cfg.Dir.Snapshot)
	assert.Equal(t, ".tar.gz", cfg.Extension)
	assert.Equal(t, "gzip", cfg.Compression)
	assert.Equal(t, RetentionConfig{Days: 3, Weeks: 3, Months: 3, Years: 3, Concurrency: 8}, cfg.Retention)
	assert.Equal(t, []string{"user1@example.com", "user2@example.com"}, cfg.Email.Recipients)
	assert.Equal(t, 587, cfg.Email.SMTP.Port)
	assert.Equal(t, 30*time.Second, cfg.Email.SMTP.Timeout, "defaults survive partial sections")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "30 3 * * *", cfg.Schedule.Prune)
	assert.Equal(t, 5*time.Second, cfg.ConfigReload.PollInterval)
	assert.Equal(t, ".tar.gz", cfg.Codec().Ext)
}

func TestParseMissingEnvExpandsEmpty(t *testing.T) {
	cfg, err := Parse([]byte("dir:\n  archives: /a\n  snapshot: \"$(GHE_ARCHIVER_UNSET_VARIABLE)\"\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Dir.Snapshot)
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no archive dir", func(c *Config) { c.Dir.Archives = "" }},
		{"bad extension", func(c *Config) { c.Extension = "tar" }},
		{"bad layout", func(c *Config) { c.DateFormat = "20060102" }},
		{"bad compression", func(c *Config) { c.Compression = "lz4" }},
		{"negative window", func(c *Config) { c.Retention.Weeks = -1 }},
		{"bad tls", func(c *Config) { c.Email.SMTP.TLS = "sometimes" }},
		{"bad cron", func(c *Config) { c.Schedule.Archive = "every day" }},
		{"bad reload method", func(c *Config) { c.ConfigReload.Method = "inotify" }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir:\n  archives: "+dir+"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir.Archives)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("GHE_ARCHIVER_TEST", "value")
	assert.Equal(t, "a-value-b", expandEnvVars("a-$(GHE_ARCHIVER_TEST)-b"))
	assert.Equal(t, "$(not closed", expandEnvVars("$(not closed"))
}

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0 1 * * *", cfg.Schedule.Archive)
	assert.Equal(t, "0 3 * * *", cfg.Schedule.Prune)
	assert.Equal(t, 500*time.Millisecond, cfg.ConfigReload.Debounce)
	assert.Equal(t, []string{"github-ops@your-company-name.com"}, cfg.Email.Recipients)
}
