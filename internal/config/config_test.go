package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:50051", cfg.Spooler.Listen)
	assert.Equal(t, "spool_data", cfg.Spooler.SpoolDir)
	assert.Equal(t, 1, cfg.Spooler.Partitions)
	assert.True(t, cfg.Spooler.FsyncOnAppend)

	assert.Equal(t, "processor", cfg.Processor.ConsumerGroup)
	assert.Equal(t, "config/rulesets/mobility.yaml", cfg.Processor.Ruleset)
	assert.Equal(t, "events.jsonl", cfg.Processor.Output)
	assert.True(t, cfg.Processor.Continuous)
	assert.Equal(t, 100, cfg.Processor.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.Processor.ContextExpiry)

	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
s1see:
  spooler:
    listen: "127.0.0.1:6000"
    partitions: 4
  processor:
    consumer_group: replay
    context_expiry: 30s
    continuous: false
  log:
    level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6000", cfg.Spooler.Listen)
	assert.Equal(t, 4, cfg.Spooler.Partitions)
	assert.Equal(t, "replay", cfg.Processor.ConsumerGroup)
	assert.Equal(t, 30*time.Second, cfg.Processor.ContextExpiry)
	assert.False(t, cfg.Processor.Continuous)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, "spool_data", cfg.Spooler.SpoolDir)
	assert.Equal(t, 100, cfg.Processor.BatchSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "s1see:\n  log:\n    level: verbose\n"},
		{"zero partitions", "s1see:\n  spooler:\n    partitions: 0\n"},
		{"zero batch size", "s1see:\n  processor:\n    batch_size: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
