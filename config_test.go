package bindery_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := bindery.DefaultConfig()

	require.NoError(t, cfg.Validate())
	require.InDelta(t, 15.0, cfg.CeilingMB, 0.001)
	require.InDelta(t, 5.0, cfg.SafetyMarginPercent, 0.001)
	require.InDelta(t, 88.0, cfg.VerifyThresholdPercent, 0.001)
	require.Equal(t, int64(2048), cfg.ItemOverheadBytes)
	require.Equal(t, bindery.CompressionMedium, cfg.CompressionLevel)
	require.Equal(t, 300*time.Millisecond, cfg.PackDebounce)
	require.Equal(t, "volume-%03d", cfg.TitlePattern)
	require.Equal(t, int64(15*1024*1024), cfg.CeilingBytes())
}

func TestSetDefaultsFillsZeroValues(t *testing.T) {
	t.Parallel()

	cfg := bindery.Config{CeilingMB: 7}
	bindery.SetDefaults(&cfg)

	require.InDelta(t, 7.0, cfg.CeilingMB, 0.001)
	require.InDelta(t, 5.0, cfg.SafetyMarginPercent, 0.001)
	require.Equal(t, time.Second, cfg.SyncDebounce)
	require.Equal(t, "volumes", cfg.ContainerID)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaultsKeepsExplicitNoneCompression(t *testing.T) {
	t.Parallel()

	cfg := bindery.Config{CompressionLevel: bindery.CompressionNone}
	bindery.SetDefaults(&cfg)

	require.Equal(t, bindery.CompressionNone, cfg.CompressionLevel)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*bindery.Config)
	}{
		{"zero ceiling", func(c *bindery.Config) { c.CeilingMB = -1 }},
		{"margin too large", func(c *bindery.Config) { c.SafetyMarginPercent = 60 }},
		{"threshold too low", func(c *bindery.Config) { c.VerifyThresholdPercent = 40 }},
		{"threshold too high", func(c *bindery.Config) { c.VerifyThresholdPercent = 120 }},
		{"negative overhead", func(c *bindery.Config) { c.ItemOverheadBytes = -1 }},
		{"undefined level", func(c *bindery.Config) { c.CompressionLevel = 99 }},
		{"retry cap below base", func(c *bindery.Config) { c.SyncRetryBase = time.Minute; c.SyncRetryMax = time.Second }},
		{"pattern without number", func(c *bindery.Config) { c.TitlePattern = "volume" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := bindery.DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestTestConfigIsFastAndValid(t *testing.T) {
	t.Parallel()

	cfg := bindery.TestConfig()

	require.NoError(t, cfg.Validate())
	require.Less(t, cfg.PackDebounce, bindery.DefaultConfig().PackDebounce)
	require.Less(t, cfg.SyncRetryMax, bindery.DefaultConfig().SyncRetryMax)
	require.GreaterOrEqual(t, cfg.SyncRetryMax, cfg.SyncRetryBase)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bindery.yaml")
	data := []byte("ceilingMb: 12\nsafetyMarginPercent: 8\ncontainerId: notebooks\npackDebounce: 150ms\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := bindery.LoadConfig(path)
	require.NoError(t, err)
	require.InDelta(t, 12.0, cfg.CeilingMB, 0.001)
	require.InDelta(t, 8.0, cfg.SafetyMarginPercent, 0.001)
	require.Equal(t, "notebooks", cfg.ContainerID)
	require.Equal(t, 150*time.Millisecond, cfg.PackDebounce)
	// Unset fields take defaults.
	require.InDelta(t, 88.0, cfg.VerifyThresholdPercent, 0.001)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := bindery.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bindery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("safetyMarginPercent: 90\n"), 0o600))

	_, err := bindery.LoadConfig(path)
	require.ErrorIs(t, err, bindery.ErrInvalidConfig)
}

func TestConfigParameters(t *testing.T) {
	t.Parallel()

	cfg := bindery.DefaultConfig()
	p := cfg.Parameters()

	require.InDelta(t, cfg.CeilingMB, p.CeilingMB, 0.001)
	require.InDelta(t, cfg.SafetyMarginPercent, p.SafetyMarginPercent, 0.001)
	require.Equal(t, cfg.CompressionLevel, p.CompressionLevel)
	require.Equal(t, cfg.CeilingBytes(), p.CeilingBytes())
}
