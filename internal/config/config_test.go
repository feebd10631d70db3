package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 9090
	cfg.Analysis.NormalizationMonths = 6
	cfg.Dictionaries.Categories = append(cfg.Dictionaries.Categories, CategoryRule{Name: "Pets", Keywords: []string{"vet", "petshop"}})

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, got.Server.Port)
	assert.Equal(t, 30*time.Second, got.Server.ReadTimeout)
	assert.Equal(t, 6, got.Analysis.NormalizationMonths)
	assert.InDelta(t, 10.0, got.Analysis.AnnualRatePercent, 0.001)
	require.Len(t, got.Dictionaries.Categories, len(cfg.Dictionaries.Categories))
	assert.Equal(t, "Pets", got.Dictionaries.Categories[len(got.Dictionaries.Categories)-1].Name)
	assert.Equal(t, cfg.Dictionaries.Fraud.NBFCLenders, got.Dictionaries.Fraud.NBFCLenders)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 120, cfg.Analysis.TenureMonths)
	assert.InDelta(t, 50.0, cfg.Analysis.MaxFOIRPercent, 0.001)
	assert.Equal(t, CategorySalary, cfg.Dictionaries.Categories[0].Name)
	assert.InDelta(t, 10000.0, cfg.Dictionaries.Behavior.MinimumBalance, 0.001)
	assert.Contains(t, cfg.Dictionaries.Fraud.PaydayLenders, "moneytap")
	assert.Contains(t, cfg.Dictionaries.GST.Keywords, "gstr")
	assert.Equal(t, 3, cfg.Dictionaries.Bank.MinRecurring)
	require.NoError(t, Validate(cfg))
}

func TestLoadPartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "log:\n  level: debug\ndictionaries:\n  alerts:\n    low_balance: 500\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.InDelta(t, 500.0, cfg.Dictionaries.Alerts.LowBalance, 0.001)
	assert.InDelta(t, 50000.0, cfg.Dictionaries.Alerts.LargeCashWithdrawal, 0.001)
	assert.NotEmpty(t, cfg.Dictionaries.Categories)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"zero tenure", func(c *Config) { c.Analysis.TenureMonths = 0 }, "tenure_months"},
		{"negative rate", func(c *Config) { c.Analysis.AnnualRatePercent = -1 }, "annual_rate_percent"},
		{"foir above 100", func(c *Config) { c.Analysis.MaxFOIRPercent = 120 }, "max_foir_percent"},
		{"no categories", func(c *Config) { c.Dictionaries.Categories = nil }, "categories must not be empty"},
		{"zero recurring", func(c *Config) { c.Dictionaries.Bank.MinRecurring = 0 }, "min_recurring"},
		{"duplicate category", func(c *Config) {
			c.Dictionaries.Categories = append(c.Dictionaries.Categories, CategoryRule{Name: "salary"})
		}, "duplicate category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FINSCORE_LOG_FORMAT=console\n"), 0o644))
	t.Setenv("FINSCORE_PORT", "7070")
	t.Setenv("FINSCORE_LOG_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("FINSCORE_LOG_FORMAT") })

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, envFile))

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 20, cfg.Server.BodyLimitMB)
}

func TestApplyEnvBadPort(t *testing.T) {
	t.Setenv("FINSCORE_PORT", "eighty")
	err := ApplyEnv(Default(), filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FINSCORE_PORT")
}
