package config

import (
	"testing"
	"time"

	MapSet "github.com/deckarep/golang-set/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DexPrograms:          MapSet.NewSet(DefaultDexPrograms...),
		DefaultLookbackLimit: DefaultLookbackLimit,
		MaxLookbackLimit:     DefaultMaxLookbackLimit,
		SandwichWindowSecs:   DefaultSandwichWindowSecs,
		FetchWorkers:         DefaultFetchWorkers,
		FetchRetries:         DefaultFetchRetries,
		FetchRetryDelay:      DefaultFetchRetryDelay,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	noDex := validConfig()
	noDex.DexPrograms = MapSet.NewSet[string]()
	assert.Error(t, noDex.Validate())

	inverted := validConfig()
	inverted.DefaultLookbackLimit = 2000
	inverted.MaxLookbackLimit = 1000
	assert.Error(t, inverted.Validate())

	badWindow := validConfig()
	badWindow.SandwichWindowSecs = 0
	assert.Error(t, badWindow.Validate())
}

func TestRequireAPIKey(t *testing.T) {
	cfg := validConfig()
	assert.Error(t, cfg.RequireAPIKey())

	cfg.HeliusAPIKey = "key"
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultLookbackLimit, cfg.DefaultLookbackLimit)
	assert.Equal(t, DefaultMaxLookbackLimit, cfg.MaxLookbackLimit)
	assert.Equal(t, int64(DefaultSandwichWindowSecs), cfg.SandwichWindowSecs)
	assert.Equal(t, DefaultFetchWorkers, cfg.FetchWorkers)
	assert.Equal(t, DefaultFetchRetries, cfg.FetchRetries)
	assert.Equal(t, DefaultFetchRetryDelay, cfg.FetchRetryDelay)
	assert.Equal(t, DefaultParseTxURL, cfg.ParseTxURL)
	assert.Equal(t, DefaultAddressTxURL, cfg.AddressTxURL)
	assert.Equal(t, len(DefaultDexPrograms), cfg.DexPrograms.Cardinality())
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("detection.dex-programs", []string{"ProgA", "ProgB"})
	viper.Set("detection.max-lookback-limit", 500)
	viper.Set("detection.default-lookback-limit", 50)
	viper.Set("detection.sandwich-window-seconds", 15)
	viper.Set("fetch.workers", 8)
	viper.Set("fetch.retry-delay", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.DexPrograms.Contains("ProgA"))
	assert.Equal(t, 2, cfg.DexPrograms.Cardinality())
	assert.Equal(t, 500, cfg.MaxLookbackLimit)
	assert.Equal(t, 50, cfg.DefaultLookbackLimit)
	assert.Equal(t, int64(15), cfg.SandwichWindowSecs)
	assert.Equal(t, 8, cfg.FetchWorkers)
	assert.Equal(t, 250*time.Millisecond, cfg.FetchRetryDelay)
}

func TestLoad_RejectsInvertedLimits(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("detection.default-lookback-limit", 2000)
	viper.Set("detection.max-lookback-limit", 1000)

	_, err := Load()
	require.Error(t, err)
}
