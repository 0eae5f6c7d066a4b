package config

import (
	"fmt"
	"time"

	MapSet "github.com/deckarep/golang-set/v2"
	"github.com/spf13/viper"
)

// Path config
const (
	LogPath    = "./logs/"
	ConfigPath = "./"
)

// Network config
const (
	DefaultFetchWorkers    = 5
	DefaultFetchRetries    = 3
	DefaultFetchRetryDelay = 1 * time.Second
)

// Detection config
const (
	DefaultLookbackLimit      = 100
	DefaultMaxLookbackLimit   = 1000
	DefaultSandwichWindowSecs = 30 // max seconds between adjacent txs in a sandwich
)

// Helius API endpoints
const (
	DefaultParseTxURL   = "https://api.helius.xyz/v0/transactions/"
	DefaultAddressTxURL = "https://api.helius.xyz/v0/addresses/"
)

// Config carries everything the detection pipeline reads. It is built once
// in the command layer and passed by reference; nothing mutates it after Load.
type Config struct {
	HeliusAPIKey string
	ParseTxURL   string
	AddressTxURL string

	// Known DEX program identifiers. A transaction counts as a DEX
	// interaction iff one of its instructions targets a member program.
	DexPrograms MapSet.Set[string]

	DefaultLookbackLimit int
	MaxLookbackLimit     int
	SandwichWindowSecs   int64

	FetchWorkers    int
	FetchRetries    int
	FetchRetryDelay time.Duration
}

// Load builds a Config from the merged viper state (config.yaml + env).
// main.go is responsible for having read config.yaml and .env beforehand.
func Load() (*Config, error) {
	cfg := &Config{
		HeliusAPIKey:         viper.GetString("HELIUS_API_KEY"),
		ParseTxURL:           stringOr(viper.GetString("helius.parse-tx-url"), DefaultParseTxURL),
		AddressTxURL:         stringOr(viper.GetString("helius.address-tx-url"), DefaultAddressTxURL),
		DexPrograms:          MapSet.NewSet[string](),
		DefaultLookbackLimit: intOr(viper.GetInt("detection.default-lookback-limit"), DefaultLookbackLimit),
		MaxLookbackLimit:     intOr(viper.GetInt("detection.max-lookback-limit"), DefaultMaxLookbackLimit),
		SandwichWindowSecs:   int64Or(viper.GetInt64("detection.sandwich-window-seconds"), DefaultSandwichWindowSecs),
		FetchWorkers:         intOr(viper.GetInt("fetch.workers"), DefaultFetchWorkers),
		FetchRetries:         intOr(viper.GetInt("fetch.retries"), DefaultFetchRetries),
		FetchRetryDelay:      durationOr(viper.GetDuration("fetch.retry-delay"), DefaultFetchRetryDelay),
	}

	for _, p := range viper.GetStringSlice("detection.dex-programs") {
		if p != "" {
			cfg.DexPrograms.Add(p)
		}
	}
	if cfg.DexPrograms.Cardinality() == 0 {
		for _, p := range DefaultDexPrograms {
			cfg.DexPrograms.Add(p)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DexPrograms == nil || c.DexPrograms.Cardinality() == 0 {
		return fmt.Errorf("detection.dex-programs must contain at least one program id")
	}
	if c.DefaultLookbackLimit > c.MaxLookbackLimit {
		return fmt.Errorf("default lookback limit (%d) cannot be greater than max lookback limit (%d)",
			c.DefaultLookbackLimit, c.MaxLookbackLimit)
	}
	if c.SandwichWindowSecs <= 0 {
		return fmt.Errorf("sandwich window must be positive, got %d", c.SandwichWindowSecs)
	}
	return nil
}

// RequireAPIKey fails when the Helius key is missing; commands that talk to
// the network call this up front.
func (c *Config) RequireAPIKey() error {
	if c.HeliusAPIKey == "" {
		return fmt.Errorf("missing HELIUS_API_KEY, set it in .env or the environment")
	}
	return nil
}

func stringOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func intOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func int64Or(v, def int64) int64 {
	if v > 0 {
		return v
	}
	return def
}

func durationOr(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}
