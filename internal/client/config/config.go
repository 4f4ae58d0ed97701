package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the escrowdeck CLI.
//
// Durations are time.Duration values; the JSON overlay accepts strings
// like "30s".
type Config struct {
	// APIBaseURL is the root of the escrow backend's REST surface.
	APIBaseURL string `env:"ESCROWDECK_API_URL"`

	// WalletRPCURL is the endpoint of the wallet signer bridge.
	WalletRPCURL string `env:"ESCROWDECK_WALLET_RPC_URL"`

	// ChainID is the expected chain in hex notation (e.g. "0x1").
	ChainID string `env:"ESCROWDECK_CHAIN_ID"`

	// ContractAddress is the deployed escrow contract.
	ContractAddress string `env:"ESCROWDECK_CONTRACT_ADDRESS"`

	// StateDir holds the session file and the local cache database.
	StateDir string `env:"ESCROWDECK_STATE_DIR"`

	// CacheTTL bounds how stale a cached escrow page may be served.
	CacheTTL time.Duration `env:"ESCROWDECK_CACHE_TTL"`

	// WalletWatchInterval is the polling period for wallet account and
	// chain changes.
	WalletWatchInterval time.Duration `env:"ESCROWDECK_WALLET_WATCH_INTERVAL"`

	// MetricsAddr enables the Prometheus endpoint when non-empty.
	MetricsAddr string `env:"ESCROWDECK_METRICS_ADDR"`

	Verbose bool `env:"ESCROWDECK_VERBOSE"`

	// Proof storage (S3-compatible).
	S3Endpoint         string `env:"ESCROWDECK_S3_ENDPOINT"`
	S3Region           string `env:"ESCROWDECK_S3_REGION"`
	S3AccessKeyID      string `env:"ESCROWDECK_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey  string `env:"ESCROWDECK_S3_SECRET_ACCESS_KEY"`
	S3Bucket           string `env:"ESCROWDECK_S3_BUCKET"`
	ProofPublicBaseURL string `env:"ESCROWDECK_PROOF_PUBLIC_BASE_URL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:4000/api"
	c.WalletRPCURL = "http://127.0.0.1:8545"
	c.ChainID = "0x1"
	c.CacheTTL = 60 * time.Second
	c.WalletWatchInterval = 5 * time.Second
	c.S3Region = "us-east-1"

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	c.StateDir = filepath.Join(home, ".escrowdeck")
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
