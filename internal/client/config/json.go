package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/escrowdeck/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Duration
// fields are strings parsed with time.ParseDuration ("30s", "2m").
type JsonConfig struct {
	APIBaseURL          string `json:"api_base_url"`
	WalletRPCURL        string `json:"wallet_rpc_url"`
	ChainID             string `json:"chain_id"`
	ContractAddress     string `json:"contract_address"`
	StateDir            string `json:"state_dir"`
	CacheTTL            string `json:"cache_ttl"`
	WalletWatchInterval string `json:"wallet_watch_interval"`
	MetricsAddr         string `json:"metrics_addr"`
	Verbose             *bool  `json:"verbose"`

	S3Endpoint         string `json:"s3_endpoint"`
	S3Region           string `json:"s3_region"`
	S3AccessKeyID      string `json:"s3_access_key_id"`
	S3SecretAccessKey  string `json:"s3_secret_access_key"`
	S3Bucket           string `json:"s3_bucket"`
	ProofPublicBaseURL string `json:"proof_public_base_url"`
}

// parseJson overlays cfg with values loaded from the JSON file named by
// the -c/-config flags. Empty JSON fields leave the current value in
// place. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.WalletRPCURL, jc.WalletRPCURL)
	setString(&cfg.ChainID, jc.ChainID)
	setString(&cfg.ContractAddress, jc.ContractAddress)
	setString(&cfg.StateDir, jc.StateDir)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3AccessKeyID, jc.S3AccessKeyID)
	setString(&cfg.S3SecretAccessKey, jc.S3SecretAccessKey)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.ProofPublicBaseURL, jc.ProofPublicBaseURL)
	setDuration(&cfg.CacheTTL, jc.CacheTTL)
	setDuration(&cfg.WalletWatchInterval, jc.WalletWatchInterval)
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
