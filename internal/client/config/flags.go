package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/escrowdeck/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the escrow backend API
//	-w string   wallet signer RPC endpoint
//	-t int      cache TTL in seconds
//	-v          verbose logging
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-t", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the escrow backend API")
	fs.StringVar(&cfg.WalletRPCURL, "w", cfg.WalletRPCURL, "wallet signer RPC endpoint")
	cacheTTL := fs.Int("t", int(cfg.CacheTTL.Seconds()), "cache TTL (in seconds)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.CacheTTL = time.Duration(*cacheTTL) * time.Second
}
