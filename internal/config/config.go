package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/constants"
)

type Config struct {
	// RPC settings
	RPCUrl     string
	Commitment solanarpc.CommitmentType

	// Program whose accounts are reported
	ProgramID string

	// Fetch settings
	DiscoveryTimeout time.Duration
	FetchTimeout     time.Duration
	MaxRetries       int
	RetryBackoff     time.Duration
	RateLimit        float64

	// Resolution
	Concurrency int

	// Optional JSON token list layered over the built-in symbols
	TokenListPath string

	LogLevel string
}

func Load() *Config {
	return &Config{
		// RPC
		RPCUrl:     getEnv("SOLANA_RPC_URL", constants.DefaultRPCURL),
		Commitment: solanarpc.CommitmentType(getEnv("RPC_COMMITMENT", string(solanarpc.CommitmentConfirmed))),

		ProgramID: getEnv("SWAP_PROGRAM_ID", constants.DefaultSwapProgramID),

		// Fetch
		DiscoveryTimeout: getDurationEnv("DISCOVERY_TIMEOUT", constants.DefaultDiscoveryTimeout),
		FetchTimeout:     getDurationEnv("FETCH_TIMEOUT", constants.DefaultFetchTimeout),
		MaxRetries:       getIntEnv("MAX_RETRIES", 3),
		RetryBackoff:     getDurationEnv("RETRY_BACKOFF", 500*time.Millisecond),
		RateLimit:        getFloatEnv("RPC_RATE_LIMIT", constants.DefaultRateLimit),

		Concurrency: getIntEnv("RESOLVE_CONCURRENCY", constants.DefaultConcurrency),

		TokenListPath: getEnv("TOKEN_LIST_PATH", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks that the loaded configuration is usable
func (c *Config) Validate() error {
	if c.RPCUrl == "" {
		return fmt.Errorf("SOLANA_RPC_URL must not be empty")
	}
	if _, err := solana.PublicKeyFromBase58(c.ProgramID); err != nil {
		return fmt.Errorf("SWAP_PROGRAM_ID %q: %w", c.ProgramID, err)
	}
	switch c.Commitment {
	case solanarpc.CommitmentProcessed, solanarpc.CommitmentConfirmed, solanarpc.CommitmentFinalized:
	default:
		return fmt.Errorf("RPC_COMMITMENT %q: must be processed, confirmed or finalized", c.Commitment)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be > 0")
	}
	if c.DiscoveryTimeout <= 0 {
		return fmt.Errorf("DISCOVERY_TIMEOUT must be > 0")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be >= 0")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RPC_RATE_LIMIT must be > 0")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("RESOLVE_CONCURRENCY must be >= 1")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Program returns the parsed program id; call Validate first
func (c *Config) Program() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.ProgramID)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
