package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/constants"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/ledger"
)

// Client reads program and token accounts from a Solana RPC node with
// per-attempt timeouts, retry and request rate limiting
type Client struct {
	api              ledgerAPI
	commitment       solanarpc.CommitmentType
	timeout          time.Duration
	discoveryTimeout time.Duration
	maxRetries       int
	retryBackoff     time.Duration
	limiter          *rate.Limiter
	logger           *logrus.Logger
}

var (
	_ ledger.PoolDiscoverer = (*Client)(nil)
	_ ledger.AccountFetcher = (*Client)(nil)
)

// NewClient creates a new ledger client for cfg.BaseURL
func NewClient(cfg ClientConfig) *Client {
	return newClient(solanarpc.New(cfg.BaseURL), cfg)
}

func newClient(api ledgerAPI, cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultFetchTimeout
	}
	if cfg.DiscoveryTimeout <= 0 {
		cfg.DiscoveryTimeout = constants.DefaultDiscoveryTimeout
	}
	if cfg.Commitment == "" {
		cfg.Commitment = solanarpc.CommitmentConfirmed
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		api:              api,
		commitment:       cfg.Commitment,
		timeout:          cfg.Timeout,
		discoveryTimeout: cfg.DiscoveryTimeout,
		maxRetries:       cfg.MaxRetries,
		retryBackoff:     cfg.RetryBackoff,
		limiter:          limiter,
		logger:           cfg.Logger,
	}
}

// retry runs call until it succeeds, the retries are used up or ctx ends.
// Each attempt gets its own timeout.
func (c *Client) retry(ctx context.Context, method string, timeout time.Duration, call func(context.Context) error) error {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": backoff,
				"method":  method,
				"error":   lastErr,
			}).Debug("retrying RPC call")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2 // exponential backoff
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := call(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// DiscoverPools returns every account owned by program
func (c *Client) DiscoverPools(ctx context.Context, program solana.PublicKey) ([]ledger.RawAccount, error) {
	var result solanarpc.GetProgramAccountsResult

	err := c.retry(ctx, "getProgramAccounts", c.discoveryTimeout, func(ctx context.Context) error {
		out, err := c.api.GetProgramAccountsWithOpts(ctx, program, &solanarpc.GetProgramAccountsOpts{
			Commitment: c.commitment,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: program %s: %w", ErrDiscoveryUnavailable, program, err)
	}

	accounts := make([]ledger.RawAccount, 0, len(result))
	for _, keyed := range result {
		if keyed == nil {
			continue
		}
		accounts = append(accounts, ledger.RawAccount{
			Address: keyed.Pubkey,
			Data:    accountData(keyed.Account),
		})
	}

	c.logger.WithFields(logrus.Fields{
		"program":  program.String(),
		"accounts": len(accounts),
	}).Debug("discovered program accounts")

	return accounts, nil
}

// FetchAccounts loads addresses in batches of at most
// constants.MaxAccountsPerRequest. Missing accounts come back as nil.
func (c *Client) FetchAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error) {
	out := make([][]byte, 0, len(addresses))

	for start := 0; start < len(addresses); start += constants.MaxAccountsPerRequest {
		end := start + constants.MaxAccountsPerRequest
		if end > len(addresses) {
			end = len(addresses)
		}
		batch := addresses[start:end]

		var result *solanarpc.GetMultipleAccountsResult
		err := c.retry(ctx, "getMultipleAccounts", c.timeout, func(ctx context.Context) error {
			res, err := c.api.GetMultipleAccountsWithOpts(ctx, batch, &solanarpc.GetMultipleAccountsOpts{
				Commitment: c.commitment,
				Encoding:   solana.EncodingBase64,
			})
			if err != nil {
				return err
			}
			if res == nil || len(res.Value) != len(batch) {
				got := 0
				if res != nil {
					got = len(res.Value)
				}
				return fmt.Errorf("getMultipleAccounts returned %d accounts for %d keys", got, len(batch))
			}
			result = res
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchUnavailable, err)
		}

		for _, acc := range result.Value {
			out = append(out, accountData(acc))
		}
	}

	return out, nil
}

// accountData returns nil for a missing account and a non-nil slice otherwise,
// so an existing empty account is not mistaken for a missing one
func accountData(acc *solanarpc.Account) []byte {
	if acc == nil {
		return nil
	}
	if acc.Data == nil {
		return []byte{}
	}
	data := acc.Data.GetBinary()
	if data == nil {
		return []byte{}
	}
	return data
}
