package pools

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/amount"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/layout"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/ledger"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/models"
)

// ErrPoolUnresolved marks a pool whose reserves could not be valued
var ErrPoolUnresolved = errors.New("pool unresolved")

// Resolver values a single pool from its reserve and mint accounts
type Resolver struct {
	fetcher ledger.AccountFetcher
	names   ledger.NameRegistry
	logger  *logrus.Logger
}

// ResolverConfig holds the collaborators of a Resolver
type ResolverConfig struct {
	Fetcher ledger.AccountFetcher
	Names   ledger.NameRegistry
	Logger  *logrus.Logger
}

// NewResolver creates a pool resolver
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("account fetcher is nil")
	}
	if cfg.Names == nil {
		return nil, fmt.Errorf("name registry is nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Resolver{fetcher: cfg.Fetcher, names: cfg.Names, logger: cfg.Logger}, nil
}

// side is one half of a pool after its accounts are decoded
type side struct {
	name     string
	amount   uint64
	decimals uint8
}

// Resolve turns a raw pool account into a report row. The row is always
// usable: on failure it is an unresolved row and the returned error wraps
// ErrPoolUnresolved.
func (r *Resolver) Resolve(ctx context.Context, raw ledger.RawAccount) (models.PoolRow, error) {
	address := raw.Address.String()

	pool, err := layout.DecodePool(raw.Address, raw.Data)
	if err != nil {
		return r.unresolved(address, "", "", err)
	}
	nameA := r.names.Name(pool.MintA)
	nameB := r.names.Name(pool.MintB)

	row, err := r.resolvePool(ctx, pool, nameA, nameB)
	if err != nil {
		return r.unresolved(address, nameA, nameB, err)
	}
	return row, nil
}

func (r *Resolver) resolvePool(ctx context.Context, pool *layout.Pool, nameA, nameB string) (models.PoolRow, error) {
	keys := pool.Dependencies()

	blobs, err := r.fetcher.FetchAccounts(ctx, keys)
	if err != nil {
		return models.PoolRow{}, err
	}
	if len(blobs) != len(keys) {
		return models.PoolRow{}, fmt.Errorf("fetched %d accounts for %d keys", len(blobs), len(keys))
	}

	fetched := make(map[solana.PublicKey][]byte, len(keys))
	for i, key := range keys {
		if blobs[i] == nil {
			return models.PoolRow{}, fmt.Errorf("account %s not found", key)
		}
		fetched[key] = blobs[i]
	}

	a, err := decodeSide("A", nameA, pool.ReserveA, pool.MintA, fetched)
	if err != nil {
		return models.PoolRow{}, err
	}
	b, err := decodeSide("B", nameB, pool.ReserveB, pool.MintB, fetched)
	if err != nil {
		return models.PoolRow{}, err
	}

	balanceA, err := amount.Format(a.amount, a.decimals)
	if err != nil {
		return models.PoolRow{}, fmt.Errorf("token A balance: %w", err)
	}
	balanceB, err := amount.Format(b.amount, b.decimals)
	if err != nil {
		return models.PoolRow{}, fmt.Errorf("token B balance: %w", err)
	}
	ratio, err := amount.Ratio(a.amount, a.decimals, b.amount, b.decimals)
	if err != nil {
		return models.PoolRow{}, fmt.Errorf("ratio: %w", err)
	}

	return models.PoolRow{
		Pool:     pool.Address.String(),
		TokenA:   models.ResolvedToken{Name: a.name, Balance: balanceA},
		TokenB:   models.ResolvedToken{Name: b.name, Balance: balanceB},
		Ratio:    amount.FormatRatio(ratio),
		Resolved: true,
	}, nil
}

// decodeSide decodes a reserve and its mint. The reserve must hold the mint
// the pool declares for that side, so its amount is scaled by the right decimals.
func decodeSide(label, name string, reserve, mint solana.PublicKey, fetched map[solana.PublicKey][]byte) (side, error) {
	acct, err := layout.DecodeTokenAccount(fetched[reserve])
	if err != nil {
		return side{}, fmt.Errorf("token %s reserve %s: %w", label, reserve, err)
	}
	if !acct.Mint.Equals(mint) {
		return side{}, fmt.Errorf("token %s reserve %s holds mint %s, pool expects %s", label, reserve, acct.Mint, mint)
	}

	m, err := layout.DecodeMint(fetched[mint])
	if err != nil {
		return side{}, fmt.Errorf("token %s mint %s: %w", label, mint, err)
	}

	return side{name: name, amount: acct.Amount, decimals: m.Decimals}, nil
}

func (r *Resolver) unresolved(address, nameA, nameB string, cause error) (models.PoolRow, error) {
	err := fmt.Errorf("%w: %w", ErrPoolUnresolved, cause)
	r.logger.WithFields(logrus.Fields{
		"pool":  address,
		"error": cause,
	}).Warn("pool unresolved")
	return models.UnresolvedRow(address, nameA, nameB, cause.Error()), err
}
