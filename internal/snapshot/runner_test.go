package snapshot

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/constants"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/layout/layouttest"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/ledger"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/models"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/pools"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/rpc"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/tokens"
)

type discoverFunc func(ctx context.Context, program solana.PublicKey) ([]ledger.RawAccount, error)

func (f discoverFunc) DiscoverPools(ctx context.Context, program solana.PublicKey) ([]ledger.RawAccount, error) {
	return f(ctx, program)
}

type resolveFunc func(ctx context.Context, raw ledger.RawAccount) (models.PoolRow, error)

func (f resolveFunc) Resolve(ctx context.Context, raw ledger.RawAccount) (models.PoolRow, error) {
	return f(ctx, raw)
}

func staticPools(accounts ...ledger.RawAccount) discoverFunc {
	return func(context.Context, solana.PublicKey) ([]ledger.RawAccount, error) {
		return accounts, nil
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRunner(t *testing.T, d ledger.PoolDiscoverer, r PoolResolver, concurrency int) *Runner {
	t.Helper()
	runner, err := NewRunner(Config{Discoverer: d, Resolver: r, Concurrency: concurrency, Logger: quietLogger()})
	require.NoError(t, err)
	return runner
}

func TestRun_DiscoveryFailureIsFatal(t *testing.T) {
	var resolved atomic.Int32
	d := discoverFunc(func(context.Context, solana.PublicKey) ([]ledger.RawAccount, error) {
		return nil, rpc.ErrDiscoveryUnavailable
	})
	r := resolveFunc(func(context.Context, ledger.RawAccount) (models.PoolRow, error) {
		resolved.Add(1)
		return models.PoolRow{}, nil
	})

	rows, err := newTestRunner(t, d, r, 2).Run(context.Background(), layouttest.Key(9))
	assert.ErrorIs(t, err, rpc.ErrDiscoveryUnavailable)
	assert.Nil(t, rows)
	assert.Zero(t, resolved.Load())
}

func TestRun_NoPools(t *testing.T) {
	r := resolveFunc(func(context.Context, ledger.RawAccount) (models.PoolRow, error) {
		t.Fatal("resolver called with no pools")
		return models.PoolRow{}, nil
	})

	rows, err := newTestRunner(t, staticPools(), r, 2).Run(context.Background(), layouttest.Key(9))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRun_KeepsDiscoveryOrder(t *testing.T) {
	var accounts []ledger.RawAccount
	for i := 0; i < 20; i++ {
		accounts = append(accounts, ledger.RawAccount{Address: layouttest.Key(byte(i * 5))})
	}

	var inFlight, peak atomic.Int32
	r := resolveFunc(func(_ context.Context, raw ledger.RawAccount) (models.PoolRow, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		return models.PoolRow{Pool: raw.Address.String(), Resolved: true}, nil
	})

	rows, err := newTestRunner(t, staticPools(accounts...), r, 3).Run(context.Background(), layouttest.Key(9))
	require.NoError(t, err)
	require.Len(t, rows, len(accounts))
	for i, row := range rows {
		assert.Equal(t, accounts[i].Address.String(), row.Pool)
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	accounts := []ledger.RawAccount{
		{Address: layouttest.Key(1)},
		{Address: layouttest.Key(2)},
	}
	d := discoverFunc(func(context.Context, solana.PublicKey) ([]ledger.RawAccount, error) {
		cancel()
		return accounts, nil
	})
	r := resolveFunc(func(_ context.Context, raw ledger.RawAccount) (models.PoolRow, error) {
		return models.PoolRow{Pool: raw.Address.String(), Resolved: true}, nil
	})

	rows, err := newTestRunner(t, d, r, 1).Run(ctx, layouttest.Key(9))
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, rows, 2)
	for i, row := range rows {
		assert.Equal(t, accounts[i].Address.String(), row.Pool)
		assert.False(t, row.Resolved)
		assert.Equal(t, constants.UnresolvedMarker, row.Ratio)
	}
}

// One broken pool among good ones, end to end through the real resolver
func TestRun_IsolatesBadPool(t *testing.T) {
	good := layouttest.PoolKeys{
		ReserveA: layouttest.Key(10),
		ReserveB: layouttest.Key(20),
		MintA:    solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		MintB:    solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
	}
	missingMint := layouttest.PoolKeys{
		ReserveA: layouttest.Key(50),
		ReserveB: layouttest.Key(60),
		MintA:    good.MintA,
		MintB:    layouttest.Key(77),
	}

	accounts := map[solana.PublicKey][]byte{
		good.ReserveA:        layouttest.TokenAccount(good.MintA, 2_000_000_000),
		good.ReserveB:        layouttest.TokenAccount(good.MintB, 6_000_000),
		good.MintA:           layouttest.Mint(9, 1),
		good.MintB:           layouttest.Mint(6, 1),
		missingMint.ReserveA: layouttest.TokenAccount(missingMint.MintA, 1),
		missingMint.ReserveB: layouttest.TokenAccount(missingMint.MintB, 1),
	}
	fetch := ledger.FetchFunc(func(_ context.Context, keys []solana.PublicKey) ([][]byte, error) {
		out := make([][]byte, len(keys))
		for i, k := range keys {
			out[i] = accounts[k]
		}
		return out, nil
	})

	names, err := tokens.NewRegistry(constants.TokenSymbols)
	require.NoError(t, err)
	resolver, err := pools.NewResolver(pools.ResolverConfig{Fetcher: fetch, Names: names, Logger: quietLogger()})
	require.NoError(t, err)

	discovered := []ledger.RawAccount{
		{Address: layouttest.Key(1), Data: layouttest.Pool(good)},
		{Address: layouttest.Key(2), Data: layouttest.Pool(missingMint)},
		{Address: layouttest.Key(3), Data: []byte{1, 2, 3}},
		{Address: layouttest.Key(4), Data: layouttest.Pool(good)},
	}

	rows, err := newTestRunner(t, staticPools(discovered...), resolver, 2).Run(context.Background(), layouttest.Key(9))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	for _, i := range []int{0, 3} {
		assert.True(t, rows[i].Resolved)
		assert.Equal(t, []string{discovered[i].Address.String(), "SOL", "2.000000000", "USDC", "6.000000", "3.0"}, rows[i].Cells())
	}

	assert.False(t, rows[1].Resolved)
	assert.Equal(t, "SOL", rows[1].TokenA.Name)
	assert.Equal(t, constants.UnresolvedMarker, rows[1].TokenB.Balance)

	assert.False(t, rows[2].Resolved)
	assert.Equal(t, constants.UnresolvedMarker, rows[2].TokenA.Name)
}

func TestNewRunner(t *testing.T) {
	r := resolveFunc(func(context.Context, ledger.RawAccount) (models.PoolRow, error) {
		return models.PoolRow{}, errors.New("unused")
	})

	_, err := NewRunner(Config{Resolver: r})
	assert.Error(t, err)

	_, err = NewRunner(Config{Discoverer: staticPools()})
	assert.Error(t, err)

	runner, err := NewRunner(Config{Discoverer: staticPools(), Resolver: r})
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultConcurrency, runner.concurrency)
}
