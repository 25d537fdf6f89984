package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// RawAccount is an account address and its undecoded data
type RawAccount struct {
	Address solana.PublicKey
	Data    []byte
}

// PoolDiscoverer enumerates the accounts owned by a program
type PoolDiscoverer interface {
	// DiscoverPools returns every account owned by program, in whatever order
	// the ledger reports them
	DiscoverPools(ctx context.Context, program solana.PublicKey) ([]RawAccount, error)
}

// AccountFetcher batch-loads account data
type AccountFetcher interface {
	// FetchAccounts returns one entry per address, in input order. A nil
	// entry means the account does not exist.
	FetchAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error)
}

// NameRegistry maps mint addresses to display names
type NameRegistry interface {
	// Name never returns an empty string
	Name(mint solana.PublicKey) string
}

// FetchFunc adapts a plain function to AccountFetcher
type FetchFunc func(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error)

func (f FetchFunc) FetchAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error) {
	return f(ctx, addresses)
}
