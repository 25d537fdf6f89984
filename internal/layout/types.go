package layout

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ErrMalformedRecord is returned when an account blob does not match the
// expected record layout.
var ErrMalformedRecord = errors.New("malformed record")

// Record sizes in bytes
const (
	PoolSize         = 324 // versioned pool: leading version byte
	LegacyPoolSize   = 323 // unversioned pool: starts at is_initialized
	TokenAccountSize = 165
	MintSize         = 82
)

// Pool state versions. Legacy pools carry no version byte and decode as
// LegacyPoolVersion.
const (
	LegacyPoolVersion = 0
	PoolVersion       = 1
)

// Token account states
const (
	AccountUninitialized uint8 = 0
	AccountInitialized   uint8 = 1
	AccountFrozen        uint8 = 2
)

// Fees mirrors the eight u64 fee fields stored in a token-swap pool
type Fees struct {
	TradeFeeNumerator           uint64
	TradeFeeDenominator         uint64
	OwnerTradeFeeNumerator      uint64
	OwnerTradeFeeDenominator    uint64
	OwnerWithdrawFeeNumerator   uint64
	OwnerWithdrawFeeDenominator uint64
	HostFeeNumerator            uint64
	HostFeeDenominator          uint64
}

// Pool is a decoded token-swap pool descriptor
type Pool struct {
	Address      solana.PublicKey
	Version      uint8
	BumpSeed     uint8
	TokenProgram solana.PublicKey
	ReserveA     solana.PublicKey // token_a
	ReserveB     solana.PublicKey // token_b
	PoolMint     solana.PublicKey
	MintA        solana.PublicKey
	MintB        solana.PublicKey
	FeeAccount   solana.PublicKey
	Fees         Fees
	CurveType    uint8
}

// Dependencies returns the reserve and mint accounts needed to value the pool,
// without duplicates, in the order reserveA, mintA, reserveB, mintB.
func (p *Pool) Dependencies() []solana.PublicKey {
	all := []solana.PublicKey{p.ReserveA, p.MintA, p.ReserveB, p.MintB}
	out := make([]solana.PublicKey, 0, len(all))
	for _, key := range all {
		dup := false
		for _, seen := range out {
			if seen.Equals(key) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, key)
		}
	}
	return out
}

// TokenAccount is a decoded SPL token account
type TokenAccount struct {
	Mint            solana.PublicKey
	Owner           solana.PublicKey
	Amount          uint64
	Delegate        *solana.PublicKey
	State           uint8
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *solana.PublicKey
}

// Mint is a decoded SPL token mint
type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}
