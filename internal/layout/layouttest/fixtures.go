// Package layouttest builds raw account blobs for tests.
package layouttest

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/layout"
)

// Key returns a deterministic non-zero public key derived from seed
func Key(seed byte) solana.PublicKey {
	var k solana.PublicKey
	for i := range k {
		k[i] = seed + byte(i)
	}
	if k.IsZero() {
		k[0] = 1
	}
	return k
}

// PoolKeys describes the fields a test cares about in a pool blob
type PoolKeys struct {
	ReserveA solana.PublicKey
	ReserveB solana.PublicKey
	MintA    solana.PublicKey
	MintB    solana.PublicKey
}

// Pool encodes a versioned token-swap pool account
func Pool(keys PoolKeys) []byte {
	data := make([]byte, layout.PoolSize)
	data[0] = layout.PoolVersion
	data[1] = 1 // is_initialized
	data[2] = 254

	off := 3
	for _, key := range []solana.PublicKey{
		solana.TokenProgramID,
		keys.ReserveA,
		keys.ReserveB,
		Key(200),
		keys.MintA,
		keys.MintB,
		Key(220),
	} {
		copy(data[off:off+32], key[:])
		off += 32
	}

	fees := []uint64{25, 10000, 5, 10000, 0, 0, 20, 100}
	for _, f := range fees {
		binary.LittleEndian.PutUint64(data[off:off+8], f)
		off += 8
	}
	data[off] = 0 // constant product curve
	return data
}

// LegacyPool encodes the same pool in the unversioned layout
func LegacyPool(keys PoolKeys) []byte {
	return Pool(keys)[1:]
}

// TokenAccount encodes an initialized SPL token account
func TokenAccount(mint solana.PublicKey, amount uint64) []byte {
	data := make([]byte, layout.TokenAccountSize)
	copy(data[0:32], mint[:])
	owner := Key(90)
	copy(data[32:64], owner[:])
	binary.LittleEndian.PutUint64(data[64:72], amount)
	// delegate: none (72..108)
	data[108] = layout.AccountInitialized
	// is_native: none (109..121), delegated_amount: 0 (121..129), close_authority: none (129..165)
	return data
}

// Mint encodes an initialized SPL token mint
func Mint(decimals uint8, supply uint64) []byte {
	data := make([]byte, layout.MintSize)
	binary.LittleEndian.PutUint32(data[0:4], 1)
	authority := Key(70)
	copy(data[4:36], authority[:])
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1 // is_initialized
	// freeze_authority: none (46..82)
	return data
}
