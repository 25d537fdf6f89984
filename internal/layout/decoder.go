package layout

import (
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// reader wraps the binary decoder and keeps the first error so field reads can
// be chained without checking each one.
type reader struct {
	dec *bin.Decoder
	err error
}

func newReader(data []byte) *reader {
	return &reader{dec: bin.NewBinDecoder(data)}
}

func (r *reader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint8()
	r.err = err
	return v
}

func (r *reader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint32(binary.LittleEndian)
	r.err = err
	return v
}

func (r *reader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint64(binary.LittleEndian)
	r.err = err
	return v
}

func (r *reader) key() solana.PublicKey {
	if r.err != nil {
		return solana.PublicKey{}
	}
	b, err := r.dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		r.err = err
		return solana.PublicKey{}
	}
	return solana.PublicKeyFromBytes(b)
}

func (r *reader) skip(n int) {
	if r.err != nil {
		return
	}
	_, r.err = r.dec.ReadNBytes(n)
}

// optionTag reads a COption discriminator, which is a u32 that must be 0 or 1
func (r *reader) optionTag(field string) bool {
	tag := r.u32()
	if r.err == nil && tag > 1 {
		r.err = fmt.Errorf("%s: invalid option tag %d", field, tag)
	}
	return tag == 1
}

func (r *reader) optionKey(field string) *solana.PublicKey {
	present := r.optionTag(field)
	key := r.key()
	if !present || r.err != nil {
		return nil
	}
	return &key
}

func (r *reader) optionU64(field string) *uint64 {
	present := r.optionTag(field)
	v := r.u64()
	if !present || r.err != nil {
		return nil
	}
	return &v
}

// flag reads a bool byte, rejecting anything other than 0 or 1
func (r *reader) flag(field string) bool {
	v := r.u8()
	if r.err == nil && v > 1 {
		r.err = fmt.Errorf("%s: invalid bool %d", field, v)
	}
	return v == 1
}

func (r *reader) done(kind string) error {
	if r.err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedRecord, kind, r.err)
	}
	if rem := r.dec.Remaining(); rem != 0 {
		return fmt.Errorf("%w: %s: %d trailing bytes", ErrMalformedRecord, kind, rem)
	}
	return nil
}

func checkSize(kind string, data []byte, want int) error {
	if len(data) != want {
		return fmt.Errorf("%w: %s: have %d bytes want %d", ErrMalformedRecord, kind, len(data), want)
	}
	return nil
}

// DecodePool parses a token-swap pool account. The layout is chosen by
// length: PoolSize blobs start with a version byte that must be PoolVersion,
// LegacyPoolSize blobs have no version byte and start at is_initialized.
func DecodePool(address solana.PublicKey, data []byte) (*Pool, error) {
	r := newReader(data)
	pool := &Pool{Address: address}

	switch len(data) {
	case PoolSize:
		pool.Version = r.u8()
		if r.err == nil && pool.Version != PoolVersion {
			r.err = fmt.Errorf("unsupported version %d", pool.Version)
		}
	case LegacyPoolSize:
		pool.Version = LegacyPoolVersion
	default:
		return nil, fmt.Errorf("%w: pool: have %d bytes want %d or %d",
			ErrMalformedRecord, len(data), PoolSize, LegacyPoolSize)
	}

	decodeSwapState(r, pool)
	if err := r.done("pool"); err != nil {
		return nil, err
	}
	return pool, nil
}

// decodeSwapState reads the fields shared by both pool layouts, from
// is_initialized to the curve parameters
func decodeSwapState(r *reader, pool *Pool) {
	if initialized := r.flag("is_initialized"); r.err == nil && !initialized {
		r.err = fmt.Errorf("pool not initialized")
	}
	pool.BumpSeed = r.u8()
	pool.TokenProgram = r.key()
	pool.ReserveA = r.key()
	pool.ReserveB = r.key()
	pool.PoolMint = r.key()
	pool.MintA = r.key()
	pool.MintB = r.key()
	pool.FeeAccount = r.key()
	pool.Fees = Fees{
		TradeFeeNumerator:           r.u64(),
		TradeFeeDenominator:         r.u64(),
		OwnerTradeFeeNumerator:      r.u64(),
		OwnerTradeFeeDenominator:    r.u64(),
		OwnerWithdrawFeeNumerator:   r.u64(),
		OwnerWithdrawFeeDenominator: r.u64(),
		HostFeeNumerator:            r.u64(),
		HostFeeDenominator:          r.u64(),
	}
	pool.CurveType = r.u8()
	if r.err == nil && pool.CurveType > 3 {
		r.err = fmt.Errorf("unknown curve type %d", pool.CurveType)
	}
	r.skip(32) // curve calculator parameters

	if r.err == nil {
		fields := []struct {
			name string
			key  solana.PublicKey
		}{
			{"token_a", pool.ReserveA},
			{"token_b", pool.ReserveB},
			{"token_a_mint", pool.MintA},
			{"token_b_mint", pool.MintB},
		}
		for _, f := range fields {
			if f.key.IsZero() {
				r.err = fmt.Errorf("%s is the zero address", f.name)
				break
			}
		}
	}
}

// DecodeTokenAccount parses an SPL token account
func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	if err := checkSize("token account", data, TokenAccountSize); err != nil {
		return nil, err
	}

	r := newReader(data)
	acct := &TokenAccount{}
	acct.Mint = r.key()
	acct.Owner = r.key()
	acct.Amount = r.u64()
	acct.Delegate = r.optionKey("delegate")
	acct.State = r.u8()
	if r.err == nil {
		switch acct.State {
		case AccountInitialized, AccountFrozen:
		case AccountUninitialized:
			r.err = fmt.Errorf("account not initialized")
		default:
			r.err = fmt.Errorf("invalid account state %d", acct.State)
		}
	}
	acct.IsNative = r.optionU64("is_native")
	acct.DelegatedAmount = r.u64()
	acct.CloseAuthority = r.optionKey("close_authority")

	if err := r.done("token account"); err != nil {
		return nil, err
	}
	return acct, nil
}

// DecodeMint parses an SPL token mint
func DecodeMint(data []byte) (*Mint, error) {
	if err := checkSize("mint", data, MintSize); err != nil {
		return nil, err
	}

	r := newReader(data)
	mint := &Mint{}
	mint.MintAuthority = r.optionKey("mint_authority")
	mint.Supply = r.u64()
	mint.Decimals = r.u8()
	mint.IsInitialized = r.flag("is_initialized")
	if r.err == nil && !mint.IsInitialized {
		r.err = fmt.Errorf("mint not initialized")
	}
	mint.FreezeAuthority = r.optionKey("freeze_authority")

	if err := r.done("mint"); err != nil {
		return nil, err
	}
	return mint, nil
}
