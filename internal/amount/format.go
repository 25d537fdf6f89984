package amount

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

var (
	// ErrOverflowInBase is returned when 10^decimals does not fit in a uint64
	ErrOverflowInBase = errors.New("decimal base overflows uint64")

	// ErrDivisionUndefined is returned for a zero denominator
	ErrDivisionUndefined = errors.New("division by zero")
)

// MaxDecimals is the largest exponent whose power of ten fits in a uint64
const MaxDecimals = 19

// Pow10 returns 10^decimals, failing instead of wrapping on overflow
func Pow10(decimals uint8) (uint64, error) {
	base := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		hi, lo := bits.Mul64(base, 10)
		if hi != 0 {
			return 0, fmt.Errorf("%w: 10^%d", ErrOverflowInBase, decimals)
		}
		base = lo
	}
	return base, nil
}

// Format renders a raw token amount as an exact decimal string with exactly
// decimals fractional digits. No decimal point is emitted when decimals is 0.
//
//	Format(1_500_000, 6) == "1.500000"
//	Format(42, 0)        == "42"
func Format(amount uint64, decimals uint8) (string, error) {
	divisor, err := Pow10(decimals)
	if err != nil {
		return "", err
	}
	if divisor == 0 {
		return "", ErrDivisionUndefined
	}

	whole := strconv.FormatUint(amount/divisor, 10)
	if decimals == 0 {
		return whole, nil
	}

	frac := strconv.FormatUint(amount%divisor, 10)

	var b strings.Builder
	b.Grow(len(whole) + 1 + int(decimals))
	b.WriteString(whole)
	b.WriteByte('.')
	b.WriteString(strings.Repeat("0", int(decimals)-len(frac)))
	b.WriteString(frac)
	return b.String(), nil
}
