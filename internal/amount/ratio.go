package amount

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Value returns amount / 10^decimals as an exact decimal
func Value(amount uint64, decimals uint8) (decimal.Decimal, error) {
	if _, err := Pow10(decimals); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)), nil
}

// Ratio returns how many B one A is worth, each side scaled by its own mint
// decimals. The result is only for display: the exact values are converted to
// float64 before dividing, so a zero A yields +Inf (or NaN if B is zero too).
func Ratio(amountA uint64, decimalsA uint8, amountB uint64, decimalsB uint8) (float64, error) {
	a, err := Value(amountA, decimalsA)
	if err != nil {
		return 0, err
	}
	b, err := Value(amountB, decimalsB)
	if err != nil {
		return 0, err
	}

	fa, _ := a.Float64()
	fb, _ := b.Float64()
	return fb / fa, nil
}

// FormatRatio renders a ratio in its shortest round-trip form, keeping a
// trailing ".0" on integral values.
func FormatRatio(r float64) string {
	switch {
	case math.IsNaN(r):
		return "NaN"
	case math.IsInf(r, 1):
		return "inf"
	case math.IsInf(r, -1):
		return "-inf"
	}

	abs := math.Abs(r)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return exponent(r)
	}

	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// exponent renders r as mantissa "e" exponent with an unpadded, unsigned
// positive exponent: 1e-7, 2.5e20
func exponent(r float64) string {
	s := strconv.FormatFloat(r, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mantissa + "e" + strconv.Itoa(n)
}
