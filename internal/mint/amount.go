package mint

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	lamportsPerSOL = decimal.NewFromInt(LamportsPerSOL)
	maxLamports    = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)
)

// LamportsFromSOL multiplies a SOL amount by LamportsPerSOL. The result must
// be a non-negative whole number of lamports.
func LamportsFromSOL(sol decimal.Decimal) (decimal.Decimal, error) {
	return CheckLamports(sol.Mul(lamportsPerSOL))
}

// CheckLamports validates that amount is a non-negative integer that fits in
// a u64 and returns it unchanged.
func CheckLamports(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s lamports is negative", ErrInvalidAmount, amount)
	}
	if !amount.Equal(amount.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("%w: %s lamports is not a whole number", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(maxLamports) {
		return decimal.Zero, fmt.Errorf("%w: %s lamports overflows u64", ErrInvalidAmount, amount)
	}
	return amount, nil
}
