package core

import (
	"math/big"
)

const (
	// DECIMAL_PLACES is the protocol-wide fixed-point precision. Every
	// amount and ratio is an integer scaled by 10^DECIMAL_PLACES.
	DECIMAL_PLACES = 18

	// MAX_VALUE_BITS bounds every amount the engine accepts or produces.
	// Anything wider is a MathOverflow, never a silent saturation.
	MAX_VALUE_BITS = 192
)

var (
	// DECIMALS is 1.0 (and 100% for ratios) in fixed-point units.
	DECIMALS = mustBigInt("1000000000000000000")

	ZERO = big.NewInt(0)
	ONE  = big.NewInt(1)

	// MAX_VALUE is the largest magnitude a fixed-point value may take.
	MAX_VALUE = new(big.Int).Lsh(big.NewInt(1), MAX_VALUE_BITS)
)

func mustBigInt(value string) *big.Int {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("invalid big integer constant")
	}
	return v
}
