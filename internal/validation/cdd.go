package validation

import "github.com/covenantchain/ledger/internal/txerrors"

// CDD is a 128-bit unsigned coin-days-destroyed accumulator, represented
// as two 64-bit halves since Go has no native 128-bit integer — the same
// from-scratch approach internal/asset takes for Asset*Price overflow
// checking, applied here to stake-weight accumulation instead of money.
type CDD struct {
	Hi, Lo uint64
}

// weightOf computes amount*age as a CDD, exactly, using 128-bit long
// multiplication — age is a block-height difference so it always fits in
// a uint64, but the product can still exceed 64 bits for large amounts.
func weightOf(amount uint64, age uint64) CDD {
	const mask32 = 0xFFFFFFFF
	aLo, aHi := amount&mask32, amount>>32
	bLo, bHi := age&mask32, age>>32

	lowLow := aLo * bLo
	highLow := aHi * bLo
	lowHigh := aLo * bHi
	highHigh := aHi * bHi

	cross := (lowLow >> 32) + (highLow & mask32) + (lowHigh & mask32)
	hi := highHigh + (highLow >> 32) + (lowHigh >> 32) + (cross >> 32)
	lo := (cross << 32) | (lowLow & mask32)
	return CDD{Hi: hi, Lo: lo}
}

// Add returns c+other as a CDD, failing if the 128-bit sum overflows.
func (c CDD) Add(other CDD) (CDD, error) {
	lo := c.Lo + other.Lo
	carry := uint64(0)
	if lo < c.Lo {
		carry = 1
	}
	hiSum := c.Hi + other.Hi
	hiOverflow := hiSum < c.Hi
	hi := hiSum + carry
	if hi < hiSum {
		hiOverflow = true
	}
	if hiOverflow {
		return CDD{}, txerrors.New(txerrors.KindOverflow)
	}
	return CDD{Hi: hi, Lo: lo}, nil
}
