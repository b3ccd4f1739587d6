package asset

import "github.com/covenantchain/ledger/internal/txerrors"

// Asset is a fixed-point (amount, unit) pair. Amount is denominated in the
// unit's smallest indivisible piece; there is no fractional representation
// beyond that granularity.
type Asset struct {
	Amount uint64
	Unit   Unit
}

// Zero reports whether the asset has zero amount (unit is irrelevant).
func (a Asset) Zero() bool { return a.Amount == 0 }

// RoundedAmount returns the integer amount used for collateral and
// change-output comparisons. Asset already has no fractional component, so
// this is the identity — it exists as a named operation because the
// distilled specification calls it out as a deliberate rounding point
// (historically a floor of a higher-precision representation).
func (a Asset) RoundedAmount() uint64 { return a.Amount }

// Add returns a+b. Units must match.
func (a Asset) Add(b Asset) (Asset, error) {
	if a.Unit != b.Unit {
		return Asset{}, txerrors.New(txerrors.KindUnitMismatch)
	}
	sum, ok := checkedAddU64(a.Amount, b.Amount)
	if !ok {
		return Asset{}, txerrors.New(txerrors.KindOverflow)
	}
	return Asset{Amount: sum, Unit: a.Unit}, nil
}

// Sub returns a-b. Units must match and the result must not be negative.
func (a Asset) Sub(b Asset) (Asset, error) {
	if a.Unit != b.Unit {
		return Asset{}, txerrors.New(txerrors.KindUnitMismatch)
	}
	diff, ok := checkedSubU64(a.Amount, b.Amount)
	if !ok {
		return Asset{}, txerrors.New(txerrors.KindOverflow)
	}
	return Asset{Amount: diff, Unit: a.Unit}, nil
}

// MulPrice returns a*p, in whichever of p's units is not a's unit. a's
// unit must be one of p.BaseUnit or p.QuoteUnit.
func (a Asset) MulPrice(p Price) (Asset, error) {
	if err := p.Validate(); err != nil {
		return Asset{}, err
	}
	switch a.Unit {
	case p.BaseUnit:
		amt, ok := checkedMulU64ByRatio(a.Amount, p.Num, p.Den)
		if !ok {
			return Asset{}, txerrors.New(txerrors.KindOverflow)
		}
		return Asset{Amount: amt, Unit: p.QuoteUnit}, nil
	case p.QuoteUnit:
		amt, ok := checkedMulU64ByRatio(a.Amount, p.Den, p.Num)
		if !ok {
			return Asset{}, txerrors.New(txerrors.KindOverflow)
		}
		return Asset{Amount: amt, Unit: p.BaseUnit}, nil
	default:
		return Asset{}, txerrors.New(txerrors.KindUnitMismatch)
	}
}

// DivAsset returns a/b as a Price, requiring differing units: a's amount
// of a's unit per b's amount of b's unit, put in canonical base < quote
// form (e.g. 20 Y / 10 X is 20/10 Y per X).
func (a Asset) DivAsset(b Asset) (Price, error) {
	if a.Unit == b.Unit {
		return Price{}, txerrors.New(txerrors.KindUnitMismatch)
	}
	if b.Amount == 0 {
		return Price{}, txerrors.New(txerrors.KindPriceMalformed)
	}
	base, quote := b.Unit, a.Unit
	num, den := a.Amount, b.Amount
	if base > quote {
		base, quote = quote, base
		num, den = den, num
	}
	return Price{BaseUnit: base, QuoteUnit: quote, Num: num, Den: den}, nil
}

// GreaterOrEqualRatio reports whether the ratio a/b (both Assets, possibly
// representing a price) is >= the ratio c/d, computed as a*d >= c*b to
// avoid floating point. Used by the margin non-reduction rule.
func GreaterOrEqualRatio(aNum, aDen, bNum, bDen uint64) (bool, error) {
	left, ok1 := checkedMulU64(aNum, bDen)
	right, ok2 := checkedMulU64(bNum, aDen)
	if !ok1 || !ok2 {
		return false, txerrors.New(txerrors.KindOverflow)
	}
	return left >= right, nil
}
