package asset

import "github.com/covenantchain/ledger/internal/txerrors"

// Price is a ratio Num/Den expressing how much of QuoteUnit one unit of
// BaseUnit is worth. Canonical form requires BaseUnit < QuoteUnit; this is
// not auto-normalized because a price with its base/quote swapped by
// mistake is exactly the bug the canonical-form invariant exists to catch.
type Price struct {
	BaseUnit  Unit
	QuoteUnit Unit
	Num       uint64 // ratio numerator
	Den       uint64 // ratio denominator
}

// Validate checks the structural invariants of a Price: nonzero ratio,
// distinct units, and canonical (base < quote) ordering.
func (p Price) Validate() error {
	if p.Num == 0 || p.Den == 0 {
		return txerrors.New(txerrors.KindPriceMalformed)
	}
	if p.BaseUnit == p.QuoteUnit {
		return txerrors.New(txerrors.KindPriceMalformed)
	}
	if p.BaseUnit >= p.QuoteUnit {
		return txerrors.New(txerrors.KindPriceMalformed)
	}
	return nil
}

// Equal reports whether two prices denote the same base/quote/ratio.
// Ratios are compared cross-multiplied so 1/2 and 2/4 are considered
// equal only if their reduced forms are equal; output-matching in
// internal/validation requires byte-for-byte prototype equality instead
// of this, so Equal is reserved for callers that want ratio equivalence.
func (p Price) Equal(o Price) bool {
	if p.BaseUnit != o.BaseUnit || p.QuoteUnit != o.QuoteUnit {
		return false
	}
	l, ok1 := checkedMulU64(p.Num, o.Den)
	r, ok2 := checkedMulU64(o.Num, p.Den)
	return ok1 && ok2 && l == r
}

// IdenticalTerms reports whether two prices have exactly the same ratio
// representation (no cross-multiplication) — this is the equality the
// Bid/Long output-matching prototype comparison uses, since a resting
// order's terms must match byte-for-byte to be the "same order", not
// merely an equivalent ratio.
func (p Price) IdenticalTerms(o Price) bool {
	return p.BaseUnit == o.BaseUnit && p.QuoteUnit == o.QuoteUnit && p.Num == o.Num && p.Den == o.Den
}
