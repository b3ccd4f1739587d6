package validation

import (
	"github.com/covenantchain/ledger/internal/asset"
	"github.com/covenantchain/ledger/internal/claim"
	"github.com/covenantchain/ledger/internal/txerrors"
)

// OutputMatcher is the only mutable view over a transaction's outputs
// during validation. It answers "is there an unused output satisfying
// predicate P?" and, on success, claims that index so no later input can
// consume the same output twice.
type OutputMatcher struct {
	outputs []claim.TxOutput
	used    map[int]struct{}
}

// NewOutputMatcher builds a matcher over outputs, initially all unused.
func NewOutputMatcher(outputs []claim.TxOutput) *OutputMatcher {
	return &OutputMatcher{
		outputs: outputs,
		used:    make(map[int]struct{}),
	}
}

// MarkUsed records output i as consumed. Asking to mark an already-used
// output is a fatal consistency bug, not an ordinary validation failure.
func (m *OutputMatcher) MarkUsed(i int) error {
	if _, already := m.used[i]; already {
		return txerrors.Outputf(txerrors.KindDoubleUseOfOutput, i, "output %d already used", i)
	}
	m.used[i] = struct{}{}
	return nil
}

func (m *OutputMatcher) isUsed(i int) bool {
	_, ok := m.used[i]
	return ok
}

// FindUnusedSigOutput returns the lowest index of an unused Signature
// output paying owner exactly requiredAsset (same unit, same rounded
// amount), or -1 if none exists.
func (m *OutputMatcher) FindUnusedSigOutput(owner claim.Address, requiredAsset asset.Asset) int {
	for i, out := range m.outputs {
		if m.isUsed(i) {
			continue
		}
		sig, ok := out.Claim.(claim.SignatureClaim)
		if !ok {
			continue
		}
		if sig.Owner != owner {
			continue
		}
		if out.Amount.Unit != requiredAsset.Unit {
			continue
		}
		if out.Amount.RoundedAmount() != requiredAsset.RoundedAmount() {
			continue
		}
		return i
	}
	return -1
}

// FindUnusedBidOutput returns the lowest index of an unused Bid output
// whose pay_address and ask_price exactly match prototype (amount may
// differ — that is how partial fills are represented), or -1.
func (m *OutputMatcher) FindUnusedBidOutput(prototype claim.BidClaim) int {
	for i, out := range m.outputs {
		if m.isUsed(i) {
			continue
		}
		bid, ok := out.Claim.(claim.BidClaim)
		if !ok {
			continue
		}
		if bid.PayAddress != prototype.PayAddress {
			continue
		}
		if !bid.AskPrice.IdenticalTerms(prototype.AskPrice) {
			continue
		}
		return i
	}
	return -1
}

// FindUnusedLongOutput mirrors FindUnusedBidOutput for Long claims.
func (m *OutputMatcher) FindUnusedLongOutput(prototype claim.LongClaim) int {
	for i, out := range m.outputs {
		if m.isUsed(i) {
			continue
		}
		long, ok := out.Claim.(claim.LongClaim)
		if !ok {
			continue
		}
		if long.PayAddress != prototype.PayAddress {
			continue
		}
		if !long.AskPrice.IdenticalTerms(prototype.AskPrice) {
			continue
		}
		return i
	}
	return -1
}

// FindUnusedCoverOutput returns the lowest index of an unused Cover
// output exactly matching prototype (payoff, owner) whose own amount
// carries at least minCollateral (rounded), or -1.
func (m *OutputMatcher) FindUnusedCoverOutput(prototype claim.CoverClaim, minCollateral uint64) int {
	for i, out := range m.outputs {
		if m.isUsed(i) {
			continue
		}
		cov, ok := out.Claim.(claim.CoverClaim)
		if !ok {
			continue
		}
		if cov.Owner != prototype.Owner {
			continue
		}
		if cov.Payoff.Unit != prototype.Payoff.Unit || cov.Payoff.Amount != prototype.Payoff.Amount {
			continue
		}
		if out.Amount.RoundedAmount() < minCollateral {
			continue
		}
		return i
	}
	return -1
}
