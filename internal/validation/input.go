package validation

import (
	"github.com/covenantchain/ledger/internal/asset"
	"github.com/covenantchain/ledger/internal/claim"
	"github.com/covenantchain/ledger/internal/txerrors"
)

// validateInput dispatches input index i by the claim kind carried on the
// output it resolves to — it is the prior output's claim, not the TxInput
// itself, that determines what spending condition must be satisfied, the
// TxInput only supplies witness data the cryptographic layer already
// turned into signed-address sets.
func (c *ValidationContext) validateInput(i int) error {
	resolved := c.Resolved[i]
	if !resolved.Found {
		return txerrors.Inputf(txerrors.KindUnsupportedClaim, i, "referenced output not found")
	}
	out := resolved.PriorOutput
	switch p := out.Claim.(type) {
	case claim.SignatureClaim:
		return c.validateSignatureInput(i, out, p)
	case claim.PtsClaim:
		return c.validatePtsInput(i, out, p)
	case claim.CoverClaim:
		return c.validateCoverInput(i, out, p)
	case claim.BidClaim:
		return c.validateBidInput(i, out, p)
	case claim.LongClaim:
		return c.validateLongInput(i, out, p)
	case claim.OptExecuteClaim, claim.MultiSigClaim, claim.EscrowClaim, claim.PasswordClaim:
		return nil
	default:
		return txerrors.Inputf(txerrors.KindUnsupportedClaim, i, "unrecognised claim kind")
	}
}

func (c *ValidationContext) validateSignatureInput(i int, out claim.TxOutput, p claim.SignatureClaim) error {
	if p.Owner.Zero() {
		return txerrors.Inputf(txerrors.KindZeroOwner, i, "signature input has zero owner")
	}
	if err := c.Sheet.CreditIn(out.Amount); err != nil {
		return err
	}
	c.RequiredSigs[p.Owner] = struct{}{}
	return c.updateCDD(i, out.Amount)
}

func (c *ValidationContext) validatePtsInput(i int, out claim.TxOutput, p claim.PtsClaim) error {
	if p.Owner.Zero() {
		return txerrors.Inputf(txerrors.KindZeroOwner, i, "pts input has zero owner")
	}
	if err := c.Sheet.CreditIn(out.Amount); err != nil {
		return err
	}
	if !c.Tx.SignedPtsAddresses(p.Owner) {
		return txerrors.Inputf(txerrors.KindMissingSignatures, i, "pts address %s did not sign", p.Owner)
	}
	return c.updateCDD(i, out.Amount)
}

func (c *ValidationContext) validateCoverInput(i int, out claim.TxOutput, p claim.CoverClaim) error {
	if err := c.Sheet.CreditIn(out.Amount); err != nil {
		return err
	}
	if err := c.Sheet.CreditNegIn(p.Payoff); err != nil {
		return err
	}
	if err := c.Sheet.CreditCollatIn(p.Payoff.Unit, out.Amount); err != nil {
		return err
	}
	return c.updateCDD(i, out.Amount)
}

// validateBidInput implements the two legal modes a Bid input can spend
// under: owner cancellation (the resting order's owner reclaims funds) or
// counterparty fill (someone else pays the asking price).
func (c *ValidationContext) validateBidInput(i int, out claim.TxOutput, p claim.BidClaim) error {
	if err := c.Sheet.CreditIn(out.Amount); err != nil {
		return err
	}

	if c.Tx.SignedAddresses(p.PayAddress) {
		// Owner cancels. The source credits balance_sheet[unit].in a
		// second time here; this specification preserves that observed
		// behavior rather than silently dropping it (see DESIGN.md).
		return c.Sheet.CreditIn(out.Amount)
	}

	return c.fillBidOrLong(i, out.Amount, p.PayAddress, p.AskPrice)
}

// fillBidOrLong is the counterparty-fill logic for a Bid input: find a
// matching resting order output to treat as a change output (partial
// fill), otherwise demand a full-value Signature payout. Long inputs use
// their own fill logic in validateLongInput.
func (c *ValidationContext) fillBidOrLong(i int, inputAmount asset.Asset, payAddress claim.Address, askPrice asset.Price) error {
	changeIdx := c.Matcher.FindUnusedBidOutput(claim.BidClaim{PayAddress: payAddress, AskPrice: askPrice})
	if changeIdx == -1 {
		payout, err := inputAmount.MulPrice(askPrice)
		if err != nil {
			return err
		}
		sigIdx := c.Matcher.FindUnusedSigOutput(payAddress, payout)
		if sigIdx == -1 {
			return txerrors.Inputf(txerrors.KindMissingCounterparty, i, "no matching signature payout for full bid fill")
		}
		return c.Matcher.MarkUsed(sigIdx)
	}

	changeOut := c.Tx.Outputs[changeIdx]
	if changeOut.Amount.Unit != inputAmount.Unit {
		return txerrors.Inputf(txerrors.KindUnitMismatch, i, "bid change output unit does not match input unit")
	}
	if err := c.Matcher.MarkUsed(changeIdx); err != nil {
		return err
	}
	remaining, err := inputAmount.Sub(changeOut.Amount)
	if err != nil {
		return err
	}
	acceptedBal, err := remaining.MulPrice(askPrice)
	if err != nil {
		return err
	}
	if acceptedBal.Amount == 0 {
		return txerrors.Inputf(txerrors.KindMissingCounterparty, i, "partial bid fill settles to zero payout")
	}
	sigIdx := c.Matcher.FindUnusedSigOutput(payAddress, acceptedBal)
	if sigIdx == -1 {
		return txerrors.Inputf(txerrors.KindMissingCounterparty, i, "no matching signature payout for partial bid fill")
	}
	return c.Matcher.MarkUsed(sigIdx)
}

// validateLongInput mirrors validateBidInput, but counterparty fulfillment
// requires AllowShortLongMatching and produces a Cover output (not a
// Signature payout) carrying at least 2x collateral.
func (c *ValidationContext) validateLongInput(i int, out claim.TxOutput, p claim.LongClaim) error {
	if err := c.Sheet.CreditIn(out.Amount); err != nil {
		return err
	}

	if c.Tx.SignedAddresses(p.PayAddress) {
		return c.Sheet.CreditIn(out.Amount)
	}

	if !c.AllowShortLongMatching {
		return txerrors.Inputf(txerrors.KindMissingCounterparty, i, "short/long matching disabled")
	}

	changeIdx := c.Matcher.FindUnusedLongOutput(claim.LongClaim{PayAddress: p.PayAddress, AskPrice: p.AskPrice})
	if changeIdx == -1 {
		payoff, err := out.Amount.MulPrice(p.AskPrice)
		if err != nil {
			return err
		}
		minCollateral := 2 * out.Amount.RoundedAmount()
		proto := claim.CoverClaim{Payoff: payoff, Owner: p.PayAddress}
		covIdx := c.Matcher.FindUnusedCoverOutput(proto, minCollateral)
		if covIdx == -1 {
			if c.Matcher.FindUnusedCoverOutput(proto, 0) == -1 {
				return txerrors.Inputf(txerrors.KindMissingCounterparty, i, "no matching cover output for full long fill")
			}
			return txerrors.Inputf(txerrors.KindCollateralInsufficient, i, "cover output for full long fill carries less than %d collateral", minCollateral)
		}
		return c.Matcher.MarkUsed(covIdx)
	}

	changeOut := c.Tx.Outputs[changeIdx]
	if changeOut.Amount.Unit != out.Amount.Unit {
		return txerrors.Inputf(txerrors.KindUnitMismatch, i, "long change output unit does not match input unit")
	}
	if err := c.Matcher.MarkUsed(changeIdx); err != nil {
		return err
	}
	remaining, err := out.Amount.Sub(changeOut.Amount)
	if err != nil {
		return err
	}
	payoff, err := remaining.MulPrice(p.AskPrice)
	if err != nil {
		return err
	}
	minCollateral := 2 * remaining.RoundedAmount()
	proto := claim.CoverClaim{Payoff: payoff, Owner: p.PayAddress}
	covIdx := c.Matcher.FindUnusedCoverOutput(proto, minCollateral)
	if covIdx == -1 {
		if c.Matcher.FindUnusedCoverOutput(proto, 0) == -1 {
			return txerrors.Inputf(txerrors.KindMissingCounterparty, i, "no matching cover output for partial long fill")
		}
		return txerrors.Inputf(txerrors.KindCollateralInsufficient, i, "cover output for partial long fill carries less than %d collateral", minCollateral)
	}
	return c.Matcher.MarkUsed(covIdx)
}

// updateCDD applies the coin-days-destroyed rule for an input settling
// amount in unit: only the native unit accrues stake weight, and a
// transaction's CDD is only "counted" (toward total_cdd rather than
// uncounted_cdd) if its stake anchor matches one of the two most recent
// block ids.
func (c *ValidationContext) updateCDD(i int, amount asset.Asset) error {
	if amount.Unit != asset.Native {
		return nil
	}
	resolved := c.Resolved[i]
	if resolved.SourceBlockNum > c.RefHead {
		return txerrors.Inputf(txerrors.KindOverflow, i, "source block newer than reference head")
	}
	age := uint64(c.RefHead - resolved.SourceBlockNum)
	weight := weightOf(amount.RoundedAmount(), age)

	counted := c.Tx.Stake == c.PrevBlockID1 || c.Tx.Stake == c.PrevBlockID2
	if counted {
		sum, err := c.TotalCDDv.Add(weight)
		if err != nil {
			return txerrors.Inputf(txerrors.KindOverflow, i, "total_cdd overflow")
		}
		c.TotalCDDv = sum
		return nil
	}
	sum, err := c.UncountedCDDv.Add(weight)
	if err != nil {
		return txerrors.Inputf(txerrors.KindOverflow, i, "uncounted_cdd overflow")
	}
	c.UncountedCDDv = sum
	return nil
}
