package validation

import (
	"github.com/covenantchain/ledger/internal/asset"
	"github.com/covenantchain/ledger/internal/claim"
	"github.com/covenantchain/ledger/internal/txerrors"
)

// validateOutput dispatches output index i to the handler for its claim
// kind. Every output updates the balance sheet in favor of whoever now
// holds the claim; cross-output relationships (margin non-reduction) are
// checked here too, since the output pass runs after every input has
// already populated NegIn/CollatIn for this transaction.
func (c *ValidationContext) validateOutput(i int) error {
	out := c.Tx.Outputs[i]
	switch p := out.Claim.(type) {
	case claim.SignatureClaim:
		return c.validateSignatureOutput(i, out, p)
	case claim.PtsClaim:
		return c.validatePtsOutput(i, out, p)
	case claim.BidClaim:
		return c.validateBidOutput(i, out, p)
	case claim.LongClaim:
		return c.validateLongOutput(i, out, p)
	case claim.CoverClaim:
		return c.validateCoverOutput(i, out, p)
	case claim.OptExecuteClaim, claim.MultiSigClaim, claim.EscrowClaim, claim.PasswordClaim:
		return nil
	default:
		return txerrors.Outputf(txerrors.KindUnsupportedClaim, i, "unrecognised claim kind")
	}
}

func (c *ValidationContext) validateSignatureOutput(i int, out claim.TxOutput, p claim.SignatureClaim) error {
	if p.Owner.Zero() {
		return txerrors.Outputf(txerrors.KindZeroOwner, i, "signature output has zero owner")
	}
	return c.Sheet.CreditOut(out.Amount)
}

func (c *ValidationContext) validatePtsOutput(i int, out claim.TxOutput, p claim.PtsClaim) error {
	if p.Owner.Zero() {
		return txerrors.Outputf(txerrors.KindZeroOwner, i, "pts output has zero owner")
	}
	return c.Sheet.CreditOut(out.Amount)
}

func validatePriceWellFormed(i int, price asset.Price, requireBaseQuoteMembership bool, outputUnit asset.Unit) error {
	if price.Num == 0 || price.Den == 0 {
		return txerrors.Outputf(txerrors.KindPriceMalformed, i, "zero ratio")
	}
	if price.BaseUnit == price.QuoteUnit {
		return txerrors.Outputf(txerrors.KindPriceMalformed, i, "base unit equals quote unit")
	}
	if price.BaseUnit >= price.QuoteUnit {
		return txerrors.Outputf(txerrors.KindPriceMalformed, i, "base unit must be less than quote unit")
	}
	if requireBaseQuoteMembership && outputUnit != price.BaseUnit && outputUnit != price.QuoteUnit {
		return txerrors.Outputf(txerrors.KindPriceMalformed, i, "output unit does not match either side of the price")
	}
	return nil
}

func (c *ValidationContext) validateBidOutput(i int, out claim.TxOutput, p claim.BidClaim) error {
	if p.PayAddress.Zero() {
		return txerrors.Outputf(txerrors.KindZeroOwner, i, "bid output has zero pay address")
	}
	if err := validatePriceWellFormed(i, p.AskPrice, true, out.Amount.Unit); err != nil {
		return err
	}
	return c.Sheet.CreditOut(out.Amount)
}

func (c *ValidationContext) validateLongOutput(i int, out claim.TxOutput, p claim.LongClaim) error {
	if p.PayAddress.Zero() {
		return txerrors.Outputf(txerrors.KindZeroOwner, i, "long output has zero pay address")
	}
	if err := validatePriceWellFormed(i, p.AskPrice, false, out.Amount.Unit); err != nil {
		return err
	}
	return c.Sheet.CreditOut(out.Amount)
}

func (c *ValidationContext) validateCoverOutput(i int, out claim.TxOutput, p claim.CoverClaim) error {
	if p.Owner.Zero() {
		return txerrors.Outputf(txerrors.KindZeroOwner, i, "cover output has zero owner")
	}
	if err := c.Sheet.CreditOut(out.Amount); err != nil {
		return err
	}
	if err := c.Sheet.CreditNegOut(p.Payoff); err != nil {
		return err
	}
	if err := c.Sheet.CreditCollatOut(p.Payoff.Unit, out.Amount); err != nil {
		return err
	}

	row := c.Sheet.Row(p.Payoff.Unit)
	if row.CollatIn.Amount == 0 {
		return nil
	}

	// Margin non-reduction: the outgoing cover's collateralization ratio
	// (output.amount / payoff) must be >= the incoming cover's ratio
	// (collat_in / neg_in). Preserved as >= per the original implementation,
	// even though the original itself flags uncertainty about the
	// direction of this comparison.
	ok, err := asset.GreaterOrEqualRatio(out.Amount.RoundedAmount(), p.Payoff.RoundedAmount(), row.CollatIn.RoundedAmount(), row.NegIn.RoundedAmount())
	if err != nil {
		return err
	}
	if !ok {
		return txerrors.Outputf(txerrors.KindMarginReduction, i, "outgoing cover ratio below incoming cover ratio")
	}
	return nil
}
