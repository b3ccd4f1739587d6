package validation

import (
	"context"
	"math"

	"github.com/covenantchain/ledger/internal/asset"
	"github.com/covenantchain/ledger/internal/chainview"
	"github.com/covenantchain/ledger/internal/claim"
	"github.com/covenantchain/ledger/internal/txerrors"
)

// MaxRefHead is the sentinel ref_head value meaning "ask the chain view
// for its tip height at construction".
const MaxRefHead = math.MaxUint32

// ValidationContext owns everything a single transaction's validation
// pass accumulates: resolved inputs, the signature-requirement set, the
// balance sheet, the output matcher, and stake accounting. It is created
// per transaction, mutated only by Validate, and discarded — no shared
// mutation across transactions.
type ValidationContext struct {
	Tx       *claim.SignedTransaction
	Resolved []chainview.ResolvedInput

	Sheet   *BalanceSheet
	Matcher *OutputMatcher

	RequiredSigs map[claim.Address]struct{}

	TotalCDDv     CDD
	UncountedCDDv CDD

	RefHead      uint32
	PrevBlockID1 claim.BlockID
	PrevBlockID2 claim.BlockID

	EnforceUnspent         bool
	AllowShortLongMatching bool
}

// New constructs a ValidationContext for tx, resolving its inputs against
// view at refHead (or view's current tip, if refHead is MaxRefHead).
// Construction is the only point at which the chain view is consulted;
// Validate itself performs no I/O.
func New(ctx context.Context, tx *claim.SignedTransaction, view chainview.ChainView, enforceUnspent bool, refHead uint32, registry *asset.Registry) (*ValidationContext, error) {
	if refHead == MaxRefHead {
		head, err := view.HeadBlockNum(ctx)
		if err != nil {
			return nil, err
		}
		refHead = head
	}

	resolved, err := view.FetchInputs(ctx, tx.Inputs, refHead)
	if err != nil {
		return nil, err
	}

	if registry == nil {
		registry = asset.NewRegistry()
	}

	return &ValidationContext{
		Tx:           tx,
		Resolved:     resolved,
		Sheet:        NewBalanceSheet(registry),
		Matcher:      NewOutputMatcher(tx.Outputs),
		RequiredSigs: make(map[claim.Address]struct{}),
		RefHead:      refHead,
		EnforceUnspent: enforceUnspent,
	}, nil
}

// SetStakeWindow sets the two-block stake anchor the CDD update rule
// reads to decide whether a transaction's stake weight counts toward
// total_cdd or uncounted_cdd.
func (c *ValidationContext) SetStakeWindow(prev1, prev2 claim.BlockID) {
	c.PrevBlockID1 = prev1
	c.PrevBlockID2 = prev2
}

// SetAllowShortLongMatching toggles whether a Long input may be satisfied
// by a counterparty-supplied Cover output rather than only by
// cancellation.
func (c *ValidationContext) SetAllowShortLongMatching(allow bool) {
	c.AllowShortLongMatching = allow
}

// TotalCDD returns the stake weight whose anchor matched the stake
// window, valid after a successful Validate call.
func (c *ValidationContext) TotalCDD() CDD { return c.TotalCDDv }

// UncountedCDD returns the stake weight whose anchor did not match the
// stake window, valid after a successful Validate call.
func (c *ValidationContext) UncountedCDD() CDD { return c.UncountedCDDv }

// Validate runs the full validation sequence: length check, unspent
// check, input pass, output pass, conservation, signature closure. It is
// fatal-on-first-failure; there is no partial acceptance.
func (c *ValidationContext) Validate(ctx context.Context) error {
	if len(c.Tx.Inputs) != len(c.Resolved) {
		return txerrors.New(txerrors.KindInputArity)
	}

	if c.EnforceUnspent {
		for i, r := range c.Resolved {
			if r.Spent {
				return txerrors.Inputf(txerrors.KindInputAlreadySpent, i, "input %d already spent", i)
			}
		}
	}

	for i := range c.Tx.Inputs {
		if err := c.validateInput(i); err != nil {
			return err
		}
	}

	for i := range c.Tx.Outputs {
		if err := c.validateOutput(i); err != nil {
			return err
		}
	}

	for _, unit := range c.Sheet.Units() {
		if unit == asset.Native {
			continue
		}
		row := c.Sheet.Row(unit)
		creates, err := row.CreatesMoney()
		if err != nil {
			return err
		}
		if creates {
			symbol := c.Sheet.registry.Symbol(unit)
			verr := txerrors.Wrap(txerrors.KindValueCreated, nil, "unit %s: in %d, out %d", symbol, row.In.Amount, row.Out.Amount)
			verr.Unit = symbol
			return verr
		}
	}

	var missing []claim.Address
	for addr := range c.RequiredSigs {
		if !c.Tx.SignedAddresses(addr) {
			missing = append(missing, addr)
		}
	}
	if len(missing) > 0 {
		return txerrors.MissingSignatures(missing)
	}

	return nil
}
