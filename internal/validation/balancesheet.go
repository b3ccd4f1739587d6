// Package validation implements the transaction validation core: the
// balance sheet, output matcher, per-claim validators, and the
// ValidationContext that sequences them, grounded on the teacher repo's
// StateManager/Blockchain ownership style but built around a stateless,
// single-transaction validation pass instead of block application.
package validation

import (
	"fmt"

	"github.com/covenantchain/ledger/internal/asset"
)

// BalanceRow accumulates the flows observed for one asset unit while a
// transaction is validated. In, Out, NegIn, NegOut track settlement flows;
// CollatIn/CollatOut track native-unit collateral posted against short
// positions in this unit.
type BalanceRow struct {
	Unit      asset.Unit
	In        asset.Asset
	Out       asset.Asset
	NegIn     asset.Asset
	NegOut    asset.Asset
	CollatIn  asset.Asset
	CollatOut asset.Asset
}

// CreatesMoney reports whether this row's accumulated flows would create
// value out of nothing: Out+NegIn must never exceed In+NegOut.
func (r *BalanceRow) CreatesMoney() (bool, error) {
	lhs, err := r.Out.Add(r.NegIn)
	if err != nil {
		return false, err
	}
	rhs, err := r.In.Add(r.NegOut)
	if err != nil {
		return false, err
	}
	return lhs.Amount > rhs.Amount, nil
}

// BalanceSheet holds one BalanceRow per asset unit touched by a
// transaction, grown lazily as units are observed rather than pre-sized
// from a fixed enum — the registry tells us which units are known, but
// the sheet itself only allocates rows for units this transaction
// actually references, per SPEC_FULL.md's Go-native balance-sheet
// construction choice.
type BalanceSheet struct {
	registry *asset.Registry
	rows     map[asset.Unit]*BalanceRow
}

// NewBalanceSheet builds an empty sheet backed by registry. Units
// referenced by a validated transaction that are not yet Known are
// auto-registered with a numeric fallback symbol — the registry exists to
// size and name the sheet, not to gate which units a transaction may use;
// gating unknown units is not part of this validator's error taxonomy.
func NewBalanceSheet(registry *asset.Registry) *BalanceSheet {
	return &BalanceSheet{
		registry: registry,
		rows:     make(map[asset.Unit]*BalanceRow),
	}
}

// row returns (creating if needed) the BalanceRow for unit, pre-tagging
// its Unit field and zero-valued Asset fields so accidental cross-unit
// additions are caught by Asset.Add/Sub's unit check.
func (b *BalanceSheet) row(unit asset.Unit) *BalanceRow {
	if !b.registry.Known(unit) {
		b.registry.Register(unit, fmt.Sprintf("unit#%d", uint16(unit)))
	}
	r, ok := b.rows[unit]
	if !ok {
		r = &BalanceRow{
			Unit:      unit,
			In:        asset.Asset{Unit: unit},
			Out:       asset.Asset{Unit: unit},
			NegIn:     asset.Asset{Unit: unit},
			NegOut:    asset.Asset{Unit: unit},
			CollatIn:  asset.Asset{Unit: asset.Native},
			CollatOut: asset.Asset{Unit: asset.Native},
		}
		b.rows[unit] = r
	}
	return r
}

func (b *BalanceSheet) CreditIn(a asset.Asset) error {
	r := b.row(a.Unit)
	sum, err := r.In.Add(a)
	if err != nil {
		return err
	}
	r.In = sum
	return nil
}

func (b *BalanceSheet) CreditOut(a asset.Asset) error {
	r := b.row(a.Unit)
	sum, err := r.Out.Add(a)
	if err != nil {
		return err
	}
	r.Out = sum
	return nil
}

func (b *BalanceSheet) CreditNegIn(a asset.Asset) error {
	r := b.row(a.Unit)
	sum, err := r.NegIn.Add(a)
	if err != nil {
		return err
	}
	r.NegIn = sum
	return nil
}

func (b *BalanceSheet) CreditNegOut(a asset.Asset) error {
	r := b.row(a.Unit)
	sum, err := r.NegOut.Add(a)
	if err != nil {
		return err
	}
	r.NegOut = sum
	return nil
}

// CreditCollatIn adds to the collateral-in accumulator of the row for
// payoffUnit (the liability's unit, not the collateral's own native unit)
// — this is what the margin non-reduction rule reads back.
func (b *BalanceSheet) CreditCollatIn(payoffUnit asset.Unit, collateral asset.Asset) error {
	r := b.row(payoffUnit)
	sum, err := r.CollatIn.Add(collateral)
	if err != nil {
		return err
	}
	r.CollatIn = sum
	return nil
}

func (b *BalanceSheet) CreditCollatOut(payoffUnit asset.Unit, collateral asset.Asset) error {
	r := b.row(payoffUnit)
	sum, err := r.CollatOut.Add(collateral)
	if err != nil {
		return err
	}
	r.CollatOut = sum
	return nil
}

// Row exposes a read-only snapshot of the row for unit, or the zero row
// if the unit was never touched — used by the Cover output validator to
// check whether an incoming cover position exists in the same unit.
func (b *BalanceSheet) Row(unit asset.Unit) BalanceRow {
	r, ok := b.rows[unit]
	if !ok {
		return BalanceRow{
			Unit:      unit,
			In:        asset.Asset{Unit: unit},
			Out:       asset.Asset{Unit: unit},
			NegIn:     asset.Asset{Unit: unit},
			NegOut:    asset.Asset{Unit: unit},
			CollatIn:  asset.Asset{Unit: asset.Native},
			CollatOut: asset.Asset{Unit: asset.Native},
		}
	}
	return *r
}

// Units returns every unit the sheet has a row for, in the order rows
// were first touched is not guaranteed — callers needing a stable
// conservation-check order should iterate the registry instead.
func (b *BalanceSheet) Units() []asset.Unit {
	out := make([]asset.Unit, 0, len(b.rows))
	for u := range b.rows {
		out = append(out, u)
	}
	return out
}
