package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/covenantchain/ledger/internal/asset"
	"github.com/covenantchain/ledger/internal/claim"
	"github.com/covenantchain/ledger/internal/ledgerstore"
)

const (
	unitX asset.Unit = 1
	unitY asset.Unit = 2
)

func priceXY(num, den uint64) asset.Price {
	return asset.Price{BaseUnit: unitX, QuoteUnit: unitY, Num: num, Den: den}
}

func addr(b byte) claim.Address {
	var a claim.Address
	a[0] = b
	return a
}

func blockID(b byte) claim.BlockID {
	var id claim.BlockID
	id[0] = b
	return id
}

func newRegistry() *asset.Registry {
	r := asset.NewRegistry()
	r.Register(unitX, "X")
	r.Register(unitY, "Y")
	return r
}

// Scenario 1: simple transfer.
func TestScenarioSimpleTransfer(t *testing.T) {
	store := ledgerstore.New(nil)
	a := addr(1)
	b := addr(2)
	priorID := claim.TxID{10}
	store.Seed(priorID, 0, 10, claim.TxOutput{
		Amount: asset.Asset{Amount: 100, Unit: asset.Native},
		Claim:  claim.SignatureClaim{Owner: a},
	})

	stake := blockID(1)
	tx := claim.NewSignedTransaction(
		claim.TxID{1},
		[]claim.TxInput{{PriorTxID: priorID, PriorIndex: 0}},
		[]claim.TxOutput{{Amount: asset.Asset{Amount: 100, Unit: asset.Native}, Claim: claim.SignatureClaim{Owner: b}}},
		stake,
		[]claim.Address{a},
		nil,
	)

	ctx, err := New(context.Background(), tx, store, false, 20, newRegistry())
	require.NoError(t, err)
	ctx.SetStakeWindow(stake, blockID(2))

	require.NoError(t, ctx.Validate(context.Background()))
	require.Equal(t, uint64(1000), ctx.TotalCDD().Lo)
	require.Equal(t, uint64(0), ctx.TotalCDD().Hi)
	_, required := ctx.RequiredSigs[a]
	require.True(t, required)
}

// Scenario 2: insufficient signature.
func TestScenarioInsufficientSignature(t *testing.T) {
	store := ledgerstore.New(nil)
	a := addr(1)
	b := addr(2)
	priorID := claim.TxID{11}
	store.Seed(priorID, 0, 10, claim.TxOutput{
		Amount: asset.Asset{Amount: 100, Unit: asset.Native},
		Claim:  claim.SignatureClaim{Owner: a},
	})

	tx := claim.NewSignedTransaction(
		claim.TxID{2},
		[]claim.TxInput{{PriorTxID: priorID, PriorIndex: 0}},
		[]claim.TxOutput{{Amount: asset.Asset{Amount: 100, Unit: asset.Native}, Claim: claim.SignatureClaim{Owner: b}}},
		claim.BlockID{},
		nil, // A did not sign
		nil,
	)

	ctx, err := New(context.Background(), tx, store, false, 20, newRegistry())
	require.NoError(t, err)

	err = ctx.Validate(context.Background())
	require.Error(t, err)
}

// Scenario 3: bid fill, full, with a second input supplying the quote
// currency — the distilled scenario notes conservation only holds with
// such a supplementary input (or an equivalent allowance), which this test
// provides explicitly.
func TestScenarioBidFillFull(t *testing.T) {
	store := ledgerstore.New(nil)
	p := addr(3)
	q := addr(4)

	bidPriorID := claim.TxID{20}
	store.Seed(bidPriorID, 0, 1, claim.TxOutput{
		Amount: asset.Asset{Amount: 10, Unit: unitX},
		Claim:  claim.BidClaim{PayAddress: p, AskPrice: priceXY(2, 1)},
	})
	fundingPriorID := claim.TxID{21}
	store.Seed(fundingPriorID, 0, 1, claim.TxOutput{
		Amount: asset.Asset{Amount: 20, Unit: unitY},
		Claim:  claim.SignatureClaim{Owner: q},
	})

	tx := claim.NewSignedTransaction(
		claim.TxID{3},
		[]claim.TxInput{
			{PriorTxID: bidPriorID, PriorIndex: 0},
			{PriorTxID: fundingPriorID, PriorIndex: 0},
		},
		[]claim.TxOutput{
			{Amount: asset.Asset{Amount: 20, Unit: unitY}, Claim: claim.SignatureClaim{Owner: p}},
		},
		claim.BlockID{},
		[]claim.Address{q},
		nil,
	)

	ctx, err := New(context.Background(), tx, store, false, 1, newRegistry())
	require.NoError(t, err)

	require.NoError(t, ctx.Validate(context.Background()))
	require.True(t, ctx.Matcher.isUsed(0))
}

// Scenario 4: bid fill, partial — both the change output and the payout
// output must end up marked used. A second input supplies the quote
// currency for the same reason as scenario 3.
func TestScenarioBidFillPartial(t *testing.T) {
	store := ledgerstore.New(nil)
	p := addr(5)
	q := addr(6)

	bidPriorID := claim.TxID{30}
	store.Seed(bidPriorID, 0, 1, claim.TxOutput{
		Amount: asset.Asset{Amount: 10, Unit: unitX},
		Claim:  claim.BidClaim{PayAddress: p, AskPrice: priceXY(2, 1)},
	})
	fundingPriorID := claim.TxID{31}
	store.Seed(fundingPriorID, 0, 1, claim.TxOutput{
		Amount: asset.Asset{Amount: 8, Unit: unitY},
		Claim:  claim.SignatureClaim{Owner: q},
	})

	tx := claim.NewSignedTransaction(
		claim.TxID{4},
		[]claim.TxInput{
			{PriorTxID: bidPriorID, PriorIndex: 0},
			{PriorTxID: fundingPriorID, PriorIndex: 0},
		},
		[]claim.TxOutput{
			{Amount: asset.Asset{Amount: 6, Unit: unitX}, Claim: claim.BidClaim{PayAddress: p, AskPrice: priceXY(2, 1)}},
			{Amount: asset.Asset{Amount: 8, Unit: unitY}, Claim: claim.SignatureClaim{Owner: p}},
		},
		claim.BlockID{},
		[]claim.Address{q},
		nil,
	)

	ctx, err := New(context.Background(), tx, store, false, 1, newRegistry())
	require.NoError(t, err)

	require.NoError(t, ctx.Validate(context.Background()))
	require.True(t, ctx.Matcher.isUsed(0))
	require.True(t, ctx.Matcher.isUsed(1))
}

// Scenario 5: short/long match rejected when matching is disabled.
func TestScenarioShortLongMatchingDisabled(t *testing.T) {
	store := ledgerstore.New(nil)
	p := addr(7)

	longPriorID := claim.TxID{40}
	store.Seed(longPriorID, 0, 1, claim.TxOutput{
		Amount: asset.Asset{Amount: 10, Unit: unitX},
		Claim:  claim.LongClaim{PayAddress: p, AskPrice: priceXY(2, 1)},
	})

	tx := claim.NewSignedTransaction(
		claim.TxID{5},
		[]claim.TxInput{{PriorTxID: longPriorID, PriorIndex: 0}},
		[]claim.TxOutput{
			{Amount: asset.Asset{Amount: 20, Unit: asset.Native}, Claim: claim.CoverClaim{Payoff: asset.Asset{Amount: 20, Unit: unitY}, Owner: p}},
		},
		claim.BlockID{},
		nil,
		nil,
	)

	ctx, err := New(context.Background(), tx, store, false, 1, newRegistry())
	require.NoError(t, err)
	ctx.SetAllowShortLongMatching(false)

	require.Error(t, ctx.Validate(context.Background()))
}

// Scenario 6: margin reduction forbidden.
func TestScenarioMarginReductionForbidden(t *testing.T) {
	store := ledgerstore.New(nil)
	owner := addr(8)

	coverPriorID := claim.TxID{50}
	store.Seed(coverPriorID, 0, 1, claim.TxOutput{
		Amount: asset.Asset{Amount: 100, Unit: asset.Native},
		Claim:  claim.CoverClaim{Payoff: asset.Asset{Amount: 50, Unit: unitY}, Owner: owner},
	})

	tx := claim.NewSignedTransaction(
		claim.TxID{6},
		[]claim.TxInput{{PriorTxID: coverPriorID, PriorIndex: 0}},
		[]claim.TxOutput{
			{Amount: asset.Asset{Amount: 60, Unit: asset.Native}, Claim: claim.CoverClaim{Payoff: asset.Asset{Amount: 50, Unit: unitY}, Owner: owner}},
		},
		claim.BlockID{},
		nil,
		nil,
	)

	ctx, err := New(context.Background(), tx, store, false, 1, newRegistry())
	require.NoError(t, err)

	err = ctx.Validate(context.Background())
	require.Error(t, err)
}

// Boundary: a transaction with zero inputs and zero outputs is trivially
// accepted and contributes zero CDD.
func TestEmptyTransactionAccepted(t *testing.T) {
	store := ledgerstore.New(nil)
	tx := claim.NewSignedTransaction(claim.TxID{7}, nil, nil, claim.BlockID{}, nil, nil)

	ctx, err := New(context.Background(), tx, store, false, 0, newRegistry())
	require.NoError(t, err)

	require.NoError(t, ctx.Validate(context.Background()))
	require.Equal(t, uint64(0), ctx.TotalCDD().Lo)
	require.Equal(t, uint64(0), ctx.UncountedCDD().Lo)
}

// Boundary: an input whose source block equals ref_head contributes zero
// CDD (age is zero).
func TestZeroAgeContributesZeroCDD(t *testing.T) {
	store := ledgerstore.New(nil)
	a := addr(9)
	priorID := claim.TxID{60}
	store.Seed(priorID, 0, 20, claim.TxOutput{
		Amount: asset.Asset{Amount: 100, Unit: asset.Native},
		Claim:  claim.SignatureClaim{Owner: a},
	})

	tx := claim.NewSignedTransaction(
		claim.TxID{8},
		[]claim.TxInput{{PriorTxID: priorID, PriorIndex: 0}},
		nil,
		claim.BlockID{},
		[]claim.Address{a},
		nil,
	)

	ctx, err := New(context.Background(), tx, store, false, 20, newRegistry())
	require.NoError(t, err)

	require.NoError(t, ctx.Validate(context.Background()))
	require.Equal(t, uint64(0), ctx.UncountedCDD().Lo)
	require.Equal(t, uint64(0), ctx.TotalCDD().Lo)
}

// An input referencing a prior output the chain view never saw must fail
// validation rather than silently falling through as an unrecognised
// claim on a zero-valued output.
func TestUnresolvedInputRejected(t *testing.T) {
	store := ledgerstore.New(nil)

	tx := claim.NewSignedTransaction(
		claim.TxID{12},
		[]claim.TxInput{{PriorTxID: claim.TxID{99}, PriorIndex: 0}},
		nil,
		claim.BlockID{},
		nil,
		nil,
	)

	ctx, err := New(context.Background(), tx, store, false, 1, newRegistry())
	require.NoError(t, err)

	require.Error(t, ctx.Validate(context.Background()))
}

// Double-use of the same output by two inputs must fail.
func TestDoubleUseOfOutputRejected(t *testing.T) {
	store := ledgerstore.New(nil)
	p := addr(11)

	bidPriorID1 := claim.TxID{70}
	bidPriorID2 := claim.TxID{71}
	store.Seed(bidPriorID1, 0, 1, claim.TxOutput{
		Amount: asset.Asset{Amount: 10, Unit: unitX},
		Claim:  claim.BidClaim{PayAddress: p, AskPrice: priceXY(2, 1)},
	})
	store.Seed(bidPriorID2, 0, 1, claim.TxOutput{
		Amount: asset.Asset{Amount: 10, Unit: unitX},
		Claim:  claim.BidClaim{PayAddress: p, AskPrice: priceXY(2, 1)},
	})

	tx := claim.NewSignedTransaction(
		claim.TxID{9},
		[]claim.TxInput{
			{PriorTxID: bidPriorID1, PriorIndex: 0},
			{PriorTxID: bidPriorID2, PriorIndex: 0},
		},
		[]claim.TxOutput{
			{Amount: asset.Asset{Amount: 20, Unit: unitY}, Claim: claim.SignatureClaim{Owner: p}},
		},
		claim.BlockID{},
		nil,
		nil,
	)

	ctx, err := New(context.Background(), tx, store, false, 1, newRegistry())
	require.NoError(t, err)

	require.Error(t, ctx.Validate(context.Background()))
}
