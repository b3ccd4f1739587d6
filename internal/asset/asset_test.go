package asset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	unitX Unit = 5
	unitY Unit = 9
)

func TestAssetAddSub(t *testing.T) {
	a := Asset{Amount: 10, Unit: unitX}
	b := Asset{Amount: 4, Unit: unitX}

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, uint64(14), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	require.Equal(t, uint64(6), diff.Amount)

	_, err = diff.Sub(a)
	require.Error(t, err, "subtracting past zero must fail, not wrap")
}

func TestAssetAddUnitMismatch(t *testing.T) {
	a := Asset{Amount: 1, Unit: unitX}
	b := Asset{Amount: 1, Unit: unitY}
	_, err := a.Add(b)
	require.Error(t, err)
}

func TestAssetAddOverflow(t *testing.T) {
	a := Asset{Amount: math.MaxUint64, Unit: unitX}
	b := Asset{Amount: 1, Unit: unitX}
	_, err := a.Add(b)
	require.Error(t, err)
}

func TestPriceValidate(t *testing.T) {
	good := Price{BaseUnit: unitX, QuoteUnit: unitY, Num: 2, Den: 1}
	require.NoError(t, good.Validate())

	zero := Price{BaseUnit: unitX, QuoteUnit: unitY, Num: 0, Den: 1}
	require.Error(t, zero.Validate())

	reversed := Price{BaseUnit: unitY, QuoteUnit: unitX, Num: 2, Den: 1}
	require.Error(t, reversed.Validate())

	same := Price{BaseUnit: unitX, QuoteUnit: unitX, Num: 2, Den: 1}
	require.Error(t, same.Validate())
}

func TestAssetMulPrice(t *testing.T) {
	// 2 Y per X: 10 X * (2 Y/X) = 20 Y
	price := Price{BaseUnit: unitX, QuoteUnit: unitY, Num: 2, Den: 1}
	x := Asset{Amount: 10, Unit: unitX}

	y, err := x.MulPrice(price)
	require.NoError(t, err)
	require.Equal(t, unitY, y.Unit)
	require.Equal(t, uint64(20), y.Amount)

	// Going the other way: 20 Y / (2 Y/X) = 10 X
	back, err := y.MulPrice(price)
	require.NoError(t, err)
	require.Equal(t, unitX, back.Unit)
	require.Equal(t, uint64(10), back.Amount)
}

func TestAssetMulPriceWrongUnit(t *testing.T) {
	price := Price{BaseUnit: unitX, QuoteUnit: unitY, Num: 2, Den: 1}
	other := Asset{Amount: 10, Unit: 200}
	_, err := other.MulPrice(price)
	require.Error(t, err)
}

func TestAssetDivAsset(t *testing.T) {
	x := Asset{Amount: 10, Unit: unitX}
	y := Asset{Amount: 20, Unit: unitY}
	p, err := y.DivAsset(x)
	require.NoError(t, err)
	require.Equal(t, unitX, p.BaseUnit)
	require.Equal(t, unitY, p.QuoteUnit)
}

func TestGreaterOrEqualRatio(t *testing.T) {
	// 100/50 = 2.0 >= 60/50 = 1.2
	ok, err := GreaterOrEqualRatio(100, 50, 60, 50)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = GreaterOrEqualRatio(60, 50, 100, 50)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.True(t, r.Known(Native))
	require.False(t, r.Known(unitX))
	r.Register(unitX, "X")
	r.Register(unitY, "Y")
	require.True(t, r.Known(unitX))
	require.Equal(t, "X", r.Symbol(unitX))
	require.ElementsMatch(t, []Unit{Native, unitX, unitY}, r.Units())
}
