package stakewindow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/covenantchain/ledger/internal/claim"
)

func TestAdvanceRollsWindow(t *testing.T) {
	w := New(nil)
	var b1, b2, b3 claim.BlockID
	b1[0], b2[0], b3[0] = 1, 2, 3

	w.Advance(b1, 10)
	p1, p2 := w.StakeWindow()
	require.Equal(t, b1, p1)
	require.Equal(t, claim.BlockID{}, p2)

	w.Advance(b2, 11)
	p1, p2 = w.StakeWindow()
	require.Equal(t, b2, p1)
	require.Equal(t, b1, p2)

	w.Advance(b3, 12)
	p1, p2 = w.StakeWindow()
	require.Equal(t, b3, p1)
	require.Equal(t, b2, p2)
	require.Equal(t, uint32(12), w.Height())
}

func TestProposerForHeightRoundRobin(t *testing.T) {
	w := New(nil)
	var a1, a2 claim.Address
	a1[0], a2[0] = 1, 2
	w.LoadValidators([]Validator{{Address: a1, Stake: 100}, {Address: a2, Stake: 50}})

	v, err := w.ProposerForHeight(0)
	require.NoError(t, err)
	require.Equal(t, a1, v.Address)

	v, err = w.ProposerForHeight(1)
	require.NoError(t, err)
	require.Equal(t, a2, v.Address)

	v, err = w.ProposerForHeight(2)
	require.NoError(t, err)
	require.Equal(t, a1, v.Address)
}

func TestProposerForHeightNoValidators(t *testing.T) {
	w := New(nil)
	_, err := w.ProposerForHeight(0)
	require.Error(t, err)
}
