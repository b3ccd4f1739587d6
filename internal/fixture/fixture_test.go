package fixture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/covenantchain/ledger/internal/claim"
	"github.com/covenantchain/ledger/internal/validation"
)

const simpleTransferJSON = `{
  "ref_head": 20,
  "enforce_unspent": false,
  "stake_prev1": "0100000000000000000000000000000000000000000000000000000000000000",
  "prior_outputs": [
    {
      "tx_id": "0a00000000000000000000000000000000000000000000000000000000000000",
      "index": 0,
      "block": 10,
      "output": {
        "amount": 100,
        "unit": 0,
        "claim": {"kind": "signature", "owner": "0100000000000000000000000000000000000000"}
      }
    }
  ],
  "transaction": {
    "id": "0200000000000000000000000000000000000000000000000000000000000000",
    "inputs": [{"prior_tx_id": "0a00000000000000000000000000000000000000000000000000000000000000", "prior_index": 0}],
    "outputs": [
      {"amount": 100, "unit": 0, "claim": {"kind": "signature", "owner": "0200000000000000000000000000000000000000"}}
    ],
    "stake": "0100000000000000000000000000000000000000000000000000000000000000",
    "signed_addresses": ["0100000000000000000000000000000000000000"]
  }
}`

func TestParseAndValidateSimpleTransfer(t *testing.T) {
	doc, err := Parse([]byte(simpleTransferJSON))
	require.NoError(t, err)
	require.Equal(t, uint32(20), doc.RefHead)

	store, registry, err := doc.BuildStore(nil)
	require.NoError(t, err)

	tx, err := doc.Transaction.ToTransaction()
	require.NoError(t, err)

	prev1, prev2, err := doc.StakeWindow()
	require.NoError(t, err)

	vctx, err := validation.New(context.Background(), tx, store, doc.EnforceUnspent, doc.RefHead, registry)
	require.NoError(t, err)
	vctx.SetStakeWindow(prev1, prev2)

	require.NoError(t, vctx.Validate(context.Background()))
	require.Equal(t, uint64(1000), vctx.TotalCDD().Lo)
}

func TestParseRejectsUnknownClaimKind(t *testing.T) {
	_, err := Claim{Kind: "nonsense"}.toDomain()
	require.Error(t, err)
}

func TestParseRejectsBadHex(t *testing.T) {
	doc, err := Parse([]byte(`{"prior_outputs": [], "transaction": {"id": "zz"}}`))
	require.NoError(t, err)
	_, err = doc.Transaction.ToTransaction()
	require.Error(t, err)
}

func TestBidClaimRoundTrip(t *testing.T) {
	var pay claim.Address
	pay[0] = 9
	c := Claim{
		Kind:       "bid",
		PayAddress: pay.String(),
		AskPrice:   &WirePrice{BaseUnit: 1, QuoteUnit: 2, Num: 3, Den: 4},
	}
	payload, err := c.toDomain()
	require.NoError(t, err)
	bid, ok := payload.(claim.BidClaim)
	require.True(t, ok)
	require.Equal(t, pay, bid.PayAddress)
	require.Equal(t, uint64(3), bid.AskPrice.Num)
}
