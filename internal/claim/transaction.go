package claim

import "github.com/covenantchain/ledger/internal/asset"

// TxID identifies a transaction by the hash of its canonical payload. Left
// as a fixed-size array, in the style of the teacher repo's Hash type,
// rather than a plain byte slice, so it is directly comparable and usable
// as a map key.
type TxID [32]byte

// TxInput references a prior output by transaction ID and output index,
// plus whatever witness data the cryptographic layer needs to recover the
// signing address; the validator itself never inspects the witness bytes
// directly, it only asks "which addresses signed this transaction".
type TxInput struct {
	PriorTxID   TxID
	PriorIndex  uint32
	Witness     []byte
}

// TxOutput creates a new spendable claim of Amount, gated by Claim.
type TxOutput struct {
	Amount asset.Asset
	Claim  Payload
}

// SignedTransaction is a transaction together with the evidence of who
// signed it. SignedAddresses/SignedPtsAddresses are computed once by the
// caller (the cryptographic layer this validator does not own) and handed
// in as sets, mirroring how the teacher repo's VerifySignature separates
// "is this signature valid" from the validator's own business rules.
type SignedTransaction struct {
	ID      TxID
	Inputs  []TxInput
	Outputs []TxOutput

	// Stake is the stake-window anchor this transaction was built against,
	// read by the CDD update rule.
	Stake BlockID

	signedAddresses    map[Address]struct{}
	signedPtsAddresses map[PtsAddress]struct{}
}

// NewSignedTransaction builds a SignedTransaction from its wire fields plus
// the already-verified sets of addresses that signed it.
func NewSignedTransaction(id TxID, inputs []TxInput, outputs []TxOutput, stake BlockID, signedAddresses []Address, signedPtsAddresses []PtsAddress) *SignedTransaction {
	addrSet := make(map[Address]struct{}, len(signedAddresses))
	for _, a := range signedAddresses {
		addrSet[a] = struct{}{}
	}
	ptsSet := make(map[PtsAddress]struct{}, len(signedPtsAddresses))
	for _, a := range signedPtsAddresses {
		ptsSet[a] = struct{}{}
	}
	return &SignedTransaction{
		ID:                 id,
		Inputs:             inputs,
		Outputs:            outputs,
		Stake:              stake,
		signedAddresses:    addrSet,
		signedPtsAddresses: ptsSet,
	}
}

// SignedAddresses reports whether addr's signature is present on this
// transaction.
func (tx *SignedTransaction) SignedAddresses(addr Address) bool {
	_, ok := tx.signedAddresses[addr]
	return ok
}

// SignedPtsAddresses reports whether pts's signature is present on this
// transaction.
func (tx *SignedTransaction) SignedPtsAddresses(pts PtsAddress) bool {
	_, ok := tx.signedPtsAddresses[pts]
	return ok
}

// AllSignedAddresses returns every address that signed this transaction,
// for diagnostics (e.g. reporting unused signatures is out of scope, but
// reporting missing ones uses the complementary set built by the
// validator itself).
func (tx *SignedTransaction) AllSignedAddresses() []Address {
	out := make([]Address, 0, len(tx.signedAddresses))
	for a := range tx.signedAddresses {
		out = append(out, a)
	}
	return out
}
