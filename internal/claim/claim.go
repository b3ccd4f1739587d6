package claim

import "github.com/covenantchain/ledger/internal/asset"

// Kind discriminates which of the nine claim variants a payload carries.
// Kept as an explicit enum (rather than relying solely on a type switch)
// so validators can log or branch on "what kind of claim is this" without
// a type assertion.
type Kind int

const (
	KindSignature Kind = iota
	KindPts
	KindBid
	KindLong
	KindCover
	KindOptExecute
	KindMultiSig
	KindEscrow
	KindPassword
)

func (k Kind) String() string {
	switch k {
	case KindSignature:
		return "signature"
	case KindPts:
		return "pts"
	case KindBid:
		return "bid"
	case KindLong:
		return "long"
	case KindCover:
		return "cover"
	case KindOptExecute:
		return "opt_execute"
	case KindMultiSig:
		return "multisig"
	case KindEscrow:
		return "escrow"
	case KindPassword:
		return "password"
	default:
		return "unknown"
	}
}

// Payload is the tagged-sum interface every claim variant implements. Kind
// lets callers dispatch without a type switch; the interface is still type
// asserted to the concrete variant to reach its fields, the same way a C++
// visitor would downcast after checking a discriminant. The compiler does
// not check a type switch for exhaustiveness, so the validator's dispatch
// switches keep a default branch that rejects an unrecognised payload.
type Payload interface {
	Kind() Kind
}

// SignatureClaim is satisfied by a single owner's signature over the
// transaction. The overwhelming majority of outputs carry this claim.
type SignatureClaim struct {
	Owner Address
}

func (SignatureClaim) Kind() Kind { return KindSignature }

// PtsClaim is satisfied by a signature from the imported foreign-chain
// address's key, proven via the same signature set the validator already
// has (SignedPtsAddresses), not by a live foreign-chain proof.
type PtsClaim struct {
	Owner PtsAddress
}

func (PtsClaim) Kind() Kind { return KindPts }

// BidClaim describes a resting order offering Amount (the output's asset)
// in exchange for AskPrice, payable to PayAddress. Satisfied either by
// PayAddress's own signature (cancel) or by a matching output elsewhere in
// the same transaction that fills the order (counterparty fill).
type BidClaim struct {
	PayAddress Address
	AskPrice   asset.Price
}

func (BidClaim) Kind() Kind { return KindBid }

// LongClaim mirrors BidClaim for the long side of a margin position: an
// offer to go long at AskPrice, payable to PayAddress once filled.
type LongClaim struct {
	PayAddress Address
	AskPrice   asset.Price
}

func (LongClaim) Kind() Kind { return KindLong }

// CoverClaim represents a short position's collateral. Payoff is the debt
// owed in the quote asset; Owner is the position holder who may reclaim
// excess collateral or refinance via a margin call. The output's own
// Amount carries the posted collateral in the native unit.
type CoverClaim struct {
	Payoff asset.Asset
	Owner  Address
}

func (CoverClaim) Kind() Kind { return KindCover }

// OptExecuteClaim, MultiSigClaim, EscrowClaim, and PasswordClaim are
// reserved claim kinds. Their validators are no-ops in this revision —
// carried forward unimplemented because the original validator leaves
// their handler bodies empty too.
type OptExecuteClaim struct{}

func (OptExecuteClaim) Kind() Kind { return KindOptExecute }

type MultiSigClaim struct{}

func (MultiSigClaim) Kind() Kind { return KindMultiSig }

type EscrowClaim struct{}

func (EscrowClaim) Kind() Kind { return KindEscrow }

type PasswordClaim struct{}

func (PasswordClaim) Kind() Kind { return KindPassword }
