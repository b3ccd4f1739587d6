// Package chainview defines the narrow, read-only contract the validator
// uses to resolve transaction inputs against the ledger. It deliberately
// exposes nothing else: no write path, no block assembly, no peer
// protocol — those are the external collaborators this validator never
// needs to know about.
package chainview

import (
	"context"

	"github.com/covenantchain/ledger/internal/claim"
)

// ResolvedInput is what the chain view hands back for each TxInput: the
// output it referenced, the block it first appeared in, and whether it
// has already been spent by some other transaction at the queried height.
// Found is explicit rather than relying on a zero-value PriorOutput to
// mean "missing", since a legitimate output can itself be the zero value.
type ResolvedInput struct {
	Found          bool
	SourceBlockNum uint32
	PriorOutput    claim.TxOutput
	Spent          bool
}

// ChainView resolves transaction inputs and reports the chain's head
// height as of a snapshot. Implementations must be safe for concurrent
// use by independent validations, and must give snapshot-consistent
// answers for a given refHead — a later write to the ledger must never
// change what an in-flight FetchInputs call sees.
type ChainView interface {
	// FetchInputs resolves each of inputs against the ledger state as of
	// refHead, in the same order they were given. It returns an error only
	// for infrastructure failures (storage unavailable, bad refHead); an
	// input referencing a nonexistent prior output is reported back as a
	// validation error by the caller, not by this method's own error
	// return, to keep this interface free of validation policy.
	FetchInputs(ctx context.Context, inputs []claim.TxInput, refHead uint32) ([]ResolvedInput, error)

	// HeadBlockNum reports the chain's current tip height.
	HeadBlockNum(ctx context.Context) (uint32, error)
}
