// Package stakewindow tracks the validator set and the two-block stake
// anchor the CDD update rule reads, adapted from the teacher repo's
// consensus validator-set tracker (round-robin proposer selection, a
// hex-keyed validator map) narrowed to the one thing the transaction
// validator actually needs from consensus: "what are the two most recent
// block ids".
package stakewindow

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/covenantchain/ledger/internal/claim"
)

// Validator is a staking participant known to the window. Reputation is
// carried over from the teacher repo's Validator struct as a plain field
// even though this package does not yet use it for selection, since the
// proposer-rotation method below is the natural place a future reputation
// weighting would plug in.
type Validator struct {
	Address    claim.Address
	Stake      uint64
	Reputation float64
}

// Window owns the live validator set and the rolling two-block stake
// anchor. It is the mutable, long-lived counterpart to the
// per-transaction, single-use ValidationContext: many transactions read
// its current anchor via SetStakeWindow before a block is assembled.
type Window struct {
	mu         sync.RWMutex
	validators map[claim.Address]*Validator
	prev1      claim.BlockID
	prev2      claim.BlockID
	height     uint32
	log        *zap.Logger
}

// New builds an empty window.
func New(log *zap.Logger) *Window {
	if log == nil {
		log = zap.NewNop()
	}
	return &Window{
		validators: make(map[claim.Address]*Validator),
		log:        log,
	}
}

// LoadValidators installs the initial validator set, typically from
// genesis configuration.
func (w *Window) LoadValidators(vs []Validator) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range vs {
		v := vs[i]
		w.validators[v.Address] = &v
	}
}

// Validator looks up a known validator by address.
func (w *Window) Validator(addr claim.Address) (Validator, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.validators[addr]
	if !ok {
		return Validator{}, false
	}
	return *v, true
}

// ProposerForHeight picks a validator by simple stake-oblivious
// round-robin over the sorted address set, mirroring the teacher repo's
// GetProposerForHeight — deterministic ordering matters more than fairness
// at this revision.
func (w *Window) ProposerForHeight(height uint32) (Validator, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.validators) == 0 {
		return Validator{}, fmt.Errorf("stakewindow: no validators loaded")
	}
	addrs := make([]claim.Address, 0, len(w.validators))
	for a := range w.validators {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].String() < addrs[j].String()
	})
	selected := addrs[int(height)%len(addrs)]
	return *w.validators[selected], nil
}

// StakeWindow returns the current two-block anchor, ready to hand to
// ValidationContext.SetStakeWindow.
func (w *Window) StakeWindow() (claim.BlockID, claim.BlockID) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.prev1, w.prev2
}

// Advance rolls the window forward by one block: the previous prev1
// becomes prev2, and newBlock becomes prev1. Called once per accepted
// block, after that block's transactions have already been validated
// against the window as it stood before this call — a transaction's CDD
// counts against the window it was built under, not the window that
// results from its own inclusion.
func (w *Window) Advance(newBlock claim.BlockID, height uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prev2 = w.prev1
	w.prev1 = newBlock
	w.height = height
	w.log.Debug("stake window advanced",
		zap.String("block", newBlock.String()),
		zap.Uint32("height", height),
	)
}

// Height returns the height of the most recently advanced block.
func (w *Window) Height() uint32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.height
}
