// Package ledgerstore is the concrete, in-memory ChainView the validator
// is exercised against. It tracks the unspent-output set and the block a
// given output first appeared in, in the style of the teacher repo's
// StateManager, adapted from an account/balance model to the strict
// input-resolution contract internal/chainview requires.
package ledgerstore

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/covenantchain/ledger/internal/chainview"
	"github.com/covenantchain/ledger/internal/claim"
)

// outputRecord is what the store keeps per output: the output itself, the
// block it appeared in, and whether it has since been spent. Spent outputs
// are kept (not deleted) so FetchInputs can still report Spent: true for
// stale references instead of reporting them as never-existed.
type outputRecord struct {
	output  claim.TxOutput
	block   uint32
	spent   bool
}

func outputKey(txID claim.TxID, index uint32) string {
	return fmt.Sprintf("%x:%d", txID, index)
}

// Store is a mutex-guarded in-memory ledger. It implements
// chainview.ChainView and additionally exposes the write path
// (ApplyTransaction, AdvanceHead) a mempool or block applier needs to keep
// it current — the teacher repo's StateManager conflates these same two
// concerns in one type, so this does too.
type Store struct {
	mu      sync.RWMutex
	outputs map[string]*outputRecord
	head    uint32
	log     *zap.Logger
}

// New builds an empty store at head height 0.
func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		outputs: make(map[string]*outputRecord),
		log:     log,
	}
}

// Seed installs an output directly, bypassing ApplyTransaction — used to
// build genesis fixtures and test ledgers.
func (s *Store) Seed(txID claim.TxID, index uint32, block uint32, output claim.TxOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[outputKey(txID, index)] = &outputRecord{output: output, block: block}
	if block > s.head {
		s.head = block
	}
}

// FetchInputs implements chainview.ChainView. refHead is not consulted:
// each input is resolved against the store's current contents, so an
// output added after refHead is still found, and Spent reports whether
// any transaction applied so far, at any height, has consumed it.
func (s *Store) FetchInputs(ctx context.Context, inputs []claim.TxInput, refHead uint32) ([]chainview.ResolvedInput, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved := make([]chainview.ResolvedInput, len(inputs))
	for i, in := range inputs {
		rec, ok := s.outputs[outputKey(in.PriorTxID, in.PriorIndex)]
		if !ok {
			resolved[i] = chainview.ResolvedInput{Found: false}
			continue
		}
		resolved[i] = chainview.ResolvedInput{
			Found:          true,
			SourceBlockNum: rec.block,
			PriorOutput:    rec.output,
			Spent:          rec.spent,
		}
	}
	return resolved, nil
}

// HeadBlockNum implements chainview.ChainView.
func (s *Store) HeadBlockNum(ctx context.Context) (uint32, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.head, nil
}

// ApplyTransaction marks every input the transaction consumes as spent and
// inserts its outputs at the given block height. It does not itself
// validate the transaction — callers are expected to have run it through
// internal/validation first, mirroring the teacher repo's
// UpdateStateFromBlock, which likewise assumes its caller pre-validated.
func (s *Store) ApplyTransaction(block uint32, tx *claim.SignedTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, in := range tx.Inputs {
		key := outputKey(in.PriorTxID, in.PriorIndex)
		rec, ok := s.outputs[key]
		if !ok {
			return fmt.Errorf("ledgerstore: input %s references unknown output", key)
		}
		if rec.spent {
			return fmt.Errorf("ledgerstore: input %s already spent", key)
		}
		rec.spent = true
	}

	for i, out := range tx.Outputs {
		key := outputKey(tx.ID, uint32(i))
		if _, exists := s.outputs[key]; exists {
			return fmt.Errorf("ledgerstore: output %s already exists", key)
		}
		s.outputs[key] = &outputRecord{output: out, block: block}
	}

	if block > s.head {
		s.head = block
	}
	s.log.Debug("applied transaction",
		zap.Uint32("block", block),
		zap.Int("inputs", len(tx.Inputs)),
		zap.Int("outputs", len(tx.Outputs)),
	)
	return nil
}

// AdvanceHead bumps the reported head height without applying a block,
// used by tests that only need HeadBlockNum to move forward.
func (s *Store) AdvanceHead(height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if height > s.head {
		s.head = height
	}
}
