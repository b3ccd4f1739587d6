// Package mempool holds candidate transactions that have passed
// validation and are waiting to be included in a block. It is adapted
// from the teacher repo's Mempool (a mutex-guarded, hex-keyed map) but
// validates every transaction against a ledgerstore.Store-backed
// chainview.ChainView before accepting it, and offers a batched,
// concurrent validation path for a burst of candidates.
package mempool

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/covenantchain/ledger/internal/asset"
	"github.com/covenantchain/ledger/internal/chainview"
	"github.com/covenantchain/ledger/internal/claim"
	"github.com/covenantchain/ledger/internal/validation"
)

// ErrTxExists is returned when a transaction with the same ID is already
// held in the mempool.
var ErrTxExists = fmt.Errorf("transaction already exists in mempool")

// dedupCacheSize bounds the recently-validated-hash cache: large enough to
// absorb a burst of resubmissions without growing unboundedly.
const dedupCacheSize = 4096

// Mempool validates candidate transactions against a ledger snapshot and
// holds the ones that pass.
type Mempool struct {
	mu           sync.RWMutex
	transactions map[string]*claim.SignedTransaction

	view     chainview.ChainView
	registry *asset.Registry
	dedup    *lru.Cache[string, struct{}]
	log      *zap.Logger

	enforceUnspent         bool
	allowShortLongMatching bool
}

// New builds a Mempool that validates against view.
func New(view chainview.ChainView, registry *asset.Registry, log *zap.Logger) (*Mempool, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cache, err := lru.New[string, struct{}](dedupCacheSize)
	if err != nil {
		return nil, fmt.Errorf("mempool: building dedup cache: %w", err)
	}
	return &Mempool{
		transactions:   make(map[string]*claim.SignedTransaction),
		view:           view,
		registry:       registry,
		dedup:          cache,
		log:            log,
		enforceUnspent: true,
	}, nil
}

func txKey(id claim.TxID) string { return hex.EncodeToString(id[:]) }

// SetEnforceUnspent controls whether validation rejects inputs the ledger
// reports as already spent. Defaults to true.
func (mp *Mempool) SetEnforceUnspent(enforce bool) { mp.enforceUnspent = enforce }

// SetAllowShortLongMatching controls whether Long inputs may be satisfied
// by a counterparty Cover output.
func (mp *Mempool) SetAllowShortLongMatching(allow bool) { mp.allowShortLongMatching = allow }

// Add validates tx against the ledger and, on success, admits it to the
// mempool. A transaction already present (by ID) or already in the
// recently-validated dedup cache is rejected without re-running
// validation.
func (mp *Mempool) Add(ctx context.Context, tx *claim.SignedTransaction) error {
	key := txKey(tx.ID)

	mp.mu.RLock()
	_, exists := mp.transactions[key]
	mp.mu.RUnlock()
	if exists {
		return fmt.Errorf("%w: %s", ErrTxExists, key)
	}

	if _, seen := mp.dedup.Get(key); seen {
		return fmt.Errorf("%w: %s", ErrTxExists, key)
	}

	vctx, err := validation.New(ctx, tx, mp.view, mp.enforceUnspent, validation.MaxRefHead, mp.registry)
	if err != nil {
		return fmt.Errorf("mempool: resolving inputs: %w", err)
	}
	vctx.SetAllowShortLongMatching(mp.allowShortLongMatching)
	if err := vctx.Validate(ctx); err != nil {
		mp.log.Debug("rejected transaction", zap.String("tx", key), zap.Error(err))
		return err
	}

	mp.mu.Lock()
	mp.transactions[key] = tx
	mp.mu.Unlock()
	mp.dedup.Add(key, struct{}{})
	mp.log.Debug("admitted transaction", zap.String("tx", key))
	return nil
}

// AddBatch validates a slice of candidate transactions concurrently,
// bounded by a worker pool, and returns the subset that were admitted, in
// no particular order. Each worker resolves its own ValidationContext
// against the shared read-only ChainView, exploiting the concurrency
// guarantee the validator's snapshot-read contract provides.
func (mp *Mempool) AddBatch(ctx context.Context, txs []*claim.SignedTransaction) []*claim.SignedTransaction {
	results := make([]*claim.SignedTransaction, len(txs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)

	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			if err := mp.Add(gctx, tx); err != nil {
				mp.log.Debug("batch candidate rejected", zap.Int("index", i), zap.Error(err))
				return nil
			}
			results[i] = tx
			return nil
		})
	}
	_ = g.Wait()

	admitted := make([]*claim.SignedTransaction, 0, len(txs))
	for _, tx := range results {
		if tx != nil {
			admitted = append(admitted, tx)
		}
	}
	return admitted
}

// Remove evicts a transaction, typically once it has been included in a
// block.
func (mp *Mempool) Remove(id claim.TxID) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	delete(mp.transactions, txKey(id))
}

// Transactions returns up to limit held transactions, in unspecified
// order; limit <= 0 means "all of them".
func (mp *Mempool) Transactions(limit int) []*claim.SignedTransaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if limit <= 0 || limit > len(mp.transactions) {
		limit = len(mp.transactions)
	}
	out := make([]*claim.SignedTransaction, 0, limit)
	for _, tx := range mp.transactions {
		if len(out) >= limit {
			break
		}
		out = append(out, tx)
	}
	return out
}

// Count returns the number of transactions currently held.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return len(mp.transactions)
}
