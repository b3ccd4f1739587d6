package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/covenantchain/ledger/internal/asset"
	"github.com/covenantchain/ledger/internal/claim"
	"github.com/covenantchain/ledger/internal/ledgerstore"
	"github.com/covenantchain/ledger/internal/mempool"
	"github.com/covenantchain/ledger/internal/stakewindow"
)

// newServeDemoCmd builds a command that assembles a tiny in-memory ledger,
// a mempool, and a stake window, then walks one transaction through the
// whole stack end to end — a minimal stand-in for the teacher repo's
// runNode, which wires up a whole node's components in sequence and logs
// each step as it goes.
func newServeDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-demo",
		Short: "Wire up an in-memory ledger, mempool, and stake window, and validate one demo transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return fmt.Errorf("txvalidate: building logger: %w", err)
			}
			defer log.Sync() //nolint:errcheck
			return runServeDemo(cmd.Context(), log)
		},
	}
}

// demoAddress derives a deterministic-looking Address from a fresh UUID,
// truncated to the address width — good enough for a demo fixture, not a
// real key derivation.
func demoAddress() claim.Address {
	id := uuid.New()
	var a claim.Address
	copy(a[:], id[:])
	return a
}

func demoBlockID(seed byte) claim.BlockID {
	id := uuid.New()
	var b claim.BlockID
	copy(b[:], id[:])
	b[0] = seed
	return b
}

func demoTxID() claim.TxID {
	id := uuid.New()
	var t claim.TxID
	copy(t[:], id[:])
	return t
}

func runServeDemo(ctx context.Context, log *zap.Logger) error {
	log.Info("initializing demo ledger store")
	store := ledgerstore.New(log)
	registry := asset.NewRegistry()

	log.Info("initializing stake window")
	window := stakewindow.New(log)
	alice := demoAddress()
	bob := demoAddress()
	window.LoadValidators([]stakewindow.Validator{
		{Address: alice, Stake: 10000, Reputation: 1.0},
		{Address: bob, Stake: 15000, Reputation: 0.9},
	})
	genesisBlock := demoBlockID(1)
	window.Advance(genesisBlock, 0)
	log.Info("stake window initialized", zap.Uint32("height", window.Height()))

	log.Info("seeding genesis output", zap.String("owner", alice.String()))
	priorID := demoTxID()
	store.Seed(priorID, 0, 0, claim.TxOutput{
		Amount: asset.Asset{Amount: 1_000_000, Unit: asset.Native},
		Claim:  claim.SignatureClaim{Owner: alice},
	})
	store.AdvanceHead(1)

	log.Info("initializing mempool")
	mp, err := mempool.New(store, registry, log)
	if err != nil {
		return fmt.Errorf("txvalidate: building mempool: %w", err)
	}
	mp.SetAllowShortLongMatching(true)

	txID := demoTxID()
	tx := claim.NewSignedTransaction(
		txID,
		[]claim.TxInput{{PriorTxID: priorID, PriorIndex: 0}},
		[]claim.TxOutput{{Amount: asset.Asset{Amount: 1_000_000, Unit: asset.Native}, Claim: claim.SignatureClaim{Owner: bob}}},
		genesisBlock,
		[]claim.Address{alice},
		nil,
	)

	log.Info("submitting demo transaction to mempool", zap.String("tx", tx.ID.String()))
	if err := mp.Add(ctx, tx); err != nil {
		return fmt.Errorf("txvalidate: demo transaction rejected: %w", err)
	}
	log.Info("demo transaction admitted", zap.Int("mempool_size", mp.Count()))

	if err := store.ApplyTransaction(1, tx); err != nil {
		return fmt.Errorf("txvalidate: applying demo transaction: %w", err)
	}
	mp.Remove(tx.ID)
	window.Advance(demoBlockID(2), 1)

	fmt.Printf("demo complete: transaction %s moved %d native units from %s to %s\n",
		tx.ID.String(), 1_000_000, alice.String(), bob.String())
	return nil
}
