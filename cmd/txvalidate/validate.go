package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/covenantchain/ledger/internal/fixture"
	"github.com/covenantchain/ledger/internal/validation"
)

func newValidateCmd() *cobra.Command {
	var fixtureOverride string

	cmd := &cobra.Command{
		Use:   "validate <fixture.json>",
		Short: "Validate a single transaction fixture against its declared ledger snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return fmt.Errorf("txvalidate: building logger: %w", err)
			}
			defer log.Sync() //nolint:errcheck

			path := args[0]
			if fixtureOverride != "" {
				path = fixtureOverride
			}
			return runValidate(cmd.Context(), log, cfg, path)
		},
	}
	cmd.Flags().StringVar(&fixtureOverride, "fixture", "", "override the fixture path (same as the positional argument)")
	return cmd
}

func runValidate(ctx context.Context, log *zap.Logger, cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("txvalidate: reading fixture %s: %w", path, err)
	}

	doc, err := fixture.Parse(data)
	if err != nil {
		return err
	}

	store, registry, err := doc.BuildStore(log)
	if err != nil {
		return err
	}

	tx, err := doc.Transaction.ToTransaction()
	if err != nil {
		return err
	}

	prev1, prev2, err := doc.StakeWindow()
	if err != nil {
		return err
	}

	enforceUnspent := doc.EnforceUnspent
	if !cfg.EnforceUnspentDefault {
		enforceUnspent = false
	}

	vctx, err := validation.New(ctx, tx, store, enforceUnspent, doc.RefHead, registry)
	if err != nil {
		return fmt.Errorf("txvalidate: resolving inputs: %w", err)
	}
	vctx.SetStakeWindow(prev1, prev2)
	vctx.SetAllowShortLongMatching(cfg.AllowShortLongMatching)

	if err := vctx.Validate(ctx); err != nil {
		log.Error("transaction rejected", zap.String("tx", tx.ID.String()), zap.Error(err))
		return fmt.Errorf("rejected: %w", err)
	}

	log.Info("transaction accepted",
		zap.String("tx", tx.ID.String()),
		zap.Uint64("total_cdd_lo", vctx.TotalCDD().Lo),
		zap.Uint64("uncounted_cdd_lo", vctx.UncountedCDD().Lo),
	)
	fmt.Printf("ACCEPTED %s\n", tx.ID.String())
	return nil
}
