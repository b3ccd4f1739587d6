package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
)

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "txvalidate",
		Short: "Validate transactions against a ledger snapshot",
		Long: "txvalidate drives the transaction-validation core outside of a running " +
			"node, the way a CI check or an operator's sanity script would: feed it a " +
			"ledger snapshot and a candidate transaction, get back acceptance or a typed " +
			"rejection reason.",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newServeDemoCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
