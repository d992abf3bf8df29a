// Command wallet is a thin JSON-RPC client for the sequencer: it signs
// orders locally and submits them, or reads back book/account state. It
// never touches the store directly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rpcAddr string

func main() {
	root := &cobra.Command{
		Use:   "wallet",
		Short: "Sign and submit orders against a tradez sequencer",
	}
	root.PersistentFlags().StringVar(&rpcAddr, "rpc", "http://localhost:8080/rpc", "sequencer JSON-RPC endpoint")

	root.AddCommand(
		newCreateCmd(),
		newOpenPositionCmd(),
		newClosePositionCmd(),
		newFaucetCmd(),
		newGetPositionsCmd(),
		newBalanceCmd(),
		newGetCmd(),
	)

	// A cobra parse error (bad flag, missing required arg) returns
	// non-zero; everything RunE handles itself exits 0 per the CLI's
	// exit-code contract — RPC errors are printed, not propagated.
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
