package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradezlabs/tradez/pkg/crypto"
	"github.com/tradezlabs/tradez/pkg/txenvelope"
	"github.com/tradezlabs/tradez/pkg/types"
)

func newFaucetCmd() *cobra.Command {
	var key string
	var amount, currency uint64

	cmd := &cobra.Command{
		Use:   "faucet",
		Short: "Sign and submit a Faucet message",
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := crypto.FromPrivateKeyHex(key)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				return nil
			}
			msg := types.NewFaucetMessage(types.Faucet{Amount: amount, Currency: types.Currency(currency)})
			raw, err := txenvelope.Encode(signer, msg)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				return nil
			}
			call("faucet", map[string]string{"raw": hexEncode(raw)})
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "signer private key (hex)")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount to credit")
	cmd.Flags().Uint64Var(&currency, "currency", 0, "0=USDC, 1=XTZ")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("amount")

	return cmd
}
