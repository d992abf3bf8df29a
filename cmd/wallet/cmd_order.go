package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradezlabs/tradez/pkg/crypto"
	"github.com/tradezlabs/tradez/pkg/txenvelope"
	"github.com/tradezlabs/tradez/pkg/types"
)

func newOpenPositionCmd() *cobra.Command {
	var key string
	var side, nonce uint64
	var size, price uint64

	cmd := &cobra.Command{
		Use:   "open-position",
		Short: "Sign and submit a PlaceOrder message",
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := crypto.FromPrivateKeyHex(key)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				return nil
			}
			msg := types.NewPlaceOrderMessage(types.APIOrder{
				Side:  types.Side(side),
				Size:  size,
				Price: price,
				Nonce: nonce,
			})
			raw, err := txenvelope.Encode(signer, msg)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				return nil
			}
			call("send_order", map[string]string{"raw": hexEncode(raw)})
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "signer private key (hex)")
	cmd.Flags().Uint64Var(&side, "side", 0, "0=bid, 1=ask")
	cmd.Flags().Uint64Var(&size, "size", 0, "order quantity")
	cmd.Flags().Uint64Var(&price, "price", 0, "limit price")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "informational nonce")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("size")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newClosePositionCmd() *cobra.Command {
	var key string
	var positionID uint64

	cmd := &cobra.Command{
		Use:   "close-position",
		Short: "Sign and submit a CancelOrder message",
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := crypto.FromPrivateKeyHex(key)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				return nil
			}
			msg := types.NewCancelOrderMessage(types.CancelOrder{OrderID: positionID})
			raw, err := txenvelope.Encode(signer, msg)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				return nil
			}
			call("cancel_order", map[string]string{"raw": hexEncode(raw)})
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "signer private key (hex)")
	cmd.Flags().Uint64Var(&positionID, "position-id", 0, "order ID to cancel")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("position-id")

	return cmd
}
