package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradezlabs/tradez/pkg/crypto"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Generate a new keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := crypto.GenerateKey()
			if err != nil {
				fmt.Printf("error: %v\n", err)
				return nil
			}
			fmt.Printf("address:     %s\n", signer.Address().Hex())
			fmt.Printf("private key: %s\n", signer.PrivateKeyHex())
			return nil
		},
	}
}
