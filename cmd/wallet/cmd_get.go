package main

import (
	"github.com/spf13/cobra"
)

func newGetPositionsCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "get-positions",
		Short: "List open orders for an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			call("get_orders", map[string]string{"address": address})
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "account address (hex)")
	cmd.MarkFlagRequired("address")
	return cmd
}

func newBalanceCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show balances for an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			call("get_balances", map[string]string{"address": address})
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "account address (hex)")
	cmd.MarkFlagRequired("address")
	return cmd
}

// newGetCmd groups the read-only "get" subcommands: orderbook-state,
// balances, orders, history.
func newGetCmd() *cobra.Command {
	get := &cobra.Command{
		Use:   "get",
		Short: "Read-only sequencer queries",
	}

	get.AddCommand(&cobra.Command{
		Use:   "orderbook-state",
		Short: "Show the current bid/ask ladders",
		RunE: func(cmd *cobra.Command, args []string) error {
			call("get_orderbook_state", struct{}{})
			return nil
		},
	})

	var balAddr string
	balances := &cobra.Command{
		Use:   "balances",
		Short: "Show balances for an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			call("get_balances", map[string]string{"address": balAddr})
			return nil
		},
	}
	balances.Flags().StringVar(&balAddr, "address", "", "account address (hex)")
	balances.MarkFlagRequired("address")
	get.AddCommand(balances)

	var ordAddr string
	orders := &cobra.Command{
		Use:   "orders",
		Short: "Show open orders for an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			call("get_orders", map[string]string{"address": ordAddr})
			return nil
		},
	}
	orders.Flags().StringVar(&ordAddr, "address", "", "account address (hex)")
	orders.MarkFlagRequired("address")
	get.AddCommand(orders)

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show recent trade history",
		RunE: func(cmd *cobra.Command, args []string) error {
			call("get_history", map[string]int{"limit": limit})
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 0, "max entries (0 = all retained)")
	get.AddCommand(history)

	return get
}
