package settlement

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tradezlabs/tradez/pkg/account"
	"github.com/tradezlabs/tradez/pkg/crypto"
	"github.com/tradezlabs/tradez/pkg/store"
	"github.com/tradezlabs/tradez/pkg/txenvelope"
	"github.com/tradezlabs/tradez/pkg/types"
)

func submit(t *testing.T, e *Engine, signer *crypto.Signer, msg types.KernelMessage) {
	t.Helper()
	raw, err := txenvelope.Encode(signer, msg)
	require.NoError(t, err)
	require.NoError(t, e.HandleExternal(raw))
}

func TestFaucetCreditsBalance(t *testing.T) {
	st := store.NewMemStore()
	e := NewEngine(st, NopSink{}, nil)
	signer, err := crypto.GenerateKey()
	require.NoError(t, err)

	submit(t, e, signer, types.NewFaucetMessage(types.Faucet{Amount: 1_000_000, Currency: types.USDC}))

	acc, err := account.Load(st, signer.Address())
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), acc.Balance(types.USDC))
}

// Mirrors the canonical crossing scenario: a resting bid for 1_000_000 at
// 3_400_000 partially fills against an incoming ask for 700_000 at
// 3_300_000, executing at the maker's price and leaving 300_000 resting.
func TestPlaceOrderCrossingSettlesBothSides(t *testing.T) {
	st := store.NewMemStore()
	e := NewEngine(st, NopSink{}, nil)

	alice, err := crypto.GenerateKey()
	require.NoError(t, err)
	bob, err := crypto.GenerateKey()
	require.NoError(t, err)

	submit(t, e, alice, types.NewFaucetMessage(types.Faucet{Amount: 10_000_000, Currency: types.USDC}))
	submit(t, e, bob, types.NewFaucetMessage(types.Faucet{Amount: 2_000_000, Currency: types.XTZ}))

	submit(t, e, alice, types.NewPlaceOrderMessage(types.APIOrder{Side: types.Bid, Size: 1_000_000, Price: 3_400_000, Nonce: 1}))
	submit(t, e, bob, types.NewPlaceOrderMessage(types.APIOrder{Side: types.Ask, Size: 700_000, Price: 3_300_000, Nonce: 1}))

	aliceAcc, err := account.Load(st, alice.Address())
	require.NoError(t, err)
	bobAcc, err := account.Load(st, bob.Address())
	require.NoError(t, err)

	require.Equal(t, uint64(700_000), aliceAcc.Balance(types.XTZ))
	require.Equal(t, uint64(10_000_000-3_400_000), aliceAcc.Balance(types.USDC))

	// Bob is this trade's Ask taker: he's credited the full trade value in
	// USDC, and his taker fee is instead charged against the XTZ he sold.
	wantSellerNotional := uint64(2_380_000)
	wantFee := TradingFee(uint64(700_000))
	require.Equal(t, uint64(2_000_000-700_000)-wantFee, bobAcc.Balance(types.XTZ))
	require.Equal(t, wantSellerNotional, bobAcc.Balance(types.USDC))

	require.Len(t, aliceAcc.Orders, 1, "alice's partially filled order keeps resting")
	require.Len(t, bobAcc.Orders, 0, "bob's order fully filled, nothing rests")
}

func TestCancelOrderRefundsReservation(t *testing.T) {
	st := store.NewMemStore()
	e := NewEngine(st, NopSink{}, nil)

	alice, err := crypto.GenerateKey()
	require.NoError(t, err)

	submit(t, e, alice, types.NewFaucetMessage(types.Faucet{Amount: 10_000_000, Currency: types.USDC}))
	submit(t, e, alice, types.NewPlaceOrderMessage(types.APIOrder{Side: types.Bid, Size: 1_000_000, Price: 3_400_000, Nonce: 1}))
	submit(t, e, alice, types.NewCancelOrderMessage(types.CancelOrder{OrderID: 1}))

	acc, err := account.Load(st, alice.Address())
	require.NoError(t, err)
	require.Equal(t, uint64(10_000_000), acc.Balance(types.USDC))
	require.Len(t, acc.Orders, 0)
}

func TestPlaceOrderRejectsInsufficientBalance(t *testing.T) {
	st := store.NewMemStore()
	e := NewEngine(st, NopSink{}, nil)

	alice, err := crypto.GenerateKey()
	require.NoError(t, err)

	err = func() error {
		raw, err := txenvelope.Encode(alice, types.NewPlaceOrderMessage(types.APIOrder{Side: types.Bid, Size: 1_000_000, Price: 1_000_000, Nonce: 1}))
		require.NoError(t, err)
		return e.HandleExternal(raw)
	}()
	require.Error(t, err)
}

func TestCancelOrderRejectsNonOwner(t *testing.T) {
	st := store.NewMemStore()
	e := NewEngine(st, NopSink{}, nil)

	alice, err := crypto.GenerateKey()
	require.NoError(t, err)
	mallory, err := crypto.GenerateKey()
	require.NoError(t, err)

	submit(t, e, alice, types.NewFaucetMessage(types.Faucet{Amount: 10_000_000, Currency: types.USDC}))
	submit(t, e, alice, types.NewPlaceOrderMessage(types.APIOrder{Side: types.Bid, Size: 1_000_000, Price: 3_400_000, Nonce: 1}))

	raw, err := txenvelope.Encode(mallory, types.NewCancelOrderMessage(types.CancelOrder{OrderID: 1}))
	require.NoError(t, err)
	require.Error(t, e.HandleExternal(raw))
}
