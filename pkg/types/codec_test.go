package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"
)

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func TestEventRoundTrip(t *testing.T) {
	cases := []Event{
		NewPlacedEvent(PlacedEvent{ID: 1, User: addr(1), Side: Bid, Price: 3_400_000, Qty: 700_000}),
		NewTradeEvent(TradeEvent{MakerID: 1, MakerUser: addr(1), TakerID: 2, TakerUser: addr(2), Price: 3_400_000, Qty: 700_000, OriginSide: Ask}),
		NewDoneEvent(DoneEvent{User: addr(1), ID: 1}),
		NewCancelledEvent(CancelledEvent{ID: 1, User: addr(1), Reason: "by_user"}),
	}
	for _, want := range cases {
		enc, err := rlp.EncodeToBytes(want)
		require.NoError(t, err)

		var got Event
		require.NoError(t, rlp.DecodeBytes(enc, &got))
		require.Equal(t, want.Kind, got.Kind)

		switch want.Kind {
		case EventKindPlaced:
			require.Equal(t, *want.Placed, *got.Placed)
		case EventKindTrade:
			require.Equal(t, *want.Trade, *got.Trade)
		case EventKindDone:
			require.Equal(t, *want.Done, *got.Done)
		case EventKindCancelled:
			require.Equal(t, *want.Cancelled, *got.Cancelled)
		}
	}
}

func TestKernelMessageRoundTrip(t *testing.T) {
	cases := []KernelMessage{
		NewPlaceOrderMessage(APIOrder{Side: Bid, Size: 700_000, Price: 3_400_000, Nonce: 1}),
		NewCancelOrderMessage(CancelOrder{OrderID: 7}),
		NewFaucetMessage(Faucet{Amount: 1_000_000, Currency: USDC}),
	}
	for _, want := range cases {
		enc, err := rlp.EncodeToBytes(want)
		require.NoError(t, err)

		var got KernelMessage
		require.NoError(t, rlp.DecodeBytes(enc, &got))
		require.Equal(t, want.Kind, got.Kind)

		switch want.Kind {
		case MessageKindPlaceOrder:
			require.Equal(t, *want.PlaceOrder, *got.PlaceOrder)
		case MessageKindCancelOrder:
			require.Equal(t, *want.CancelOrder, *got.CancelOrder)
		case MessageKindFaucet:
			require.Equal(t, *want.Faucet, *got.Faucet)
		}
	}
}

func TestSignedInputRoundTrip(t *testing.T) {
	want := NewSignedInput(NewPlaceOrderMessage(APIOrder{Side: Ask, Size: 100, Price: 200, Nonce: 3}), [65]byte{1, 2, 3})

	enc, err := rlp.EncodeToBytes(&want)
	require.NoError(t, err)

	var got SignedInput[KernelMessage]
	require.NoError(t, rlp.DecodeBytes(enc, &got))

	require.Equal(t, want.Signature, got.Signature)
	require.Equal(t, want.Message.Kind, got.Message.Kind)
	require.Equal(t, *want.Message.PlaceOrder, *got.Message.PlaceOrder)
}

func TestPayloadRLPIsInnerOnly(t *testing.T) {
	order := APIOrder{Side: Bid, Size: 5, Price: 10, Nonce: 1}
	msg := NewPlaceOrderMessage(order)

	payload, err := msg.PayloadRLP()
	require.NoError(t, err)

	direct, err := rlp.EncodeToBytes(&order)
	require.NoError(t, err)

	require.Equal(t, direct, payload, "PayloadRLP must encode the inner variant only, not the discriminant")
}
