package orderbook

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"

	"github.com/tradezlabs/tradez/pkg/store"
	"github.com/tradezlabs/tradez/pkg/types"
)

var (
	alice = common.Address{1}
	bob   = common.Address{2}
)

func TestLimitRestsWhenNotCrossed(t *testing.T) {
	b := New()
	events, err := b.Place(types.Bid, types.Limit, 100, 10, alice, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, types.EventKindPlaced, events[0].Kind)

	bid, ok := b.BestBid()
	require.True(t, ok)
	require.Equal(t, uint64(100), bid)
}

// Mirrors the canonical "limit crossing immediate exec" scenario: a resting
// bid at 3_400_000 for 1_000_000, then an incoming ask at 3_300_000 for
// 700_000 executes immediately at the maker's price, leaving the bid with
// 300_000 remaining.
func TestLimitCrossingImmediateExec(t *testing.T) {
	b := New()
	_, err := b.Place(types.Bid, types.Limit, 3_400_000, 1_000_000, alice, 1)
	require.NoError(t, err)

	events, err := b.Place(types.Ask, types.Limit, 3_300_000, 700_000, bob, 1)
	require.NoError(t, err)

	require.Len(t, events, 3) // Placed, Trade, Done(taker fully filled)
	require.Equal(t, types.EventKindPlaced, events[0].Kind)

	require.Equal(t, types.EventKindTrade, events[1].Kind)
	trade := events[1].Trade
	require.Equal(t, uint64(3_400_000), trade.Price)
	require.Equal(t, uint64(700_000), trade.Qty)
	require.Equal(t, types.Ask, trade.OriginSide)

	require.Equal(t, types.EventKindDone, events[2].Kind)

	bid, ok := b.BestBid()
	require.True(t, ok)
	require.Equal(t, uint64(3_400_000), bid)

	levels := b.BidLevels()
	require.Len(t, levels, 1)
	require.Equal(t, uint64(300_000), levels[0].Qty)
}

func TestMakerFullyFilledEmitsDoneAndClearsLevel(t *testing.T) {
	b := New()
	_, err := b.Place(types.Ask, types.Limit, 100, 10, alice, 1)
	require.NoError(t, err)

	events, err := b.Place(types.Bid, types.Limit, 100, 10, bob, 1)
	require.NoError(t, err)

	var doneIDs []uint64
	for _, e := range events {
		if e.Kind == types.EventKindDone {
			doneIDs = append(doneIDs, e.Done.ID)
		}
	}
	require.Len(t, doneIDs, 2) // maker done, taker done

	_, ok := b.BestAsk()
	require.False(t, ok)
}

func TestUnfilledMarketOrderCancels(t *testing.T) {
	b := New()
	events, err := b.Place(types.Ask, types.Market, 0, 50, alice, 1)
	require.NoError(t, err)

	require.Equal(t, types.EventKindPlaced, events[0].Kind)
	require.Equal(t, types.EventKindCancelled, events[1].Kind)
	require.Equal(t, "unfilled_market", events[1].Cancelled.Reason)
}

func TestCancelRemovesRestingOrder(t *testing.T) {
	b := New()
	_, err := b.Place(types.Bid, types.Limit, 100, 10, alice, 1)
	require.NoError(t, err)

	events, ok := b.Cancel(types.Bid, 1, alice)
	require.True(t, ok)
	require.Len(t, events, 1)
	require.Equal(t, "by_user", events[0].Cancelled.Reason)

	_, ok = b.BestBid()
	require.False(t, ok)
}

func TestCancelUnknownIDFails(t *testing.T) {
	b := New()
	_, ok := b.Cancel(types.Bid, 99, alice)
	require.False(t, ok)
}

func TestFIFOWithinPriceLevel(t *testing.T) {
	b := New()
	_, err := b.Place(types.Ask, types.Limit, 100, 5, alice, 1)
	require.NoError(t, err)
	_, err = b.Place(types.Ask, types.Limit, 100, 5, bob, 1)
	require.NoError(t, err)

	events, err := b.Place(types.Bid, types.Limit, 100, 5, alice, 2)
	require.NoError(t, err)

	var trade *types.TradeEvent
	for _, e := range events {
		if e.Kind == types.EventKindTrade {
			trade = e.Trade
		}
	}
	require.NotNil(t, trade)
	require.Equal(t, uint64(1), trade.MakerID, "first resting order at the level must fill first")
}

func TestEncodeRLPSortsLaddersAscending(t *testing.T) {
	b := New()
	_, err := b.Place(types.Bid, types.Limit, 300, 1, alice, 1)
	require.NoError(t, err)
	_, err = b.Place(types.Bid, types.Limit, 100, 1, alice, 2)
	require.NoError(t, err)
	_, err = b.Place(types.Bid, types.Limit, 200, 1, alice, 3)
	require.NoError(t, err)

	data, err := rlp.EncodeToBytes(b)
	require.NoError(t, err)

	var wire rlpOrderBook
	require.NoError(t, rlp.DecodeBytes(data, &wire))
	require.Len(t, wire.Bids, 3)
	require.Equal(t, uint64(100), wire.Bids[0].Price)
	require.Equal(t, uint64(200), wire.Bids[1].Price)
	require.Equal(t, uint64(300), wire.Bids[2].Price)
}

func TestSpreadRequiresBothSides(t *testing.T) {
	b := New()
	_, ok := b.Spread()
	require.False(t, ok, "empty book has no spread")

	_, err := b.Place(types.Bid, types.Limit, 100, 10, alice, 1)
	require.NoError(t, err)
	_, ok = b.Spread()
	require.False(t, ok, "one-sided book has no spread")

	_, err = b.Place(types.Ask, types.Limit, 150, 10, bob, 1)
	require.NoError(t, err)
	spread, ok := b.Spread()
	require.True(t, ok)
	require.Equal(t, uint64(50), spread)
}

func TestPriceQuantityAtSumsBothSides(t *testing.T) {
	b := New()
	_, err := b.Place(types.Bid, types.Limit, 100, 10, alice, 1)
	require.NoError(t, err)
	_, err = b.Place(types.Ask, types.Limit, 100, 5, bob, 1)
	require.NoError(t, err)

	require.Equal(t, uint64(15), b.PriceQuantityAt(100))
	require.Equal(t, uint64(0), b.PriceQuantityAt(999))
}

// A zero limit price is only invalid for a Bid: an Ask may legitimately quote
// a zero price (e.g. a give-away order), mirroring the original Rust's
// assert!(price>0) guard, which fires only inside the Bid branch.
func TestZeroPriceAllowedForAskRejectedForBid(t *testing.T) {
	b := New()
	_, err := b.Place(types.Ask, types.Limit, 0, 10, alice, 1)
	require.NoError(t, err)

	_, err = b.Place(types.Bid, types.Limit, 0, 10, bob, 1)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := New()
	_, err := b.Place(types.Bid, types.Limit, 100, 10, alice, 1)
	require.NoError(t, err)
	_, err = b.Place(types.Ask, types.Limit, 200, 5, bob, 1)
	require.NoError(t, err)

	mem := store.NewMemStore()
	require.NoError(t, Save(mem, b))

	got, err := Load(mem)
	require.NoError(t, err)
	require.Equal(t, b.BidLevels(), got.BidLevels())
	require.Equal(t, b.AskLevels(), got.AskLevels())

	bid, _ := got.BestBid()
	require.Equal(t, uint64(100), bid)
	ask, _ := got.BestAsk()
	require.Equal(t, uint64(200), ask)
}
