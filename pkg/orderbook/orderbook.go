// Package orderbook implements price-time priority matching for a single
// market: two price ladders (FIFO queues per level) with heap-backed
// best-bid/best-ask tracking, and the canonical RLP persistence of both
// ladders in ascending-price order.
package orderbook

import (
	"container/heap"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tradezlabs/tradez/pkg/codec"
	"github.com/tradezlabs/tradez/pkg/store"
	"github.com/tradezlabs/tradez/pkg/types"
)

// Path is the canonical store path the order book is persisted under.
const Path = "/tradez/order_book"

type location struct {
	side  types.Side
	price uint64
}

// OrderBook is one market's resting-order state.
type OrderBook struct {
	mu sync.Mutex

	bidHeap MaxPriceHeap
	askHeap MinPriceHeap

	bids map[uint64][]*types.Order
	asks map[uint64][]*types.Order

	orderIndex map[uint64]location

	nextID uint64
}

// New returns an empty order book.
func New() *OrderBook {
	return &OrderBook{
		bids:       make(map[uint64][]*types.Order),
		asks:       make(map[uint64][]*types.Order),
		orderIndex: make(map[uint64]location),
	}
}

func (b *OrderBook) allocID() uint64 {
	b.nextID++
	return b.nextID
}

// BestBid returns the highest resting bid price, or (0, false) if no bids
// rest in the book.
func (b *OrderBook) BestBid() (uint64, bool) { return b.bidHeap.Peek() }

// BestAsk returns the lowest resting ask price, or (0, false) if no asks
// rest in the book.
func (b *OrderBook) BestAsk() (uint64, bool) { return b.askHeap.Peek() }

// Spread returns best ask minus best bid. ok is false whenever either side
// of the book is empty.
func (b *OrderBook) Spread() (uint64, bool) {
	bid, ok := b.BestBid()
	if !ok {
		return 0, false
	}
	ask, ok := b.BestAsk()
	if !ok {
		return 0, false
	}
	return ask - bid, true
}

// PriceQuantityAt returns the total resting quantity across both sides at
// exactly price.
func (b *OrderBook) PriceQuantityAt(price uint64) uint64 {
	var qty uint64
	for _, o := range b.bids[price] {
		qty += o.Remaining
	}
	for _, o := range b.asks[price] {
		qty += o.Remaining
	}
	return qty
}

// Level is one aggregated price level: the sum of remaining quantity across
// every order resting at that price.
type Level struct {
	Price uint64
	Qty   uint64
}

// BidLevels returns resting bid levels in descending price order.
func (b *OrderBook) BidLevels() []Level {
	return aggregate(b.bids, func(a, c uint64) bool { return a > c })
}

// AskLevels returns resting ask levels in ascending price order.
func (b *OrderBook) AskLevels() []Level {
	return aggregate(b.asks, func(a, c uint64) bool { return a < c })
}

func aggregate(side map[uint64][]*types.Order, less func(a, c uint64) bool) []Level {
	levels := make([]Level, 0, len(side))
	for price, queue := range side {
		var qty uint64
		for _, o := range queue {
			qty += o.Remaining
		}
		if qty > 0 {
			levels = append(levels, Level{Price: price, Qty: qty})
		}
	}
	sort.Slice(levels, func(i, j int) bool { return less(levels[i].Price, levels[j].Price) })
	return levels
}

// GetOrder returns a copy of the resting order with id, or (nil, false).
func (b *OrderBook) GetOrder(id uint64) (*types.Order, bool) {
	loc, ok := b.orderIndex[id]
	if !ok {
		return nil, false
	}
	ladder := b.ladderFor(loc.side)
	for _, o := range ladder[loc.price] {
		if o.ID == id {
			cp := *o
			return &cp, true
		}
	}
	return nil, false
}

func (b *OrderBook) ladderFor(side types.Side) map[uint64][]*types.Order {
	if side == types.Bid {
		return b.bids
	}
	return b.asks
}

// Place submits a new limit or market order and returns the events it
// produced, in emission order: a Placed event, zero or more Trade/Done
// events for the makers it crosses, and finally either a Done (fully
// filled), nothing (limit order rests with remainder), or a Cancelled
// event (unfilled market order).
func (b *OrderBook) Place(side types.Side, ordType types.OrdType, price, qty uint64, user common.Address, nonce uint64) ([]types.Event, error) {
	if qty == 0 {
		return nil, fmt.Errorf("orderbook: qty must be > 0")
	}
	if ordType == types.Limit && side == types.Bid && price == 0 {
		return nil, fmt.Errorf("orderbook: limit price must be > 0")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.allocID()
	restPrice := price
	if ordType == types.Market {
		restPrice = 0
	}
	taker := &types.Order{
		ID:        id,
		User:      user,
		Side:      side,
		OrdType:   ordType,
		Price:     restPrice,
		Qty:       qty,
		Remaining: qty,
		Nonce:     nonce,
	}

	var events []types.Event
	events = append(events, types.NewPlacedEvent(types.PlacedEvent{
		ID: id, User: user, Side: side, Price: restPrice, Qty: qty,
	}))

	b.matchIncoming(taker, &events)

	switch {
	case taker.Remaining == 0:
		events = append(events, types.NewDoneEvent(types.DoneEvent{User: user, ID: id}))
	case ordType == types.Limit:
		b.restOrder(taker)
	default:
		events = append(events, types.NewCancelledEvent(types.CancelledEvent{
			ID: id, User: user, Reason: "unfilled_market",
		}))
	}

	return events, nil
}

func (b *OrderBook) restOrder(o *types.Order) {
	ladder := b.ladderFor(o.Side)
	if _, exists := ladder[o.Price]; !exists {
		if o.Side == types.Bid {
			heap.Push(&b.bidHeap, o.Price)
		} else {
			heap.Push(&b.askHeap, o.Price)
		}
	}
	ladder[o.Price] = append(ladder[o.Price], o)
	b.orderIndex[o.ID] = location{side: o.Side, price: o.Price}
}

// Cancel removes a resting order and returns true if it was found.
func (b *OrderBook) Cancel(side types.Side, id uint64, user common.Address) ([]types.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	loc, ok := b.orderIndex[id]
	if !ok || loc.side != side {
		return nil, false
	}
	ladder := b.ladderFor(side)
	queue := ladder[loc.price]
	idx := -1
	for i, o := range queue {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}
	queue = append(queue[:idx], queue[idx+1:]...)
	if len(queue) == 0 {
		delete(ladder, loc.price)
		b.removeLevel(side, loc.price)
	} else {
		ladder[loc.price] = queue
	}
	delete(b.orderIndex, id)

	return []types.Event{types.NewCancelledEvent(types.CancelledEvent{
		ID: id, User: user, Reason: "by_user",
	})}, true
}

func (b *OrderBook) removeLevel(side types.Side, price uint64) {
	var h heap.Interface
	var idx int = -1
	if side == types.Bid {
		for i, p := range b.bidHeap {
			if p == price {
				idx = i
				break
			}
		}
		h = &b.bidHeap
	} else {
		for i, p := range b.askHeap {
			if p == price {
				idx = i
				break
			}
		}
		h = &b.askHeap
	}
	if idx >= 0 {
		heap.Remove(h, idx)
	}
}

// matchIncoming drains opposite-side liquidity into taker until taker is
// filled or no more crossing liquidity remains.
func (b *OrderBook) matchIncoming(taker *types.Order, events *[]types.Event) {
	if taker.Side == types.Bid {
		b.consume(taker, types.Ask, &b.askHeap, events)
	} else {
		b.consume(taker, types.Bid, &b.bidHeap, events)
	}
}

func (b *OrderBook) consume(taker *types.Order, makerSide types.Side, prices heap.Interface, events *[]types.Event) {
	ladder := b.ladderFor(makerSide)
	for taker.Remaining > 0 {
		bestPrice, ok := peek(prices)
		if !ok {
			return
		}
		if taker.OrdType == types.Limit && !crosses(taker.Side, taker.Price, bestPrice) {
			return
		}

		queue := ladder[bestPrice]
		for len(queue) > 0 && taker.Remaining > 0 {
			maker := queue[0]
			execQty := min(taker.Remaining, maker.Remaining)

			taker.Remaining -= execQty
			maker.Remaining -= execQty

			*events = append(*events, types.NewTradeEvent(types.TradeEvent{
				MakerID:    maker.ID,
				MakerUser:  maker.User,
				TakerID:    taker.ID,
				TakerUser:  taker.User,
				Price:      bestPrice,
				Qty:        execQty,
				OriginSide: taker.Side,
			}))

			if maker.Remaining == 0 {
				queue = queue[1:]
				delete(b.orderIndex, maker.ID)
				*events = append(*events, types.NewDoneEvent(types.DoneEvent{User: maker.User, ID: maker.ID}))
			} else {
				break
			}
		}

		if len(queue) == 0 {
			delete(ladder, bestPrice)
			popPrice(prices)
		} else {
			ladder[bestPrice] = queue
		}
	}
}

func peek(h heap.Interface) (uint64, bool) {
	switch v := h.(type) {
	case *MaxPriceHeap:
		return v.Peek()
	case *MinPriceHeap:
		return v.Peek()
	}
	return 0, false
}

func popPrice(h heap.Interface) {
	heap.Pop(h)
}

func crosses(takerSide types.Side, takerPrice, bestOppositePrice uint64) bool {
	if takerSide == types.Bid {
		return takerPrice >= bestOppositePrice
	}
	return takerPrice <= bestOppositePrice
}

func min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// rlpLevel is one persisted price level: the price and its FIFO queue.
type rlpLevel struct {
	Price uint64
	Queue []*types.Order
}

type rlpOrderBook struct {
	Asks   []rlpLevel
	Bids   []rlpLevel
	NextID uint64
}

// EncodeRLP implements rlp.Encoder. Both ladders are serialized in
// ascending price order regardless of the in-memory heap layout.
func (b *OrderBook) EncodeRLP(w io.Writer) error {
	asks := make([]rlpLevel, 0, len(b.asks))
	for _, price := range codec.SortedKeys(b.asks) {
		asks = append(asks, rlpLevel{Price: price, Queue: b.asks[price]})
	}

	bids := make([]rlpLevel, 0, len(b.bids))
	for _, price := range codec.SortedKeys(b.bids) {
		bids = append(bids, rlpLevel{Price: price, Queue: b.bids[price]})
	}

	return rlp.Encode(w, rlpOrderBook{Asks: asks, Bids: bids, NextID: b.nextID})
}

// DecodeRLP implements rlp.Decoder.
func (b *OrderBook) DecodeRLP(s *rlp.Stream) error {
	var wire rlpOrderBook
	if err := s.Decode(&wire); err != nil {
		return err
	}
	b.asks = make(map[uint64][]*types.Order, len(wire.Asks))
	b.askHeap = b.askHeap[:0]
	for _, lvl := range wire.Asks {
		b.asks[lvl.Price] = lvl.Queue
		b.askHeap = append(b.askHeap, lvl.Price)
		for _, o := range lvl.Queue {
			b.orderIndex[o.ID] = location{side: types.Ask, price: lvl.Price}
		}
	}
	heap.Init(&b.askHeap)

	b.bids = make(map[uint64][]*types.Order, len(wire.Bids))
	b.bidHeap = b.bidHeap[:0]
	for _, lvl := range wire.Bids {
		b.bids[lvl.Price] = lvl.Queue
		b.bidHeap = append(b.bidHeap, lvl.Price)
		for _, o := range lvl.Queue {
			b.orderIndex[o.ID] = location{side: types.Bid, price: lvl.Price}
		}
	}
	heap.Init(&b.bidHeap)

	b.nextID = wire.NextID
	return nil
}

// Load reads the order book from st, returning a fresh empty book if none
// has been persisted yet.
func Load(st store.Store) (*OrderBook, error) {
	data, err := st.ReadAll(Path)
	if err == store.NotFound {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	b := New()
	if err := rlp.DecodeBytes(data, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Save persists the order book to its canonical path in st.
func Save(st store.Store, b *OrderBook) error {
	data, err := rlp.EncodeToBytes(b)
	if err != nil {
		return err
	}
	return st.WriteAll(Path, data)
}
