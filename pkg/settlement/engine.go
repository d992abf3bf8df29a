// Package settlement is the heart of the matching/settlement engine: it
// dispatches one signed external message at a time to the order book and
// account state, charging fees and reserving/refunding balances along the
// way, and hands the resulting event stream to an EventSink in strict
// emission order.
package settlement

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tradezlabs/tradez/pkg/account"
	"github.com/tradezlabs/tradez/pkg/orderbook"
	"github.com/tradezlabs/tradez/pkg/store"
	"github.com/tradezlabs/tradez/pkg/txenvelope"
	"github.com/tradezlabs/tradez/pkg/txerr"
	"github.com/tradezlabs/tradez/pkg/types"
)

// EventSink receives the events produced by one accepted message, in
// program order.
type EventSink interface {
	Emit(events []types.Event)
}

// NopSink discards events; useful in tests that only assert on balances.
type NopSink struct{}

func (NopSink) Emit([]types.Event) {}

// Engine applies external messages against the durable store. One Engine
// call handles exactly one message: it loads the order book once, mutates
// in-memory state, then writes the book and every touched account back
// before returning.
type Engine struct {
	st     store.Store
	sink   EventSink
	logger *zap.SugaredLogger
}

func NewEngine(st store.Store, sink EventSink, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{st: st, sink: sink, logger: logger}
}

// HandleExternal decodes, authenticates, and applies one signed message. A
// rejected message returns a non-nil error and leaves all persisted state
// untouched.
func (e *Engine) HandleExternal(raw []byte) error {
	msg, caller, err := txenvelope.Decode(raw)
	if err != nil {
		e.logger.Warnw("rejected message", "cause", err)
		return err
	}

	ob, err := orderbook.Load(e.st)
	if err != nil {
		return errors.Wrap(txerr.ErrStoreIO, err.Error())
	}
	cache := newAccountCache(e.st)

	var events []types.Event
	switch msg.Kind {
	case types.MessageKindPlaceOrder:
		events, err = e.applyPlaceOrder(ob, cache, caller, msg.PlaceOrder)
	case types.MessageKindCancelOrder:
		events, err = e.applyCancelOrder(ob, cache, caller, msg.CancelOrder)
	case types.MessageKindFaucet:
		events, err = e.applyFaucet(cache, caller, msg.Faucet)
	default:
		err = errors.Wrap(txerr.ErrCodec, "unknown message kind")
	}
	if err != nil {
		e.logger.Warnw("rejected message", "kind", msg.Kind, "caller", caller, "cause", err)
		return err
	}

	if err := orderbook.Save(e.st, ob); err != nil {
		return errors.Wrap(txerr.ErrStoreIO, err.Error())
	}
	if err := cache.flush(); err != nil {
		return errors.Wrap(txerr.ErrStoreIO, err.Error())
	}

	e.sink.Emit(events)
	return nil
}

func (e *Engine) applyPlaceOrder(ob *orderbook.OrderBook, cache *accountCache, caller common.Address, order *types.APIOrder) ([]types.Event, error) {
	if order.Size == 0 {
		return nil, errors.Wrap(txerr.ErrPrecondition, "qty must be > 0")
	}
	if order.Side == types.Bid && order.Price == 0 {
		return nil, errors.Wrap(txerr.ErrPrecondition, "limit price must be > 0")
	}

	acc, err := cache.get(caller)
	if err != nil {
		return nil, errors.Wrap(txerr.ErrStoreIO, err.Error())
	}

	reserveCurrency, reserveAmount, err := reservationFor(order.Side, order.Size, order.Price)
	if err != nil {
		return nil, err
	}
	// The placer is charged only the principal up front; the rejection
	// check additionally covers the fee floor the taker side will later
	// collect, so a balance exactly at the principal but short of
	// principal+fee is correctly rejected.
	fee := TradingFee(reserveAmount)
	total := reserveAmount + fee
	if total < reserveAmount {
		return nil, errors.Wrap(txerr.ErrOverflow, "reservation overflow")
	}
	if acc.Balance(reserveCurrency) < total {
		return nil, errors.Wrap(txerr.ErrPrecondition, "insufficient balance")
	}
	acc.Balances[reserveCurrency] -= reserveAmount
	acc.Nonce++

	events, err := ob.Place(order.Side, types.Limit, order.Price, order.Size, caller, order.Nonce)
	if err != nil {
		acc.Balances[reserveCurrency] += reserveAmount
		acc.Nonce--
		return nil, errors.Wrap(txerr.ErrPrecondition, err.Error())
	}

	placedID := events[0].Placed.ID
	takerDone := false

	for _, ev := range events[1:] {
		switch ev.Kind {
		case types.EventKindTrade:
			if err := e.settleTrade(cache, order, ev.Trade); err != nil {
				return nil, err
			}
		case types.EventKindDone:
			if ev.Done.ID == placedID {
				takerDone = true
				continue
			}
			makerAcc, err := cache.get(ev.Done.User)
			if err != nil {
				return nil, errors.Wrap(txerr.ErrStoreIO, err.Error())
			}
			delete(makerAcc.Orders, ev.Done.ID)
		}
	}

	if !takerDone {
		acc.Orders[placedID] = struct{}{}
	}

	return events, nil
}

// reservationFor returns the currency and amount a new order must lock
// before it can be placed: quote-asset notional for a bid, base-asset
// quantity for an ask.
func reservationFor(side types.Side, qty, price uint64) (types.Currency, uint64, error) {
	if side == types.Bid {
		notional, err := Notional(qty, price)
		if err != nil {
			return 0, 0, err
		}
		return types.USDC, notional, nil
	}
	return types.XTZ, qty, nil
}

// settleTrade applies the balance effects of one fill. Execution always
// happens at the maker's own resting price, so the maker's reservation
// (made when the maker's order was originally placed) is always exactly
// consumed and never needs a true-up. Only the taker — whose order is the
// one `order` being placed in this very call — can receive a price
// improvement refund, computed against its own limit price.
func (e *Engine) settleTrade(cache *accountCache, takerOrder *types.APIOrder, trade *types.TradeEvent) error {
	actualNotional, err := Notional(trade.Qty, trade.Price)
	if err != nil {
		return err
	}

	var buyer, seller common.Address
	if trade.OriginSide == types.Bid {
		buyer, seller = trade.TakerUser, trade.MakerUser
	} else {
		buyer, seller = trade.MakerUser, trade.TakerUser
	}

	buyerAcc, err := cache.get(buyer)
	if err != nil {
		return errors.Wrap(txerr.ErrStoreIO, err.Error())
	}
	sellerAcc, err := cache.get(seller)
	if err != nil {
		return errors.Wrap(txerr.ErrStoreIO, err.Error())
	}

	buyerAcc.Balances[types.XTZ] += trade.Qty

	if trade.OriginSide == types.Bid {
		// Buyer is this call's taker: refund the slack between what was
		// reserved at its own limit price and what the trade actually cost,
		// then charge the taker fee against the quote asset it just spent.
		reserved, err := Notional(trade.Qty, takerOrder.Price)
		if err != nil {
			return err
		}
		refund := reserved - actualNotional
		fee := TradingFee(actualNotional)
		e.applyNet(buyerAcc, types.USDC, int64(refund)-int64(fee))
		sellerAcc.Balances[types.USDC] += actualNotional
	} else {
		// Seller is this call's taker: full proceeds are credited, and its
		// taker fee is charged against the base asset it just sold.
		sellerAcc.Balances[types.USDC] += actualNotional
		fee := TradingFee(trade.Qty)
		e.applyNet(sellerAcc, types.XTZ, -int64(fee))
	}

	return nil
}

// applyNet applies a signed delta to one of an account's currency balances,
// clamping at zero and logging a warning rather than failing the whole
// message if the account's balance cannot fully cover a negative delta.
// This arises when a Bid taker's fee exceeds its price-improvement refund
// and its USDC cannot cover the difference, or when an Ask taker's XTZ
// cannot cover its fee.
func (e *Engine) applyNet(acc *account.Account, currency types.Currency, delta int64) {
	if delta >= 0 {
		acc.Balances[currency] += uint64(delta)
		return
	}
	owed := uint64(-delta)
	if acc.Balances[currency] < owed {
		e.logger.Warnw("best-effort fee debit exceeds balance, clamping to zero",
			"address", acc.Address, "currency", currency, "owed", owed, "balance", acc.Balances[currency])
		acc.Balances[currency] = 0
		return
	}
	acc.Balances[currency] -= owed
}

func (e *Engine) applyCancelOrder(ob *orderbook.OrderBook, cache *accountCache, caller common.Address, c *types.CancelOrder) ([]types.Event, error) {
	order, ok := ob.GetOrder(c.OrderID)
	if !ok {
		return nil, errors.Wrap(txerr.ErrPrecondition, "unknown order")
	}
	if order.User != caller {
		return nil, errors.Wrap(txerr.ErrPrecondition, "not the order owner")
	}

	events, ok := ob.Cancel(order.Side, c.OrderID, caller)
	if !ok {
		return nil, errors.Wrap(txerr.ErrPrecondition, "order already gone")
	}

	acc, err := cache.get(caller)
	if err != nil {
		return nil, errors.Wrap(txerr.ErrStoreIO, err.Error())
	}
	delete(acc.Orders, c.OrderID)

	if order.Side == types.Bid {
		refund, err := Notional(order.Remaining, order.Price)
		if err != nil {
			return nil, err
		}
		acc.Balances[types.USDC] += refund
	} else {
		acc.Balances[types.XTZ] += order.Remaining
	}

	return events, nil
}

func (e *Engine) applyFaucet(cache *accountCache, caller common.Address, f *types.Faucet) ([]types.Event, error) {
	acc, err := cache.get(caller)
	if err != nil {
		return nil, errors.Wrap(txerr.ErrStoreIO, err.Error())
	}
	sum := acc.Balances[f.Currency] + f.Amount
	if sum < acc.Balances[f.Currency] {
		return nil, errors.Wrap(txerr.ErrOverflow, "faucet balance overflow")
	}
	acc.Balances[f.Currency] = sum
	return nil, nil
}
