package types

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// EventKind is the fixed RLP discriminant for an Event variant. These tags
// are part of the wire format and must never be reassigned.
type EventKind uint8

const (
	EventKindPlaced    EventKind = 0
	EventKindTrade     EventKind = 1
	EventKindDone      EventKind = 2
	EventKindCancelled EventKind = 3
)

// Event is the sum type emitted, in program order, for every accepted
// PlaceOrder/CancelOrder message. Exactly one of the embedded pointers is
// non-nil; callers switch on Kind.
type Event struct {
	Kind      EventKind
	Placed    *PlacedEvent
	Trade     *TradeEvent
	Done      *DoneEvent
	Cancelled *CancelledEvent
}

type PlacedEvent struct {
	ID    uint64
	User  common.Address
	Side  Side
	Price uint64
	Qty   uint64
}

type TradeEvent struct {
	MakerID    uint64
	MakerUser  common.Address
	TakerID    uint64
	TakerUser  common.Address
	Price      uint64
	Qty        uint64
	OriginSide Side
}

type DoneEvent struct {
	User common.Address
	ID   uint64
}

type CancelledEvent struct {
	ID     uint64
	User   common.Address
	Reason string
}

func NewPlacedEvent(e PlacedEvent) Event       { return Event{Kind: EventKindPlaced, Placed: &e} }
func NewTradeEvent(e TradeEvent) Event         { return Event{Kind: EventKindTrade, Trade: &e} }
func NewDoneEvent(e DoneEvent) Event           { return Event{Kind: EventKindDone, Done: &e} }
func NewCancelledEvent(e CancelledEvent) Event { return Event{Kind: EventKindCancelled, Cancelled: &e} }

// EncodeRLP implements rlp.Encoder. Each variant is a flat list with the
// discriminant as its first element.
func (e Event) EncodeRLP(w io.Writer) error {
	switch e.Kind {
	case EventKindPlaced:
		p := e.Placed
		return rlp.Encode(w, []interface{}{uint8(EventKindPlaced), p.ID, p.User, uint8(p.Side), p.Price, p.Qty})
	case EventKindTrade:
		t := e.Trade
		return rlp.Encode(w, []interface{}{
			uint8(EventKindTrade), t.MakerID, t.MakerUser, t.TakerID, t.TakerUser,
			t.Price, t.Qty, uint8(t.OriginSide),
		})
	case EventKindDone:
		d := e.Done
		return rlp.Encode(w, []interface{}{uint8(EventKindDone), d.User, d.ID})
	case EventKindCancelled:
		c := e.Cancelled
		return rlp.Encode(w, []interface{}{uint8(EventKindCancelled), c.ID, c.User, c.Reason})
	default:
		return fmt.Errorf("types: unknown event kind %d", e.Kind)
	}
}

// DecodeRLP implements rlp.Decoder.
func (e *Event) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	var kind uint8
	if err := s.Decode(&kind); err != nil {
		return err
	}
	switch EventKind(kind) {
	case EventKindPlaced:
		var p PlacedEvent
		var side uint8
		if err := s.Decode(&p.ID); err != nil {
			return err
		}
		if err := s.Decode(&p.User); err != nil {
			return err
		}
		if err := s.Decode(&side); err != nil {
			return err
		}
		p.Side = Side(side)
		if err := s.Decode(&p.Price); err != nil {
			return err
		}
		if err := s.Decode(&p.Qty); err != nil {
			return err
		}
		*e = NewPlacedEvent(p)
	case EventKindTrade:
		var t TradeEvent
		var origin uint8
		if err := s.Decode(&t.MakerID); err != nil {
			return err
		}
		if err := s.Decode(&t.MakerUser); err != nil {
			return err
		}
		if err := s.Decode(&t.TakerID); err != nil {
			return err
		}
		if err := s.Decode(&t.TakerUser); err != nil {
			return err
		}
		if err := s.Decode(&t.Price); err != nil {
			return err
		}
		if err := s.Decode(&t.Qty); err != nil {
			return err
		}
		if err := s.Decode(&origin); err != nil {
			return err
		}
		t.OriginSide = Side(origin)
		*e = NewTradeEvent(t)
	case EventKindDone:
		var d DoneEvent
		if err := s.Decode(&d.User); err != nil {
			return err
		}
		if err := s.Decode(&d.ID); err != nil {
			return err
		}
		*e = NewDoneEvent(d)
	case EventKindCancelled:
		var c CancelledEvent
		if err := s.Decode(&c.ID); err != nil {
			return err
		}
		if err := s.Decode(&c.User); err != nil {
			return err
		}
		if err := s.Decode(&c.Reason); err != nil {
			return err
		}
		*e = NewCancelledEvent(c)
	default:
		return fmt.Errorf("types: unknown event tag %d", kind)
	}
	return s.ListEnd()
}
