package types

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// APIOrder is the payload of a PlaceOrder kernel message.
type APIOrder struct {
	Side  Side
	Size  uint64
	Price uint64
	Nonce uint64
}

// CancelOrder is the payload of a CancelOrder kernel message.
type CancelOrder struct {
	OrderID uint64
}

// Faucet is the payload of a Faucet kernel message.
type Faucet struct {
	Amount   uint64
	Currency Currency
}

// MessageKind is the fixed RLP discriminant for a KernelMessage variant.
type MessageKind uint8

const (
	MessageKindPlaceOrder  MessageKind = 0
	MessageKindCancelOrder MessageKind = 1
	MessageKindFaucet      MessageKind = 2
)

// KernelMessage is the sum type carried inside a SignedInput. Exactly one of
// the embedded pointers is non-nil.
type KernelMessage struct {
	Kind        MessageKind
	PlaceOrder  *APIOrder
	CancelOrder *CancelOrder
	Faucet      *Faucet
}

func NewPlaceOrderMessage(o APIOrder) KernelMessage {
	return KernelMessage{Kind: MessageKindPlaceOrder, PlaceOrder: &o}
}

func NewCancelOrderMessage(c CancelOrder) KernelMessage {
	return KernelMessage{Kind: MessageKindCancelOrder, CancelOrder: &c}
}

func NewFaucetMessage(f Faucet) KernelMessage {
	return KernelMessage{Kind: MessageKindFaucet, Faucet: &f}
}

// PayloadRLP returns the canonical RLP encoding of the inner payload alone,
// without the KernelMessage discriminant. This is the byte string that gets
// domain-separated and hashed for signing (see pkg/crypto and
// pkg/txenvelope) — never the wrapping tag.
func (m KernelMessage) PayloadRLP() ([]byte, error) {
	switch m.Kind {
	case MessageKindPlaceOrder:
		return rlp.EncodeToBytes(m.PlaceOrder)
	case MessageKindCancelOrder:
		return rlp.EncodeToBytes(m.CancelOrder)
	case MessageKindFaucet:
		return rlp.EncodeToBytes(m.Faucet)
	default:
		return nil, fmt.Errorf("types: unknown message kind %d", m.Kind)
	}
}

// EncodeRLP implements rlp.Encoder.
func (m KernelMessage) EncodeRLP(w io.Writer) error {
	switch m.Kind {
	case MessageKindPlaceOrder:
		return rlp.Encode(w, []interface{}{uint8(MessageKindPlaceOrder), m.PlaceOrder})
	case MessageKindCancelOrder:
		return rlp.Encode(w, []interface{}{uint8(MessageKindCancelOrder), m.CancelOrder})
	case MessageKindFaucet:
		return rlp.Encode(w, []interface{}{uint8(MessageKindFaucet), m.Faucet})
	default:
		return fmt.Errorf("types: unknown message kind %d", m.Kind)
	}
}

// DecodeRLP implements rlp.Decoder.
func (m *KernelMessage) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	var kind uint8
	if err := s.Decode(&kind); err != nil {
		return err
	}
	switch MessageKind(kind) {
	case MessageKindPlaceOrder:
		var o APIOrder
		if err := s.Decode(&o); err != nil {
			return err
		}
		*m = NewPlaceOrderMessage(o)
	case MessageKindCancelOrder:
		var c CancelOrder
		if err := s.Decode(&c); err != nil {
			return err
		}
		*m = NewCancelOrderMessage(c)
	case MessageKindFaucet:
		var f Faucet
		if err := s.Decode(&f); err != nil {
			return err
		}
		*m = NewFaucetMessage(f)
	default:
		return fmt.Errorf("types: unknown message tag %d", kind)
	}
	return s.ListEnd()
}
