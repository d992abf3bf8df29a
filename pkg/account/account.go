// Package account implements the per-user balance and open-order-set state
// that the settlement engine reads and writes for every signed message.
package account

import (
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tradezlabs/tradez/pkg/codec"
	"github.com/tradezlabs/tradez/pkg/store"
	"github.com/tradezlabs/tradez/pkg/types"
)

// Account holds one user's settlement state: currency balances, the
// replay-informational nonce, and the set of order IDs currently resting in
// the book on the user's behalf.
type Account struct {
	Address  common.Address
	Nonce    uint64
	Balances map[types.Currency]uint64
	Orders   map[uint64]struct{}
}

// New returns a zero-balance account for addr.
func New(addr common.Address) *Account {
	return &Account{
		Address:  addr,
		Balances: make(map[types.Currency]uint64),
		Orders:   make(map[uint64]struct{}),
	}
}

// Balance returns the account's balance of c, zero if none is held.
func (a *Account) Balance(c types.Currency) uint64 {
	return a.Balances[c]
}

// rlpAccount is the wire shape of Account: balances and orders flattened
// from maps into canonically sorted (key, value) lists, matching the
// account persistence format.
type rlpAccount struct {
	Address  common.Address
	Nonce    uint64
	Balances []balancePair
	Orders   []uint64
}

type balancePair struct {
	Currency types.Currency
	Amount   uint64
}

// EncodeRLP implements rlp.Encoder.
func (a *Account) EncodeRLP(w io.Writer) error {
	pairs := make([]balancePair, 0, len(a.Balances))
	for _, c := range codec.SortedKeys(a.Balances) {
		pairs = append(pairs, balancePair{Currency: c, Amount: a.Balances[c]})
	}

	orders := codec.SortedKeys(a.Orders)

	return rlp.Encode(w, rlpAccount{
		Address:  a.Address,
		Nonce:    a.Nonce,
		Balances: pairs,
		Orders:   orders,
	})
}

// DecodeRLP implements rlp.Decoder.
func (a *Account) DecodeRLP(s *rlp.Stream) error {
	var wire rlpAccount
	if err := s.Decode(&wire); err != nil {
		return err
	}
	a.Address = wire.Address
	a.Nonce = wire.Nonce
	a.Balances = make(map[types.Currency]uint64, len(wire.Balances))
	for _, p := range wire.Balances {
		a.Balances[p.Currency] = p.Amount
	}
	a.Orders = make(map[uint64]struct{}, len(wire.Orders))
	for _, id := range wire.Orders {
		a.Orders[id] = struct{}{}
	}
	return nil
}

// Load reads addr's account from st. It returns (nil, nil) if no account has
// ever been saved for addr — absence is not an error.
func Load(st store.Store, addr common.Address) (*Account, error) {
	data, err := st.ReadAll(pathFor(addr))
	if err == store.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	acc := New(addr)
	if err := rlp.DecodeBytes(data, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Save persists a to its canonical path in st.
func Save(st store.Store, a *Account) error {
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return st.WriteAll(pathFor(a.Address), data)
}
