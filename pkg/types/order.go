package types

import "github.com/ethereum/go-ethereum/common"

// Order is a resting or in-flight book entry. Price and Qty are in
// microunits (DECIMALS = 1_000_000); Price is ignored (encoded as zero) for
// market orders.
type Order struct {
	ID        uint64
	User      common.Address
	Side      Side
	OrdType   OrdType
	Price     uint64
	Qty       uint64
	Remaining uint64
	Nonce     uint64
}

// Done reports whether the order has no remaining quantity left to match.
func (o *Order) Done() bool {
	return o.Remaining == 0
}
