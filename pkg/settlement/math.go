package settlement

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/tradezlabs/tradez/pkg/txerr"
)

// Decimals is the fixed-point scale shared by price and quantity: one unit
// of price or quantity equals 1/Decimals of the quoted asset.
const Decimals = 1_000_000

// Notional computes floor(qty*price/Decimals), detecting 64-bit overflow of
// the intermediate product via a 128-bit multiply.
func Notional(qty, price uint64) (uint64, error) {
	hi, lo := bits.Mul64(qty, price)
	if hi >= Decimals {
		// bits.Div64 would panic on a quotient overflow; guard explicitly.
		return 0, errors.Wrap(txerr.ErrOverflow, "notional overflow")
	}
	q, _ := bits.Div64(hi, lo, Decimals)
	return q, nil
}

// TradingFee applies the spec's fee floor: 0.1% of notional, rounded down,
// with a minimum fee of 1 unit whenever notional is positive. This must
// never be implemented as min(1, notional/1000) — that earlier revision
// charged zero fee on any notional below 1000 units.
func TradingFee(notional uint64) uint64 {
	if notional == 0 {
		return 0
	}
	fee := notional / 1000
	if fee < 1 {
		return 1
	}
	return fee
}
