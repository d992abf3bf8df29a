package settlement

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotionalFloorsDown(t *testing.T) {
	n, err := Notional(3, 1_999_999) // 5_999_997 / 1_000_000 = 5.999997
	require.NoError(t, err)
	require.Equal(t, uint64(5), n)
}

func TestNotionalOverflowDetected(t *testing.T) {
	_, err := Notional(^uint64(0), ^uint64(0))
	require.Error(t, err)
}

func TestTradingFeeFloorsAtOneWhenPositive(t *testing.T) {
	require.Equal(t, uint64(0), TradingFee(0))
	require.Equal(t, uint64(1), TradingFee(1))
	require.Equal(t, uint64(1), TradingFee(999))
	require.Equal(t, uint64(1), TradingFee(1999))
	require.Equal(t, uint64(2), TradingFee(2000))

	// The bug this must never regress to: min(1, notional/1000) would give
	// fee=0 for any notional below 1000, i.e. charge nothing on small trades.
	require.NotEqual(t, uint64(0), TradingFee(500))
}
