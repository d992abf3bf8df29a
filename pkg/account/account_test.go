package account

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/tradezlabs/tradez/pkg/store"
	"github.com/tradezlabs/tradez/pkg/types"
)

func TestLoadMissingAccountIsNilNotError(t *testing.T) {
	st := store.NewMemStore()
	acc, err := Load(st, common.Address{1})
	require.NoError(t, err)
	require.Nil(t, acc)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := store.NewMemStore()
	addr := common.Address{42}

	acc := New(addr)
	acc.Nonce = 3
	acc.Balances[types.USDC] = 1_000_000
	acc.Balances[types.XTZ] = 500_000
	acc.Orders[1] = struct{}{}
	acc.Orders[7] = struct{}{}

	require.NoError(t, Save(st, acc))

	got, err := Load(st, addr)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, addr, got.Address)
	require.Equal(t, uint64(3), got.Nonce)
	require.Equal(t, uint64(1_000_000), got.Balance(types.USDC))
	require.Equal(t, uint64(500_000), got.Balance(types.XTZ))
	require.Len(t, got.Orders, 2)
	_, hasOne := got.Orders[1]
	_, hasSeven := got.Orders[7]
	require.True(t, hasOne)
	require.True(t, hasSeven)
}
