package txenvelope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tradezlabs/tradez/pkg/crypto"
	"github.com/tradezlabs/tradez/pkg/types"
)

func TestEncodeDecodeRecoversSigner(t *testing.T) {
	signer, err := crypto.GenerateKey()
	require.NoError(t, err)

	msg := types.NewPlaceOrderMessage(types.APIOrder{Side: types.Bid, Size: 100, Price: 200, Nonce: 1})
	raw, err := Encode(signer, msg)
	require.NoError(t, err)

	decoded, caller, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, signer.Address(), caller)
	require.Equal(t, msg.Kind, decoded.Kind)
	require.Equal(t, *msg.PlaceOrder, *decoded.PlaceOrder)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestDecodeRejectsTamperedSignature(t *testing.T) {
	signer, err := crypto.GenerateKey()
	require.NoError(t, err)

	msg := types.NewFaucetMessage(types.Faucet{Amount: 1, Currency: types.USDC})
	raw, err := Encode(signer, msg)
	require.NoError(t, err)

	_, caller, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, signer.Address(), caller)

	// The signature is the last 65 bytes of the envelope; flip a bit of S.
	tampered := append([]byte(nil), raw...)
	tampered[len(tampered)-2] ^= 0x01
	_, caller, err = Decode(tampered)
	require.True(t, err != nil || caller != signer.Address(), "tampered signature must not recover the original signer")
}
