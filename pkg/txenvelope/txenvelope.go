// Package txenvelope decodes the external message payload — a
// SignedInput<KernelMessage> — and recovers the caller's address from its
// signature.
package txenvelope

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/tradezlabs/tradez/pkg/crypto"
	"github.com/tradezlabs/tradez/pkg/txerr"
	"github.com/tradezlabs/tradez/pkg/types"
)

// Decode parses raw as a SignedInput<KernelMessage>, recovers the signer
// over the domain-separated digest of the inner payload, and returns the
// message together with the recovered caller address.
func Decode(raw []byte) (types.KernelMessage, common.Address, error) {
	var signed types.SignedInput[types.KernelMessage]
	if err := rlp.DecodeBytes(raw, &signed); err != nil {
		return types.KernelMessage{}, common.Address{}, errors.Wrap(txerr.ErrCodec, err.Error())
	}

	payload, err := signed.Message.PayloadRLP()
	if err != nil {
		return types.KernelMessage{}, common.Address{}, errors.Wrap(txerr.ErrCodec, err.Error())
	}

	digest := crypto.DomainDigest(payload)
	caller, err := crypto.RecoverAddress(digest, signed.Signature[:])
	if err != nil {
		return types.KernelMessage{}, common.Address{}, errors.Wrap(txerr.ErrAuth, err.Error())
	}

	return signed.Message, caller, nil
}

// Encode wraps message in a SignedInput signed by signer, suitable for
// submission to the sequencer. It is the inverse of Decode and is used by
// cmd/wallet and by tests.
func Encode(signer *crypto.Signer, message types.KernelMessage) ([]byte, error) {
	payload, err := message.PayloadRLP()
	if err != nil {
		return nil, err
	}
	digest := crypto.DomainDigest(payload)
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	var sigArr [65]byte
	copy(sigArr[:], sig)

	signed := types.NewSignedInput(message, sigArr)
	return rlp.EncodeToBytes(&signed)
}
