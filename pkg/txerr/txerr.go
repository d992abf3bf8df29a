// Package txerr defines the rejection-cause sentinels external messages can
// fail with. A rejection never mutates persisted state; the sentinel only
// classifies why for logging (see pkg/settlement).
package txerr

import "errors"

var (
	// ErrCodec means the raw bytes did not decode as a SignedInput<KernelMessage>.
	ErrCodec = errors.New("txerr: malformed message encoding")
	// ErrAuth means signer recovery from the signature failed.
	ErrAuth = errors.New("txerr: signature verification failed")
	// ErrPrecondition means a business-logic precondition was not met
	// (insufficient balance, unknown order, wrong owner, zero qty, ...).
	ErrPrecondition = errors.New("txerr: precondition failed")
	// ErrOverflow means a 64-bit arithmetic computation would have overflowed.
	ErrOverflow = errors.New("txerr: arithmetic overflow")
	// ErrStoreIO means the durable store returned an unexpected I/O error.
	ErrStoreIO = errors.New("txerr: store I/O error")
)
