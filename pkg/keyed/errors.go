package keyed

import "errors"

var (
	// ErrUnsupportedMethod is returned when no provider handles the requested
	// encryption method.
	ErrUnsupportedMethod = errors.New("encryption method not supported")
	// ErrInvalidKey is returned when the key material does not fit the method.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidIV is returned when the IV length does not fit the method.
	ErrInvalidIV = errors.New("invalid IV")
	// ErrDecryptionRequiresIV is returned when a fresh-IV cipher is requested
	// for decryption. The IV must match the one used at encryption time, so a
	// randomly generated one cannot be meaningful.
	ErrDecryptionRequiresIV = errors.New("decryption requires an explicit IV")
	// ErrEngineConsumed is returned when a single-use engine is asked to
	// process a second message.
	ErrEngineConsumed = errors.New("cipher engine already consumed")

	// ErrEmptyData is returned when attempting to unpad empty input data.
	ErrEmptyData = errors.New("empty data")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when ciphertext length is not aligned
	// with the cipher block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")
)
