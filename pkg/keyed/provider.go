package keyed

import (
	"errors"
	"fmt"
	"sort"
)

// Engine applies a keyed cipher transformation to exactly one message. An
// engine is bound to one key, one IV and one direction at construction and
// must be discarded afterwards; a second Transform returns ErrEngineConsumed.
type Engine interface {
	// Transform encrypts or decrypts the whole message, depending on the
	// direction the engine was constructed with.
	Transform(message []byte) ([]byte, error)
}

// Provider is the capability contract implemented once per algorithm.
//
// The two cipher constructors differ only in where the IV comes from, so
// they carry distinct names: Cipher binds to an external IV (typically one
// recovered from a framed stream), FreshCipher seals a new message under a
// provider-generated IV.
type Provider interface {
	// Cipher returns an engine bound to the caller-supplied IV, for either
	// direction. The IV must have the length required by method. Fails with
	// ErrUnsupportedMethod, ErrInvalidKey or ErrInvalidIV.
	Cipher(method EncryptionMethod, key, iv []byte, encrypt bool) (Engine, error)

	// FreshCipher generates a new IV and returns it alongside an engine bound
	// to it. The IV is part of the return value so it can be framed into the
	// output; it is never discarded. Only encryption is permitted:
	// encrypt=false fails with ErrDecryptionRequiresIV.
	FreshCipher(method EncryptionMethod, key []byte, encrypt bool) (Engine, []byte, error)

	// GenerateIV returns a fresh IV of the algorithm's default length from a
	// cryptographically secure source. Each call is independent, and the IV
	// is never derived from the key or any other deterministic input.
	GenerateIV() ([]byte, error)

	// MaxIVLength is the largest IV this provider reads back from a framed
	// stream.
	MaxIVLength() int
}

var providers = map[string]Provider{
	"AES": NewAESProvider(),
}

// Register adds a provider for a custom algorithm name. Registration is
// meant for program initialization and is not synchronized with lookups.
func Register(algorithm string, p Provider) error {
	if algorithm == "" {
		return errors.New("algorithm name cannot be empty")
	}

	if p == nil {
		return errors.New("provider cannot be nil")
	}

	if _, ok := providers[algorithm]; ok {
		return fmt.Errorf("algorithm %q already registered", algorithm)
	}

	providers[algorithm] = p

	return nil
}

// SupportedAlgorithms returns the registered algorithm names, sorted.
func SupportedAlgorithms() []string {
	list := make([]string, 0, len(providers))
	for name := range providers {
		list = append(list, name)
	}

	sort.Strings(list)

	return list
}

// For returns the provider registered for the method's algorithm.
func For(method EncryptionMethod) (Provider, error) {
	p, ok := providers[method.Algorithm()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	return p, nil
}
