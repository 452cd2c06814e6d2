package keyed

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// AESProvider implements Provider for AES in CBC, CTR and GCM modes. The
// zero value is ready to use; it carries no state between calls.
type AESProvider struct{}

// NewAESProvider returns the AES provider registered under algorithm "AES".
func NewAESProvider() *AESProvider {
	return &AESProvider{}
}

// Cipher returns a single-use engine bound to the caller-supplied IV.
func (p *AESProvider) Cipher(method EncryptionMethod, key, iv []byte, encrypt bool) (Engine, error) {
	block, err := newAESBlock(method, key)
	if err != nil {
		return nil, err
	}

	if len(iv) != method.IVSize() {
		return nil, fmt.Errorf("%w: %s requires a %d-byte IV, got %d",
			ErrInvalidIV, method, method.IVSize(), len(iv))
	}

	switch method {
	case AESCBC:
		return &cbcEngine{block: block, iv: bytes.Clone(iv), encrypt: encrypt}, nil

	case AESCTR:
		return &ctrEngine{stream: cipher.NewCTR(block, iv)}, nil

	case AESGCM:
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("creating GCM: %w", err)
		}

		return &gcmEngine{aead: aead, iv: bytes.Clone(iv), encrypt: encrypt}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
}

// FreshCipher generates a method-sized IV and returns it with an engine
// bound to it. Decryption is rejected with ErrDecryptionRequiresIV.
func (p *AESProvider) FreshCipher(method EncryptionMethod, key []byte, encrypt bool) (Engine, []byte, error) {
	if !encrypt {
		return nil, nil, ErrDecryptionRequiresIV
	}

	size := method.IVSize()
	if size == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	iv, err := randomBytes(size)
	if err != nil {
		return nil, nil, err
	}

	engine, err := p.Cipher(method, key, iv, true)
	if err != nil {
		return nil, nil, err
	}

	return engine, iv, nil
}

// GenerateIV returns a fresh 16-byte IV from crypto/rand.
func (p *AESProvider) GenerateIV() ([]byte, error) {
	return randomBytes(aes.BlockSize)
}

// MaxIVLength reports the scan bound for framed AES streams. GCM's 12-byte
// nonce rides the same bound; it is a maximum, not an exact length.
func (p *AESProvider) MaxIVLength() int {
	return MaxIVLength
}

func newAESBlock(method EncryptionMethod, key []byte) (cipher.Block, error) {
	if method.Algorithm() != "AES" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return block, nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("generating IV: %w", err)
	}

	return b, nil
}

type cbcEngine struct {
	block   cipher.Block
	iv      []byte
	encrypt bool
	used    bool
}

func (e *cbcEngine) Transform(message []byte) ([]byte, error) {
	if e.used {
		return nil, ErrEngineConsumed
	}

	e.used = true

	if e.encrypt {
		padded := pkcs7Pad(message, aes.BlockSize)
		out := make([]byte, len(padded))
		cipher.NewCBCEncrypter(e.block, e.iv).CryptBlocks(out, padded)

		return out, nil
	}

	if len(message) == 0 || len(message)%aes.BlockSize != 0 {
		return nil, ErrInvalidBlockSize
	}

	plain := make([]byte, len(message))
	cipher.NewCBCDecrypter(e.block, e.iv).CryptBlocks(plain, message)

	unpadded, err := pkcs7Unpad(plain)
	if err != nil {
		return nil, fmt.Errorf("removing padding: %w", err)
	}

	return unpadded, nil
}

type ctrEngine struct {
	stream cipher.Stream
	used   bool
}

func (e *ctrEngine) Transform(message []byte) ([]byte, error) {
	if e.used {
		return nil, ErrEngineConsumed
	}

	e.used = true

	out := make([]byte, len(message))
	e.stream.XORKeyStream(out, message)

	return out, nil
}

type gcmEngine struct {
	aead    cipher.AEAD
	iv      []byte
	encrypt bool
	used    bool
}

func (e *gcmEngine) Transform(message []byte) ([]byte, error) {
	if e.used {
		return nil, ErrEngineConsumed
	}

	e.used = true

	if e.encrypt {
		return e.aead.Seal(nil, e.iv, message, nil), nil
	}

	plaintext, err := e.aead.Open(nil, e.iv, message, nil)
	if err != nil {
		return nil, fmt.Errorf("opening ciphertext: %w", err)
	}

	return plaintext, nil
}
