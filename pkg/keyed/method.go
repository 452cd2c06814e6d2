package keyed

import (
	"crypto/aes"
	"strings"
)

// EncryptionMethod identifies a cipher algorithm together with its mode of
// operation and padding scheme, in "Algorithm/Mode/Padding" form.
type EncryptionMethod string

// Methods handled by the built-in AES provider.
const (
	AESCBC EncryptionMethod = "AES/CBC/PKCS7Padding"
	AESCTR EncryptionMethod = "AES/CTR/NoPadding"
	AESGCM EncryptionMethod = "AES/GCM/NoPadding"
)

const gcmIVSize = 12

// Algorithm returns the algorithm part of the method identifier, which is
// the key providers are registered under.
func (m EncryptionMethod) Algorithm() string {
	if i := strings.IndexByte(string(m), '/'); i >= 0 {
		return string(m)[:i]
	}

	return string(m)
}

// IVSize returns the initialization vector length in bytes required by the
// method, or 0 if the method is unknown.
func (m EncryptionMethod) IVSize() int {
	switch m {
	case AESGCM:
		return gcmIVSize
	case AESCBC, AESCTR:
		return aes.BlockSize
	default:
		return 0
	}
}
