package keyed

import (
	"fmt"
	"io"

	"github.com/idelchi/goseal/pkg/streamio"
)

// ivDelimiter marks the end of the IV field in a framed stream. The tag is
// fixed across all providers; streams framed with a different tag cannot be
// read back.
var ivDelimiter = []byte("SEALIV")

// MaxIVLength is the default scan bound for ReadIV, sized for a full AES
// block. Providers for algorithms with longer IVs declare a larger bound and
// read with ReadIVBounded.
const MaxIVLength = 16

// WriteIV appends iv followed by the delimiter to w, in that order. The
// stream is owned by the caller.
func WriteIV(iv []byte, w io.Writer) error {
	if err := streamio.WriteDelimited(w, iv, ivDelimiter); err != nil {
		return fmt.Errorf("writing IV: %w", err)
	}

	return nil
}

// ReadIV recovers a framed IV from the stream's current position. The
// delimiter is consumed and the cursor is left on the first ciphertext
// byte. If no full delimiter occurs within MaxIVLength bytes plus the
// delimiter's length, the read fails with streamio.ErrDelimiterNotFound.
func ReadIV(r io.Reader) ([]byte, error) {
	return ReadIVBounded(r, MaxIVLength)
}

// ReadIVBounded is ReadIV with a caller-declared scan bound, for providers
// whose IVs exceed MaxIVLength.
func ReadIVBounded(r io.Reader, limit int) ([]byte, error) {
	iv, err := streamio.ReadDelimited(r, limit, ivDelimiter)
	if err != nil {
		return nil, fmt.Errorf("reading IV: %w", err)
	}

	return iv, nil
}
