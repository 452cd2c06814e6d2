// Package streamio implements bounded delimiter framing over byte streams:
// writing a field followed by a fixed marker, and scanning a stream to
// recover the field without reading past the marker.
//
// The scan is single-pass and byte-wise, so the caller's cursor is left
// exactly on the byte following the delimiter. The cost of scanning
// malformed input is capped by the caller-supplied limit.
package streamio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrDelimiterNotFound is returned when the delimiter does not occur within
// the scan bound, or the stream ends before a full match.
var ErrDelimiterNotFound = errors.New("delimiter not found within limit")

// WriteDelimited writes field followed by delim to w, in that order, with no
// intervening bytes. The stream is owned by the caller and is neither
// buffered nor closed.
func WriteDelimited(w io.Writer, field, delim []byte) error {
	if len(delim) == 0 {
		return errors.New("delimiter cannot be empty")
	}

	if _, err := w.Write(field); err != nil {
		return fmt.Errorf("writing field: %w", err)
	}

	if _, err := w.Write(delim); err != nil {
		return fmt.Errorf("writing delimiter: %w", err)
	}

	return nil
}

// ReadDelimited scans r one byte at a time for a contiguous occurrence of
// delim and returns the bytes preceding it. The delimiter is consumed, and
// no byte after it is read. Partial prefix matches of delim inside the field
// do not terminate the scan.
//
// At most limit+len(delim) bytes are read; if no full match occurs within
// that bound, or the stream ends first, the scan fails with
// ErrDelimiterNotFound. Underlying stream failures are wrapped and
// distinguishable from framing failures.
func ReadDelimited(r io.Reader, limit int, delim []byte) ([]byte, error) {
	if len(delim) == 0 {
		return nil, errors.New("delimiter cannot be empty")
	}

	if limit < 0 {
		return nil, fmt.Errorf("negative scan limit: %d", limit)
	}

	maxRead := limit + len(delim)

	buf := make([]byte, 0, maxRead)
	one := make([]byte, 1)

	for len(buf) < maxRead {
		if _, err := io.ReadFull(r, one); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: stream ended after %d bytes", ErrDelimiterNotFound, len(buf))
			}

			return nil, fmt.Errorf("reading stream: %w", err)
		}

		buf = append(buf, one[0])

		if bytes.HasSuffix(buf, delim) {
			return buf[:len(buf)-len(delim)], nil
		}
	}

	return nil, fmt.Errorf("%w: scanned %d bytes", ErrDelimiterNotFound, len(buf))
}
