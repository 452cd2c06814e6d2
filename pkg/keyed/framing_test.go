package keyed_test

import (
	"bytes"
	"encoding/hex"
	"os"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/goseal/pkg/keyed"
	"github.com/idelchi/goseal/pkg/streamio"
)

// Case is a single framing round-trip case from the YAML golden file.
type Case struct {
	Name       string `yaml:"name"`
	IV         string `yaml:"iv"`
	Ciphertext string `yaml:"ciphertext"`
}

func loadCases(t *testing.T) []Case {
	t.Helper()

	data, err := os.ReadFile("testdata/framing.yml")
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	var cases []Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing golden file: %v", err)
	}

	return cases
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}

func TestIVRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tc := range loadCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			iv := mustHex(t, tc.IV)
			ciphertext := mustHex(t, tc.Ciphertext)

			var buf bytes.Buffer

			require.NoError(t, keyed.WriteIV(iv, &buf))
			buf.Write(ciphertext)

			got, err := keyed.ReadIV(&buf)
			require.NoError(t, err)

			assert.Equal(t, iv, got)
			assert.Equal(t, ciphertext, buf.Bytes(), "cursor must rest on the first ciphertext byte")
		})
	}
}

func TestReadIVScanBound(t *testing.T) {
	t.Parallel()

	// 17 arbitrary bytes with no delimiter occurrence: the scan must fail
	// with a framing error instead of reading on.
	stream := bytes.NewReader(bytes.Repeat([]byte{0x42}, 17))

	_, err := keyed.ReadIV(stream)
	require.ErrorIs(t, err, streamio.ErrDelimiterNotFound)
}

func TestReadIVOversizedIV(t *testing.T) {
	t.Parallel()

	// A correctly framed IV longer than the scan bound is rejected.
	var buf bytes.Buffer

	require.NoError(t, keyed.WriteIV(bytes.Repeat([]byte{0x01}, keyed.MaxIVLength+1), &buf))

	_, err := keyed.ReadIV(&buf)
	require.ErrorIs(t, err, streamio.ErrDelimiterNotFound)

	// The same stream parses under a larger declared bound.
	var again bytes.Buffer

	require.NoError(t, keyed.WriteIV(bytes.Repeat([]byte{0x01}, keyed.MaxIVLength+1), &again))

	iv, err := keyed.ReadIVBounded(&again, keyed.MaxIVLength+1)
	require.NoError(t, err)
	assert.Len(t, iv, keyed.MaxIVLength+1)
}

func TestReadIVAfterWriteScenario(t *testing.T) {
	t.Parallel()

	// Frame a 16-byte IV followed by 8 ciphertext bytes, then recover both
	// from a fresh cursor over the assembled stream.
	iv := mustHex(t, "0102030405060708090a0b0c0d0e0f10")
	ciphertext := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x01, 0x02, 0x03}

	var buf bytes.Buffer

	require.NoError(t, keyed.WriteIV(iv, &buf))
	buf.Write(ciphertext)

	stream := bytes.NewReader(buf.Bytes())

	got, err := keyed.ReadIV(stream)
	require.NoError(t, err)
	assert.Equal(t, iv, got)

	rest := make([]byte, stream.Len())
	_, err = stream.Read(rest)
	require.NoError(t, err)
	assert.Equal(t, ciphertext, rest)
}
