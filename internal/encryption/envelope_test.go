package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/goseal/pkg/keyed"
)

func TestEnvelopeHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	for _, method := range []envelopeMethod{methodDeterministic, methodAESGCM, methodAESCBC, methodAESCTR} {
		for _, exec := range []bool{true, false} {
			header := newEnvelopeHeader(method, exec)
			require.Len(t, header, envelopeHeaderSize)

			gotMethod, gotExec, err := parseEnvelopeHeader(header)
			require.NoError(t, err)

			assert.Equal(t, method, gotMethod)
			assert.Equal(t, exec, gotExec)
		}
	}
}

func TestParseEnvelopeHeaderErrors(t *testing.T) {
	t.Parallel()

	valid := newEnvelopeHeader(methodAESGCM, false)

	short := valid[:envelopeHeaderSize-1]
	_, _, err := parseEnvelopeHeader(short)
	require.ErrorIs(t, err, ErrProcessing)

	badMagic := append([]byte{}, valid...)
	badMagic[0] = 'X'
	_, _, err = parseEnvelopeHeader(badMagic)
	require.ErrorIs(t, err, ErrProcessing)

	badVersion := append([]byte{}, valid...)
	badVersion[len(envelopeMagic)] = 99
	_, _, err = parseEnvelopeHeader(badVersion)
	require.ErrorIs(t, err, ErrProcessing)

	badMethod := append([]byte{}, valid...)
	badMethod[len(envelopeMagic)+2] = 0x7F
	_, _, err = parseEnvelopeHeader(badMethod)
	require.ErrorIs(t, err, ErrProcessing)
}

func TestEnvelopeMethodMapping(t *testing.T) {
	t.Parallel()

	m, ok := methodAESGCM.keyedMethod()
	require.True(t, ok)
	assert.Equal(t, keyed.AESGCM, m)

	m, ok = methodAESCBC.keyedMethod()
	require.True(t, ok)
	assert.Equal(t, keyed.AESCBC, m)

	m, ok = methodAESCTR.keyedMethod()
	require.True(t, ok)
	assert.Equal(t, keyed.AESCTR, m)

	_, ok = methodDeterministic.keyedMethod()
	assert.False(t, ok)
}
