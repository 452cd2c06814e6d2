package encryption

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/idelchi/goseal/pkg/keyed"
)

const (
	envelopeMagic   = "GSEAL"
	envelopeVersion = byte(1)

	envelopeFlagExec = 0x01
)

// envelopeMethod identifies how the payload after the header was produced.
type envelopeMethod byte

const (
	methodDeterministic envelopeMethod = 0x01
	methodAESGCM        envelopeMethod = 0x02
	methodAESCBC        envelopeMethod = 0x03
	methodAESCTR        envelopeMethod = 0x04
)

const envelopeHeaderSize = len(envelopeMagic) + 3

// ErrProcessing indicates an error during envelope processing.
var ErrProcessing = errors.New("envelope processing error")

// keyedMethod maps an envelope method byte to the library method it seals
// with. Deterministic payloads carry no IV framing and report ok=false.
func (m envelopeMethod) keyedMethod() (keyed.EncryptionMethod, bool) {
	switch m {
	case methodAESGCM:
		return keyed.AESGCM, true
	case methodAESCBC:
		return keyed.AESCBC, true
	case methodAESCTR:
		return keyed.AESCTR, true
	default:
		return "", false
	}
}

func newEnvelopeHeader(method envelopeMethod, executable bool) []byte {
	header := make([]byte, envelopeHeaderSize)
	copy(header, []byte(envelopeMagic))

	header[len(envelopeMagic)] = envelopeVersion

	var flags byte

	if executable {
		flags |= envelopeFlagExec
	}

	header[len(envelopeMagic)+1] = flags
	header[len(envelopeMagic)+2] = byte(method)

	return header
}

func parseEnvelopeHeader(header []byte) (envelopeMethod, bool, error) {
	if len(header) != envelopeHeaderSize {
		return 0, false, fmt.Errorf("%w: envelope header too short", ErrProcessing)
	}

	if !bytes.Equal(header[:len(envelopeMagic)], []byte(envelopeMagic)) {
		return 0, false, fmt.Errorf("%w: invalid envelope magic", ErrProcessing)
	}

	version := header[len(envelopeMagic)]
	if version != envelopeVersion {
		return 0, false, fmt.Errorf("%w: unsupported envelope version %d", ErrProcessing, version)
	}

	flags := header[len(envelopeMagic)+1]
	method := envelopeMethod(header[len(envelopeMagic)+2])

	switch method {
	case methodDeterministic, methodAESGCM, methodAESCBC, methodAESCTR:
	default:
		return 0, false, fmt.Errorf("%w: unsupported envelope method %d", ErrProcessing, method)
	}

	executable := flags&envelopeFlagExec != 0

	return method, executable, nil
}
