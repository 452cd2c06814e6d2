package encryption

import (
	"sync"
)

// defaultBufferSize is the read buffer size used when feeding the
// deterministic chunk writer.
const defaultBufferSize = 32 * 1024

// bufferPool provides reusable byte slices for file I/O across workers.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, defaultBufferSize)
	},
}
