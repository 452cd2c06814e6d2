// Package keyed defines the contract for symmetric-key cipher providers and
// the framing protocol that carries a cipher's initialization vector ahead
// of the ciphertext in a single byte stream.
//
// A framed stream has the shape
//
//	[ IV: 0..MaxIVLength bytes ] [ "SEALIV" ] [ ciphertext... ]
//
// The IV field is delimiter-framed, not length-prefixed: ReadIV scans for
// the first full occurrence of the delimiter. This relies on ciphertext
// being high entropy and is therefore probabilistic; it is not safe for
// arbitrary payloads that may themselves contain the tag. Streams written
// with any other tag cannot be read back by this package.
//
// Providers hand out single-use engines: an engine is bound to one key, one
// IV and one direction, and processes exactly one message. Reusing an IV
// under a fixed key breaks semantic security, so reuse of an engine is
// rejected rather than left to convention.
package keyed
