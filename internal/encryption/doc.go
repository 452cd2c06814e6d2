// Package encryption seals and unseals files through the keyed cipher
// providers. Randomized modes (AES-GCM, AES-CBC, AES-CTR) frame the
// generated IV into the output ahead of the ciphertext; the deterministic
// mode streams length-prefixed AES-SIV chunks. Files are processed
// concurrently with atomic output writes.
// Requires 32-byte keys for the randomized modes or 64-byte keys for AES-SIV.
package encryption
