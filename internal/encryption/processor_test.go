package encryption

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/goseal/internal/config"
)

func randomHexKey(t *testing.T, size int) string {
	t.Helper()

	key := make([]byte, size)
	_, err := rand.Read(key)
	require.NoError(t, err)

	return hex.EncodeToString(key)
}

func writeInput(t *testing.T, dir string, content []byte, perm os.FileMode) string {
	t.Helper()

	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, content, perm))

	return path
}

func runOne(t *testing.T, cfg *config.Config) {
	t.Helper()

	proc, err := NewProcessor(cfg)
	require.NoError(t, err)

	processed, errored, _, err := proc.ProcessFiles()
	require.NoError(t, err)
	require.Equal(t, 1, processed)
	require.Zero(t, errored)
}

func TestProcessorRoundTrip(t *testing.T) {
	cases := []struct {
		name          string
		method        string
		deterministic bool
		keySize       int
	}{
		{name: "aes-gcm", method: "aes-gcm", keySize: AesKeySize},
		{name: "aes-cbc", method: "aes-cbc", keySize: AesKeySize},
		{name: "aes-ctr", method: "aes-ctr", keySize: AesKeySize},
		{name: "deterministic", deterministic: true, keySize: AesSivKeySize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			content := bytes.Repeat([]byte("keyed cipher provider round trip\n"), 100)
			input := writeInput(t, dir, content, 0o600)

			key := randomHexKey(t, tc.keySize)

			runOne(t, &config.Config{
				Key:           key,
				Method:        tc.method,
				Deterministic: tc.deterministic,
				Parallel:      1,
				Quiet:         true,
				EncryptSuffix: ".sealed",
				Files:         []string{input},
			})

			sealed := input + ".sealed"

			raw, err := os.ReadFile(sealed)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(raw, []byte(envelopeMagic)))
			assert.NotContains(t, string(raw), string(content[:32]), "payload must not leak plaintext")

			require.NoError(t, os.Remove(input))

			runOne(t, &config.Config{
				Key:           key,
				Decrypt:       true,
				Parallel:      1,
				Quiet:         true,
				EncryptSuffix: ".sealed",
				Files:         []string{sealed},
			})

			decrypted, err := os.ReadFile(input)
			require.NoError(t, err)
			assert.Equal(t, content, decrypted)
		})
	}
}

func TestProcessorPreservesExecutableBit(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []byte("#!/bin/sh\necho hi\n"), 0o755)

	key := randomHexKey(t, AesKeySize)

	runOne(t, &config.Config{
		Key:           key,
		Method:        "aes-gcm",
		Parallel:      1,
		Quiet:         true,
		EncryptSuffix: ".sealed",
		Files:         []string{input},
	})

	require.NoError(t, os.Remove(input))

	runOne(t, &config.Config{
		Key:           key,
		Decrypt:       true,
		Parallel:      1,
		Quiet:         true,
		EncryptSuffix: ".sealed",
		Files:         []string{input + ".sealed"},
	})

	info, err := os.Stat(input)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111)
}

func TestProcessorWrongKeyFails(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []byte("secret"), 0o600)

	runOne(t, &config.Config{
		Key:           randomHexKey(t, AesKeySize),
		Method:        "aes-gcm",
		Parallel:      1,
		Quiet:         true,
		EncryptSuffix: ".sealed",
		Files:         []string{input},
	})

	proc, err := NewProcessor(&config.Config{
		Key:           randomHexKey(t, AesKeySize),
		Decrypt:       true,
		Parallel:      1,
		Quiet:         true,
		EncryptSuffix: ".sealed",
		Files:         []string{input + ".sealed"},
	})
	require.NoError(t, err)

	_, errored, _, err := proc.ProcessFiles()
	require.Error(t, err)
	assert.Equal(t, 1, errored)
}

func TestNewProcessorKeyValidation(t *testing.T) {
	files := []string{"unused"}

	_, err := NewProcessor(&config.Config{Key: "zz", Parallel: 1, Files: files})
	require.Error(t, err)

	_, err = NewProcessor(&config.Config{Key: randomHexKey(t, 16), Parallel: 1, Files: files})
	require.Error(t, err, "randomized modes require a 32-byte key")

	_, err = NewProcessor(&config.Config{
		Key:           randomHexKey(t, AesKeySize),
		Deterministic: true,
		Parallel:      1,
		Files:         files,
	})
	require.Error(t, err, "deterministic mode requires a 64-byte key")

	_, err = NewProcessor(&config.Config{
		Key:      randomHexKey(t, AesKeySize),
		Method:   "rot13",
		Parallel: 1,
		Files:    files,
	})
	require.Error(t, err, "unknown method must be rejected up front")
}

func TestProcessorKeyFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []byte("from key file"), 0o600)

	key := randomHexKey(t, AesKeySize)
	keyFile := filepath.Join(dir, "key.hex")
	require.NoError(t, os.WriteFile(keyFile, []byte(key+"\n"), 0o600))

	runOne(t, &config.Config{
		KeyFile:       keyFile,
		Method:        "aes-ctr",
		Parallel:      1,
		Quiet:         true,
		EncryptSuffix: ".sealed",
		Files:         []string{input},
	})

	require.NoError(t, os.Remove(input))

	runOne(t, &config.Config{
		KeyFile:       keyFile,
		Decrypt:       true,
		Parallel:      1,
		Quiet:         true,
		EncryptSuffix: ".sealed",
		Files:         []string{input + ".sealed"},
	})

	decrypted, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, []byte("from key file"), decrypted)
}
