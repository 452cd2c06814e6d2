package encryption

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/tink"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/fileutil"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// daead provides deterministic authenticated encryption
	daead tink.DeterministicAEAD

	// key stores raw key bytes
	key []byte

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

const (
	// AesSivKeySize is the required key size for deterministic AES-SIV mode.
	AesSivKeySize = 64
	// AesKeySize is the required key size for the randomized modes.
	AesKeySize = 32
)

// NewProcessor creates a new Processor with the given configuration.
// It loads the key material and, for deterministic encryption, initializes
// the AES-SIV primitive up front.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	encryptionKey, err := loadKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	processor := &Processor{
		cfg:     cfg,
		key:     encryptionKey,
		results: make(chan Result, len(cfg.Files)),
	}

	if cfg.Decrypt {
		if len(encryptionKey) != AesSivKeySize && len(encryptionKey) != AesKeySize {
			return nil, errors.New("decrypt: key must be 32 or 64 bytes (64 or 128 hex characters)")
		}

		return processor, nil
	}

	if cfg.Deterministic {
		if len(encryptionKey) != AesSivKeySize {
			return nil, errors.New("encrypt: deterministic mode requires 64-byte key (128 hex characters)")
		}

		daeadPrimitive, err := newDeterministicAEAD(encryptionKey)
		if err != nil {
			return nil, err
		}

		processor.daead = daeadPrimitive

		return processor, nil
	}

	if len(encryptionKey) != AesKeySize {
		return nil, errors.New("encrypt: randomized modes require 32-byte key (64 hex characters)")
	}

	if _, err := processor.sealMethod(); err != nil {
		return nil, err
	}

	return processor, nil
}

// loadKey decodes the hex key from the flag or from the key file.
func loadKey(cfg *config.Config) ([]byte, error) {
	material := cfg.Key

	if cfg.KeyFile != "" {
		raw, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}

		material = strings.TrimSpace(string(raw))
	}

	key, err := hex.DecodeString(material)
	if err != nil {
		return nil, fmt.Errorf("decoding hex key: %w", err)
	}

	return key, nil
}

// sealMethod resolves the envelope method used when encrypting.
func (p *Processor) sealMethod() (envelopeMethod, error) {
	if p.cfg.Deterministic {
		return methodDeterministic, nil
	}

	switch p.cfg.Method {
	case "", "aes-gcm":
		return methodAESGCM, nil
	case "aes-cbc":
		return methodAESCBC, nil
	case "aes-ctr":
		return methodAESCTR, nil
	default:
		return 0, fmt.Errorf("unknown encryption method %q", p.cfg.Method)
	}
}

// ProcessFiles concurrently processes all files specified in the configuration.
// It encrypts or decrypts files based on the configuration settings.
// Returns the number of successfully processed files, the number of errors,
// and the total output size.
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)
			} else {
				processed++

				totalSize += result.OutputSize

				if !p.cfg.Quiet {
					fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
				}
			}

			if p.cfg.Delete && result.Error == nil {
				if err := os.Remove(result.Input); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", result.Input, err)
				} else if !p.cfg.Quiet {
					fmt.Printf("Deleted %q\n", result.Input) //nolint:forbidigo
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := p.outputPath(file)

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// encrypt reads data from reader, seals it using the configured method, and
// writes envelope, IV framing and ciphertext to writer. The isExec parameter
// preserves the executable bit.
func (p *Processor) encrypt(reader io.Reader, writer io.Writer, isExec bool) error {
	method, err := p.sealMethod()
	if err != nil {
		return err
	}

	header := newEnvelopeHeader(method, isExec)
	if _, err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if method == methodDeterministic {
		return p.encryptDeterministic(reader, writer, header)
	}

	keyedMethod, _ := method.keyedMethod()

	return p.encryptSealed(keyedMethod, reader, writer)
}

// decrypt reads sealed data from reader, unseals it using the method recorded
// in the envelope, and writes the result to writer. It returns whether the
// original file was executable.
func (p *Processor) decrypt(reader io.Reader, writer io.Writer) (bool, error) {
	header := make([]byte, envelopeHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return false, fmt.Errorf("reading header: %w", err)
	}

	method, exec, err := parseEnvelopeHeader(header)
	if err != nil {
		return false, err
	}

	if method == methodDeterministic {
		if len(p.key) != AesSivKeySize {
			return false, errors.New("decrypt: deterministic data requires 64-byte key (128 hex characters)")
		}

		if p.daead == nil {
			daeadPrimitive, err := newDeterministicAEAD(p.key)
			if err != nil {
				return false, err
			}

			p.daead = daeadPrimitive
		}

		return exec, p.decryptDeterministic(reader, writer, header)
	}

	if len(p.key) != AesKeySize {
		return false, errors.New("decrypt: randomized data requires 32-byte key (64 hex characters)")
	}

	keyedMethod, _ := method.keyedMethod()

	return exec, p.decryptSealed(keyedMethod, reader, writer)
}

// newDeterministicAEAD builds the AES-SIV primitive from raw key bytes.
func newDeterministicAEAD(key []byte) (tink.DeterministicAEAD, error) {
	kh, err := newDeterministicAEADKeyHandle(key)
	if err != nil {
		return nil, fmt.Errorf("creating keyset handle: %w", err)
	}

	daeadPrimitive, err := daead.New(kh)
	if err != nil {
		return nil, fmt.Errorf("creating DeterministicAEAD: %w", err)
	}

	return daeadPrimitive, nil
}

// processFile handles the encryption or decryption of a single file.
// It creates a temporary file for output and performs an atomic rename on
// completion.
func (p *Processor) processFile(filename, outPath string) (size int64, err error) {
	tc, err := fileutil.NewTempContext(filename, outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	const ownerReadWrite = 0o600

	execOut := tc.IsExec

	if p.cfg.Decrypt {
		execOut, err = p.decrypt(inFile, tc.TmpFile)
		if err != nil {
			return 0, fmt.Errorf("decrypting file: %w", err)
		}
	} else if err := p.encrypt(inFile, tc.TmpFile, tc.IsExec); err != nil {
		return 0, fmt.Errorf("encrypting file: %w", err)
	}

	perm := os.FileMode(ownerReadWrite)

	if execOut {
		perm |= 0o111
	}

	if err := os.Chmod(tc.TmpName, perm); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tc.TmpName, outPath); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	size, err = fileutil.FinalizeOutput(outPath, p.cfg.PreserveTimestamps, tc.SrcInfo.ModTime())
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	return size, nil
}

// outputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func (p *Processor) outputPath(filename string) string {
	ext := p.cfg.EncryptSuffix

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.EncryptSuffix)
		ext = p.cfg.DecryptSuffix
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}
