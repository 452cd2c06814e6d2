package encryption

import (
	"fmt"
	"io"

	"github.com/idelchi/goseal/pkg/keyed"
)

// encryptSealed seals one message under a fresh IV, producing
// [IV][delimiter][ciphertext] after the envelope header. The engine is bound
// to the generated IV and used exactly once.
func (p *Processor) encryptSealed(method keyed.EncryptionMethod, reader io.Reader, writer io.Writer) error {
	provider, err := keyed.For(method)
	if err != nil {
		return err
	}

	engine, iv, err := provider.FreshCipher(method, p.key, true)
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	if err := keyed.WriteIV(iv, writer); err != nil {
		return err
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("reading plaintext: %w", err)
	}

	ciphertext, err := engine.Transform(plaintext)
	if err != nil {
		return fmt.Errorf("encrypting message: %w", err)
	}

	if _, err := writer.Write(ciphertext); err != nil {
		return fmt.Errorf("writing ciphertext: %w", err)
	}

	return nil
}

// decryptSealed recovers the framed IV, binds a cipher to that exact IV, and
// unseals the remaining stream. Nothing is written once the IV read fails.
func (p *Processor) decryptSealed(method keyed.EncryptionMethod, reader io.Reader, writer io.Writer) error {
	provider, err := keyed.For(method)
	if err != nil {
		return err
	}

	iv, err := keyed.ReadIVBounded(reader, provider.MaxIVLength())
	if err != nil {
		return err
	}

	engine, err := provider.Cipher(method, p.key, iv, false)
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	ciphertext, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("reading ciphertext: %w", err)
	}

	plaintext, err := engine.Transform(ciphertext)
	if err != nil {
		return fmt.Errorf("decrypting message: %w", err)
	}

	if _, err := writer.Write(plaintext); err != nil {
		return fmt.Errorf("writing plaintext: %w", err)
	}

	return nil
}
