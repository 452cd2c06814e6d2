// Package config holds the runtime configuration for the goseal tool,
// assembled from flags and environment variables and validated against
// struct tags.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config captures all options for a single encrypt/decrypt run.
type Config struct {
	// Key material, hex encoded (64 chars for randomized modes, 128 for deterministic)
	Key string `validate:"omitempty,hexadecimal"`

	// Path to a file holding the hex-encoded key
	KeyFile string `mapstructure:"key-file"`

	// Encryption method for sealing: aes-gcm, aes-cbc or aes-ctr
	Method string `validate:"omitempty,oneof=aes-gcm aes-cbc aes-ctr"`

	// Number of parallel workers
	Parallel int `validate:"min=1"`

	// Suppress non-error output
	Quiet bool

	// Delete the original file after successful processing
	Delete bool

	// Print a processing summary
	Stats bool

	// Carry the source file's timestamps over to the output
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	// Suffix appended to encrypted files
	EncryptSuffix string `mapstructure:"encrypt-ext"`

	// Suffix appended to decrypted files, after stripping the encrypted suffix
	DecryptSuffix string `mapstructure:"decrypt-ext"`

	// Command-specific flags
	Deterministic bool
	Decrypt       bool

	// Positional arguments
	Files []string `validate:"min=1"`
}

// Validate validates the configuration against the struct tags and the
// key/key-file exclusivity rules.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	if c.Key == "" && c.KeyFile == "" {
		return errors.New("either --key or --key-file is required")
	}

	if c.Key != "" && c.KeyFile != "" {
		return errors.New("--key and --key-file are mutually exclusive")
	}

	return nil
}
