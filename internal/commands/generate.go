package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idelchi/goseal/internal/encryption"
)

// NewGenerateCommand creates a new cobra command for key generation.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a new encryption key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			size := encryption.AesKeySize

			if deterministic, _ := cmd.Flags().GetBool("deterministic"); deterministic {
				size = encryption.AesSivKeySize
			}

			key := make([]byte, size)
			if _, err := rand.Read(key); err != nil {
				return fmt.Errorf("generating key: %w", err)
			}

			fmt.Println(hex.EncodeToString(key)) //nolint:forbidigo

			return nil
		},
	}

	cmd.Flags().BoolP("deterministic", "d", false, "Generate a 64-byte key for deterministic (AES-SIV) mode")

	return cmd
}
