package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/goseal/internal/config"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "encrypt [flags] files...",
		Aliases:           []string{"enc", "seal"},
		Short:             "Encrypt files",
		Args:              cobra.MinimumNArgs(1),
		PersistentPreRunE: bindFlags,
		RunE: func(_ *cobra.Command, args []string) error {
			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("parsing config: %w", err)
			}

			cfg.Files = args

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runProcessor(&cfg)
		},
	}

	cmd.Flags().StringP("method", "m", "aes-gcm", "Encryption method: aes-gcm, aes-cbc or aes-ctr")
	cmd.Flags().BoolP("deterministic", "d", false, "Use deterministic (AES-SIV) encryption mode")

	return cmd
}
