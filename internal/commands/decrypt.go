package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/goseal/internal/config"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
// The method is read from each file's envelope, not from flags.
func NewDecryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "decrypt [flags] files...",
		Aliases:           []string{"dec", "unseal"},
		Short:             "Decrypt files",
		Args:              cobra.MinimumNArgs(1),
		PersistentPreRunE: bindFlags,
		RunE: func(_ *cobra.Command, args []string) error {
			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("parsing config: %w", err)
			}

			cfg.Files = args
			cfg.Decrypt = true

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runProcessor(&cfg)
		},
	}
}
