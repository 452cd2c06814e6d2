package commands

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand creates the root command with common configuration.
// Flags shared by all subcommands live here; environment variables with the
// GOSEAL_ prefix override defaults and are overridden by explicit flags.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "goseal [flags] command [flags]",
		Short: "File sealing utility built on keyed cipher providers",
		Long: `A file encryption utility. Randomized modes (AES-GCM, AES-CBC, AES-CTR)
frame a fresh IV into each output ahead of the ciphertext; a deterministic
AES-SIV mode produces stable ciphertext for sync-friendly workflows.
Provides commands for key generation, encryption, and decryption.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().Bool("delete", false, "Delete the original file after successful encryption/decryption")
	root.PersistentFlags().Bool("stats", false, "Print a processing summary")
	root.PersistentFlags().Bool("preserve-timestamps", false, "Carry source timestamps over to the output file")

	root.PersistentFlags().StringP("key", "k", "", "Encryption key (32 or 64 bytes, hex-encoded)")
	root.PersistentFlags().
		StringP("key-file", "f", "", "Path to the key file with the encryption key (32 or 64 bytes, hex-encoded)")

	root.PersistentFlags().String("encrypt-ext", ".sealed", "Suffix to append to encrypted files")
	root.PersistentFlags().String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	root.AddCommand(NewEncryptCommand(), NewDecryptCommand(), NewGenerateCommand())

	return root
}

// bindFlags wires the command's flags and the GOSEAL_* environment into viper.
func bindFlags(cmd *cobra.Command, _ []string) error {
	viper.SetEnvPrefix("goseal")
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	return viper.BindPFlags(cmd.Flags())
}
