// The goseal command encrypts and decrypts files through keyed cipher
// providers, framing each message's IV into the output stream.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/goseal/internal/commands"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
