// Command morphonent renders and serves the morphonent demo apps.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/morphonent/morphonent/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┌─┐┬─┐┌─┐┬ ┬┌─┐┌┐┌┌─┐┌┐┌┌┬┐
  ││││ │├┬┘├─┘├─┤│ ││││├┤ │││ │
  ┴ ┴└─┘┴└─┴  ┴ ┴└─┘┘└┘└─┘┘└┘ ┴
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "morphonent",
		Short: "Declarative UI rendering with in-place morphing",
		Long: `morphonent renders component trees into host documents and
morphs them in place when they change.

The CLI ships a few demo apps:

  • render prints an app's server-side markup
  • serve runs the apps as live sessions over WebSocket
  • init writes a default configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		appsCmd(),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
