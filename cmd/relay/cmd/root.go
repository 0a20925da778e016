// Package cmd implements the relay command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "relay simulates four-valued digital logic circuits",
	Long: `relay loads a circuit document, propagates signal changes through
its node and wire graph on a deferred-event timeline, and reports the settled
value of every node.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
