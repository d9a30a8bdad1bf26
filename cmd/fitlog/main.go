// ABOUTME: Entry point for fitlog CLI.
// ABOUTME: Invokes the root Cobra command and reports failures in red.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	_ = teardown()
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
