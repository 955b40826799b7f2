package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fsmkit",
	Short: "fsmkit works with declarative guarded state machine definitions",
	Long: `fsmkit validates, visualizes, and serves machine definitions: YAML
documents declaring fields, states, and guarded transitions between them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
