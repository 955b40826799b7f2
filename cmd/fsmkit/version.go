package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fsmkit/fsmkit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fsmkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fsmkit version %s\n", fsmkit.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
