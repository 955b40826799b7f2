package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fsmkit/fsmkit/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition.yaml>",
	Short: "Check a machine definition for consistency",
	Long: `Parses a machine definition and reports undeclared states, missing
targets, and duplicate fields. Action and condition bindings are not checked
here; they resolve against the registry of the embedding application.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Definition is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	def, err := loadDefinition(path)
	if err != nil {
		return err
	}
	return schema.Validate(def)
}

func loadDefinition(path string) (*schema.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return schema.Load(data)
}
