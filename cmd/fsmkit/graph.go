package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fsmkit/fsmkit/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph <definition.yaml>",
	Short: "Render a field's states and transitions as a Mermaid flowchart",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fieldName, _ := cmd.Flags().GetString("field")
		if err := runGraph(args[0], fieldName); err != nil {
			fmt.Printf("Graph failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	graphCmd.Flags().String("field", "", "Field to render (default: first declared field)")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(path, fieldName string) error {
	def, err := loadDefinition(path)
	if err != nil {
		return err
	}
	if len(def.Fields) == 0 {
		return fmt.Errorf("machine %q declares no fields", def.Machine)
	}

	field := def.Fields[0]
	if fieldName != "" {
		found := false
		for _, f := range def.Fields {
			if f.Name == fieldName {
				field = f
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("machine %q has no field %q", def.Machine, fieldName)
		}
	}

	fmt.Print(graph.GenerateMermaid(field))
	return nil
}
