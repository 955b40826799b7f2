package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fsmkit/fsmkit/pkg/schema"
)

var describeCmd = &cobra.Command{
	Use:   "describe <definition.yaml>",
	Short: "Print a readable summary of a machine definition",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDescribe(args[0]); err != nil {
			fmt.Printf("Describe failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(path string) error {
	def, err := loadDefinition(path)
	if err != nil {
		return err
	}

	md := describeMarkdown(def)

	// Render through glamour only when stdout is a real, color-capable
	// terminal; plain markdown otherwise, so piping stays clean.
	if !term.IsTerminal(int(os.Stdout.Fd())) || termenv.EnvColorProfile() == termenv.Ascii {
		fmt.Print(md)
		return nil
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		fmt.Print(md)
		return nil
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

func describeMarkdown(def *schema.Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Machine: %s\n\n", def.Machine)

	for _, f := range def.Fields {
		fmt.Fprintf(&sb, "## Field `%s`\n\n", f.Name)
		fmt.Fprintf(&sb, "States: %s", strings.Join(f.States, ", "))
		if f.Initial != "" {
			fmt.Fprintf(&sb, " (initial: %s)", f.Initial)
		}
		sb.WriteString("\n\n")

		if len(f.Transitions) == 0 {
			continue
		}
		sb.WriteString("| Transition | Source | Target | On error | Permission | Conditions |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, t := range f.Transitions {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
				t.Name,
				strings.Join(t.Source, ", "),
				t.Target,
				orDash(t.OnError),
				orDash(t.Permission),
				orDash(strings.Join(t.Conditions, ", ")),
			)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
