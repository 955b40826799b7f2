// Package graph renders machine definitions as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/fsmkit/fsmkit/pkg/schema"
)

// GenerateMermaid produces Mermaid flowchart syntax for one field of a
// definition. Styling conventions:
// - Initial state: ((Circle))
// - Other states: [Rectangle]
// - Transition: solid arrow labeled with the transition name
// - On-error routing: dotted arrow labeled with the name
// Wildcard sources are rendered as a dedicated pseudo-node so "*" and "+"
// transitions stay readable.
func GenerateMermaid(field schema.FieldDef) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, state := range field.States {
		safeID := sanitizeMermaidID(state)
		opener, closer := "[", "]"
		if state == field.Initial {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, state, closer))
	}

	wildcardDeclared := false
	for _, t := range field.Transitions {
		safeTo := sanitizeMermaidID(t.Target)
		label := strings.ReplaceAll(t.Name, "\"", "'")

		var sources []string
		if wild, isWild := t.Wildcard(); isWild {
			if !wildcardDeclared {
				sb.WriteString("    any{{\"any state\"}}\n")
				wildcardDeclared = true
			}
			if wild == schema.SourceWildcardExceptTarget {
				label += " (+)"
			}
			sources = []string{"any"}
		} else {
			for _, s := range t.Source {
				sources = append(sources, sanitizeMermaidID(s))
			}
		}

		for _, from := range sources {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", from, label, safeTo))
		}

		if t.OnError != "" {
			safeErr := sanitizeMermaidID(t.OnError)
			for _, from := range sources {
				sb.WriteString(fmt.Sprintf("    %s -. \"%s!\" .-> %s\n", from, label, safeErr))
			}
		}
	}

	return sb.String()
}

// sanitizeMermaidID keeps node IDs inside Mermaid's identifier charset.
func sanitizeMermaidID(id string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		".", "_",
		" ", "_",
		"-", "_",
	)
	return "s_" + replacer.Replace(id)
}
