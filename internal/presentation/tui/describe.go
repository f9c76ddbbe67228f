package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// MachineMarkdown documents a description as markdown: a summary, the
// alphabet and the transition table.
func MachineMarkdown(m *domain.Machine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", m.Name)
	if m.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", m.Description)
	}

	sb.WriteString("| Property | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Tapes | %d |\n", m.TapeCount)
	fmt.Fprintf(&sb, "| Blank | `%s` |\n", m.BlankSymbol)
	fmt.Fprintf(&sb, "| Initial state | `%s` |\n", m.InitialState)
	fmt.Fprintf(&sb, "| Final states | %s |\n", codeList(m.FinalStates))
	fmt.Fprintf(&sb, "| States | %s |\n", codeList(m.States()))
	fmt.Fprintf(&sb, "| Alphabet | %s |\n", codeList(m.Symbols()))

	if len(m.InputSpec) > 0 {
		sb.WriteString("\n## Example inputs\n\n")
		for _, in := range m.InputSpec {
			if in.Description != "" {
				fmt.Fprintf(&sb, "- `%s`: %s\n", in.Example, in.Description)
			} else {
				fmt.Fprintf(&sb, "- `%s`\n", in.Example)
			}
		}
	}

	sb.WriteString("\n## Transitions\n\n")
	sb.WriteString("| # | From | Read | To | Write | Move |\n|---|---|---|---|---|---|\n")
	for i, t := range m.Transitions {
		moves := make([]string, len(t.Moves))
		for j, mv := range t.Moves {
			moves[j] = mv.String()
		}
		fmt.Fprintf(&sb, "| %d | `%s` | %s | `%s` | %s | %s |\n",
			i, t.From, codeList(t.Read), t.To, codeList(t.Write), strings.Join(moves, " "))
	}
	return sb.String()
}

func codeList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}
