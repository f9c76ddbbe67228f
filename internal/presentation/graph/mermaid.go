package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// RunOverlay contains run data to visualize on the graph.
type RunOverlay struct {
	Visited []string
	Current string
	Halted  bool
}

// OverlayFromRun builds an overlay that marks the current state of s.
func OverlayFromRun(s *domain.RunState) *RunOverlay {
	return &RunOverlay{Current: s.State, Halted: s.Halted}
}

// GenerateMermaid produces a Mermaid flowchart of the transition diagram.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Final states: (((Double circle)))
// - Default: [Rectangle]
// Edges are labelled with read/write,move per tape, tapes separated by " ; ".
// It also applies overlay styles (Visited/Current/Rejected) if provided.
func GenerateMermaid(m *domain.Machine, overlay *RunOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	// State names are free text, so node IDs are positional.
	ids := make(map[string]string)
	for i, state := range m.States() {
		id := fmt.Sprintf("s%d", i)
		ids[state] = id

		opener, closer := "[", "]"
		switch {
		case m.IsFinal(state):
			opener, closer = "(((", ")))"
		case state == m.InitialState:
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(state), closer)
	}

	for _, t := range m.Transitions {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", ids[t.From], escape(EdgeLabel(t)), ids[t.To])
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef rejected fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		styled := make(map[string]bool)
		for _, state := range overlay.Visited {
			if id, ok := ids[state]; ok && !styled[id] && state != overlay.Current {
				styled[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}

		if id, ok := ids[overlay.Current]; ok {
			class := "current"
			if overlay.Halted && !m.IsFinal(overlay.Current) {
				class = "rejected"
			}
			fmt.Fprintf(&sb, "    class %s %s;\n", id, class)
		}
	}

	return sb.String()
}

// EdgeLabel renders a transition as read/write,move per tape.
func EdgeLabel(t domain.Transition) string {
	parts := make([]string, len(t.Read))
	for i := range t.Read {
		parts[i] = fmt.Sprintf("%s/%s,%s", t.Read[i], t.Write[i], t.Moves[i])
	}
	return strings.Join(parts, " ; ")
}

// escape replaces double quotes, which would end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
