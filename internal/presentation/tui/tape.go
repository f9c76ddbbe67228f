package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Profile returns the color profile for w: full detection for terminals,
// plain ASCII for anything else (pipes, files, buffers).
func Profile(w io.Writer) termenv.Profile {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return termenv.NewOutput(f).EnvColorProfile()
	}
	return termenv.Ascii
}

// RenderTapes draws one line per tape with the head cell bracketed and,
// on color profiles, highlighted. Cells past the end read as blank.
func RenderTapes(s *domain.RunState, blank string, p termenv.Profile) string {
	head := func(sym string) string {
		return p.String("[" + sym + "]").Foreground(p.Color("#fbc02d")).Bold().String()
	}

	var sb strings.Builder
	for i, tape := range s.Tapes {
		h := s.Heads[i]
		cells := make([]string, 0, len(tape)+1)
		for j, sym := range tape {
			if j == h {
				sym = head(sym)
			} else {
				sym = " " + sym + " "
			}
			cells = append(cells, sym)
		}
		if h >= len(tape) {
			cells = append(cells, head(blank))
		}
		fmt.Fprintf(&sb, "T%d |%s|\n", i+1, strings.Join(cells, ""))
	}
	return sb.String()
}

// StatusLine summarizes a run: step count, control state and verdict.
func StatusLine(m *domain.Machine, s *domain.RunState, p termenv.Profile) string {
	outcome := m.Outcome(s)
	color := "#9e9e9e"
	switch outcome {
	case domain.OutcomeAccepted:
		color = "#43a047"
	case domain.OutcomeRejected:
		color = "#e53935"
	}
	verdict := p.String(string(outcome)).Foreground(p.Color(color)).Bold()
	return fmt.Sprintf("step %d · state %s · %s", s.StepCount, s.State, verdict)
}
