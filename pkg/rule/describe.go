package rule

import (
	"fmt"
	"strings"
)

// Label returns a short description of what n tests and decides, such as
// "after K: cleave" for a top-level node or "P at +1: no cleave" for an
// exception.
func (n *Node) Label() string {
	verdict := "no cleave"
	if n.Cleaves {
		verdict = "cleave"
	}
	if n.Side != SideUnused {
		return fmt.Sprintf("%s %s: %s", n.Side, n.Residue, verdict)
	}

	return fmt.Sprintf("%s at %+d: %s", n.Residue, n.Offset, verdict)
}

// Describe renders f as indented text, one node per line, with exceptions
// introduced by "unless".
func (f Forest) Describe() string {
	var sb strings.Builder

	f.Walk(func(n *Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		if depth > 0 {
			sb.WriteString("unless ")
		}

		sb.WriteString(n.Label())
		sb.WriteByte('\n')

		return true
	})

	return sb.String()
}
