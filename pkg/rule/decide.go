package rule

import (
	"slices"
)

// Verdict is the running cleavage decision threaded through [Node.Decide].
type Verdict int8

const (
	// Undetermined means no applicable node has decided yet.
	Undetermined Verdict = iota
	// Cleave means the boundary is cut.
	Cleave
	// NoCleave is a firm refusal that cleaving nodes cannot override.
	NoCleave
)

func (v Verdict) String() string {
	switch v {
	case Cleave:
		return "cleave"
	case NoCleave:
		return "no-cleave"
	case Undetermined:
		return "undetermined"
	}

	return "unknown"
}

// Decide evaluates n for the residue at pos in seq, given the verdict
// reached so far. A node that does not apply, including one whose offset
// falls outside seq, returns running unchanged.
//
// When a cleaving node applies it sets [Cleave] unless running is already
// [NoCleave]. When a non-cleaving node applies it resets the verdict and
// lets its children decide, falling back to [NoCleave]. In both cases the
// innermost applicable exception wins.
func (n *Node) Decide(seq []byte, pos int, running Verdict) Verdict {
	i := pos + n.Offset
	if i < 0 || i >= len(seq) || seq[i] != byte(n.Residue) {
		return running
	}

	if n.Cleaves {
		if running == NoCleave {
			return running
		}

		running = Cleave
		for _, c := range n.Children {
			running = c.Decide(seq, pos, running)
		}

		return running
	}

	running = Undetermined
	for _, c := range n.Children {
		running = c.Decide(seq, pos, running)
	}

	if running == Undetermined {
		return NoCleave
	}

	return running
}

// Decide reports whether any top-level node of f cuts around the residue at
// pos. Use [Forest.Sites] to map decisions to boundaries.
func (f Forest) Decide(seq []byte, pos int) bool {
	for _, n := range f {
		if n.Decide(seq, pos, Undetermined) == Cleave {
			return true
		}
	}

	return false
}

// Sites returns the sorted boundaries at which f cuts seq. Boundary b lies
// between seq[b-1] and seq[b]. The sequence ends are never reported.
func (f Forest) Sites(seq []byte) []int {
	var sites []int

	for pos := range seq {
		for _, n := range f {
			if n.Decide(seq, pos, Undetermined) != Cleave {
				continue
			}

			b := pos + 1
			if n.Side == SideBefore {
				b = pos
			}
			if b > 0 && b < len(seq) {
				sites = append(sites, b)
			}
		}
	}

	slices.Sort(sites)

	return slices.Compact(sites)
}
