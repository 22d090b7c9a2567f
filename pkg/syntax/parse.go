package syntax

import (
	"fmt"
	"slices"
	"strings"

	"github.com/macropower/cleave/pkg/rule"
)

// Pattern is a simple expression broken into the residue at the cut
// boundary and the residues required around it.
type Pattern struct {
	// Context maps a non-zero offset from the boundary residue to the
	// residue required there. Wildcard groups have no entry.
	Context map[int]byte
	// Expr is the expression the pattern was parsed from.
	Expr    string
	Side    rule.Side
	Residue byte
}

// Parse breaks a simple expression (one comma, no "or") into a [Pattern].
// Offsets count groups from the one holding the comma, so "(W)(K,)(P)"
// yields K at offset 0 with W at -1 and P at +1. Empty groups are skipped
// but still occupy an offset.
//
// Parse expects an expression produced by [Validate] and [Expand]; any
// other failure wraps [ErrInternal].
func Parse(expr string) (*Pattern, error) {
	groups := strings.Split(expr, "(")
	if len(groups) < 2 {
		return nil, fmt.Errorf("%w: %q: no groups", ErrInternal, expr)
	}

	groups = groups[1:]
	cut := -1

	for i, g := range groups {
		g = strings.TrimSuffix(g, ")")
		groups[i] = g

		if !strings.Contains(g, ",") {
			continue
		}
		if cut >= 0 {
			return nil, fmt.Errorf("%w: %q: more than one cleavage group", ErrInternal, expr)
		}

		cut = i
	}

	if cut < 0 {
		return nil, fmt.Errorf("%w: %q: no cleavage group", ErrInternal, expr)
	}

	p := &Pattern{
		Expr:    expr,
		Context: map[int]byte{},
	}

	switch g := groups[cut]; {
	case len(g) == 2 && g[0] == ',' && isResidue(g[1]):
		p.Side = rule.SideBefore
		p.Residue = g[1]
	case len(g) == 2 && g[1] == ',' && isResidue(g[0]):
		p.Side = rule.SideAfter
		p.Residue = g[0]
	default:
		return nil, fmt.Errorf("%w: %q: malformed cleavage group %q", ErrInternal, expr, g)
	}

	for i, g := range groups {
		if i == cut || g == "" {
			continue
		}
		if len(g) != 1 || !isResidue(g[0]) {
			return nil, fmt.Errorf("%w: %q: malformed group %q", ErrInternal, expr, g)
		}

		p.Context[i-cut] = g[0]
	}

	return p, nil
}

// Offsets returns the context offsets from the largest to the smallest.
func (p *Pattern) Offsets() []int {
	offsets := make([]int, 0, len(p.Context))
	for off := range p.Context {
		offsets = append(offsets, off)
	}

	slices.Sort(offsets)
	slices.Reverse(offsets)

	return offsets
}
