// Package rule defines the nodes of a compiled cleavage rule tree and
// evaluates them against a sequence.
package rule

import (
	"encoding"
	"fmt"
	"strings"
)

var (
	_ encoding.TextMarshaler   = Side(0)
	_ encoding.TextUnmarshaler = (*Side)(nil)
	_ encoding.TextMarshaler   = Residue(0)
	_ encoding.TextUnmarshaler = (*Residue)(nil)
)

// Side is the side of a top-level node's residue on which the enzyme cuts.
// Exception nodes always use [SideUnused].
type Side int8

const (
	SideUnused Side = iota
	SideBefore
	SideAfter
)

func (s Side) String() string {
	switch s {
	case SideBefore:
		return "before"
	case SideAfter:
		return "after"
	case SideUnused:
		return "unused"
	}

	return fmt.Sprintf("Side(%d)", int8(s))
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "before":
		*s = SideBefore
	case "after":
		*s = SideAfter
	case "unused", "":
		*s = SideUnused
	default:
		return fmt.Errorf("unknown side %q", text)
	}

	return nil
}

// Residue is a one-letter amino acid code.
type Residue byte

func (r Residue) String() string {
	return string(rune(r))
}

func (r Residue) MarshalText() ([]byte, error) {
	return []byte{byte(r)}, nil
}

func (r *Residue) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return fmt.Errorf("residue %q: must be a single letter", text)
	}

	*r = Residue(text[0])

	return nil
}

// Node is one positional test of a cleavage rule. A node applies when
// [Node.Residue] sits [Node.Offset] residues away from the residue being
// considered. Its children are exceptions that may override its verdict.
type Node struct {
	Children []*Node `json:"children,omitempty"`
	Offset   int     `json:"offset"`
	Residue  Residue `json:"residue"`
	Side     Side    `json:"side,omitempty"`
	Cleaves  bool    `json:"cleaves"`
}

// New returns a childless [*Node].
func New(offset int, residue byte, cleaves bool, side Side) *Node {
	return &Node{
		Offset:  offset,
		Residue: Residue(residue),
		Cleaves: cleaves,
		Side:    side,
	}
}

// Equ reports whether a and b test the same position for the same residue
// on the same side. Verdicts and children are ignored.
func Equ(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Offset == b.Offset && a.Residue == b.Residue && a.Side == b.Side
}

// Child returns the last direct child of n that is [Equ] to o, or nil.
func (n *Node) Child(o *Node) *Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if Equ(n.Children[i], o) {
			return n.Children[i]
		}
	}

	return nil
}

// Contains reports whether a direct child of n is [Equ] to o.
func (n *Node) Contains(o *Node) bool {
	return n.Child(o) != nil
}

// ContainsAnyLevel reports whether any descendant of n is [Equ] to o.
func (n *Node) ContainsAnyLevel(o *Node) bool {
	for _, c := range n.Children {
		if Equ(c, o) || c.ContainsAnyLevel(o) {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := *n
	if n.Children == nil {
		return &c
	}

	c.Children = make([]*Node, len(n.Children))
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}

	return &c
}

// Len returns the number of nodes in the tree rooted at n.
func (n *Node) Len() int {
	total := 1
	for _, c := range n.Children {
		total += c.Len()
	}

	return total
}

func (n *Node) String() string {
	verdict := "no-cleave"
	if n.Cleaves {
		verdict = "cleave"
	}
	if n.Side == SideUnused {
		return fmt.Sprintf("%s@%+d %s", n.Residue, n.Offset, verdict)
	}

	return fmt.Sprintf("%s@%+d %s %s", n.Residue, n.Offset, n.Side, verdict)
}

// Forest is the list of top-level nodes compiled for one enzyme.
type Forest []*Node

// Find returns the top-level node [Equ] to o, or nil.
func (f Forest) Find(o *Node) *Node {
	for _, n := range f {
		if Equ(n, o) {
			return n
		}
	}

	return nil
}

// Len returns the number of nodes in the forest.
func (f Forest) Len() int {
	total := 0
	for _, n := range f {
		total += n.Len()
	}

	return total
}

// Clone returns a deep copy of f.
func (f Forest) Clone() Forest {
	out := make(Forest, len(f))
	for i, n := range f {
		out[i] = n.Clone()
	}

	return out
}

// Walk calls fn for every node in depth-first order. Returning false from
// fn skips the children of that node.
func (f Forest) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}

	for _, n := range f {
		walk(n, 0)
	}
}
