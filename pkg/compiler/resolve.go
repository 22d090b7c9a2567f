package compiler

import (
	"maps"
	"slices"

	"github.com/macropower/cleave/pkg/rule"
)

// placement is a context residue that still has to be attached.
type placement struct {
	offset  int
	residue byte
}

func (p placement) node() *rule.Node {
	return rule.New(p.offset, p.residue, false, rule.SideUnused)
}

func descending(ctx map[int]byte) []int {
	offsets := slices.Collect(maps.Keys(ctx))
	slices.Sort(offsets)
	slices.Reverse(offsets)

	return offsets
}

func without(ctx map[int]byte, offset int) map[int]byte {
	out := maps.Clone(ctx)
	delete(out, offset)

	return out
}

// findMissing walks the chain of existing children matching ctx and groups
// the residues it cannot find by the depth at which the walk stopped.
func findMissing(main *rule.Node, ctx map[int]byte, depth int) map[int][]placement {
	ret := map[int][]placement{}

	for _, off := range descending(ctx) {
		p := placement{offset: off, residue: ctx[off]}

		found := main.Child(p.node())
		if found != nil {
			maps.Copy(ret, findMissing(found, without(ctx, off), depth+1))
			continue
		}

		ret[depth] = append(ret[depth], p)
	}

	return ret
}

// findReachable returns the nodes reachable from main through children
// matching ctx, keyed by how many context residues remained unmatched.
func findReachable(main *rule.Node, ctx map[int]byte) map[int]*rule.Node {
	ret := map[int]*rule.Node{}
	if len(ctx) == 0 {
		ret[0] = main
		return ret
	}

	for _, off := range descending(ctx) {
		next := main.Child(placement{offset: off, residue: ctx[off]}.node())
		if next == nil {
			ret[len(ctx)] = main
			continue
		}

		maps.Copy(ret, findReachable(next, without(ctx, off)))
	}

	return ret
}

// addMissing attaches p below the deepest node reachable through ctx. That
// node is forced to cleave so the new non-cleaving exception can override it.
func addMissing(main *rule.Node, ctx map[int]byte, p placement) {
	reachable := findReachable(main, ctx)
	where := reachable[slices.Min(slices.Collect(maps.Keys(reachable)))]
	where.Cleaves = true

	n := p.node()
	if !where.Contains(n) && !rule.Equ(where, n) {
		where.Children = append(where.Children, n)
	}
}

// resolve grafts the context of a deferred pattern onto main. Every
// iteration places one residue that was not placed before, so the loop ends
// after at most len(ctx) iterations.
func resolve(main *rule.Node, ctx map[int]byte) {
	var handled []placement

	missing := findMissing(main, ctx, 0)
	for len(missing) > 0 {
		group := missing[slices.Max(slices.Collect(maps.Keys(missing)))]

		i := slices.IndexFunc(group, func(p placement) bool {
			return !slices.Contains(handled, p)
		})
		if i < 0 {
			return
		}

		addMissing(main, ctx, group[i])
		handled = append(handled, group[i])

		done := !slices.ContainsFunc(group, func(p placement) bool {
			return !slices.Contains(handled, p)
		})
		if done {
			return
		}

		missing = findMissing(main, ctx, 0)
	}
}
