package compiler

import (
	"slices"

	"github.com/macropower/cleave/pkg/rule"
)

type mergeTask struct {
	target *[]*rule.Node
	node   *rule.Node
}

// Merge inserts n into target, which is a forest or a node's children, and
// takes ownership of n.
//
//   - If a node in target is [rule.Equ] to n, the children of n are merged
//     into that node's children instead.
//   - Otherwise, if a node in target is [rule.Equ] to one of n's children,
//     that child is dropped, the verdict of n is flipped, and n is merged
//     into the matching node's children.
//   - Otherwise n is appended.
//
// No two nodes in target, or in any merged subtree, end up [rule.Equ].
func Merge(target *[]*rule.Node, n *rule.Node) {
	stack := []mergeTask{{target: target, node: n}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = task.merge(stack)
	}
}

// merge performs one step and returns the stack with follow-up tasks pushed
// so that children are handled in order, depth first.
func (t mergeTask) merge(stack []mergeTask) []mergeTask {
	list := *t.target

	for _, existing := range list {
		if !rule.Equ(existing, t.node) {
			continue
		}

		for i := len(t.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, mergeTask{target: &existing.Children, node: t.node.Children[i]})
		}

		return stack
	}

	for _, existing := range list {
		for i, c := range t.node.Children {
			if !rule.Equ(c, existing) {
				continue
			}

			t.node.Cleaves = !t.node.Cleaves
			t.node.Children = slices.Delete(t.node.Children, i, i+1)

			return append(stack, mergeTask{target: &existing.Children, node: t.node})
		}
	}

	*t.target = append(list, t.node)

	return stack
}
