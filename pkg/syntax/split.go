package syntax

import (
	"strings"
)

// Split rewrites an expression holding "or" alternatives into the equivalent
// list of expressions without any. Each alternative keeps the groups around
// it, and the cut comma when it shares a group with the alternative.
//
// Split expects a normalized expression, see [Validate].
func Split(expr string) []string {
	i := strings.Index(expr, orWord)
	if i < 1 {
		return []string{expr}
	}

	closing := strings.IndexByte(expr[i:], ')')
	if closing < 0 {
		return []string{expr}
	}

	closing += i
	head := expr[:i-1]
	tail := expr[closing:]
	if expr[closing-1] == ',' {
		tail = "," + tail
	}

	left := head + expr[i-1:i] + tail
	right := head + expr[i+len(orWord):]

	return append(Split(left), Split(right)...)
}

// ExpandSides rewrites an expression that cuts on both sides of a residue,
// such as "(A)(,K,)", into one expression cutting before the residue and one
// cutting after it: "(A)(,K)" and "(A)(K,)". Any other expression is returned
// unchanged.
func ExpandSides(expr string) []string {
	if strings.Count(expr, ",") != 2 {
		return []string{expr}
	}

	begin := strings.Index(expr, "(,")
	end := strings.Index(expr, ",)")
	if begin < 0 || end < 0 || begin+2 >= len(expr) {
		return []string{expr}
	}

	residue := expr[begin+2 : begin+3]
	before := expr[:begin+2] + residue + expr[end+1:]
	after := expr[:begin+1] + residue + expr[end:]

	return []string{before, after}
}

// Expand applies [Split] and then [ExpandSides], returning the simple
// expressions an entry stands for in the order they are derived.
func Expand(expr string) []string {
	var out []string
	for _, simple := range Split(expr) {
		out = append(out, ExpandSides(simple)...)
	}

	return out
}
