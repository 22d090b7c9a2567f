package syntax

import (
	"strings"
)

const orWord = " or "

func isResidue(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isLetter(c byte) bool {
	return isResidue(c) || (c >= 'a' && c <= 'z')
}

// Normalize upper-cases an expression and lower-cases the "or" keyword, so
// that residues and keywords can be told apart by case alone.
func Normalize(expr string) string {
	return strings.ReplaceAll(strings.ToUpper(expr), " OR ", orWord)
}

// Validate checks that expr is a well-formed rule expression and returns
// its normalized form. The returned error is an [*Error] describing the
// first problem found.
func Validate(expr string) (string, error) {
	norm := Normalize(expr)

	checks := []func(expr, norm string) *Error{
		checkHasResidue,
		checkCharacters,
		checkSpaces,
		checkAdjacentResidues,
		checkParentheses,
		checkOutsideParentheses,
		checkAlternatives,
		checkCommas,
		checkCutGroup,
	}
	for _, check := range checks {
		if err := check(expr, norm); err != nil {
			return "", err
		}
	}

	return norm, nil
}

func checkHasResidue(expr, norm string) *Error {
	for i := range len(norm) {
		if isLetter(norm[i]) {
			return nil
		}
	}

	return newError(expr, -1, "no amino acid found")
}

func checkCharacters(expr, norm string) *Error {
	for i := range len(norm) {
		c := norm[i]
		if isLetter(c) || c == ' ' || c == ',' || c == '(' || c == ')' {
			continue
		}

		return newError(expr, i, "bad character")
	}

	return nil
}

// Spaces are only legal on either side of the "or" keyword.
func checkSpaces(expr, norm string) *Error {
	for i := range len(norm) {
		if norm[i] != ' ' {
			continue
		}

		afterOr := i > 0 && norm[i-1] == 'r'
		beforeOr := i+1 < len(norm) && norm[i+1] == 'o'
		if !afterOr && !beforeOr {
			return newError(expr, i, "bad space")
		}
	}

	return nil
}

func checkAdjacentResidues(expr, norm string) *Error {
	for i := 1; i < len(norm); i++ {
		if isResidue(norm[i-1]) && isResidue(norm[i]) {
			return newError(expr, i, "too many amino acids")
		}
	}

	return nil
}

func checkParentheses(expr, norm string) *Error {
	if !strings.Contains(norm, "(") {
		return newError(expr, -1, "no opening parenthesis")
	}

	open := -1
	for i := range len(norm) {
		switch norm[i] {
		case '(':
			if open >= 0 {
				return newError(expr, i, "opening parenthesis before the previous one was closed")
			}

			open = i

		case ')':
			if open < 0 {
				return newError(expr, i, "closing parenthesis without an opening one")
			}

			open = -1
		}
	}

	if open >= 0 {
		return newError(expr, open, "parenthesis never closed")
	}

	return nil
}

func checkOutsideParentheses(expr, norm string) *Error {
	inside := false
	for i := range len(norm) {
		switch c := norm[i]; {
		case c == '(':
			inside = true
		case c == ')':
			inside = false
		case !inside && isLetter(c):
			return newError(expr, i, "amino acid outside of parentheses")
		}
	}

	return nil
}

func checkAlternatives(expr, norm string) *Error {
	for from := 0; ; {
		i := strings.Index(norm[from:], orWord)
		if i < 0 {
			return nil
		}

		i += from
		end := i + len(orWord)
		if i == 0 || !isResidue(norm[i-1]) || end >= len(norm) || !isResidue(norm[end]) {
			return newError(expr, i+1, "'or' must join two amino acids")
		}

		from = end
	}
}

func checkCommas(expr, norm string) *Error {
	switch n := strings.Count(norm, ","); {
	case n > 2:
		return newError(expr, -1, "too many commas")
	case n == 0:
		return newError(expr, -1, "no comma")
	}

	for i := range len(norm) {
		if norm[i] != ',' {
			continue
		}

		afterOpen := i > 0 && norm[i-1] == '('
		beforeClose := i+1 < len(norm) && norm[i+1] == ')'
		if !afterOpen && !beforeClose {
			return newError(expr, i, "bad comma")
		}
	}

	// A second comma must sit in the same group as the first.
	seen, closed := false, false
	for i := range len(norm) {
		switch norm[i] {
		case ',':
			if seen && closed {
				return newError(expr, i, "bad comma")
			}

			seen = true

		case ')':
			closed = closed || seen
		}
	}

	return nil
}

func checkCutGroup(expr, norm string) *Error {
	comma := strings.IndexByte(norm, ',')
	start := strings.LastIndexByte(norm[:comma], '(')
	end := comma + strings.IndexByte(norm[comma:], ')')

	for i := start + 1; i < end; i++ {
		if isResidue(norm[i]) {
			return nil
		}
	}

	return newError(expr, comma, "cleavage boundary without an amino acid")
}
