// Package rangespec parses compact integer set specifications such as
// "2,4-6,10-20:5" into ordered lists of integers.
package rangespec

import (
	"fmt"
	"strconv"
	"strings"
)

type kind int

const (
	kindText kind = iota
	kindAtoms
	kindScalar
)

// Spec is one of a comma separated text, a list of atoms or a single scalar.
// Build it with Text, Atoms or Scalar.
type Spec struct {
	kind   kind
	text   string
	atoms  []string
	scalar int
}

// Text wraps a comma separated specification like "1,2,4-8:2".
func Text(s string) Spec { return Spec{kind: kindText, text: s} }

// Atoms wraps specification atoms that were already split by the caller,
// for example repeated command line flags.
func Atoms(a ...string) Spec { return Spec{kind: kindAtoms, atoms: a} }

// Scalar wraps a single integer.
func Scalar(n int) Spec { return Spec{kind: kindScalar, scalar: n} }

// SyntaxError reports a malformed atom.
type SyntaxError struct {
	Atom   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid range atom %q: %s", e.Atom, e.Reason)
}

// Parse expands spec into integers, preserving atom order. Ranges expand in
// increasing order. Duplicates are kept.
func Parse(spec Spec) ([]int, error) {
	var parts []string
	switch spec.kind {
	case kindScalar:
		if spec.scalar < 0 {
			return nil, &SyntaxError{Atom: strconv.Itoa(spec.scalar), Reason: "negative value"}
		}
		return []int{spec.scalar}, nil
	case kindAtoms:
		parts = spec.atoms
	default:
		parts = strings.Split(spec.text, ",")
	}

	var values []int
	for _, part := range parts {
		vs, err := parseAtom(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		values = append(values, vs...)
	}
	return values, nil
}

func parseAtom(atom string) ([]int, error) {
	if atom == "" {
		return nil, &SyntaxError{Atom: atom, Reason: "empty"}
	}

	// A whole-atom integer wins over range syntax.
	if n, err := strconv.Atoi(atom); err == nil {
		if n < 0 {
			return nil, &SyntaxError{Atom: atom, Reason: "negative value"}
		}
		return []int{n}, nil
	}

	bounds := strings.Split(atom, "-")
	if len(bounds) != 2 {
		return nil, &SyntaxError{Atom: atom, Reason: "expected N, A-B or A-B:S"}
	}
	start, err := parseBound(atom, bounds[0])
	if err != nil {
		return nil, err
	}

	end, step := bounds[1], "1"
	if i := strings.IndexByte(end, ':'); i >= 0 {
		end, step = end[:i], end[i+1:]
	}
	stop, err := parseBound(atom, end)
	if err != nil {
		return nil, err
	}
	s, err := parseBound(atom, step)
	if err != nil {
		return nil, err
	}
	if s == 0 {
		return nil, &SyntaxError{Atom: atom, Reason: "step must be positive"}
	}

	// Generated over [start, stop+1) so stop is reached whenever the step lands on it.
	var values []int
	for v := start; v < stop+1; v += s {
		values = append(values, v)
	}
	return values, nil
}

func parseBound(atom, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &SyntaxError{Atom: atom, Reason: fmt.Sprintf("bad number %q", s)}
	}
	if n < 0 {
		return 0, &SyntaxError{Atom: atom, Reason: "negative value"}
	}
	return n, nil
}
