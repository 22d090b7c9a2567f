// Package enzyme digests protein sequences with compiled cleavage rules.
package enzyme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/cleave/pkg/compiler"
	"github.com/macropower/cleave/pkg/rule"
)

// ErrNotCompiled is returned when digesting with an [Enzyme] whose rules
// were never compiled.
var ErrNotCompiled = errors.New("enzyme rules not compiled")

// Enzyme is a named protease and the rules describing where it cuts.
type Enzyme struct {
	// Rules maps rule expressions to whether the enzyme cuts when the
	// whole expression matches.
	Rules *compiler.Table `json:"rules" jsonschema:"title=Rules"`
	// Name identifies the enzyme.
	Name string `json:"name" jsonschema:"title=Name,minLength=1"`
	// Description is a human-readable summary of the rules.
	Description string `json:"description,omitempty" jsonschema:"title=Description"`
	// Aliases are alternative names the enzyme can be looked up by.
	Aliases []string `json:"aliases,omitempty" jsonschema:"title=Aliases"`

	forest   rule.Forest
	compiled bool
}

// New creates an [*Enzyme] and compiles its rules.
func New(name string, rules *compiler.Table) (*Enzyme, error) {
	e := &Enzyme{
		Name:  name,
		Rules: rules,
	}

	err := e.Compile(context.Background())
	if err != nil {
		return nil, err
	}

	return e, nil
}

// MustNew is like [New] but panics on error.
func MustNew(name string, rules *compiler.Table) *Enzyme {
	e, err := New(name, rules)
	if err != nil {
		panic(err)
	}

	return e
}

// Compile compiles the rules. Any invalid rule fails the compilation.
func (e *Enzyme) Compile(ctx context.Context) error {
	if e.Rules.Len() == 0 {
		return fmt.Errorf("enzyme %q: no rules", e.Name)
	}

	res, err := compiler.Compile(ctx, e.Rules, compiler.WithStrict())
	if err != nil {
		return fmt.Errorf("enzyme %q: %w", e.Name, err)
	}

	e.forest = res.Forest
	e.compiled = true

	return nil
}

// Forest returns the compiled rules, or nil before [Enzyme.Compile].
func (e *Enzyme) Forest() rule.Forest {
	return e.forest
}

// Matches reports whether name is the enzyme's name or one of its aliases,
// ignoring case.
func (e *Enzyme) Matches(name string) bool {
	if strings.EqualFold(e.Name, name) {
		return true
	}

	for _, alias := range e.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}

	return false
}

// Sites returns the boundaries at which the enzyme cuts seq. Boundary b
// lies between the residues at 0-based indices b-1 and b.
func (e *Enzyme) Sites(seq string) ([]int, error) {
	if !e.compiled {
		return nil, fmt.Errorf("enzyme %q: %w", e.Name, ErrNotCompiled)
	}

	return e.forest.Sites([]byte(NormalizeSequence(seq))), nil
}

// Digest cuts seq at every site, see [Enzyme.DigestWithMissed].
func (e *Enzyme) Digest(ctx context.Context, seq string) ([]Peptide, error) {
	return e.DigestWithMissed(ctx, seq, 0)
}

// DigestWithMissed cuts seq at every site and returns the resulting
// peptides in sequence order. With missed greater than zero it also returns
// every peptide spanning up to missed uncut sites, after the peptide
// starting at the same position.
func (e *Enzyme) DigestWithMissed(ctx context.Context, seq string, missed int) ([]Peptide, error) {
	if missed < 0 {
		return nil, fmt.Errorf("missed cleavages must not be negative, got %d", missed)
	}

	tracer := otel.Tracer("github.com/macropower/cleave/pkg/enzyme")
	_, span := tracer.Start(ctx, "digest", trace.WithAttributes(
		attribute.String("enzyme", e.Name),
		attribute.Int("length", len(seq)),
		attribute.Int("missed", missed),
	))
	defer span.End()

	norm := NormalizeSequence(seq)

	sites, err := e.Sites(norm)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	peptides := fragment(norm, sites, missed)
	span.SetAttributes(attribute.Int("peptides", len(peptides)))

	return peptides, nil
}

func fragment(seq string, sites []int, missed int) []Peptide {
	if seq == "" {
		return nil
	}

	bounds := make([]int, 0, len(sites)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, sites...)
	bounds = append(bounds, len(seq))

	var peptides []Peptide

	for i := 0; i < len(bounds)-1; i++ {
		for m := 0; m <= missed && i+m+1 < len(bounds); m++ {
			start, end := bounds[i], bounds[i+m+1]
			peptides = append(peptides, Peptide{
				Sequence:        seq[start:end],
				Start:           start + 1,
				End:             end,
				Index:           len(peptides),
				MissedCleavages: m,
			})
		}
	}

	return peptides
}

// NormalizeSequence upper-cases seq and removes whitespace.
func NormalizeSequence(seq string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return unicode.ToUpper(r)
	}, seq)
}
