// Package compiler turns a [Table] of rule expressions into a
// [rule.Forest].
//
// Expressions are validated, their alternatives and two-sided cuts
// expanded, and the resulting simple expressions compiled from shortest to
// longest. Each becomes a chain of nodes merged into the forest with
// [Merge]. Expressions whose verdict depends on an exception to an
// exception are deferred and grafted onto the finished forest.
package compiler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/macropower/cleave/pkg/log"
	"github.com/macropower/cleave/pkg/rule"
	"github.com/macropower/cleave/pkg/syntax"
)

// ErrInternal is returned when a validated expression cannot be compiled.
var ErrInternal = syntax.ErrInternal

// Rejection is a table entry that failed validation.
type Rejection struct {
	Err  error
	Expr string
}

// Result is the output of [Compile].
type Result struct {
	// Forest holds the compiled rules.
	Forest rule.Forest
	// Rejected lists the entries skipped because they failed validation.
	Rejected []Rejection
	// Orphans lists deferred expressions with no matching top-level rule.
	Orphans []string
}

// Err joins the rejection errors, or returns nil when there were none.
func (r *Result) Err() error {
	errs := make([]error, 0, len(r.Rejected))
	for _, rej := range r.Rejected {
		errs = append(errs, rej.Err)
	}

	return errors.Join(errs...)
}

// Option configures [Compile].
type Option func(*options)

type options struct {
	logger *slog.Logger
	strict bool
}

// WithLogger sets the logger used to report skipped entries.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrict makes the first invalid entry fail the whole compilation.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

type deferred struct {
	pattern *syntax.Pattern
	top     *rule.Node
}

// Compile compiles table into a forest. Entries that fail validation are
// reported in [Result.Rejected] and skipped, unless [WithStrict] is set.
// An error wrapping [ErrInternal] means a validated entry could not be
// compiled.
func Compile(ctx context.Context, table *Table, opts ...Option) (*Result, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	tracer := otel.Tracer("github.com/macropower/cleave/pkg/compiler")
	ctx, span := tracer.Start(ctx, "compile", trace.WithAttributes(
		attribute.Int("entries", table.Len()),
	))
	defer span.End()

	logger := o.logger
	if logger == nil {
		logger = log.WithContext(ctx)
	}

	res, err := compile(ctx, logger, table, o.strict)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(
		attribute.Int("nodes", res.Forest.Len()),
		attribute.Int("rejected", len(res.Rejected)),
	)

	return res, nil
}

// MustCompile is like [Compile] but panics on any error, including
// rejected entries.
func MustCompile(table *Table) rule.Forest {
	res, err := Compile(context.Background(), table, WithStrict())
	if err != nil {
		panic(err)
	}

	return res.Forest
}

func compile(ctx context.Context, logger *slog.Logger, table *Table, strict bool) (*Result, error) {
	res := &Result{}

	simple, err := expand(ctx, logger, table, res, strict)
	if err != nil {
		return nil, err
	}

	exprs := make([]string, 0, simple.Len())
	for p := simple.Oldest(); p != nil; p = p.Next() {
		exprs = append(exprs, p.Key)
	}

	slices.SortStableFunc(exprs, func(a, b string) int {
		return cmp.Compare(len(a), len(b))
	})

	var pending []deferred

	for _, expr := range exprs {
		cleaves, _ := simple.Get(expr)

		p, err := syntax.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", expr, err)
		}

		top := rule.New(0, p.Residue, cleaves, p.Side)
		if len(p.Context) == 0 {
			Merge((*[]*rule.Node)(&res.Forest), top)
			continue
		}

		top.Cleaves = !cleaves
		if top.Cleaves {
			pending = append(pending, deferred{pattern: p, top: top})
			continue
		}

		chain(top, p, cleaves)
		Merge((*[]*rule.Node)(&res.Forest), top)
	}

	for _, d := range pending {
		main := res.Forest.Find(d.top)
		if main == nil {
			logger.WarnContext(ctx, "no rule to attach exception to",
				slog.String("expr", d.pattern.Expr),
			)
			res.Orphans = append(res.Orphans, d.pattern.Expr)

			continue
		}

		resolve(main, d.pattern.Context)
	}

	logger.DebugContext(ctx, "compiled rules",
		slog.Int("entries", table.Len()),
		slog.Int("expressions", len(exprs)),
		slog.Int("deferred", len(pending)),
		slog.Int("nodes", res.Forest.Len()),
	)

	return res, nil
}

// expand validates every entry and returns the simple expressions they
// stand for. Alternatives are expanded first, in table order, and two-sided
// cuts afterwards, moving their expansions to the end.
func expand(
	ctx context.Context,
	logger *slog.Logger,
	table *Table,
	res *Result,
	strict bool,
) (*orderedmap.OrderedMap[string, bool], error) {
	simple := orderedmap.New[string, bool]()

	for _, e := range table.Entries() {
		norm, err := syntax.Validate(e.Expr)
		if err != nil {
			if strict {
				return nil, fmt.Errorf("rule %q: %w", e.Expr, err)
			}

			logger.WarnContext(ctx, "skipping invalid rule",
				slog.String("expr", e.Expr),
				slog.Any("error", err),
			)
			res.Rejected = append(res.Rejected, Rejection{Expr: e.Expr, Err: err})

			continue
		}

		for _, expr := range syntax.Split(norm) {
			simple.Set(expr, e.Cleaves)
		}
	}

	var twoSided []string
	for p := simple.Oldest(); p != nil; p = p.Next() {
		if strings.Count(p.Key, ",") > 1 {
			twoSided = append(twoSided, p.Key)
		}
	}

	for _, expr := range twoSided {
		cleaves, _ := simple.Delete(expr)
		for _, side := range syntax.ExpandSides(expr) {
			simple.Set(side, cleaves)
		}
	}

	return simple, nil
}

// chain hangs the context of p below top, one node per offset from the
// largest offset to the smallest. Nodes start with the negated verdict,
// which flips back once it reaches the leftmost offset, or the rightmost
// one when all context follows the boundary.
func chain(top *rule.Node, p *syntax.Pattern, cleaves bool) {
	offsets := p.Offsets()
	flipAt := slices.Min(offsets)
	if flipAt > 0 {
		flipAt = slices.Max(offsets)
	}

	verdict := !cleaves
	prev := top

	for _, off := range offsets {
		if off == flipAt {
			verdict = !verdict
		}

		n := rule.New(off, p.Context[off], verdict, rule.SideUnused)
		if !rule.Equ(prev, n) && !prev.ContainsAnyLevel(n) {
			prev.Children = append(prev.Children, n)
		}

		prev = n
	}
}
