package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/macropower/cleave/pkg/enzyme"
)

// ErrNotBool is returned when a filter does not evaluate to a boolean.
var ErrNotBool = errors.New("filter must evaluate to a bool")

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

var defaultEnv = sync.OnceValues(func() (*Environment, error) {
	return NewEnvironment()
})

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment].
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := createEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// createEnvironment creates the [*cel.Env] using the global mutex.
func createEnvironment(opts ...cel.EnvOption) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts, cel.Lib(&lib{}))

	celEnv, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles a CEL expression and returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	program, _, err := e.compile(expression)

	return program, err
}

func (e *Environment) compile(expression string) (cel.Program, *cel.Type, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, nil, fmt.Errorf("create program: %w", err)
	}

	return program, ast.OutputType(), nil
}

// NewFilter compiles a peptide filter. The expression must evaluate to a
// bool.
func (e *Environment) NewFilter(expression string) (*Filter, error) {
	program, out, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w, got %s", ErrNotBool, out)
	}

	return &Filter{program: program, expression: expression}, nil
}

// Compile compiles a peptide filter in the default [Environment].
func Compile(expression string) (*Filter, error) {
	env, err := defaultEnv()
	if err != nil {
		return nil, err
	}

	return env.NewFilter(expression)
}

// Filter selects peptides with a compiled CEL expression.
type Filter struct {
	program    cel.Program
	expression string
}

func (f *Filter) String() string {
	return f.expression
}

// Match reports whether p satisfies the filter.
func (f *Filter) Match(p enzyme.Peptide) (bool, error) {
	result, _, err := f.program.Eval(map[string]any{
		VarPeptide: p.Sequence,
		VarStart:   p.Start,
		VarEnd:     p.End,
		VarLength:  p.Len(),
		VarIndex:   p.Index,
		VarMissed:  p.MissedCleavages,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", f.expression, err)
	}

	matched, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: %w, got %T", f.expression, ErrNotBool, result.Value())
	}

	return matched, nil
}

// Apply returns the peptides matching the filter, in order.
func (f *Filter) Apply(peptides []enzyme.Peptide) ([]enzyme.Peptide, error) {
	var out []enzyme.Peptide

	for _, p := range peptides {
		ok, err := f.Match(p)
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, p)
		}
	}

	return out, nil
}
