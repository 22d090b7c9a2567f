package enzyme

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
)

var (
	// ErrNotFound is returned when no enzyme has the requested name.
	ErrNotFound = errors.New("enzyme not found")
	// ErrDuplicate is returned when registering a name already in use.
	ErrDuplicate = errors.New("enzyme already registered")
)

const maxSuggestions = 3

// Registry holds enzymes by name and alias. Lookups ignore case.
// It is safe for concurrent use.
type Registry struct {
	byKey   map[string]*Enzyme
	enzymes []*Enzyme
	mu      sync.RWMutex
}

// NewRegistry creates a [*Registry] holding the given enzymes.
func NewRegistry(enzymes ...*Enzyme) (*Registry, error) {
	r := &Registry{byKey: map[string]*Enzyme{}}
	for _, e := range enzymes {
		err := r.Register(e)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

func keys(e *Enzyme) []string {
	ks := make([]string, 0, len(e.Aliases)+1)
	ks = append(ks, strings.ToLower(e.Name))
	for _, a := range e.Aliases {
		ks = append(ks, strings.ToLower(a))
	}

	return ks
}

// Register adds e. It fails with [ErrDuplicate] if e's name or any of its
// aliases is already taken.
func (r *Registry) Register(e *Enzyme) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys(e) {
		if other, ok := r.byKey[k]; ok {
			return fmt.Errorf("%w: %q is taken by %q", ErrDuplicate, k, other.Name)
		}
	}

	r.add(e)

	return nil
}

// Replace adds e, first removing every enzyme sharing a name or alias
// with it.
func (r *Registry) Replace(e *Enzyme) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys(e) {
		if other, ok := r.byKey[k]; ok {
			r.remove(other)
		}
	}

	r.add(e)
}

// Reset replaces the contents of r with those of from, so readers of r
// see either the old or the new set of enzymes and never a mix.
func (r *Registry) Reset(from *Registry) {
	from.mu.RLock()
	byKey := maps.Clone(from.byKey)
	enzymes := slices.Clone(from.enzymes)
	from.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byKey = byKey
	r.enzymes = enzymes
}

func (r *Registry) add(e *Enzyme) {
	for _, k := range keys(e) {
		r.byKey[k] = e
	}

	r.enzymes = append(r.enzymes, e)
}

func (r *Registry) remove(e *Enzyme) {
	for _, k := range keys(e) {
		delete(r.byKey, k)
	}

	r.enzymes = slices.DeleteFunc(r.enzymes, func(o *Enzyme) bool { return o == e })
}

// Get returns the enzyme called name. When there is none, the error wraps
// [ErrNotFound] and suggests close matches.
func (r *Registry) Get(name string) (*Enzyme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.byKey[strings.ToLower(name)]; ok {
		return e, nil
	}

	suggestions := r.suggest(name)
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return nil, fmt.Errorf("%w: %q, did you mean %s?", ErrNotFound, name, strings.Join(suggestions, ", "))
}

func (r *Registry) suggest(name string) []string {
	targets := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		targets = append(targets, k)
	}
	// Map iteration order would make ties nondeterministic.
	slices.Sort(targets)

	var names []string
	for _, m := range fuzzy.Find(strings.ToLower(name), targets) {
		n := r.byKey[m.Str].Name
		if slices.Contains(names, n) {
			continue
		}

		names = append(names, n)
		if len(names) == maxSuggestions {
			break
		}
	}

	return names
}

// List returns the registered enzymes in registration order.
func (r *Registry) List() []*Enzyme {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.enzymes)
}

// Names returns the registered enzyme names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.enzymes))
	for _, e := range r.enzymes {
		names = append(names, e.Name)
	}

	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.enzymes)
}
