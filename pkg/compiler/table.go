package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var minRules uint64 = 1

// Entry is one row of a [Table].
type Entry struct {
	Expr    string `json:"expr"`
	Cleaves bool   `json:"cleaves"`
}

// Table maps rule expressions to the verdict that applies when the whole
// expression matches. Insertion order is preserved, and setting an existing
// expression replaces its verdict in place.
//
// In YAML and JSON a table is a mapping of expression to boolean.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Table struct {
	m *orderedmap.OrderedMap[string, bool]
}

// NewTable creates a [*Table] holding entries in order.
func NewTable(entries ...Entry) *Table {
	t := &Table{m: orderedmap.New[string, bool]()}
	for _, e := range entries {
		t.Set(e.Expr, e.Cleaves)
	}

	return t
}

func (t *Table) init() {
	if t.m == nil {
		t.m = orderedmap.New[string, bool]()
	}
}

// Set adds or replaces an entry.
func (t *Table) Set(expr string, cleaves bool) {
	t.init()
	t.m.Set(expr, cleaves)
}

// Get returns the verdict for expr.
func (t *Table) Get(expr string) (bool, bool) {
	if t == nil || t.m == nil {
		return false, false
	}

	return t.m.Get(expr)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil || t.m == nil {
		return 0
	}

	return t.m.Len()
}

// Entries returns the entries in insertion order.
func (t *Table) Entries() []Entry {
	if t == nil || t.m == nil {
		return nil
	}

	out := make([]Entry, 0, t.m.Len())
	for p := t.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, Entry{Expr: p.Key, Cleaves: p.Value})
	}

	return out
}

func (t *Table) MarshalJSON() ([]byte, error) {
	t.init()

	return t.m.MarshalJSON() //nolint:wrapcheck // Return the original error.
}

func (t *Table) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, bool]()

	err := json.Unmarshal(data, m)
	if err != nil {
		return fmt.Errorf("unmarshal rule table: %w", err)
	}

	t.m = m

	return nil
}

func (t *Table) MarshalYAML() (any, error) {
	ms := make(yaml.MapSlice, 0, t.Len())
	for _, e := range t.Entries() {
		ms = append(ms, yaml.MapItem{Key: e.Expr, Value: e.Cleaves})
	}

	return ms, nil
}

func (t *Table) UnmarshalYAML(unmarshal func(any) error) error {
	var ms yaml.MapSlice

	err := unmarshal(&ms)
	if err != nil {
		return err
	}

	m := orderedmap.New[string, bool]()
	for _, item := range ms {
		expr, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("rule table: expression %v is not a string", item.Key)
		}

		cleaves, ok := item.Value.(bool)
		if !ok {
			return fmt.Errorf("rule table: %q: verdict %v is not a boolean", expr, item.Value)
		}

		m.Set(expr, cleaves)
	}

	t.m = m

	return nil
}

func (Table) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Title:       "Rules",
		Description: "Rule expressions mapped to whether the enzyme cuts when the whole expression matches.",
		AdditionalProperties: &jsonschema.Schema{
			Type: "boolean",
		},
		MinProperties: &minRules,
	}
}
