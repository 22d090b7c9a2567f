package compiler_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/cleave/pkg/compiler"
)

func TestTable(t *testing.T) {
	t.Parallel()

	table := compiler.NewTable(
		compiler.Entry{Expr: "(K,)", Cleaves: true},
		compiler.Entry{Expr: "(K,)(P)", Cleaves: false},
	)
	table.Set("(R,)", true)
	table.Set("(K,)", false)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []compiler.Entry{
		{Expr: "(K,)", Cleaves: false},
		{Expr: "(K,)(P)", Cleaves: false},
		{Expr: "(R,)", Cleaves: true},
	}, table.Entries())

	got, ok := table.Get("(R,)")
	assert.True(t, ok)
	assert.True(t, got)

	_, ok = table.Get("(W,)")
	assert.False(t, ok)

	var zero compiler.Table
	assert.Zero(t, zero.Len())
	assert.Nil(t, zero.Entries())
	zero.Set("(K,)", true)
	assert.Equal(t, 1, zero.Len())
}

func TestTable_YAML(t *testing.T) {
	t.Parallel()

	in := `"(W)(K,)(P)": true
"(K,)": true
"(K,)(P)": false
`

	var table compiler.Table
	require.NoError(t, yaml.Unmarshal([]byte(in), &table))

	assert.Equal(t, []compiler.Entry{
		{Expr: "(W)(K,)(P)", Cleaves: true},
		{Expr: "(K,)", Cleaves: true},
		{Expr: "(K,)(P)", Cleaves: false},
	}, table.Entries())

	out, err := yaml.Marshal(&table)
	require.NoError(t, err)

	var again compiler.Table
	require.NoError(t, yaml.Unmarshal(out, &again))
	assert.Equal(t, table.Entries(), again.Entries())

	require.Error(t, yaml.Unmarshal([]byte(`"(K,)": maybe`), &table))
}

func TestTable_JSON(t *testing.T) {
	t.Parallel()

	in := `{"(W)(K,)(P)":true,"(K,)":true,"(K,)(P)":false}`

	var table compiler.Table
	require.NoError(t, json.Unmarshal([]byte(in), &table))

	assert.Equal(t, "(W)(K,)(P)", table.Entries()[0].Expr)

	out, err := json.Marshal(&table)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
	assert.True(t, strings.HasPrefix(string(out), `{"(W)(K,)(P)":`), string(out))
}
