package mcp_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/cleave/pkg/compiler"
	"github.com/macropower/cleave/pkg/enzyme"
	"github.com/macropower/cleave/pkg/mcp"
)

func newRegistry(t *testing.T) *enzyme.Registry {
	t.Helper()

	trypsin := enzyme.MustNew("Trypsin", compiler.NewTable(
		compiler.Entry{Expr: "(K or R,)", Cleaves: true},
		compiler.Entry{Expr: "(K or R,)(P)", Cleaves: false},
	))
	trypsin.Description = "Cuts after K and R."

	lysC := enzyme.MustNew("Lys-C", compiler.NewTable(
		compiler.Entry{Expr: "(K,)", Cleaves: true},
	))
	lysC.Aliases = []string{"endoproteinase lys-c"}

	reg, err := enzyme.NewRegistry(trypsin, lysC)
	require.NoError(t, err)

	return reg
}

func connect(t *testing.T) *sdk.ClientSession {
	t.Helper()

	s := mcp.NewServer("", newRegistry(t))

	serverTransport, clientTransport := sdk.NewInMemoryTransports()

	ss, err := s.Server().Connect(t.Context(), serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test", Version: "v0.0.0"}, nil)

	cs, err := client.Connect(t.Context(), clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs
}

func call[Out any](t *testing.T, cs *sdk.ClientSession, name string, args map[string]any) (*sdk.CallToolResult, Out) {
	t.Helper()

	var out Out

	res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)

	if res.IsError || res.StructuredContent == nil {
		return res, out
	}

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &out))

	return res, out
}

func text(res *sdk.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(*sdk.TextContent); ok {
			return tc.Text
		}
	}

	return ""
}

func TestServer_ListTools(t *testing.T) {
	t.Parallel()

	cs := connect(t)

	res, err := cs.ListTools(t.Context(), nil)
	require.NoError(t, err)

	names := []string{}
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}

	assert.ElementsMatch(t, []string{"list_enzymes", "compile_rules", "digest"}, names)
}

func TestServer_ListEnzymes(t *testing.T) {
	t.Parallel()

	cs := connect(t)

	tcs := map[string]struct {
		args map[string]any
		want []string
		text string
	}{
		"all": {
			args: map[string]any{},
			want: []string{"Trypsin", "Lys-C"},
			text: "Found 2 enzymes: Trypsin, Lys-C.",
		},
		"by alias": {
			args: map[string]any{"query": "ENDOPROTEINASE"},
			want: []string{"Lys-C"},
			text: "Found 1 enzymes: Lys-C.",
		},
		"no match": {
			args: map[string]any{"query": "pepsin"},
			want: []string{},
			text: `No enzyme matches "pepsin".`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, out := call[mcp.ListEnzymesResult](t, cs, "list_enzymes", tc.args)
			require.False(t, res.IsError, text(res))

			names := []string{}
			for _, e := range out.Enzymes {
				names = append(names, e.Name)
			}

			assert.Equal(t, tc.want, names)
			assert.Equal(t, len(tc.want), out.Count)
			assert.Equal(t, tc.text, text(res))
		})
	}
}

func TestServer_ListEnzymes_Rules(t *testing.T) {
	t.Parallel()

	cs := connect(t)

	_, out := call[mcp.ListEnzymesResult](t, cs, "list_enzymes", map[string]any{"query": "trypsin"})
	require.Len(t, out.Enzymes, 1)

	got := out.Enzymes[0]
	assert.Equal(t, "Cuts after K and R.", got.Description)
	assert.Equal(t, []mcp.RuleInfo{
		{Expr: "(K or R,)", Cleaves: true},
		{Expr: "(K or R,)(P)", Cleaves: false},
	}, got.Rules)
	assert.Contains(t, got.Summary, "after K: cleave")
}

func TestServer_CompileRules(t *testing.T) {
	t.Parallel()

	cs := connect(t)

	res, out := call[mcp.CompileRulesResult](t, cs, "compile_rules", map[string]any{
		"rules": []any{
			map[string]any{"expr": "(K,)", "cleaves": true},
			map[string]any{"expr": "(K,)(P)", "cleaves": false},
			map[string]any{"expr": "(K)", "cleaves": true},
		},
		"sequence": "akpakA",
	})
	require.False(t, res.IsError, text(res))

	assert.Equal(t, 2, out.Nodes)
	assert.Equal(t, []int{5}, out.Sites)
	require.Len(t, out.Rejected, 1)
	assert.Equal(t, "(K)", out.Rejected[0].Expr)
	assert.Contains(t, out.Rejected[0].Error, "no comma")
	assert.Contains(t, text(res), "Compiled 2 of 3 rules into 2 nodes.")
}

func TestServer_CompileRules_Empty(t *testing.T) {
	t.Parallel()

	cs := connect(t)

	res, _ := call[mcp.CompileRulesResult](t, cs, "compile_rules", map[string]any{
		"rules": []any{},
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "at least one rule")
}

func TestServer_Digest(t *testing.T) {
	t.Parallel()

	cs := connect(t)

	tcs := map[string]struct {
		args    map[string]any
		want    []string
		sites   []int
		errText string
	}{
		"trypsin": {
			args:  map[string]any{"enzyme": "trypsin", "sequence": "MAKPWKPARG"},
			want:  []string{"MAKPWK", "PAR", "G"},
			sites: []int{6, 9},
		},
		"fasta with missed cleavages": {
			args: map[string]any{
				"enzyme":   "Lys-C",
				"sequence": ">p1 test\nAKAK\nA\n",
				"missed":   1,
			},
			want:  []string{"AK", "AKAK", "AK", "AKA", "A"},
			sites: []int{2, 4},
		},
		"filter": {
			args: map[string]any{
				"enzyme":   "trypsin",
				"sequence": "MAKPWKPARG",
				"filter":   "length >= 3",
			},
			want:  []string{"MAKPWK", "PAR"},
			sites: []int{6, 9},
		},
		"unknown enzyme": {
			args:    map[string]any{"enzyme": "trypsn", "sequence": "AK"},
			errText: "did you mean Trypsin?",
		},
		"bad sequence": {
			args:    map[string]any{"enzyme": "trypsin", "sequence": "AK1"},
			errText: "invalid sequence",
		},
		"too many missed cleavages": {
			args:    map[string]any{"enzyme": "trypsin", "sequence": "AK", "missed": 11},
			errText: "at most 10",
		},
		"negative missed cleavages": {
			args:    map[string]any{"enzyme": "trypsin", "sequence": "AK", "missed": -1},
			errText: "must not be negative",
		},
		"bad filter": {
			args:    map[string]any{"enzyme": "trypsin", "sequence": "AK", "filter": "length +"},
			errText: "filter",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, out := call[mcp.DigestResult](t, cs, "digest", tc.args)
			if tc.errText != "" {
				assert.True(t, res.IsError)
				assert.Contains(t, text(res), tc.errText)

				return
			}

			require.False(t, res.IsError, text(res))

			got := []string{}
			for _, p := range out.Peptides {
				got = append(got, p.Sequence)
				assert.Positive(t, p.Mass)
			}

			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.sites, out.Sites)
			assert.Equal(t, len(tc.want), out.Count)
			assert.False(t, out.Truncated)
		})
	}
}

func TestServer_Handler(t *testing.T) {
	t.Parallel()

	s := mcp.NewServer("localhost:0", newRegistry(t))

	httpServer := httptest.NewServer(s.Handler())
	t.Cleanup(httpServer.Close)

	client := sdk.NewClient(&sdk.Implementation{Name: "test", Version: "v0.0.0"}, nil)

	cs, err := client.Connect(t.Context(), &sdk.StreamableClientTransport{Endpoint: httpServer.URL}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	_, out := call[mcp.ListEnzymesResult](t, cs, "list_enzymes", map[string]any{})
	assert.Equal(t, 2, out.Count)
}
