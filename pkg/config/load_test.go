package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/cleave/api/v1beta1/enzymesets"
	"github.com/macropower/cleave/pkg/config"
	"github.com/macropower/cleave/pkg/enzyme"
)

const header = `apiVersion: cleave.jacobcolvin.com/v1beta1
kind: EnzymeSet
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadEnzymeSet(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input     string
		err       string
		wantNames []string
	}{
		"valid": {
			input: header + `enzymes:
  - name: Custom
    aliases: [my-enzyme]
    rules:
      "(K,)": true
      "(K,)(P)": false
  - name: Other
    rules:
      "(,D)": true
`,
			wantNames: []string{"Custom", "Other"},
		},
		"empty list": {
			input:     header + "enzymes: []\n",
			wantNames: []string{},
		},
		"invalid expression": {
			input: header + `enzymes:
  - name: Broken
    rules:
      "(K)": true
`,
			err: "no comma",
		},
		"non-boolean verdict": {
			input: header + `enzymes:
  - name: Broken
    rules:
      K: maybe
`,
			err: "validate enzyme set",
		},
		"unknown field": {
			input: header + `enzymes:
  - name: Broken
    cuts: 2
    rules:
      "(K,)": true
`,
			err: "validate enzyme set",
		},
		"missing rules": {
			input: header + `enzymes:
  - name: Broken
`,
			err: "validate enzyme set",
		},
		"wrong kind": {
			input: `apiVersion: cleave.jacobcolvin.com/v1beta1
kind: Configuration
enzymes: []
`,
			err: "validate enzyme set",
		},
		"invalid yaml": {
			input: header + "enzymes: [\n",
			err:   "validate enzyme set",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			set, err := config.LoadEnzymeSet(t.Context(), []byte(tc.input))
			if tc.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.err)

				return
			}

			require.NoError(t, err)

			names := []string{}
			for _, e := range set.Enzymes {
				names = append(names, e.Name)
				assert.NotNil(t, e.Forest())
			}

			assert.Equal(t, tc.wantNames, names)
		})
	}
}

func TestLoadEnzymeSet_RuleOrder(t *testing.T) {
	t.Parallel()

	set, err := config.LoadEnzymeSet(t.Context(), []byte(header+`enzymes:
  - name: Ordered
    rules:
      "(W)(K,)(P)": true
      "(K,)": true
      "(K,)(P)": false
`))
	require.NoError(t, err)
	require.Len(t, set.Enzymes, 1)

	entries := set.Enzymes[0].Rules.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "(W)(K,)(P)", entries[0].Expr)
	assert.Equal(t, "(K,)", entries[1].Expr)
	assert.Equal(t, "(K,)(P)", entries[2].Expr)
	assert.False(t, entries[2].Cleaves)
}

func TestLoadEnzymeSetFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "enzymes.yaml", header+`enzymes:
  - name: Custom
    rules:
      "(K,)": true
`)

	set, err := config.LoadEnzymeSetFile(t.Context(), path)
	require.NoError(t, err)
	require.Len(t, set.Enzymes, 1)

	_, err = config.LoadEnzymeSetFile(t.Context(), filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.LoadEnzymeSetFile(t.Context(), dir)
	require.ErrorContains(t, err, "path is a directory")
}

func TestBuiltin(t *testing.T) {
	t.Parallel()

	reg, err := config.Builtin()
	require.NoError(t, err)
	assert.Positive(t, reg.Len())

	tcs := map[string]struct {
		enzyme string
		seq    string
		want   []int
	}{
		"trypsin blocked by proline":     {enzyme: "Trypsin", seq: "AKPA"},
		"trypsin exception to exception": {enzyme: "Trypsin", seq: "WKPA", want: []int{2}},
		"trypsin plain":                  {enzyme: "trypsin", seq: "AKAR", want: []int{2}},
		"proline endopeptidase blocked":  {enzyme: "Proline-endopeptidase", seq: "HPP"},
		"proline endopeptidase":          {enzyme: "post-proline cleaving enzyme", seq: "HPA", want: []int{2}},
		"granzyme b":                     {enzyme: "Granzyme-B", seq: "IEPDA", want: []int{4}},
		"granzyme b partial motif":       {enzyme: "Granzyme-B", seq: "AEPDA"},
		"thermolysin before":             {enzyme: "Thermolysin", seq: "GAG", want: []int{1}},
		"thermolysin blocked":            {enzyme: "Thermolysin", seq: "DAP"},
		"staphylococcal peptidase":       {enzyme: "Staphylococcal-peptidase-I", seq: "AEEA", want: []int{2}},
		"hydroxylamine":                  {enzyme: "Hydroxylamine", seq: "ANGA", want: []int{2}},
		"hydroxylamine without glycine":  {enzyme: "Hydroxylamine", seq: "ANAA"},
		"enterokinase":                   {enzyme: "enteropeptidase", seq: "DDDDKA", want: []int{5}},
		"lys-n":                          {enzyme: "Lys-N", seq: "AKA", want: []int{1}},
		"asp-n":                          {enzyme: "Asp-N", seq: "ACAD", want: []int{1, 3}},
		"cnbr":                           {enzyme: "cyanogen bromide", seq: "AMAM", want: []int{2}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			e, err := reg.Get(tc.enzyme)
			require.NoError(t, err)

			got, err := e.Sites(tc.seq)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuiltin_Independent(t *testing.T) {
	t.Parallel()

	a, err := config.Builtin()
	require.NoError(t, err)

	b, err := config.Builtin()
	require.NoError(t, err)

	a.Replace(enzyme.MustNew("Trypsin", enzymeTable()))

	assert.Equal(t, a.Len(), b.Len())

	got, err := b.Get("trypsin")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rules.Len())
}

func TestLoadRegistry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "first.yaml", header+`enzymes:
  - name: Trypsin
    description: Strict trypsin.
    rules:
      "(K or R,)": true
  - name: Custom
    rules:
      "(Q,)": true
`)
	second := writeFile(t, dir, "second.yaml", header+`enzymes:
  - name: Custom
    rules:
      "(N,)": true
`)

	builtin, err := config.Builtin()
	require.NoError(t, err)

	reg, err := config.LoadRegistry(t.Context(), []string{first, second})
	require.NoError(t, err)

	assert.Equal(t, builtin.Len()+1, reg.Len())

	trypsin, err := reg.Get("trypsin")
	require.NoError(t, err)
	assert.Equal(t, "Strict trypsin.", trypsin.Description)

	custom, err := reg.Get("custom")
	require.NoError(t, err)

	sites, err := custom.Sites("ANAQA")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, sites)

	_, err = config.LoadRegistry(t.Context(), []string{filepath.Join(dir, "missing.yaml")})
	require.Error(t, err)
}

func TestWriteBuiltin(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "enzymes.yaml")
	require.NoError(t, config.WriteBuiltin(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, enzymesets.BuiltinYAML(), data)

	set, err := config.LoadEnzymeSetFile(t.Context(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, set.Enzymes)
}

//nolint:paralleltest // Sets environment variables.
func TestDiscoverPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	project := t.TempDir()
	sub := filepath.Join(project, "data")
	require.NoError(t, os.MkdirAll(sub, 0o700))

	got, err := config.DiscoverPaths(sub)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, os.MkdirAll(filepath.Join(home, "cleave"), 0o700))
	userPath := writeFile(t, filepath.Join(home, "cleave"), config.UserFileName, header+"enzymes: []\n")
	projectPath := writeFile(t, project, ".cleave.yaml", header+"enzymes: []\n")

	got, err = config.DiscoverPaths(sub)
	require.NoError(t, err)
	assert.Equal(t, []string{userPath, projectPath}, got)
}
