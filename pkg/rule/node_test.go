package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/cleave/pkg/rule"
)

// trypsinLike cleaves after K, except before P, except after W.
func trypsinLike() rule.Forest {
	w := rule.New(-1, 'W', true, rule.SideUnused)
	p := rule.New(1, 'P', false, rule.SideUnused)
	p.Children = []*rule.Node{w}
	k := rule.New(0, 'K', true, rule.SideAfter)
	k.Children = []*rule.Node{p}

	return rule.Forest{k}
}

func TestEqu(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		a, b *rule.Node
		want bool
	}{
		"same": {
			a:    rule.New(1, 'P', false, rule.SideUnused),
			b:    rule.New(1, 'P', false, rule.SideUnused),
			want: true,
		},
		"different verdict": {
			a:    rule.New(1, 'P', false, rule.SideUnused),
			b:    rule.New(1, 'P', true, rule.SideUnused),
			want: true,
		},
		"different children": {
			a:    trypsinLike()[0],
			b:    rule.New(0, 'K', false, rule.SideAfter),
			want: true,
		},
		"different offset": {
			a: rule.New(1, 'P', false, rule.SideUnused),
			b: rule.New(-1, 'P', false, rule.SideUnused),
		},
		"different residue": {
			a: rule.New(1, 'P', false, rule.SideUnused),
			b: rule.New(1, 'W', false, rule.SideUnused),
		},
		"different side": {
			a: rule.New(0, 'K', true, rule.SideBefore),
			b: rule.New(0, 'K', true, rule.SideAfter),
		},
		"nil": {
			a: rule.New(0, 'K', true, rule.SideBefore),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, rule.Equ(tc.a, tc.b))
			assert.Equal(t, tc.want, rule.Equ(tc.b, tc.a))
			if tc.a != nil {
				assert.True(t, rule.Equ(tc.a, tc.a))
			}
		})
	}
}

func TestNode_Child(t *testing.T) {
	t.Parallel()

	first := rule.New(1, 'P', false, rule.SideUnused)
	last := rule.New(1, 'P', true, rule.SideUnused)
	n := rule.New(0, 'K', true, rule.SideAfter)
	n.Children = []*rule.Node{first, rule.New(-1, 'W', true, rule.SideUnused), last}

	assert.Same(t, last, n.Child(rule.New(1, 'P', false, rule.SideUnused)))
	assert.Nil(t, n.Child(rule.New(2, 'P', false, rule.SideUnused)))
	assert.True(t, n.Contains(rule.New(-1, 'W', false, rule.SideUnused)))
}

func TestNode_ContainsAnyLevel(t *testing.T) {
	t.Parallel()

	k := trypsinLike()[0]

	assert.True(t, k.ContainsAnyLevel(rule.New(1, 'P', true, rule.SideUnused)))
	assert.True(t, k.ContainsAnyLevel(rule.New(-1, 'W', false, rule.SideUnused)))
	assert.False(t, k.Contains(rule.New(-1, 'W', false, rule.SideUnused)))
	assert.False(t, k.ContainsAnyLevel(rule.New(-2, 'W', false, rule.SideUnused)))
	assert.False(t, k.ContainsAnyLevel(rule.New(0, 'K', true, rule.SideAfter)))
}

func TestNode_Clone(t *testing.T) {
	t.Parallel()

	f := trypsinLike()
	c := f.Clone()

	require.Equal(t, f, c)

	c[0].Children[0].Cleaves = true
	c[0].Children[0].Children = nil

	assert.False(t, f[0].Children[0].Cleaves)
	assert.Len(t, f[0].Children[0].Children, 1)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 2, c.Len())
}

func TestForest_Walk(t *testing.T) {
	t.Parallel()

	var got []string

	trypsinLike().Walk(func(n *rule.Node, depth int) bool {
		got = append(got, n.Residue.String())
		return depth < 1
	})

	assert.Equal(t, []string{"K", "P"}, got)
}

func TestSide_Text(t *testing.T) {
	t.Parallel()

	for _, side := range []rule.Side{rule.SideUnused, rule.SideBefore, rule.SideAfter} {
		text, err := side.MarshalText()
		require.NoError(t, err)

		var got rule.Side
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, side, got)
	}

	var s rule.Side
	require.Error(t, s.UnmarshalText([]byte("middle")))
}

func TestResidue_Text(t *testing.T) {
	t.Parallel()

	var r rule.Residue
	require.NoError(t, r.UnmarshalText([]byte("K")))
	assert.Equal(t, rule.Residue('K'), r)
	assert.Equal(t, "K", r.String())

	require.Error(t, r.UnmarshalText([]byte("KR")))
}

func TestNode_String(t *testing.T) {
	t.Parallel()

	f := trypsinLike()

	assert.Equal(t, "K@+0 after cleave", f[0].String())
	assert.Equal(t, "P@+1 no-cleave", f[0].Children[0].String())
}
