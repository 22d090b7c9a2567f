package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/cleave/pkg/compiler"
	"github.com/macropower/cleave/pkg/rule"
)

func node(offset int, residue byte, cleaves bool, side rule.Side, children ...*rule.Node) *rule.Node {
	n := rule.New(offset, residue, cleaves, side)
	n.Children = children

	return n
}

func TestMerge(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		target func() rule.Forest
		add    func() *rule.Node
		want   string
	}{
		"append": {
			target: func() rule.Forest {
				return rule.Forest{node(0, 'K', true, rule.SideAfter)}
			},
			add: func() *rule.Node {
				return node(0, 'R', true, rule.SideAfter)
			},
			want: "after K: cleave\nafter R: cleave\n",
		},
		"equal node merges children": {
			target: func() rule.Forest {
				return rule.Forest{node(0, 'K', true, rule.SideAfter,
					node(1, 'P', false, rule.SideUnused),
				)}
			},
			add: func() *rule.Node {
				return node(0, 'K', false, rule.SideAfter,
					node(1, 'P', true, rule.SideUnused,
						node(-1, 'W', true, rule.SideUnused),
					),
					node(-1, 'D', false, rule.SideUnused),
				)
			},
			want: "after K: cleave\n" +
				"  unless P at +1: no cleave\n" +
				"    unless W at -1: cleave\n" +
				"  unless D at -1: no cleave\n",
		},
		"same side matters": {
			target: func() rule.Forest {
				return rule.Forest{node(0, 'K', true, rule.SideAfter)}
			},
			add: func() *rule.Node {
				return node(0, 'K', true, rule.SideBefore)
			},
			want: "after K: cleave\nbefore K: cleave\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := tc.target()
			compiler.Merge((*[]*rule.Node)(&f), tc.add())
			assert.Equal(t, tc.want, f.Describe())
		})
	}
}

func TestMerge_Conflict(t *testing.T) {
	t.Parallel()

	children := []*rule.Node{node(-1, 'W', true, rule.SideUnused)}
	compiler.Merge(&children, node(1, 'P', false, rule.SideUnused,
		node(-1, 'W', false, rule.SideUnused),
	))

	require.Len(t, children, 1)

	w := children[0]
	assert.True(t, w.Cleaves)
	require.Len(t, w.Children, 1)

	p := w.Children[0]
	assert.Equal(t, rule.Residue('P'), p.Residue)
	assert.True(t, p.Cleaves)
	assert.Empty(t, p.Children)
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	build := func() *rule.Node {
		return node(0, 'K', true, rule.SideAfter,
			node(1, 'P', false, rule.SideUnused,
				node(-1, 'W', true, rule.SideUnused),
			),
		)
	}

	var f rule.Forest
	compiler.Merge((*[]*rule.Node)(&f), build())
	want := f.Describe()

	compiler.Merge((*[]*rule.Node)(&f), build())
	compiler.Merge((*[]*rule.Node)(&f), build())

	assert.Equal(t, want, f.Describe())
	assert.Equal(t, 3, f.Len())
}
