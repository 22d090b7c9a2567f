package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/cleave/pkg/rule"
)

func TestForest_Describe(t *testing.T) {
	t.Parallel()

	want := "after K: cleave\n" +
		"  unless P at +1: no cleave\n" +
		"    unless W at -1: cleave\n"

	assert.Equal(t, want, trypsinLike().Describe())
	assert.Empty(t, rule.Forest{}.Describe())
}
