package expr

import (
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/macropower/cleave/pkg/enzyme"
)

// Variable names available to filter expressions.
const (
	VarPeptide = "peptide"
	VarStart   = "start"
	VarEnd     = "end"
	VarLength  = "length"
	VarIndex   = "index"
	VarMissed  = "missed"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		cel.Variable(VarPeptide, cel.StringType),
		cel.Variable(VarStart, cel.IntType),
		cel.Variable(VarEnd, cel.IntType),
		cel.Variable(VarLength, cel.IntType),
		cel.Variable(VarIndex, cel.IntType),
		cel.Variable(VarMissed, cel.IntType),

		// `residueCount` counts the residues of a sequence that appear in
		// the second argument.
		// Example: residueCount(peptide, "KR") <= 2.
		cel.Function("residueCount",
			cel.Overload("residue_count_string_string", []*cel.Type{cel.StringType, cel.StringType}, cel.IntType,
				cel.BinaryBinding(func(seq, residues ref.Val) ref.Val {
					seqValue, ok := seq.(types.String)
					if !ok {
						return types.NewErr("residueCount: invalid sequence value")
					}

					residuesValue, ok := residues.(types.String)
					if !ok {
						return types.NewErr("residueCount: invalid residues value")
					}

					return types.Int(residueCount(string(seqValue), string(residuesValue)))
				}),
			),
		),

		// `mass` returns the monoisotopic mass of a sequence.
		// Example: mass(peptide) > 500.0.
		cel.Function("mass",
			cel.Overload("mass_string", []*cel.Type{cel.StringType}, cel.DoubleType,
				cel.UnaryBinding(func(seq ref.Val) ref.Val {
					seqValue, ok := seq.(types.String)
					if !ok {
						return types.NewErr("mass: invalid sequence value")
					}

					return types.Double(enzyme.Mass(enzyme.NormalizeSequence(string(seqValue))))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

func residueCount(seq, residues string) int {
	set := strings.ToUpper(residues)

	n := 0
	for _, r := range strings.ToUpper(seq) {
		if strings.ContainsRune(set, r) {
			n++
		}
	}

	return n
}
