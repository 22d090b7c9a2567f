package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/macropower/cleave/pkg/compiler"
	"github.com/macropower/cleave/pkg/rule"
)

var ErrNoRules = errors.New("no rules given")

var (
	rootStyle     = lipgloss.NewStyle().Bold(true)
	cleaveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	noCleaveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	enumStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginRight(1)
)

type CompileArgs struct {
	*RootArgs

	Output string
	Rules  []string
}

// CompileOutput is the YAML and JSON form of a compiled table.
type CompileOutput struct {
	Name     string           `json:"name,omitempty"`
	Forest   rule.Forest      `json:"forest"`
	Rejected []RejectedOutput `json:"rejected,omitempty"`
	Orphans  []string         `json:"orphans,omitempty"`
}

type RejectedOutput struct {
	Expr  string `json:"expr"`
	Error string `json:"error"`
}

func NewCompileCmd(ra *RootArgs) *cobra.Command {
	args := &CompileArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "compile [enzyme]",
		Short: "Print the compiled rule tree of an enzyme or a list of rules",
		Example: `  cleave compile trypsin
  cleave compile --rule '(K or R,)' --rule '(K or R,)(P)=false' -o yaml`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: enzymeCompletion(ra),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			return runCompile(cmd, args, posArgs)
		},
	}

	cmd.Flags().StringArrayVarP(&args.Rules, "rule", "r", nil,
		"Rule as EXPR or EXPR=BOOL, where false marks an exception (repeatable)")
	addOutputFlag(cmd, &args.Output)

	return cmd
}

// ParseRule splits a rule flag of the form EXPR or EXPR=BOOL.
func ParseRule(s string) (compiler.Entry, error) {
	expr, value, found := strings.Cut(s, "=")
	if !found {
		return compiler.Entry{Expr: s, Cleaves: true}, nil
	}

	cleaves, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return compiler.Entry{}, fmt.Errorf("rule %q: %w", s, err)
	}

	return compiler.Entry{Expr: strings.TrimSpace(expr), Cleaves: cleaves}, nil
}

func runCompile(cmd *cobra.Command, ca *CompileArgs, posArgs []string) error {
	err := checkOutput(ca.Output)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	var (
		name  string
		table *compiler.Table
	)

	switch {
	case len(posArgs) == 1:
		reg, err := ca.Registry(ctx)
		if err != nil {
			return err
		}

		e, err := reg.Get(posArgs[0])
		if err != nil {
			return err //nolint:wrapcheck // Return the original error.
		}

		name, table = e.Name, e.Rules

	case len(ca.Rules) > 0:
		entries := make([]compiler.Entry, 0, len(ca.Rules))
		for _, r := range ca.Rules {
			entry, err := ParseRule(r)
			if err != nil {
				return err
			}

			entries = append(entries, entry)
		}

		table = compiler.NewTable(entries...)

	default:
		return fmt.Errorf("%w: pass an enzyme name or at least one --rule", ErrNoRules)
	}

	res, err := compiler.Compile(ctx, table)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	out := CompileOutput{
		Name:    name,
		Forest:  res.Forest,
		Orphans: res.Orphans,
	}
	for _, rej := range res.Rejected {
		out.Rejected = append(out.Rejected, RejectedOutput{Expr: rej.Expr, Error: rej.Err.Error()})
	}

	if ca.Output != OutputText {
		return writeDocument(cmd, out, ca.Output)
	}

	return writeCompileText(cmd, out)
}

func writeCompileText(cmd *cobra.Command, out CompileOutput) error {
	w := cmd.OutOrStdout()

	root := out.Name
	if root == "" {
		root = "rules"
	}

	mustN(fmt.Fprintln(w, ForestTree(root, out.Forest).String()))

	for _, rej := range out.Rejected {
		mustN(fmt.Fprintf(w, "%s %s\n", errorStyle.Render("rejected"), rej.Error))
	}
	for _, orphan := range out.Orphans {
		mustN(fmt.Fprintf(w, "%s %q has no matching rule\n", noCleaveStyle.Render("orphan"), orphan))
	}

	return nil
}

// ForestTree renders f as a tree under a root labelled root.
func ForestTree(root string, f rule.Forest) *tree.Tree {
	t := tree.Root(rootStyle.Render(root)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle)

	for _, n := range f {
		t.Child(nodeTree(n))
	}

	return t
}

func nodeTree(n *rule.Node) any {
	style := noCleaveStyle
	if n.Cleaves {
		style = cleaveStyle
	}

	label := style.Render(n.Label())
	if len(n.Children) == 0 {
		return label
	}

	t := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle)
	for _, c := range n.Children {
		t.Child(nodeTree(c))
	}

	return t
}
