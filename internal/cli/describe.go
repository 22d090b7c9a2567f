package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/macropower/cleave/pkg/compiler"
	"github.com/macropower/cleave/pkg/enzyme"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type DescribeArgs struct {
	*RootArgs

	Output string
}

// DescribeOutput is the YAML and JSON form of a described enzyme.
type DescribeOutput struct {
	Rules       *compiler.Table `json:"rules"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Summary     string          `json:"summary"`
	Aliases     []string        `json:"aliases,omitempty"`
}

func NewDescribeCmd(ra *RootArgs) *cobra.Command {
	args := &DescribeArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:               "describe [enzyme]...",
		Short:             "Describe the rules of enzymes in plain words",
		Example:           `  cleave describe trypsin lys-c`,
		ValidArgsFunction: enzymeCompletion(ra),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			return runDescribe(cmd, args, posArgs)
		},
	}

	addOutputFlag(cmd, &args.Output)

	return cmd
}

func runDescribe(cmd *cobra.Command, da *DescribeArgs, names []string) error {
	err := checkOutput(da.Output)
	if err != nil {
		return err
	}

	reg, err := da.Registry(cmd.Context())
	if err != nil {
		return err
	}

	var enzymes []*enzyme.Enzyme
	if len(names) == 0 {
		enzymes = reg.List()
	}

	for _, name := range names {
		e, err := reg.Get(name)
		if err != nil {
			return err //nolint:wrapcheck // Return the original error.
		}

		enzymes = append(enzymes, e)
	}

	outs := make([]DescribeOutput, 0, len(enzymes))
	for _, e := range enzymes {
		outs = append(outs, DescribeOutput{
			Name:        e.Name,
			Description: e.Description,
			Aliases:     e.Aliases,
			Rules:       e.Rules,
			Summary:     e.Forest().Describe(),
		})
	}

	if da.Output != OutputText {
		return writeDocument(cmd, outs, da.Output)
	}

	w := cmd.OutOrStdout()
	for i, out := range outs {
		if i > 0 {
			mustN(fmt.Fprintln(w))
		}

		mustN(fmt.Fprintln(w, describeText(out)))
	}

	return nil
}

func describeText(out DescribeOutput) string {
	var sb strings.Builder

	sb.WriteString(headingStyle.Render(out.Name))
	if len(out.Aliases) > 0 {
		sb.WriteString(subtleStyle.Render(" (" + strings.Join(out.Aliases, ", ") + ")"))
	}

	sb.WriteByte('\n')

	if out.Description != "" {
		sb.WriteString(out.Description)
		sb.WriteByte('\n')
	}

	for _, entry := range out.Rules.Entries() {
		verdict := cleaveStyle.Render("cleave")
		if !entry.Cleaves {
			verdict = noCleaveStyle.Render("no cleave")
		}

		fmt.Fprintf(&sb, "  %s %s\n", entry.Expr, verdict)
	}

	sb.WriteByte('\n')

	for line := range strings.SplitSeq(strings.TrimSuffix(out.Summary, "\n"), "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
