package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/macropower/cleave/pkg/syntax"
)

var ErrInvalidExpressions = errors.New("invalid expressions")

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func NewCheckCmd(_ *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "check <expr>...",
		Short: "Validate rule expressions",
		Example: `  cleave check '(K or R,)' '(K,)(P)'
  cleave check '(K,' # reports the unbalanced group`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}
}

func runCheck(cmd *cobra.Command, exprs []string) error {
	w := cmd.OutOrStdout()
	invalid := 0

	for _, expr := range exprs {
		norm, err := syntax.Validate(expr)
		if err == nil {
			mustN(fmt.Fprintf(w, "%s %s\n", okStyle.Render("ok"), norm))

			continue
		}

		invalid++

		var serr *syntax.Error
		if !errors.As(err, &serr) {
			return fmt.Errorf("validate %q: %w", expr, err)
		}

		mustN(fmt.Fprintf(w, "%s %s\n", errorStyle.Render("error"), serr.Reason))
		for line := range strings.SplitSeq(serr.Pointer(), "\n") {
			mustN(fmt.Fprintf(w, "  %s\n", line))
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidExpressions, invalid, len(exprs))
	}

	return nil
}
