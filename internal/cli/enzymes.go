package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macropower/cleave/api"
	"github.com/macropower/cleave/pkg/config"
)

type EnzymesArgs struct {
	*RootArgs

	Output string
}

// EnzymeSummary is the YAML and JSON form of a listed enzyme.
type EnzymeSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Rules       int      `json:"rules"`
}

func NewEnzymesCmd(ra *RootArgs) *cobra.Command {
	args := &EnzymesArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:     "enzymes",
		Aliases: []string{"ls"},
		Short:   "List the available enzymes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnzymes(cmd, args)
		},
	}

	addOutputFlag(cmd, &args.Output)

	cmd.AddCommand(NewEnzymesInitCmd())

	return cmd
}

func runEnzymes(cmd *cobra.Command, ea *EnzymesArgs) error {
	err := checkOutput(ea.Output)
	if err != nil {
		return err
	}

	reg, err := ea.Registry(cmd.Context())
	if err != nil {
		return err
	}

	enzymes := reg.List()
	sums := make([]EnzymeSummary, 0, len(enzymes))
	for _, e := range enzymes {
		sums = append(sums, EnzymeSummary{
			Name:        e.Name,
			Description: e.Description,
			Aliases:     e.Aliases,
			Rules:       e.Rules.Len(),
		})
	}

	if ea.Output != OutputText {
		return writeDocument(cmd, sums, ea.Output)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtleStyle).
		Headers("NAME", "ALIASES", "RULES", "DESCRIPTION")

	for _, s := range sums {
		t.Row(s.Name, strings.Join(s.Aliases, ", "), humanize.Comma(int64(s.Rules)), s.Description)
	}

	w := cmd.OutOrStdout()
	mustN(fmt.Fprintln(w, t.String()))
	mustN(fmt.Fprintf(w, "%s enzymes\n", humanize.Comma(int64(len(sums)))))

	return nil
}

type EnzymesInitArgs struct {
	Path  string
	Force bool
}

func NewEnzymesInitCmd() *cobra.Command {
	args := &EnzymesInitArgs{}

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the built-in enzyme catalogue to a file for editing",
		Long: fmt.Sprintf(`Write the built-in enzyme catalogue to a file for editing.

The default path is the user enzyme file, %s.
Enzymes defined there replace built-in enzymes sharing a name or alias.`,
			api.GetConfigPath(config.UserFileName)),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			args.Path = api.GetConfigPath(config.UserFileName)
			if len(posArgs) == 1 {
				args.Path = posArgs[0]
			}

			_, err := os.Stat(args.Path)
			if err == nil && !args.Force {
				mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, use --force to replace it\n", args.Path))

				return nil
			}
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat %s: %w", args.Path, err)
			}

			err = config.WriteBuiltin(args.Path, args.Force)
			if err != nil {
				return fmt.Errorf("write enzymes: %w", err)
			}

			mustN(fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args.Path))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&args.Force, "force", "f", false, "Back up and replace an existing file")

	return cmd
}

func enzymeCompletion(ra *RootArgs) func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 && cmd.Name() != "describe" {
			return nil, cobra.ShellCompDirectiveDefault
		}

		reg, err := ra.Registry(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		completions := []cobra.Completion{}
		for _, e := range reg.List() {
			completions = append(completions, cobra.CompletionWithDesc(e.Name, e.Description))
		}

		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}
