package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/cleave/pkg/highlight"
	"github.com/macropower/cleave/pkg/yaml"
)

const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

var AllOutputs = []string{OutputText, OutputYAML, OutputJSON}

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", OutputText,
		fmt.Sprintf("Output format, one of: %s", AllOutputs))

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(AllOutputs, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func checkOutput(output string) error {
	switch output {
	case OutputText, OutputYAML, OutputJSON:
		return nil
	}

	return fmt.Errorf("invalid argument %q for \"--output\" flag: must be one of %s", output, AllOutputs)
}

// writeDocument encodes v as YAML or JSON and writes it to the command's
// output, highlighted when the output is a terminal.
func writeDocument(cmd *cobra.Command, v any, output string) error {
	var (
		data []byte
		err  error
	)

	switch output {
	case OutputJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')

	default:
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", output, err)
	}

	return writeHighlighted(cmd.OutOrStdout(), string(data), output)
}

func writeHighlighted(w io.Writer, src, language string) error {
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		err := highlight.New(language).Render(w, src)
		if err != nil {
			return fmt.Errorf("highlight %s: %w", language, err)
		}

		return nil
	}

	_, err := io.WriteString(w, src)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in an int.
}
