package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macropower/cleave/pkg/enzyme"
	"github.com/macropower/cleave/pkg/expr"
)

var ErrNoSequence = errors.New("no sequence given")

type DigestArgs struct {
	*RootArgs

	Filter string
	Output string
	Missed int
}

// DigestOutput is the YAML and JSON form of a digest.
type DigestOutput struct {
	Enzyme  string         `json:"enzyme"`
	Records []RecordDigest `json:"records"`
}

// RecordDigest holds the peptides of one input sequence.
type RecordDigest struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description,omitempty"`
	Sites       []int           `json:"sites"`
	Peptides    []PeptideOutput `json:"peptides"`
	Length      int             `json:"length"`
}

type PeptideOutput struct {
	Sequence        string  `json:"sequence"`
	Start           int     `json:"start"`
	End             int     `json:"end"`
	MissedCleavages int     `json:"missedCleavages"`
	Mass            float64 `json:"mass"`
}

func NewDigestCmd(ra *RootArgs) *cobra.Command {
	args := &DigestArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "digest <enzyme> [sequence|file|-]",
		Short: "Cut protein sequences into peptides",
		Long: `Cut protein sequences into peptides.

The input is a bare sequence, a FASTA file, or "-" to read either from
stdin. Without an input argument stdin is read when it is not a terminal.

Filters are CEL expressions over the variables peptide, start, end,
length, index and missed, with the functions residueCount and mass.`,
		Example: `  cleave digest trypsin MAKPWKPARG
  cleave digest trypsin proteins.fasta --missed 2 --filter 'length >= 6'
  cleave digest glu-c - -o json < protein.fasta`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: enzymeCompletion(ra),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			return runDigest(cmd, args, posArgs)
		},
	}

	cmd.Flags().IntVarP(&args.Missed, "missed", "m", 0, "Maximum number of missed cleavages per peptide")
	cmd.Flags().StringVarP(&args.Filter, "filter", "f", "", "CEL expression peptides must match")
	addOutputFlag(cmd, &args.Output)

	return cmd
}

func runDigest(cmd *cobra.Command, da *DigestArgs, posArgs []string) error {
	err := checkOutput(da.Output)
	if err != nil {
		return err
	}

	var filter *expr.Filter
	if da.Filter != "" {
		filter, err = expr.Compile(da.Filter)
		if err != nil {
			return fmt.Errorf("compile filter: %w", err)
		}
	}

	input := "-"
	if len(posArgs) == 2 {
		input = posArgs[1]
	}

	records, err := readRecords(cmd, input)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	reg, err := da.Registry(ctx)
	if err != nil {
		return err
	}

	e, err := reg.Get(posArgs[0])
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	out := DigestOutput{Enzyme: e.Name}

	for _, rec := range records {
		peptides, err := e.DigestWithMissed(ctx, rec.Sequence, da.Missed)
		if err != nil {
			return fmt.Errorf("digest %s: %w", recordName(rec), err)
		}

		if filter != nil {
			peptides, err = filter.Apply(peptides)
			if err != nil {
				return fmt.Errorf("filter %s: %w", recordName(rec), err)
			}
		}

		sites, err := e.Sites(rec.Sequence)
		if err != nil {
			return fmt.Errorf("digest %s: %w", recordName(rec), err)
		}

		rd := RecordDigest{
			ID:          rec.ID,
			Description: rec.Description,
			Length:      len(rec.Sequence),
			Sites:       sites,
			Peptides:    make([]PeptideOutput, 0, len(peptides)),
		}
		for _, p := range peptides {
			rd.Peptides = append(rd.Peptides, PeptideOutput{
				Sequence:        p.Sequence,
				Start:           p.Start,
				End:             p.End,
				MissedCleavages: p.MissedCleavages,
				Mass:            p.Mass(),
			})
		}

		out.Records = append(out.Records, rd)
	}

	if da.Output != OutputText {
		return writeDocument(cmd, out, da.Output)
	}

	writeDigestText(cmd.OutOrStdout(), out)

	return nil
}

// readRecords reads FASTA records from stdin, a file, or the argument
// itself.
func readRecords(cmd *cobra.Command, input string) ([]enzyme.Record, error) {
	if input == "-" {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && isTerminal(f) {
			return nil, fmt.Errorf("%w: pass one as an argument or on stdin", ErrNoSequence)
		}

		records, err := enzyme.ReadFASTA(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return records, nil
	}

	info, err := os.Stat(input)
	if err == nil && info.Mode().IsRegular() {
		f, err := os.Open(input) //nolint:gosec // User-provided path.
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", input, err)
		}
		defer f.Close() //nolint:errcheck // Read-only.

		records, err := enzyme.ReadFASTA(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", input, err)
		}

		return records, nil
	}

	records, err := enzyme.ReadFASTA(strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("read sequence: %w", err)
	}

	return records, nil
}

func recordName(rec enzyme.Record) string {
	if rec.ID == "" {
		return "sequence"
	}

	return strconv.Quote(rec.ID)
}

func writeDigestText(w io.Writer, out DigestOutput) {
	total := 0

	for i, rd := range out.Records {
		if i > 0 {
			mustN(fmt.Fprintln(w))
		}

		title := rd.ID
		if title == "" {
			title = "sequence"
		}

		info := []string{
			humanize.Comma(int64(rd.Length)) + " residues",
			humanize.Comma(int64(len(rd.Sites))) + " " + plural(len(rd.Sites), "site", "sites"),
		}
		if rd.Description != "" {
			info = append(info, rd.Description)
		}

		mustN(fmt.Fprintf(w, "%s %s\n", headingStyle.Render(title), subtleStyle.Render(strings.Join(info, ", "))))

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(subtleStyle).
			Headers("START", "END", "MISSED", "LENGTH", "MASS", "SEQUENCE")

		for _, p := range rd.Peptides {
			t.Row(
				strconv.Itoa(p.Start),
				strconv.Itoa(p.End),
				strconv.Itoa(p.MissedCleavages),
				strconv.Itoa(len(p.Sequence)),
				humanize.FormatFloat("#,###.####", p.Mass),
				p.Sequence,
			)
		}

		mustN(fmt.Fprintln(w, t.String()))

		total += len(rd.Peptides)
	}

	mustN(fmt.Fprintf(w, "%s peptides from %s with %s\n",
		humanize.Comma(int64(total)),
		humanize.Comma(int64(len(out.Records)))+" "+plural(len(out.Records), "sequence", "sequences"),
		out.Enzyme,
	))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
