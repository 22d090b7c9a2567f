package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/cleave/pkg/enzyme"
	"github.com/macropower/cleave/pkg/expr"
)

// DigestParams defines parameters for the digest tool.
type DigestParams struct {
	Enzyme   string `json:"enzyme" jsonschema:"name or alias of the enzyme, exactly as listed by list_enzymes"`
	Sequence string `json:"sequence" jsonschema:"protein sequence in one-letter codes, optionally as a FASTA record"`
	Filter   string `json:"filter,omitempty" jsonschema:"CEL expression selecting peptides, e.g. length >= 6 && mass(peptide) < 3000.0"`
	Missed   int    `json:"missed,omitempty" jsonschema:"maximum number of missed cleavages per peptide, at most 10"`
}

// PeptideInfo is one peptide of a digest.
type PeptideInfo struct {
	Sequence        string  `json:"sequence"`
	Start           int     `json:"start"`
	End             int     `json:"end"`
	MissedCleavages int     `json:"missedCleavages"`
	Mass            float64 `json:"mass"`
}

// DigestResult contains the peptides of a digest.
type DigestResult struct {
	Enzyme    string        `json:"enzyme"`
	Peptides  []PeptideInfo `json:"peptides"`
	Sites     []int         `json:"sites,omitempty"`
	Count     int           `json:"count"`
	Truncated bool          `json:"truncated,omitempty"`
}

// handleDigest handles the digest tool call.
func (s *Server) handleDigest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	params DigestParams,
) (*mcp.CallToolResult, DigestResult, error) {
	var result DigestResult

	e, err := s.registry.Get(params.Enzyme)
	if err != nil {
		return nil, result, err //nolint:wrapcheck // Already includes suggestions.
	}

	if params.Missed > maxMissed {
		return nil, result, fmt.Errorf("missed cleavages must be at most %d, got %d", maxMissed, params.Missed)
	}

	seq, err := enzyme.ParseSequence(params.Sequence)
	if err != nil {
		return nil, result, fmt.Errorf("parse sequence: %w", err)
	}

	peptides, err := e.DigestWithMissed(ctx, seq, params.Missed)
	if err != nil {
		return nil, result, fmt.Errorf("digest: %w", err)
	}

	if params.Filter != "" {
		f, err := expr.Compile(params.Filter)
		if err != nil {
			return nil, result, fmt.Errorf("filter: %w", err)
		}

		peptides, err = f.Apply(peptides)
		if err != nil {
			return nil, result, fmt.Errorf("filter: %w", err)
		}
	}

	result.Enzyme = e.Name
	result.Count = len(peptides)
	result.Sites, err = e.Sites(seq)
	if err != nil {
		return nil, result, fmt.Errorf("digest: %w", err)
	}

	if len(peptides) > maxPeptides {
		peptides = peptides[:maxPeptides]
		result.Truncated = true
	}

	result.Peptides = make([]PeptideInfo, 0, len(peptides))
	for _, p := range peptides {
		result.Peptides = append(result.Peptides, PeptideInfo{
			Sequence:        p.Sequence,
			Start:           p.Start,
			End:             p.End,
			MissedCleavages: p.MissedCleavages,
			Mass:            p.Mass(),
		})
	}

	msg := fmt.Sprintf("%s cuts the %d-residue sequence at %d sites, giving %d peptides.",
		e.Name, len(seq), len(result.Sites), result.Count)
	if result.Truncated {
		msg += fmt.Sprintf(" Only the first %d are listed.", maxPeptides)
	}

	return textResult(msg), result, nil
}
