package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/cleave/pkg/compiler"
	"github.com/macropower/cleave/pkg/enzyme"
)

// CompileRulesParams defines parameters for the compile_rules tool.
type CompileRulesParams struct {
	Sequence string     `json:"sequence,omitempty" jsonschema:"optional protein sequence to find the cut sites of"`
	Rules    []RuleInfo `json:"rules" jsonschema:"the rules in order; a later rule with the same expression replaces an earlier one"`
}

// RejectedRule is a rule that failed validation.
type RejectedRule struct {
	Expr  string `json:"expr"`
	Error string `json:"error"`
}

// CompileRulesResult contains the compiled rules.
type CompileRulesResult struct {
	Summary  string         `json:"summary"`
	Rejected []RejectedRule `json:"rejected,omitempty"`
	Orphans  []string       `json:"orphans,omitempty"`
	Sites    []int          `json:"sites,omitempty"`
	Nodes    int            `json:"nodes"`
}

// handleCompileRules handles the compile_rules tool call.
func (s *Server) handleCompileRules(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	params CompileRulesParams,
) (*mcp.CallToolResult, CompileRulesResult, error) {
	var result CompileRulesResult

	if len(params.Rules) == 0 {
		return nil, result, errors.New("at least one rule is required")
	}

	table := compiler.NewTable()
	for _, r := range params.Rules {
		table.Set(r.Expr, r.Cleaves)
	}

	res, err := compiler.Compile(ctx, table)
	if err != nil {
		return nil, result, fmt.Errorf("compile rules: %w", err)
	}

	result.Summary = res.Forest.Describe()
	result.Nodes = res.Forest.Len()
	result.Orphans = res.Orphans

	for _, rej := range res.Rejected {
		result.Rejected = append(result.Rejected, RejectedRule{Expr: rej.Expr, Error: rej.Err.Error()})
	}

	if params.Sequence != "" {
		result.Sites = res.Forest.Sites([]byte(enzyme.NormalizeSequence(params.Sequence)))
	}

	msg := fmt.Sprintf("Compiled %d of %d rules into %d nodes.",
		table.Len()-len(result.Rejected), table.Len(), result.Nodes)
	if len(result.Rejected) > 0 {
		msg += fmt.Sprintf(" %d rules were rejected.", len(result.Rejected))
	}
	if params.Sequence != "" {
		msg += fmt.Sprintf(" Found %d cut sites.", len(result.Sites))
	}

	return textResult(msg), result, nil
}
