package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/cleave/pkg/enzyme"
)

// ListEnzymesParams defines parameters for the list_enzymes tool.
type ListEnzymesParams struct {
	Query string `json:"query,omitempty" jsonschema:"only list enzymes whose name or an alias contains this text, ignoring case"`
}

// RuleInfo is one cleavage rule.
type RuleInfo struct {
	Expr    string `json:"expr" jsonschema:"the rule expression, e.g. (K or R,)(P)"`
	Cleaves bool   `json:"cleaves" jsonschema:"whether the enzyme cuts when the whole expression matches"`
}

// EnzymeInfo describes an enzyme.
type EnzymeInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Summary     string     `json:"summary"`
	Aliases     []string   `json:"aliases,omitempty"`
	Rules       []RuleInfo `json:"rules"`
}

// ListEnzymesResult contains the result of listing enzymes.
type ListEnzymesResult struct {
	Enzymes []EnzymeInfo `json:"enzymes"`
	Count   int          `json:"count"`
}

func newEnzymeInfo(e *enzyme.Enzyme) EnzymeInfo {
	info := EnzymeInfo{
		Name:        e.Name,
		Description: e.Description,
		Aliases:     e.Aliases,
		Summary:     e.Forest().Describe(),
		Rules:       []RuleInfo{},
	}

	for _, entry := range e.Rules.Entries() {
		info.Rules = append(info.Rules, RuleInfo{Expr: entry.Expr, Cleaves: entry.Cleaves})
	}

	return info
}

func matchesQuery(e *enzyme.Enzyme, query string) bool {
	if query == "" {
		return true
	}

	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(e.Name), q) {
		return true
	}

	for _, a := range e.Aliases {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}

	return false
}

// handleListEnzymes handles the list_enzymes tool call.
func (s *Server) handleListEnzymes(
	_ context.Context,
	_ *mcp.CallToolRequest,
	params ListEnzymesParams,
) (*mcp.CallToolResult, ListEnzymesResult, error) {
	result := ListEnzymesResult{Enzymes: []EnzymeInfo{}}

	for _, e := range s.registry.List() {
		if matchesQuery(e, params.Query) {
			result.Enzymes = append(result.Enzymes, newEnzymeInfo(e))
		}
	}

	result.Count = len(result.Enzymes)

	names := make([]string, 0, result.Count)
	for _, e := range result.Enzymes {
		names = append(names, e.Name)
	}

	msg := fmt.Sprintf("Found %d enzymes: %s.", result.Count, strings.Join(names, ", "))
	if result.Count == 0 {
		msg = fmt.Sprintf("No enzyme matches %q.", params.Query)
	}

	return textResult(msg), result, nil
}

func textResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: msg,
			},
		},
	}
}
