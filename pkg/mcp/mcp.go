// Package mcp serves the enzyme registry over the Model Context Protocol.
package mcp

const (
	name         = "cleave"
	instructions = `MCP Server 'cleave' predicts where proteases cut protein sequences.

When to use these tools:
- Finding which enzymes are available and what their cleavage rules are
- Checking how a set of cleavage rules compiles, and where it cuts a sequence
- Digesting a protein sequence into peptides with a named enzyme

Workflow:
1. Use 'list_enzymes' to see the available enzymes and their rules
2. Use 'digest' with an EXACT enzyme name or alias from 'list_enzymes' output
3. Use 'compile_rules' to try custom rules before adding them to an enzyme file

Rule syntax: each residue is a group in parentheses and a comma marks the cut,
e.g. "(K or R,)" cuts after K or R, "(,D)" cuts before D and "(K,)(P)" matches K followed by P.
`

	// maxPeptides bounds the number of peptides returned by one digest.
	maxPeptides = 1000
	// maxMissed bounds the missed cleavages of one digest, which multiply
	// the number of peptides generated before any are discarded.
	maxMissed = 10
)
