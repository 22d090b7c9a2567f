// Package expr provides CEL (Common Expression Language) filters over
// digested peptides.
//
// CEL expressions have access to variables:
//   - `peptide` (string): The peptide sequence
//   - `start` (int): 1-based position of the first residue
//   - `end` (int): 1-based position of the last residue
//   - `length` (int): Number of residues
//   - `index` (int): Position of the peptide in the digestion output
//   - `missed` (int): Number of missed cleavages
//
// And to custom functions:
//   - `residueCount(seq, residues)`: Residues of seq found in residues
//   - `mass(seq)`: Monoisotopic mass of seq in daltons
//
// The CEL math, strings and lists extensions are also enabled.
package expr
