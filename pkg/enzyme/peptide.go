package enzyme

// Monoisotopic residue masses in daltons.
var residueMass = map[byte]float64{
	'A': 71.03711,
	'C': 103.00919,
	'D': 115.02694,
	'E': 129.04259,
	'F': 147.06841,
	'G': 57.02146,
	'H': 137.05891,
	'I': 113.08406,
	'K': 128.09496,
	'L': 113.08406,
	'M': 131.04049,
	'N': 114.04293,
	'O': 237.14773,
	'P': 97.05276,
	'Q': 128.05858,
	'R': 156.10111,
	'S': 87.03203,
	'T': 101.04768,
	'U': 150.95364,
	'V': 99.06841,
	'W': 186.07931,
	'Y': 163.06333,
}

const waterMass = 18.01056

// Peptide is a fragment produced by a digestion.
type Peptide struct {
	Sequence string `json:"sequence"`
	// Start is the 1-based position of the first residue.
	Start int `json:"start"`
	// End is the 1-based position of the last residue.
	End int `json:"end"`
	// Index is the position of the peptide in the digestion output.
	Index int `json:"index"`
	// MissedCleavages counts the sites inside the peptide left uncut.
	MissedCleavages int `json:"missedCleavages"`
}

func (p Peptide) Len() int {
	return len(p.Sequence)
}

// Mass returns the monoisotopic mass of p. Residues without a known mass,
// such as the ambiguity codes B, X and Z, contribute nothing.
func (p Peptide) Mass() float64 {
	return Mass(p.Sequence)
}

// Mass returns the monoisotopic mass of a peptide sequence, including one
// water for the termini. The empty sequence weighs zero.
func Mass(seq string) float64 {
	if seq == "" {
		return 0
	}

	total := waterMass
	for i := range len(seq) {
		total += residueMass[seq[i]]
	}

	return total
}
