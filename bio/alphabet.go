package bio

import "strings"

// Gap is the alignment gap symbol.
const Gap = '-'

// Alphabet is an ordered set of residue symbols.
type Alphabet string

// AminoAcids is the alphabet of the 20 canonical amino acids in
// alphabetical order.
const AminoAcids Alphabet = "ACDEFGHIKLMNPQRSTVWY"

// Len returns the number of symbols.
func (a Alphabet) Len() int {
	return len(a)
}

// Contains returns true if c is a symbol of the alphabet.
func (a Alphabet) Contains(c byte) bool {
	return strings.IndexByte(string(a), c) >= 0
}

// Index returns the position of c in the alphabet or -1.
func (a Alphabet) Index(c byte) int {
	return strings.IndexByte(string(a), c)
}

// Ungap removes gap symbols from a sequence.
func Ungap(seq string) string {
	return strings.Replace(seq, string(Gap), "", -1)
}
