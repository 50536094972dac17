package composition

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"

	"bitbucket.org/Davydov/aatree/bio"
	"bitbucket.org/Davydov/aatree/dist"
)

// Frequencies counts every alphabet symbol in the sequence and divides
// the counts by the sequence length without gaps. Residues outside of
// the alphabet are not reported but count towards the length.
func Frequencies(seq string, alphabet bio.Alphabet) (FrequencyTable, error) {
	ungapped := bio.Ungap(seq)
	if len(ungapped) == 0 {
		return FrequencyTable{}, ErrEmptySequence
	}
	counts := make([]int, alphabet.Len())
	for i := 0; i < len(ungapped); i++ {
		if j := alphabet.Index(ungapped[i]); j >= 0 {
			counts[j]++
		}
	}

	ft := newTable(Absolute, alphabet.Len())
	l := float64(len(ungapped))
	for j, c := range counts {
		ft.add(alphabet[j], float64(c)/l)
	}
	return ft, nil
}

// countMatrix returns a taxa x symbols matrix of residue counts. The
// last column counts residues outside of the alphabet.
func countMatrix(taxa []*Taxon, alphabet bio.Alphabet) *mat64.Dense {
	n := alphabet.Len()
	m := mat64.NewDense(len(taxa), n+1, nil)
	for i, t := range taxa {
		seq := bio.Ungap(t.Sequence)
		for k := 0; k < len(seq); k++ {
			j := alphabet.Index(seq[k])
			if j < 0 {
				j = n
			}
			m.Set(i, j, m.At(i, j)+1)
		}
	}
	return m
}

// AlignmentMean computes symbol frequencies of all the taxa sequences
// concatenated, gaps excluded.
func AlignmentMean(taxa []*Taxon, alphabet bio.Alphabet) (FrequencyTable, error) {
	if len(taxa) == 0 {
		return FrequencyTable{}, fmt.Errorf("%w: no taxa", ErrEmptySequence)
	}
	m := countMatrix(taxa, alphabet)
	rows, cols := m.Dims()

	sums := make([]float64, cols)
	total := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sums[j] += m.At(i, j)
			total += m.At(i, j)
		}
	}
	if total == 0 {
		return FrequencyTable{}, fmt.Errorf("%w: alignment has only gaps", ErrEmptySequence)
	}

	ft := newTable(Mean, alphabet.Len())
	for j := 0; j < alphabet.Len(); j++ {
		ft.add(alphabet[j], sums[j]/total)
	}
	log.Debugf("Alignment mean: %v", ft)
	return ft, nil
}

// ComputeDeviation returns freq minus mean for every symbol of mean.
func ComputeDeviation(freq, mean FrequencyTable) (FrequencyTable, error) {
	if freq.Kind != Absolute || mean.Kind != Mean {
		return FrequencyTable{}, fmt.Errorf("%w: deviation of %v from %v", ErrKindMismatch, freq.Kind, mean.Kind)
	}
	ft := newTable(Deviation, mean.Len())
	for i := 0; i < mean.Len(); i++ {
		s := mean.Symbols[i]
		f, ok := freq.Get(s)
		if !ok {
			return FrequencyTable{}, fmt.Errorf("%w: %c", ErrMissingSymbol, s)
		}
		ft.add(s, f-mean.Values[i])
	}
	return ft, nil
}

// ChiSquare computes the chi-square statistic of the observed counts
// (freq * length) against the expected counts (mean * length) over
// the canonical amino acids. The result is rounded to one decimal.
func ChiSquare(mean, freq FrequencyTable, length int) (float64, error) {
	if freq.Kind != Absolute || mean.Kind != Mean {
		return 0, fmt.Errorf("%w: chi-square of %v against %v", ErrKindMismatch, freq.Kind, mean.Kind)
	}
	l := float64(length)
	sum := 0.0
	for i := 0; i < bio.AminoAcids.Len(); i++ {
		s := bio.AminoAcids[i]
		m, ok := mean.Get(s)
		if !ok {
			return 0, fmt.Errorf("%w: %c in mean table", ErrMissingSymbol, s)
		}
		f, ok := freq.Get(s)
		if !ok {
			return 0, fmt.Errorf("%w: %c", ErrMissingSymbol, s)
		}
		expected := m * l
		if expected == 0 {
			return 0, fmt.Errorf("%w: %c", ErrZeroExpectedCount, s)
		}
		observed := f * l
		sum += (observed - expected) * (observed - expected) / expected
	}
	return math.Round(sum*10) / 10, nil
}

// DegreesOfFreedom is the number of degrees of freedom of the
// composition chi-square test.
var DegreesOfFreedom = bio.AminoAcids.Len() - 1

// PValue returns the upper tail probability of the chi-square
// distribution with df degrees of freedom.
func PValue(score float64, df int) float64 {
	if score <= 0 {
		return 1
	}
	return dist.SurvivalChi2(score, float64(df))
}

// SignificanceLevel is the p-value below which a score is marked as
// significant.
var SignificanceLevel = 0.05

// CriticalValue returns the smallest significant score.
func CriticalValue(df int) float64 {
	return dist.QuantileChi2(1-SignificanceLevel, float64(df))
}
