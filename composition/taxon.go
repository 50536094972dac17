package composition

import (
	"fmt"

	"bitbucket.org/Davydov/aatree/bio"
)

// Score is a chi-square score with its p-value.
type Score struct {
	ChiSquare   float64 `json:"chiSquare"`
	PValue      float64 `json:"pValue"`
	Significant bool    `json:"significant"`
}

// Taxon stores a sequence and its composition statistics.
type Taxon struct {
	// Name matches a tree leaf.
	Name string `json:"name"`
	// Sequence is the aligned sequence, gaps included.
	Sequence string `json:"-"`
	// Length is the sequence length without gaps.
	Length int `json:"length"`
	// Frequencies are the absolute symbol frequencies.
	Frequencies FrequencyTable `json:"frequencies"`
	// Deviation is the frequency minus alignment mean, if computed.
	Deviation *FrequencyTable `json:"deviation,omitempty"`
	// Groups is the partition (A, B, rest) of the displayed table.
	Groups []FrequencyTable `json:"groups,omitempty"`
	// Score is the chi-square score, if computed.
	Score *Score `json:"score,omitempty"`
}

// NewTaxon creates a taxon and computes its absolute frequencies.
func NewTaxon(name, seq string, alphabet bio.Alphabet) (*Taxon, error) {
	ft, err := Frequencies(seq, alphabet)
	if err != nil {
		return nil, fmt.Errorf("taxon %s: %w", name, err)
	}
	return &Taxon{
		Name:        name,
		Sequence:    seq,
		Length:      len(bio.Ungap(seq)),
		Frequencies: ft,
	}, nil
}

// SetDeviation computes deviation of the taxon frequencies from the
// alignment mean.
func (t *Taxon) SetDeviation(mean FrequencyTable) error {
	dev, err := ComputeDeviation(t.Frequencies, mean)
	if err != nil {
		return fmt.Errorf("taxon %s: %w", t.Name, err)
	}
	t.Deviation = &dev
	return nil
}

// SetScore computes the chi-square score against the alignment mean.
func (t *Taxon) SetScore(mean FrequencyTable) error {
	chi2, err := ChiSquare(mean, t.Frequencies, t.Length)
	if err != nil {
		return fmt.Errorf("taxon %s: %w", t.Name, err)
	}
	t.Score = &Score{
		ChiSquare:   chi2,
		PValue:      PValue(chi2, DegreesOfFreedom),
		Significant: chi2 >= CriticalValue(DegreesOfFreedom),
	}
	return nil
}

// SetGroups partitions the displayed table.
func (t *Taxon) SetGroups(spec SubsetSpec) error {
	a, b, other, err := Partition(t.Display(), spec)
	if err != nil {
		return fmt.Errorf("taxon %s: %w", t.Name, err)
	}
	t.Groups = []FrequencyTable{a, b, other}
	return nil
}

// Display returns the deviation table if it was computed and the
// absolute frequencies otherwise.
func (t *Taxon) Display() FrequencyTable {
	if t.Deviation != nil {
		return *t.Deviation
	}
	return t.Frequencies
}

// Tables returns the tables to draw for the taxon: the groups if
// a partition was made, otherwise the displayed table.
func (t *Taxon) Tables() []FrequencyTable {
	if t.Groups != nil {
		return t.Groups
	}
	return []FrequencyTable{t.Display()}
}
