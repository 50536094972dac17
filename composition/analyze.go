package composition

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"bitbucket.org/Davydov/aatree/bio"
)

// Mode is the frequency mode.
type Mode int

const (
	// AbsoluteMode reports taxon frequencies.
	AbsoluteMode Mode = iota
	// RelativeMode reports deviation from the alignment mean.
	RelativeMode
)

// ParseMode parses "absolute" or "relative".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "absolute":
		return AbsoluteMode, nil
	case "relative":
		return RelativeMode, nil
	}
	return AbsoluteMode, fmt.Errorf("invalid frequency type %q, only 'absolute' and 'relative' are allowed", s)
}

func (m Mode) String() string {
	if m == RelativeMode {
		return "relative"
	}
	return "absolute"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Options are the analysis settings.
type Options struct {
	Mode      Mode
	Subsets   *SubsetSpec
	ChiSquare bool
	// Alphabet defaults to bio.AminoAcids.
	Alphabet bio.Alphabet
}

// Report is the result of an analysis.
type Report struct {
	Mode Mode `json:"mode"`
	// Mean is the alignment mean, nil unless needed.
	Mean *FrequencyTable `json:"mean,omitempty"`
	Taxa []*Taxon        `json:"taxa"`

	byName map[string]*Taxon
}

// Analyze computes composition statistics of all the sequences.
func Analyze(seqs bio.Sequences, opts Options) (*Report, error) {
	alphabet := opts.Alphabet
	if alphabet == "" {
		alphabet = bio.AminoAcids
	}
	if opts.Subsets != nil {
		if err := opts.Subsets.Validate(); err != nil {
			return nil, err
		}
	}

	report := &Report{
		Mode:   opts.Mode,
		Taxa:   make([]*Taxon, 0, len(seqs)),
		byName: make(map[string]*Taxon, len(seqs)),
	}
	for _, seq := range seqs {
		if _, ok := report.byName[seq.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTaxon, seq.Name)
		}
		t, err := NewTaxon(seq.Name, seq.Sequence, alphabet)
		if err != nil {
			return nil, err
		}
		report.Taxa = append(report.Taxa, t)
		report.byName[t.Name] = t
	}
	log.Infof("Computed frequencies of %d taxa", len(report.Taxa))

	if opts.Mode == RelativeMode || opts.ChiSquare {
		mean, err := AlignmentMean(report.Taxa, alphabet)
		if err != nil {
			return nil, err
		}
		report.Mean = &mean
	}

	for _, t := range report.Taxa {
		if opts.Mode == RelativeMode {
			if err := t.SetDeviation(*report.Mean); err != nil {
				return nil, err
			}
		}
		if opts.ChiSquare {
			if err := t.SetScore(*report.Mean); err != nil {
				return nil, err
			}
			log.Debugf("%s: chi2=%v, p=%v", t.Name, t.Score.ChiSquare, t.Score.PValue)
		}
		if opts.Subsets != nil {
			if err := t.SetGroups(*opts.Subsets); err != nil {
				return nil, err
			}
		}
	}
	return report, nil
}

// Taxon returns a taxon by name.
func (r *Report) Taxon(name string) (*Taxon, bool) {
	if r.byName == nil {
		r.byName = make(map[string]*Taxon, len(r.Taxa))
		for _, t := range r.Taxa {
			r.byName[t.Name] = t
		}
	}
	t, ok := r.byName[name]
	return t, ok
}

// Join returns taxa in the order of the leaf names. All the leaves
// must have a taxon.
func (r *Report) Join(leaves []string) ([]*Taxon, error) {
	res := make([]*Taxon, 0, len(leaves))
	var missing []string
	for _, name := range leaves {
		t, ok := r.Taxon(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		res = append(res, t)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingTaxon, strings.Join(missing, ", "))
	}
	return res, nil
}

// WriteTable writes the displayed tables as tab separated values, one
// taxon per line.
func (r *Report) WriteTable(w io.Writer) error {
	if len(r.Taxa) == 0 {
		return nil
	}
	symbols := r.Taxa[0].Display().Symbols
	header := []string{"name", "length"}
	for i := 0; i < len(symbols); i++ {
		header = append(header, symbols[i:i+1])
	}
	if r.Taxa[0].Score != nil {
		header = append(header, "chi2", "p")
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}

	for _, t := range r.Taxa {
		row := []string{t.Name, fmt.Sprint(t.Length)}
		for _, v := range t.Display().Values {
			row = append(row, fmt.Sprintf("%.4f", v))
		}
		if t.Score != nil {
			row = append(row, fmt.Sprintf("%.1f", t.Score.ChiSquare), fmt.Sprintf("%.3g", t.Score.PValue))
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}
