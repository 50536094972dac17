package composition

import (
	"fmt"
	"strings"

	"bitbucket.org/Davydov/aatree/bio"
)

// SubsetSpec is a pair of symbol groups. Symbols in neither group
// form the residual group.
type SubsetSpec struct {
	A string
	B string
}

// DefaultSubsets groups FYMINK against GARP.
var DefaultSubsets = SubsetSpec{A: "FYMINK", B: "GARP"}

// ParseSubsetSpec parses two comma separated symbol groups, e.g.
// "FYMINK,GARP". Symbols are upper-cased, the groups must be
// disjoint.
func ParseSubsetSpec(s string) (SubsetSpec, error) {
	groups := strings.Split(s, ",")
	if len(groups) != 2 {
		return SubsetSpec{}, fmt.Errorf("%w: there must be exactly two subsets of amino acids, got %q", ErrInvalidSubsetSpec, s)
	}
	spec := SubsetSpec{
		A: strings.ToUpper(strings.TrimSpace(groups[0])),
		B: strings.ToUpper(strings.TrimSpace(groups[1])),
	}
	if err := spec.Validate(); err != nil {
		return SubsetSpec{}, err
	}
	for i := 0; i < len(spec.A); i++ {
		if strings.IndexByte(spec.B, spec.A[i]) >= 0 {
			return SubsetSpec{}, fmt.Errorf("%w: %q is in both subsets", ErrInvalidSubsetSpec, spec.A[i])
		}
	}
	return spec, nil
}

// Validate checks that both groups are non-empty and contain only
// canonical amino acids.
func (spec SubsetSpec) Validate() error {
	for _, g := range []string{spec.A, spec.B} {
		if g == "" {
			return fmt.Errorf("%w: empty subset", ErrInvalidSubsetSpec)
		}
		for i := 0; i < len(g); i++ {
			if !bio.AminoAcids.Contains(g[i]) {
				return fmt.Errorf("%w: invalid amino acid %q", ErrInvalidSubsetSpec, g[i])
			}
		}
	}
	return nil
}

// String returns the spec in the ParseSubsetSpec format.
func (spec SubsetSpec) String() string {
	return spec.A + "," + spec.B
}

// Partition splits a table into the symbols of group A, group B and
// the rest. Group A is checked first. Symbol order and kind are kept.
func Partition(ft FrequencyTable, spec SubsetSpec) (a, b, other FrequencyTable, err error) {
	if err = spec.Validate(); err != nil {
		return
	}
	a = newTable(ft.Kind, len(spec.A))
	b = newTable(ft.Kind, len(spec.B))
	other = newTable(ft.Kind, ft.Len())
	for i := 0; i < ft.Len(); i++ {
		s := ft.Symbols[i]
		switch {
		case strings.IndexByte(spec.A, s) >= 0:
			a.add(s, ft.Values[i])
		case strings.IndexByte(spec.B, s) >= 0:
			b.add(s, ft.Values[i])
		default:
			other.add(s, ft.Values[i])
		}
	}
	return
}
