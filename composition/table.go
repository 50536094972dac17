// Package composition computes amino acid composition statistics of
// the taxa in an alignment: frequencies, deviation from the alignment
// mean, subset partitions and chi-square scores.
package composition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("composition")

var (
	// ErrEmptySequence is returned when there are no residues left
	// after removing gaps.
	ErrEmptySequence = errors.New("empty sequence")
	// ErrMissingSymbol is returned when a table lacks a symbol.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrZeroExpectedCount is returned when a chi-square term has a
	// zero expected count.
	ErrZeroExpectedCount = errors.New("zero expected count")
	// ErrInvalidSubsetSpec is returned for malformed symbol subsets.
	ErrInvalidSubsetSpec = errors.New("invalid subset specification")
	// ErrKindMismatch is returned when a table of the wrong kind is
	// passed.
	ErrKindMismatch = errors.New("frequency table kind mismatch")
	// ErrDuplicateTaxon is returned when two sequences share a name.
	ErrDuplicateTaxon = errors.New("duplicate taxon")
	// ErrMissingTaxon is returned when a tree leaf has no sequence.
	ErrMissingTaxon = errors.New("missing taxon")
)

// Kind is the meaning of the values of a FrequencyTable.
type Kind int

const (
	// Absolute tables hold frequencies of one taxon.
	Absolute Kind = iota
	// Mean tables hold frequencies of the whole alignment.
	Mean
	// Deviation tables hold taxon frequency minus alignment mean.
	Deviation
)

func (k Kind) String() string {
	switch k {
	case Absolute:
		return "absolute"
	case Mean:
		return "mean"
	case Deviation:
		return "deviation"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// FrequencyTable maps symbols to values. Symbols are kept in the
// alphabet order.
type FrequencyTable struct {
	Kind    Kind
	Symbols string
	Values  []float64
}

func newTable(kind Kind, n int) FrequencyTable {
	return FrequencyTable{
		Kind:   kind,
		Values: make([]float64, 0, n),
	}
}

func (ft *FrequencyTable) add(s byte, v float64) {
	ft.Symbols += string(s)
	ft.Values = append(ft.Values, v)
}

// Len returns the number of symbols.
func (ft FrequencyTable) Len() int {
	return len(ft.Symbols)
}

// Get returns the value for a symbol.
func (ft FrequencyTable) Get(s byte) (float64, bool) {
	i := strings.IndexByte(ft.Symbols, s)
	if i < 0 {
		return 0, false
	}
	return ft.Values[i], true
}

// Sum returns the sum of all values.
func (ft FrequencyTable) Sum() (s float64) {
	for _, v := range ft.Values {
		s += v
	}
	return
}

// MarshalJSON encodes the table as an object with symbols in order.
func (ft FrequencyTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < len(ft.Symbols); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(ft.Symbols[i : i+1])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(ft.Values[i], 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the table as space separated symbol:value pairs.
func (ft FrequencyTable) String() string {
	parts := make([]string, len(ft.Symbols))
	for i := range parts {
		parts[i] = fmt.Sprintf("%c:%.4f", ft.Symbols[i], ft.Values[i])
	}
	return strings.Join(parts, " ")
}
