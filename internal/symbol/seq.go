// internal/symbol/seq.go
package symbol

import (
	"errors"
	"fmt"
)

// ErrKindMismatch is returned when two rows of different kinds are compared.
var ErrKindMismatch = errors.New("symbol kind mismatch")

// Seq is one row's symbols. The concrete types are Nucleotides,
// NucleotidesAll, Alleles and Digests.
type Seq interface {
	Kind() Kind
	Len() int
}

type (
	Nucleotides    []Nucleotide
	NucleotidesAll []NucleotideAll
	Alleles        []Allele
	Digests        []Digest
)

func (s Nucleotides) Kind() Kind    { return KindNucleotide }
func (s NucleotidesAll) Kind() Kind { return KindNucleotideAll }
func (s Alleles) Kind() Kind        { return KindAllele }
func (s Digests) Kind() Kind        { return KindDigest }

func (s Nucleotides) Len() int    { return len(s) }
func (s NucleotidesAll) Len() int { return len(s) }
func (s Alleles) Len() int        { return len(s) }
func (s Digests) Len() int        { return len(s) }

// Unbounded disables the early stop of Hamming and Distance.
const Unbounded = -1

// Hamming counts the positions where a and b differ, walking up to the
// shorter of the two. With max >= 0 counting stops as soon as max is
// reached and max is returned, so the result is min(max, exact). Pass
// Unbounded (any negative max) for the exact count.
func Hamming[T interface{ Equal(T) bool }](a, b []T, max int) int {
	if max == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	d := 0
	for i := 0; i < n; i++ {
		if !a[i].Equal(b[i]) {
			d++
			if max > 0 && d >= max {
				return max
			}
		}
	}
	return d
}

// Distance compares two rows of the same kind. Rows of different kinds
// yield ErrKindMismatch.
func Distance(a, b Seq, max int) (int, error) {
	switch x := a.(type) {
	case Nucleotides:
		if y, ok := b.(Nucleotides); ok {
			return Hamming(x, y, max), nil
		}
	case NucleotidesAll:
		if y, ok := b.(NucleotidesAll); ok {
			return Hamming(x, y, max), nil
		}
	case Alleles:
		if y, ok := b.(Alleles); ok {
			return Hamming(x, y, max), nil
		}
	case Digests:
		if y, ok := b.(Digests); ok {
			return Hamming(x, y, max), nil
		}
	}
	return 0, fmt.Errorf("%w: %s vs %s", ErrKindMismatch, kindOf(a), kindOf(b))
}

func kindOf(s Seq) string {
	if s == nil {
		return "<nil>"
	}
	return s.Kind().String()
}
