// internal/symbol/nucleotide.go
package symbol

// Nucleotide is a 4-bit base mask: bit0=A bit1=C bit2=G bit3=T.
// Two nucleotides are equal when their masks overlap, so the all-bits
// wildcard matches every base.
type Nucleotide uint8

const (
	BaseA Nucleotide = 1 << iota
	BaseC
	BaseG
	BaseT

	// BaseAny is what every non-ACGT byte (N, gaps, IUPAC codes) maps to.
	BaseAny = BaseA | BaseC | BaseG | BaseT
)

/* -------------------------- byte lookup tables -------------------------- */

var (
	nucleotideMask [256]Nucleotide
	lowerByte      [256]byte
)

func init() {
	for i := range nucleotideMask {
		nucleotideMask[i] = BaseAny
		lowerByte[i] = byte(i)
	}
	set := func(c byte, m Nucleotide) {
		nucleotideMask[c] = m
		nucleotideMask[c+'a'-'A'] = m
	}
	set('A', BaseA)
	set('C', BaseC)
	set('G', BaseG)
	set('T', BaseT)

	for c := 'A'; c <= 'Z'; c++ {
		lowerByte[c] = byte(c) + 'a' - 'A'
	}
}

// NucleotideFromByte maps a raw alignment byte to its mask.
func NucleotideFromByte(b byte) Nucleotide { return nucleotideMask[b] }

// Equal reports whether the two masks share at least one base.
func (n Nucleotide) Equal(o Nucleotide) bool { return n&o != 0 }

// IsWildcard reports whether n matches every base.
func (n Nucleotide) IsWildcard() bool { return n == BaseAny }

// NucleotideAll is a case-folded alignment byte. Every distinct byte is a
// real difference, ambiguity codes and gaps included.
type NucleotideAll byte

// NucleotideAllFromByte lower-cases b.
func NucleotideAllFromByte(b byte) NucleotideAll { return NucleotideAll(lowerByte[b]) }

func (n NucleotideAll) Equal(o NucleotideAll) bool { return n == o }
