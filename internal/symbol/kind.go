// Package symbol defines the comparable units a row is made of and the
// equality rule each encoding uses when counting differences.
//
// Four encodings exist. Nucleotide and AlleleCall/HashDigest carry a
// "missing" value that compares equal to everything; NucleotideAll has none.
// A run uses exactly one Kind.
package symbol

import (
	"fmt"
	"strings"
)

// Kind selects the symbol encoding of a run.
type Kind uint8

const (
	KindNucleotide    Kind = iota + 1 // ACGT with wildcard for anything else
	KindNucleotideAll                 // every distinct byte counts
	KindAllele                        // chewBBACA-style integer allele calls
	KindDigest                        // SHA1 hex digests of allele sequences
)

// CLI names, in the order they are listed in help output.
const (
	NameFasta      = "fasta"
	NameFastaAll   = "fasta-all"
	NameCgmlst     = "cgmlst"
	NameCgmlstHash = "cgmlst-hash"
)

var kindNames = map[Kind]string{
	KindNucleotide:    NameFasta,
	KindNucleotideAll: NameFastaAll,
	KindAllele:        NameCgmlst,
	KindDigest:        NameCgmlstHash,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsSequence reports whether rows of this kind come from a sequence
// alignment and can be parsed byte by byte.
func (k Kind) IsSequence() bool {
	return k == KindNucleotide || k == KindNucleotideAll
}

// ParseKind maps a CLI input-format name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameFasta:
		return KindNucleotide, nil
	case NameFastaAll:
		return KindNucleotideAll, nil
	case NameCgmlst:
		return KindAllele, nil
	case NameCgmlstHash:
		return KindDigest, nil
	}
	return 0, fmt.Errorf("unknown input format %q (want %s)", name, strings.Join(KindNames(), " | "))
}

// KindNames lists the accepted input-format names.
func KindNames() []string {
	return []string{NameFasta, NameFastaAll, NameCgmlst, NameCgmlstHash}
}
