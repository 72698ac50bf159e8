// internal/symbol/parse.go
package symbol

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedKind is returned for byte parsing of a non-sequence kind.
	ErrUnsupportedKind = errors.New("kind does not support byte parsing")
	// ErrMalformedToken is only returned by strict parsers.
	ErrMalformedToken = errors.New("malformed token")
)

// gapByte stands in for an empty NucleotideAll token.
const gapByte = '-'

// Parser turns raw input into rows of one Kind.
//
// The default (lenient) parser never fails on content: malformed allele and
// digest tokens degrade to the missing value. Strict parsers report them
// with ErrMalformedToken; empty tokens and chewBBACA missing-call labels
// are still accepted as missing.
type Parser struct {
	Kind   Kind
	Strict bool
}

// ParseBytes parses an alignment row. Only sequence kinds are supported.
func (p Parser) ParseBytes(seq []byte) (Seq, error) {
	switch p.Kind {
	case KindNucleotide:
		out := make(Nucleotides, len(seq))
		for i, b := range seq {
			out[i] = nucleotideMask[b]
		}
		return out, nil
	case KindNucleotideAll:
		out := make(NucleotidesAll, len(seq))
		for i, b := range seq {
			out[i] = NucleotideAll(lowerByte[b])
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, p.Kind)
}

// ParseFields parses one token per position.
func (p Parser) ParseFields(fields []string) (Seq, error) {
	switch p.Kind {
	case KindNucleotide:
		out := make(Nucleotides, len(fields))
		for i, f := range fields {
			out[i] = BaseAny
			if f != "" {
				out[i] = nucleotideMask[f[0]]
			}
		}
		return out, nil
	case KindNucleotideAll:
		out := make(NucleotidesAll, len(fields))
		for i, f := range fields {
			b := byte(gapByte)
			if f != "" {
				b = f[0]
			}
			out[i] = NucleotideAll(lowerByte[b])
		}
		return out, nil
	case KindAllele:
		out := make(Alleles, len(fields))
		for i, f := range fields {
			a, ok := ParseAllele(f)
			if !ok && p.Strict && !isMissingAlleleLabel(f) {
				return nil, fmt.Errorf("%w: %s field %d: %q", ErrMalformedToken, p.Kind, i+1, f)
			}
			out[i] = a
		}
		return out, nil
	case KindDigest:
		out := make(Digests, len(fields))
		for i, f := range fields {
			d, ok := ParseDigest(f)
			if !ok && p.Strict && !isMissingAlleleLabel(f) {
				return nil, fmt.Errorf("%w: %s field %d: %q", ErrMalformedToken, p.Kind, i+1, f)
			}
			out[i] = d
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, p.Kind)
}
