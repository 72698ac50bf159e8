// internal/symbol/allele.go
package symbol

import (
	"strconv"
	"strings"
)

// Allele is an integer allele call. Zero is the missing value and matches
// any other call.
type Allele uint16

const AlleleMissing Allele = 0

// inferredPrefix marks alleles that chewBBACA inferred during the run.
const inferredPrefix = "INF-"

// chewBBACA classification labels for loci without a valid call. Strict
// parsing accepts these as missing instead of reporting them.
var missingAlleleLabels = map[string]struct{}{
	"-": {}, "LNF": {}, "PLOT3": {}, "PLOT5": {}, "LOTSC": {}, "NIPH": {},
	"NIPHEM": {}, "ALM": {}, "ASM": {}, "PAMA": {}, "EXC": {},
}

// ParseAllele parses an allele call, stripping an optional "INF-" prefix
// and one leading '+'. Anything that is not a 16-bit unsigned integer
// yields AlleleMissing and ok=false.
func ParseAllele(tok string) (a Allele, ok bool) {
	tok = strings.TrimPrefix(tok, inferredPrefix)
	if len(tok) > 1 && tok[0] == '+' {
		tok = tok[1:]
	}
	v, err := strconv.ParseUint(tok, 10, 16)
	if err != nil {
		return AlleleMissing, false
	}
	return Allele(v), true
}

func isMissingAlleleLabel(tok string) bool {
	if tok == "" {
		return true
	}
	_, ok := missingAlleleLabels[strings.ToUpper(tok)]
	return ok
}

// Equal reports whether the calls agree, treating missing as a match.
func (a Allele) Equal(o Allele) bool {
	return a == o || a == AlleleMissing || o == AlleleMissing
}
