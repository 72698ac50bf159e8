// internal/symbol/digest.go
package symbol

import "encoding/hex"

// DigestSize is the byte length of a SHA1 allele digest.
const DigestSize = 20

// Digest is a fixed-size allele hash. The all-zero digest is the missing
// value and matches any other digest.
type Digest [DigestSize]byte

// ParseDigest decodes a hex string pair by pair. Input longer than
// DigestSize bytes is truncated, shorter input is zero-padded, and any
// malformed pair decodes to 0x00. ok is false if anything was malformed,
// truncated, or left over.
func ParseDigest(tok string) (d Digest, ok bool) {
	ok = len(tok)%2 == 0 && len(tok) <= 2*DigestSize
	n := len(tok) / 2
	if n > DigestSize {
		n = DigestSize
	}
	for i := 0; i < n; i++ {
		hi, okHi := unhex(tok[2*i])
		lo, okLo := unhex(tok[2*i+1])
		if !okHi || !okLo {
			ok = false
			continue
		}
		d[i] = hi<<4 | lo
	}
	return d, ok
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// IsZero reports whether d is the missing digest.
func (d Digest) IsZero() bool { return d == Digest{} }

// Equal reports whether the digests agree, treating the zero digest as a
// match.
func (d Digest) Equal(o Digest) bool {
	return d == o || d.IsZero() || o.IsZero()
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }
