package engine

import "fmt"

// Mode selects which (i, j) pairs are enumerated.
type Mode uint8

const (
	// LowerTriangle emits j in [0, i): no self pairs, no upper triangle.
	LowerTriangle Mode = iota
	// Full emits every ordered pair including (i, i).
	Full
)

const (
	ModeNameLowerTriangle = "lower-triangle"
	ModeNameFull          = "full"
)

func (m Mode) String() string {
	switch m {
	case LowerTriangle:
		return ModeNameLowerTriangle
	case Full:
		return ModeNameFull
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode maps a CLI name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case ModeNameLowerTriangle:
		return LowerTriangle, nil
	case ModeNameFull:
		return Full, nil
	}
	return 0, fmt.Errorf("unknown output mode %q (want %s or %s)", s, ModeNameLowerTriangle, ModeNameFull)
}

// Pairs returns how many records mode m yields for n rows.
func (m Mode) Pairs(n int) int64 {
	nn := int64(n)
	if m == Full {
		return nn * nn
	}
	return nn * (nn - 1) / 2
}
