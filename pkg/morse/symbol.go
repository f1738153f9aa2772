package morse

// Symbol is a single timed element of Morse code.
type Symbol uint8

const (
	Dot Symbol = iota
	Dash
	WordGap
)

// Duration returns the intrinsic length of the symbol in time units.
func (s Symbol) Duration() int {
	switch s {
	case Dot:
		return 1
	case Dash:
		return 2
	default:
		return 3
	}
}

// Rune returns the glyph used when rendering the symbol.
func (s Symbol) Rune() rune {
	switch s {
	case Dot:
		return '•'
	case Dash:
		return '-'
	default:
		return ' '
	}
}

func (s Symbol) String() string {
	switch s {
	case Dot:
		return "dot"
	case Dash:
		return "dash"
	default:
		return "word gap"
	}
}

// IsSignal reports whether the symbol keys the signal on.
func (s Symbol) IsSignal() bool {
	return s != WordGap
}
