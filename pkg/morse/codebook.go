package morse

import (
	"sort"
	"unicode"
)

// patterns is the source of truth for the codebook: '.' is a dot, '-' a dash
// and ' ' a word gap.
var patterns = map[rune]string{
	'0': "-----",
	'1': ".----",
	'2': "..---",
	'3': "...--",
	'4': "....-",
	'5': ".....",
	'6': "-....",
	'7': "--...",
	'8': "---..",
	'9': "----.",
	'a': ".-",
	'b': "-...",
	'c': "-.-.",
	'd': "-..",
	'e': ".",
	'f': "..-.",
	'g': "--.",
	'h': "....",
	'i': "..",
	'j': ".---",
	'k': "-.-",
	'l': ".-..",
	'm': "--",
	'n': "-.",
	'o': "---",
	'p': ".--.",
	'q': "--.-",
	'r': ".-.",
	's': "...",
	't': "-",
	'u': "..-",
	'v': "...-",
	'w': ".--",
	'x': "-..-",
	'y': "-.--",
	'z': "--..",
	'.': ".-.-.-",
	',': "--..--",
	'?': "..--..",
	'\'': ".----.",
	'!': "-.-.--",
	'/': "-..-.",
	'(': "-.--.-",
	')': "-.--.-",
	'&': ".-...",
	':': "---...",
	';': "-.-.-.",
	'=': "-...-",
	'+': ".-.-.",
	'-': "-....-",
	'_': "..--.-",
	'"': ".-..-.",
	'$': "...-..-",
	'@': ".--.-.",
	' ': " ",
}

var (
	// codebook maps every accepted rune, both cases, to its symbols.
	codebook = buildCodebook()
	// characters holds the lowercase keys in sorted order.
	characters = sortedKeys()
)

func buildCodebook() map[rune][]Symbol {
	book := make(map[rune][]Symbol, 2*len(patterns))
	for c, p := range patterns {
		seq := parsePattern(p)
		book[c] = seq
		if u := unicode.ToUpper(c); u != c {
			book[u] = seq
		}
	}

	return book
}

func parsePattern(p string) []Symbol {
	seq := make([]Symbol, 0, len(p))
	for _, c := range p {
		switch c {
		case '.':
			seq = append(seq, Dot)
		case '-':
			seq = append(seq, Dash)
		case ' ':
			seq = append(seq, WordGap)
		default:
			panic("morse: bad codebook pattern " + p)
		}
	}

	return seq
}

func sortedKeys() []rune {
	keys := make([]rune, 0, len(patterns))
	for c := range patterns {
		keys = append(keys, c)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

// Lookup returns the symbols for c. Letters match in either case.
func Lookup(c rune) ([]Symbol, bool) {
	seq, ok := codebook[c]
	if !ok {
		return nil, false
	}

	return append([]Symbol(nil), seq...), true
}

// Translate returns the dot/dash pattern for c, e.g. ".-" for 'a'.
func Translate(c rune) (string, bool) {
	p, ok := patterns[unicode.ToLower(c)]
	if !ok || codebook[c] == nil {
		return "", false
	}

	return p, true
}

// Characters returns the lowercase characters known to the codebook, sorted.
func Characters() []rune {
	return append([]rune(nil), characters...)
}

// Supported reports whether c can be encoded.
func Supported(c rune) bool {
	_, ok := codebook[c]
	return ok
}
