package morse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is returned when text has an unsupported character or is
// longer than the input limit.
var ErrInvalidInput = errors.New("morse: invalid input")

// Message is encoded text: an ordered list of words, each an ordered list of
// symbols. A space in the source text becomes a word holding a single
// WordGap.
type Message struct {
	words [][]Symbol
}

// Encode converts text into a Message using the default limit.
func Encode(text string) (Message, error) {
	return Validator{}.Encode(text)
}

// Encode validates text and converts it into a Message.
func (v Validator) Encode(text string) (Message, error) {
	if ok, _ := v.Validate(text); !ok {
		return Message{}, ErrInvalidInput
	}

	var (
		words   [][]Symbol
		current []Symbol
	)

	for _, c := range text {
		seq, ok := Lookup(c)
		if !ok {
			// the validator and the codebook share one table
			panic(fmt.Sprintf("morse: validated character %q missing from codebook", c))
		}

		if len(seq) == 1 && seq[0] == WordGap {
			if len(current) > 0 {
				words = append(words, current)
				current = nil
			}

			words = append(words, seq)
			continue
		}

		current = append(current, seq...)
	}

	if len(current) > 0 {
		words = append(words, current)
	}

	return Message{words: words}, nil
}

// NewMessage builds a Message from raw words. The words are copied.
func NewMessage(words ...[]Symbol) Message {
	m := Message{words: make([][]Symbol, 0, len(words))}
	for _, w := range words {
		m.words = append(m.words, append([]Symbol(nil), w...))
	}

	return m
}

// Words returns a copy of the message words.
func (m Message) Words() [][]Symbol {
	out := make([][]Symbol, len(m.words))
	for i, w := range m.words {
		out[i] = append([]Symbol(nil), w...)
	}

	return out
}

// Symbols returns every symbol of the message in order.
func (m Message) Symbols() []Symbol {
	var out []Symbol
	for _, w := range m.words {
		out = append(out, w...)
	}

	return out
}

// Len returns the number of words.
func (m Message) Len() int {
	return len(m.words)
}

// Equal reports whether both messages hold the same words.
func (m Message) Equal(o Message) bool {
	if len(m.words) != len(o.words) {
		return false
	}

	for i := range m.words {
		if len(m.words[i]) != len(o.words[i]) {
			return false
		}

		for j := range m.words[i] {
			if m.words[i][j] != o.words[i][j] {
				return false
			}
		}
	}

	return true
}

// String renders the message with one glyph per symbol and words separated
// by a single space.
func (m Message) String() string {
	parts := make([]string, len(m.words))
	for i, w := range m.words {
		var b strings.Builder
		for _, s := range w {
			b.WriteRune(s.Rune())
		}

		parts[i] = b.String()
	}

	return strings.Join(parts, " ")
}

// Render encodes text and returns its printable form.
func Render(text string) (string, error) {
	m, err := Encode(text)
	if err != nil {
		return "", err
	}

	return m.String(), nil
}
