package morse

import "strings"

// InputLimit is the maximum number of characters accepted by Validate.
const InputLimit = 120

// Validator checks text against the codebook and a length limit.
// The zero value uses InputLimit.
type Validator struct {
	Limit int
}

// Validate reports whether text is accepted as-is and returns the accepted
// prefix: the supported characters of text, truncated to the limit.
// Any unsupported character or excess length makes the whole text invalid.
func (v Validator) Validate(text string) (bool, string) {
	limit := v.limit()

	var b strings.Builder
	n := 0
	for _, c := range text {
		if n == limit {
			break
		}

		if !Supported(c) {
			continue
		}

		b.WriteRune(c)
		n++
	}

	accepted := b.String()
	return accepted == text, accepted
}

func (v Validator) limit() int {
	if v.Limit <= 0 {
		return InputLimit
	}

	return v.Limit
}

// Validate checks text using the default limit.
func Validate(text string) (bool, string) {
	return Validator{}.Validate(text)
}
