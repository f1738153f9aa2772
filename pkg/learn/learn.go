package learn

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/exp/rand"
)

// WordLength is the number of letters in a practice word.
const WordLength = 5

var ErrLessonNotFound = errors.New("learn: lesson not found")

// Lesson represents a particular lesson (lessons map below).
// According to https://morsecode.world/international/timing.html
// it is recommended to learn at full character speed and stretch the breaks,
// so odd lessons play each new letter set at a slower tick first.
type Lesson struct {
	Letters  []rune
	Interval time.Duration
}

var lessons = map[int]Lesson{
	1: {[]rune{'a', 'e', 'l', 'v'}, 400 * time.Millisecond},
	2: {[]rune{'a', 'e', 'l', 'v'}, 250 * time.Millisecond},
	3: {[]rune{'a', 'e', 'l', 'v', 'c', 'q', 's', 't'}, 400 * time.Millisecond},
	4: {[]rune{'a', 'e', 'l', 'v', 'c', 'q', 's', 't'}, 250 * time.Millisecond},
}

func GetLesson(lessonIdx int) (Lesson, error) {
	l, ok := lessons[lessonIdx]
	if !ok {
		return Lesson{}, ErrLessonNotFound
	}

	return l, nil
}

// Lessons returns the known lesson indexes in order.
func Lessons() []int {
	out := make([]int, 0, len(lessons))
	for idx := range lessons {
		out = append(out, idx)
	}

	sort.Ints(out)
	return out
}

// Contains reports whether c belongs to the lesson, in either case.
func (l Lesson) Contains(c rune) bool {
	c = unicode.ToLower(c)
	for _, letter := range l.Letters {
		if letter == c {
			return true
		}
	}

	return false
}

// NewRand returns a generator for practice words.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Words returns n random words of WordLength letters from the lesson.
func (l Lesson) Words(rng *rand.Rand, n int) []string {
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var b strings.Builder
		for j := 0; j < WordLength; j++ {
			b.WriteRune(l.Letters[rng.Intn(len(l.Letters))])
		}
		words = append(words, b.String())
	}

	return words
}

// Text returns n random words joined by single spaces.
func (l Lesson) Text(rng *rand.Rand, n int) string {
	return strings.Join(l.Words(rng, n), " ")
}

// Mark grades one character of an answer.
type Mark int

const (
	Missing Mark = iota
	Wrong
	Correct
)

// Result is the outcome of comparing an answer with the played text.
type Result struct {
	Text    []rune
	Marks   []Mark
	Correct int
}

// Total returns the number of graded characters.
func (r Result) Total() int {
	return len(r.Marks)
}

// Passed reports whether every character was heard correctly.
func (r Result) Passed() bool {
	return r.Correct == len(r.Marks)
}

// Score compares answer with text character by character, ignoring case.
func Score(text, answer string) Result {
	want := []rune(text)
	got := []rune(strings.ToLower(answer))

	r := Result{Text: want, Marks: make([]Mark, len(want))}
	for i, t := range want {
		switch {
		case i >= len(got):
			r.Marks[i] = Missing
		case unicode.ToLower(t) != got[i]:
			r.Marks[i] = Wrong
		default:
			r.Marks[i] = Correct
			r.Correct++
		}
	}

	return r
}
