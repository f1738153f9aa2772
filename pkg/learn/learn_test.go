package learn

import (
	"errors"
	"strings"
	"testing"

	"github.com/gucio32/morselight/pkg/morse"
)

func TestGetLesson(t *testing.T) {
	l, err := GetLesson(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Letters) != 8 {
		t.Errorf("len(Letters) = %d, want 8", len(l.Letters))
	}

	if _, err := GetLesson(42); !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("GetLesson(42) err = %v, want ErrLessonNotFound", err)
	}
}

func TestLessons_Encodable(t *testing.T) {
	for _, idx := range Lessons() {
		l, _ := GetLesson(idx)
		for _, c := range l.Letters {
			if !morse.Supported(c) {
				t.Errorf("lesson %d: %q is not in the codebook", idx, c)
			}
		}
		if l.Interval <= 0 {
			t.Errorf("lesson %d: interval %v", idx, l.Interval)
		}
	}
}

func TestLesson_Words(t *testing.T) {
	l, _ := GetLesson(1)
	words := l.Words(NewRand(7), 4)

	if len(words) != 4 {
		t.Fatalf("len(words) = %d, want 4", len(words))
	}
	for _, w := range words {
		if len(w) != WordLength {
			t.Errorf("word %q has %d letters", w, len(w))
		}
		for _, c := range w {
			if !l.Contains(c) {
				t.Errorf("word %q has %q outside the lesson", w, c)
			}
		}
	}

	again := l.Words(NewRand(7), 4)
	if strings.Join(words, " ") != strings.Join(again, " ") {
		t.Error("same seed produced different words")
	}
}

func TestLesson_TextIsValid(t *testing.T) {
	l, _ := GetLesson(4)
	text := l.Text(NewRand(1), 3)

	if ok, _ := morse.Validate(text); !ok {
		t.Errorf("Validate(%q) = false", text)
	}
	if n := len(strings.Fields(text)); n != 3 {
		t.Errorf("text has %d words, want 3", n)
	}
}

func TestScore(t *testing.T) {
	r := Score("ael va", "AEx v")

	want := []Mark{Correct, Correct, Wrong, Correct, Correct, Missing}
	for i, m := range want {
		if r.Marks[i] != m {
			t.Errorf("Marks[%d] = %v, want %v", i, r.Marks[i], m)
		}
	}
	if r.Correct != 4 || r.Total() != 6 {
		t.Errorf("Correct/Total = %d/%d, want 4/6", r.Correct, r.Total())
	}
	if r.Passed() {
		t.Error("Passed() = true")
	}

	if !Score("sos", "SOS").Passed() {
		t.Error("case-insensitive answer not accepted")
	}
}
