package pulse

import (
	"strings"
	"testing"
	"time"

	"github.com/gucio32/morselight/pkg/morse"
)

func mustCompile(t *testing.T, text string) Train {
	t.Helper()

	m, err := morse.Encode(text)
	if err != nil {
		t.Fatalf("Encode(%q): %v", text, err)
	}

	return Compile(m)
}

func TestCompile_SOS(t *testing.T) {
	const (
		on  = true
		off = false
	)

	want := Train{on, off, on, off, on, off, on, on, off, on, on, off, on, on, off, on, off, on, off, on}

	got := mustCompile(t, "sos")
	if !got.Equal(want) {
		t.Fatalf("Compile(sos) = %s, want %s", got, want)
	}
	if got.Len() != 20 {
		t.Errorf("Len() = %d, want 20", got.Len())
	}
	if got.OnCount() != 12 {
		t.Errorf("OnCount() = %d, want 12", got.OnCount())
	}
}

func TestCompile_InterWordGap(t *testing.T) {
	// a: #_##_ then +2 gap, word gap: ___ + _ then +2 gap, b: ##_#_#_#
	want := "#_##_" + "__" + "____" + "__" + "##_#_#_#"

	got := mustCompile(t, "a b")
	if got.String() != want {
		t.Fatalf("Compile(a b) = %s, want %s", got, want)
	}
}

func TestCompile_WordGapCostsTwoExtraTicks(t *testing.T) {
	// Two letter words next to each other with no separator word in between.
	joined := Compile(morse.NewMessage(
		[]morse.Symbol{morse.Dot},
		[]morse.Symbol{morse.Dot},
	))
	single := Compile(morse.NewMessage(
		[]morse.Symbol{morse.Dot, morse.Dot},
	))

	if joined.Len()-single.Len() != 2 {
		t.Fatalf("inter-word gap = %d ticks, want 2", joined.Len()-single.Len())
	}
	if joined.String() != "#___#" {
		t.Errorf("Compile = %s, want #___#", joined)
	}
}

func TestCompile_Empty(t *testing.T) {
	got := mustCompile(t, "")
	if got == nil || got.Len() != 0 {
		t.Fatalf("Compile(\"\") = %v, want empty non-nil train", got)
	}
}

func TestCompile_OnlySpace(t *testing.T) {
	got := mustCompile(t, " ")
	if got.String() != "___" {
		t.Errorf("Compile(\" \") = %s, want ___", got)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	inputs := []string{"sos", "hello world", "CQ CQ de ab1cd", "$@ ( ) !", strings.Repeat("e t ", 30)}
	for _, in := range inputs {
		a := mustCompile(t, in)
		b := mustCompile(t, in)
		if !a.Equal(b) {
			t.Errorf("Compile(%q) not deterministic", in)
		}
	}
}

func TestCompile_LastPulseIsSignal(t *testing.T) {
	// Messages ending in a letter end on an on pulse once the trailing gap is trimmed.
	for _, in := range []string{"e", "t", "sos", "hello world"} {
		got := mustCompile(t, in)
		if !got[got.Len()-1] {
			t.Errorf("Compile(%q) ends with an off pulse", in)
		}
	}
}

func TestCompile_LengthMatchesSymbols(t *testing.T) {
	m, err := morse.Encode("paris paris")
	if err != nil {
		t.Fatal(err)
	}

	want := 0
	words := m.Words()
	for i, w := range words {
		for _, s := range w {
			want += s.Duration() + 1
		}
		if i != len(words)-1 {
			want += 2
		}
	}
	want--

	if got := Compile(m).Len(); got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

func TestDuration(t *testing.T) {
	tr := mustCompile(t, "sos")
	if got := Duration(tr, DefaultInterval); got != 5*time.Second {
		t.Errorf("Duration = %v, want 5s", got)
	}
	if got := Duration(Train{}, DefaultInterval); got != 0 {
		t.Errorf("Duration(empty) = %v, want 0", got)
	}
}

func TestIntervalFromPARIS(t *testing.T) {
	tests := []struct {
		paris int
		want  time.Duration
	}{
		{20, 60 * time.Millisecond},
		{12, 100 * time.Millisecond},
		{0, DefaultInterval},
		{-3, DefaultInterval},
	}

	for _, tt := range tests {
		if got := IntervalFromPARIS(tt.paris); got != tt.want {
			t.Errorf("IntervalFromPARIS(%d) = %v, want %v", tt.paris, got, tt.want)
		}
	}
}
