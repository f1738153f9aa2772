package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/gucio32/morselight/pkg/learn"
	"github.com/gucio32/morselight/pkg/morse"
	"github.com/gucio32/morselight/pkg/pulse"
)

func newLearnCmd(a *app) *cobra.Command {
	var (
		lessonIdx int
		words     int
		tutor     bool
		seed      uint64
	)

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Practice copying random words from a lesson",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lesson, err := learn.GetLesson(lessonIdx)
			if err != nil {
				return fmt.Errorf("lesson %d (have %v): %w", lessonIdx, learn.Lessons(), err)
			}

			in := bufio.NewReader(cmd.InOrStdin())
			if tutor {
				return a.tutor(cmd, lesson, in)
			}

			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			return a.lesson(cmd, lesson, words, seed, in)
		},
	}

	cmd.Flags().IntVar(&lessonIdx, "lesson", 1, "lesson index")
	cmd.Flags().IntVar(&words, "words", 3, "number of words to learn")
	cmd.Flags().BoolVar(&tutor, "tutor", false, "start tutorial mode")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: current time)")

	return cmd
}

// tutor prints the letters of the lesson and plays single letters on request.
func (a *app) tutor(cmd *cobra.Command, lesson learn.Lesson, in *bufio.Reader) error {
	for _, letter := range lesson.Letters {
		code, _ := morse.Translate(letter)
		fmt.Fprintf(a.out, "%c: %s\n", letter, code)
	}

	for {
		fmt.Fprint(a.out, "Type letter to hear it or enter to exit: ")
		answer, err := readLine(in)
		if err != nil || answer == "" {
			return nil
		}

		if utf8.RuneCountInString(answer) != 1 {
			fmt.Fprintln(a.out, "Only one letter allowed")
			continue
		}

		if !lesson.Contains([]rune(answer)[0]) {
			fmt.Fprintln(a.out, "Not in lesson")
			continue
		}

		m, err := a.encode(answer)
		if err != nil {
			return err
		}

		ctx, stop := signalContext(cmd.Context())
		_, err = a.play(ctx, m, lesson.Interval)
		stop()
		if err != nil {
			return err
		}
	}
}

// lesson plays random words while the user types what they hear.
func (a *app) lesson(cmd *cobra.Command, lesson learn.Lesson, words int, seed uint64, in *bufio.Reader) error {
	text := lesson.Text(learn.NewRand(seed), words)

	m, err := a.encode(text)
	if err != nil {
		return err
	}

	tx := a.transmitter(lesson.Interval)
	h, err := tx.Start(pulse.Compile(m), a.observer())
	if err != nil {
		return err
	}
	defer h.Cancel()

	fmt.Fprint(a.out, "What do you hear?: ")
	answer, err := readLine(in)
	if err != nil && err != io.EOF {
		return err
	}

	// stop playing as soon as the answer is in
	h.Cancel()

	r := learn.Score(text, answer)
	printResult(a.out, r)

	if r.Passed() {
		fmt.Fprintln(a.out, "Congratulations! You can go ahead!")
	}

	return nil
}

// printResult prints correct letters in green, wrong ones in red and missing
// ones in gray.
func printResult(out io.Writer, r learn.Result) {
	var b strings.Builder
	for i, c := range r.Text {
		switch r.Marks[i] {
		case learn.Correct:
			fmt.Fprintf(&b, "\033[32m%c\033[0m", c)
		case learn.Wrong:
			fmt.Fprintf(&b, "\033[31m%c\033[0m", c)
		default:
			fmt.Fprintf(&b, "\033[37m%c\033[0m", c)
		}
	}

	fmt.Fprintln(out, b.String())
	fmt.Fprintf(out, "%d/%d correct\n", r.Correct, r.Total())
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}
