package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gucio32/morselight/internal/display"
	"github.com/gucio32/morselight/pkg/morse"
	"github.com/gucio32/morselight/pkg/pulse"
	"github.com/gucio32/morselight/pkg/transmitter"
)

func (a *app) encode(text string) (morse.Message, error) {
	m, err := a.cfg.Validator().Encode(text)
	if errors.Is(err, morse.ErrInvalidInput) {
		return m, fmt.Errorf("%q: unsupported character or longer than %d characters: %w", text, a.cfg.InputLimit, err)
	}

	return m, err
}

// play transmits m and blocks until it is sent or ctx is done, in which case
// the transmission is cancelled.
func (a *app) play(ctx context.Context, m morse.Message, interval time.Duration) (*transmitter.Handle, error) {
	tx := a.transmitter(interval)

	h, err := tx.Start(pulse.Compile(m), a.observer())
	if err != nil {
		return nil, err
	}

	select {
	case <-h.Done():
	case <-ctx.Done():
		h.Cancel()
	}

	return h, nil
}

func newEncodeCmd(a *app) *cobra.Command {
	var showPulses bool

	cmd := &cobra.Command{
		Use:   "encode TEXT...",
		Short: "Print the Morse rendering of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.encode(strings.Join(args, " "))
			if err != nil {
				return err
			}

			train := pulse.Compile(m)
			fmt.Fprintln(a.out, m.String())
			if showPulses {
				fmt.Fprintln(a.out, train.String())
			}
			fmt.Fprintln(a.out, display.Summary(train, a.cfg.Interval))

			return nil
		},
	}

	cmd.Flags().BoolVar(&showPulses, "pulses", false, "also print the pulse train (# on, _ off)")

	return cmd
}

func newSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send TEXT...",
		Short: "Transmit text; interrupt to cancel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.encode(strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, m.String())
			fmt.Fprintln(a.out, display.Summary(pulse.Compile(m), a.cfg.Interval))

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			h, err := a.play(ctx, m, a.cfg.Interval)
			if err != nil {
				return err
			}

			if h.State() == transmitter.StateCancelled {
				a.log.Info().Str("transmission", h.ID()).Msg("transmission cancelled")
			}

			return nil
		},
	}
}
