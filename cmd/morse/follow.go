package main

import (
	"github.com/spf13/cobra"

	"github.com/gucio32/morselight/internal/follow"
)

func newFollowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "follow FILE",
		Short: "Transmit a file and send it again whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			f := follow.New(args[0], a.transmitter(a.cfg.Interval),
				follow.WithValidator(a.cfg.Validator()),
				follow.WithObserver(a.observer),
				follow.WithLogger(a.log),
			)

			a.log.Info().Str("file", args[0]).Msg("following file")
			return f.Run(ctx)
		},
	}
}
