package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/gucio32/morselight/internal/config"
	"github.com/gucio32/morselight/internal/display"
	"github.com/gucio32/morselight/internal/logging"
	"github.com/gucio32/morselight/pkg/generator"
	"github.com/gucio32/morselight/pkg/transmitter"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// app holds what every subcommand shares once flags are resolved.
type app struct {
	cfg config.Config
	log zerolog.Logger
	out io.Writer
	gen *generator.Generator
}

// observer builds the sinks for one transmission.
func (a *app) observer() transmitter.Observer {
	obs := []transmitter.Observer{logging.Observer(a.log)}
	if a.cfg.Display {
		obs = append(obs, display.NewLight(a.out))
	}
	if a.gen != nil {
		obs = append(obs, a.gen)
	}

	return transmitter.Fanout(obs...)
}

func (a *app) transmitter(interval time.Duration) *transmitter.Transmitter {
	if a.gen != nil {
		a.gen.SetInterval(interval)
	}

	return transmitter.New(
		transmitter.WithInterval(interval),
		transmitter.WithLogger(a.log),
	)
}

func (a *app) close() {
	if a.gen == nil {
		return
	}

	if err := a.gen.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close audio")
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.DefaultConfig()}
	var cfgPath string

	root := &cobra.Command{
		Use:           "morse",
		Short:         "Encode text as Morse code and flash or sound it",
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if err := config.Resolve(&a.cfg, cfgPath, changed); err != nil {
				return err
			}

			a.out = cmd.OutOrStdout()
			a.log = logging.New(a.cfg.LogLevel, cmd.ErrOrStderr())
			a.log.Debug().Interface("config", a.cfg).Msg("configuration")

			if a.cfg.Audio {
				gen, err := generator.NewGenerator()
				if err != nil {
					return err
				}
				a.gen = gen.
					SetFrequency(a.cfg.Frequency).
					SetInterval(a.cfg.Interval).
					SetLogger(a.log)
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.morselight/config.toml)")
	flags.DurationVar(&a.cfg.Interval, "interval", a.cfg.Interval, "length of one pulse")
	flags.IntVar(&a.cfg.WPM, "wpm", a.cfg.WPM, "speed in PARIS words per minute (cannot be combined with --interval)")
	flags.IntVar(&a.cfg.InputLimit, "input-limit", a.cfg.InputLimit, "maximum number of characters to send")
	flags.Float64Var(&a.cfg.Frequency, "frequency", a.cfg.Frequency, "audio tone frequency in Hz")
	flags.BoolVar(&a.cfg.Audio, "audio", a.cfg.Audio, "sound pulses on the default audio device")
	flags.BoolVar(&a.cfg.Display, "display", a.cfg.Display, "draw pulses on the terminal")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newEncodeCmd(a),
		newSendCmd(a),
		newLearnCmd(a),
		newFollowCmd(a),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "morse:", err)
		os.Exit(1)
	}
}
