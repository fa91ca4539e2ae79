// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// mpv-mpris runs its own mpv instance with the MPRIS bridge attached, for
// use without loading the plugin into a regular mpv.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"

	"github.com/spezifisch/mpv-mpris/mpvplayer"
	"github.com/spezifisch/mpv-mpris/mpvplayer/embedded"
	"github.com/spezifisch/mpv-mpris/plugin"
	"github.com/spf13/cobra"
)

const DEVELOPMENT = "development"

var Version = DEVELOPMENT

var osExit = os.Exit

type flags struct {
	config   string
	logLevel string
	noVideo  bool
	keepOpen bool
	volume   int
}

// mpvOptions turns the command line into mpv options.
func (f flags) mpvOptions() map[string]string {
	options := map[string]string{
		"volume":    strconv.Itoa(f.volume),
		"keep-open": "no",
	}
	if f.noVideo {
		options["vo"] = "null"
	}
	if f.keepOpen {
		options["keep-open"] = "yes"
	}
	return options
}

// run drives player through plugin.Run. The media are appended to the
// playlist first; cancelling ctx asks mpv to quit.
func run(ctx context.Context, player mpvplayer.Client, media []string, opts plugin.Options) int {
	for _, m := range media {
		if err := player.Command([]string{"loadfile", m, "append-play"}); err != nil {
			fmt.Fprintf(os.Stderr, "Unable to queue %s: %v\n", m, err)
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = player.Command([]string{"quit"})
		case <-done:
		}
	}()

	return plugin.Run(player, opts)
}

func newRootCmd(start func(f flags, media []string) int) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:     "mpv-mpris [flags] [media...]",
		Short:   "Play media in mpv and expose it over MPRIS2",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := start(f, args); code != 0 {
				return fmt.Errorf("exit status %d", code)
			}
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&f.config, "config", "", "use config `file` instead of script-opts/mpris.conf")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "override the configured log level")
	cmd.Flags().BoolVar(&f.noVideo, "no-video", false, "disable video output")
	cmd.Flags().BoolVar(&f.keepOpen, "keep-open", false, "hold the last frame at the end of the playlist")
	cmd.Flags().IntVar(&f.volume, "volume", 100, "initial volume, 0-100")
	return cmd
}

func start(f flags, media []string) int {
	player, err := embedded.New("mpris", f.mpvOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to initialize mpv. Is libmpv installed? %v\n", err)
		return 1
	}
	defer player.Destroy()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, player, media, plugin.Options{
		ConfigFile: f.config,
		LogLevel:   f.logLevel,
	})
}

func main() {
	if Version == DEVELOPMENT {
		if bi, ok := debug.ReadBuildInfo(); ok {
			Version = bi.Main.Version
		}
	}
	if err := newRootCmd(start).Execute(); err != nil {
		osExit(1)
	}
}
