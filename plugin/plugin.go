// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package plugin runs the MPRIS bridge for one mpv client handle until mpv
// shuts down.
package plugin

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/samber/oops"
	"github.com/spezifisch/mpv-mpris/config"
	"github.com/spezifisch/mpv-mpris/logger"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
	"github.com/spezifisch/mpv-mpris/remote"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Fs holds the config file and desktop entries. Defaults to the OS.
	Fs afero.Fs
	// ConfigFile overrides the script-opts search.
	ConfigFile string
	// LogLevel overrides the configured level when set.
	LogLevel  string
	LogOutput io.Writer
	// DataDirs overrides XDG_DATA_DIRS.
	DataDirs string
	// BusName overrides <bus_name_prefix><pid>.
	BusName string

	Connect func() (*dbus.Conn, error)
	Runner  remote.Runner
}

func (o *Options) defaults() {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.LogOutput == nil {
		o.LogOutput = os.Stderr
	}
	if o.DataDirs == "" {
		o.DataDirs = os.Getenv("XDG_DATA_DIRS")
	}
	if o.Connect == nil {
		o.Connect = func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() }
	}
	if o.Runner == nil {
		o.Runner = remote.ExecRunner
	}
}

// BusName is the well-known name for the mpv process with the given pid.
func BusName(prefix string, pid int) string {
	return fmt.Sprintf("%s%d", prefix, pid)
}

// Run serves MPRIS for client and returns once mpv shuts down. The result is
// the plugin's exit status: 0 after a clean shutdown, 1 if the bridge could
// not be set up.
func Run(client mpvplayer.Client, opts Options) int {
	opts.defaults()
	name := client.ClientName()

	cfg, cfgErr := config.Load(opts.Fs, name, opts.ConfigFile)
	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	log := logger.New(opts.LogOutput, name, level)
	if cfgErr != nil {
		log.PrintError("config", cfgErr)
	}
	if cfg.File != "" {
		log.Debugf("config: using %s", cfg.File)
	}

	conn, err := opts.Connect()
	if err != nil {
		log.PrintError("plugin", oops.Code("BUS_CONNECT").Wrap(err))
		return 1
	}

	busName := opts.BusName
	if busName == "" {
		busName = BusName(cfg.BusNamePrefix, os.Getpid())
	}
	ropts := remote.Options{
		BusName:      busName,
		Identity:     cfg.Identity,
		DesktopEntry: cfg.DesktopEntry,
		MimeTypes:    remote.MimeTypes(opts.Fs, opts.DataDirs, cfg.DesktopEntry),
	}
	if cfg.Thumbnails.Enabled {
		ropts.Thumbnailer = remote.NewThumbnailer(cfg.Thumbnails, opts.Runner, log)
		defer ropts.Thumbnailer.Close()
	}

	player := mpvplayer.NewPlayer(client)
	mpp, err := remote.RegisterMprisPlayer(conn, player, ropts, log)
	if err != nil {
		log.PrintError("plugin", err)
		if cerr := conn.Close(); cerr != nil {
			log.PrintError("plugin: close bus", cerr)
		}
		return 1
	}
	defer mpp.Close()

	loop := mpp.EventLoop()
	if err := loop.Observe(); err != nil {
		log.PrintError("plugin: observe", err)
		return 1
	}
	log.Debugf("plugin: serving %s", busName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		loop.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return mpp.Serve(ctx)
	})
	if err := g.Wait(); err != nil {
		log.PrintError("plugin", err)
	}
	return 0
}
