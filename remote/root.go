// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/spezifisch/mpv-mpris/logger"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
)

// Root implements the methods of org.mpris.MediaPlayer2.
type Root struct {
	player *mpvplayer.Player
	logger logger.LoggerInterface

	mu         sync.Mutex
	uriSchemes []string
}

// Raise is not supported; CanRaise is false.
func (r *Root) Raise() *dbus.Error {
	return nil
}

func (r *Root) Quit() *dbus.Error {
	if err := r.player.Quit(); err != nil {
		r.logger.PrintError("mpp Quit", err)
		return dbus.MakeFailedError(err)
	}
	return nil
}

// supportedURISchemes reads protocol-list once and keeps it; mpv's protocol
// support does not change while it runs.
func (r *Root) supportedURISchemes() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.uriSchemes != nil {
		return r.uriSchemes, nil
	}
	list, err := r.player.GetString(mpvplayer.ProtocolList)
	if err != nil {
		return nil, err
	}
	r.uriSchemes = strings.Split(list, ",")
	return r.uriSchemes, nil
}

func (r *Root) properties(identity, desktopEntry string, mimeTypes []string) map[string]*Prop {
	return map[string]*Prop{
		"CanQuit":            constant("b", true),
		"CanRaise":           constant("b", false),
		"CanSetFullscreen":   constant("b", true),
		"HasTrackList":       constant("b", false),
		"Identity":           constant("s", identity),
		"DesktopEntry":       constant("s", desktopEntry),
		"SupportedMimeTypes": constant("as", mimeTypes),
		"SupportedUriSchemes": {
			Signature: "as",
			Get: func() (interface{}, error) {
				return r.supportedURISchemes()
			},
		},
		"Fullscreen": {
			Signature: "b",
			Get: func() (interface{}, error) {
				return r.player.GetBool(mpvplayer.Fullscreen)
			},
			Set: func(value interface{}) error {
				return r.player.SetBool(mpvplayer.Fullscreen, value.(bool))
			},
		},
	}
}
