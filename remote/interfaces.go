// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import "github.com/godbus/dbus/v5"

const (
	ObjectPath          dbus.ObjectPath = "/org/mpris/MediaPlayer2"
	RootInterface                       = "org.mpris.MediaPlayer2"
	PlayerInterface                     = "org.mpris.MediaPlayer2.Player"
	PropertiesInterface                 = "org.freedesktop.DBus.Properties"

	// TrackID names the only track; there is no track list.
	TrackID dbus.ObjectPath = "/io/mpv"
)

// Emitter sends signals on the bus. *dbus.Conn implements it.
type Emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}
