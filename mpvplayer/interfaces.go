// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

// Client is the slice of mpv's client API the bridge needs. Implementations
// must be safe for concurrent use: the event loop and the bus dispatcher call
// into the same client.
type Client interface {
	// ClientName returns mpv's name for this client, usually the plugin's
	// file name without extension.
	ClientName() string

	// GetProperty reads name in the given format. The returned value is
	// bool, int64, float64 or string depending on format.
	GetProperty(name string, format Format) (interface{}, error)
	SetProperty(name string, format Format, value interface{}) error

	// Command runs an mpv input command; args[0] is the command name.
	Command(args []string) error

	// ObserveProperty asks mpv to send EventPropertyChange events for name,
	// tagged with tag in Event.ReplyUserdata.
	ObserveProperty(tag uint64, name string, format Format) error
	// UnobserveProperty removes every observation registered with tag.
	UnobserveProperty(tag uint64) error

	// WaitEvent blocks for up to timeout seconds; a negative timeout waits
	// forever and zero polls. It returns an EventNone event when nothing
	// arrived in time.
	WaitEvent(timeout float64) *Event
}
