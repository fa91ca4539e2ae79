// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"github.com/godbus/dbus/v5"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
)

// watchID is the observation tag of one mpv property.
type watchID uint64

const (
	watchPause watchID = iota + 1
	watchSeekable
	watchIdleActive
	watchEOFReached
	watchKeepOpen
	watchLoopFile
	watchLoopPlaylist
	watchSpeed
	watchShuffle
	watchVolume
	watchFullscreen
	watchMediaTitle
	watchMetadata
	watchDuration
)

// pendingChanges collects what one drained batch of events changed.
type pendingChanges struct {
	status        StatusInputs
	statusChanged bool
	loop          LoopInputs
	loopChanged   bool
	metadata      bool

	root   map[string]dbus.Variant
	player map[string]dbus.Variant
}

func newPendingChanges() *pendingChanges {
	return &pendingChanges{
		root:   make(map[string]dbus.Variant),
		player: make(map[string]dbus.Variant),
	}
}

// apply records a property change and reports whether data had the
// expected type.
type apply func(l *EventLoop, p *pendingChanges, data interface{}) bool

type watch struct {
	property mpvplayer.Property
	format   mpvplayer.Format
	apply    apply
	// conditional watches are registered by the loop itself, not up front.
	conditional bool
}

var watches = map[watchID]watch{
	watchPause:        {mpvplayer.Pause, mpvplayer.FormatFlag, statusFlag(func(in *StatusInputs, b *bool) { in.Pause = b }), false},
	watchIdleActive:   {mpvplayer.IdleActive, mpvplayer.FormatFlag, statusFlag(func(in *StatusInputs, b *bool) { in.IdleActive = b }), false},
	watchEOFReached:   {mpvplayer.EOFReached, mpvplayer.FormatFlag, statusFlag(func(in *StatusInputs, b *bool) { in.EOFReached = b }), true},
	watchKeepOpen:     {mpvplayer.KeepOpen, mpvplayer.FormatString, keepOpen, false},
	watchLoopFile:     {mpvplayer.LoopFile, mpvplayer.FormatString, loopMode(func(in *LoopInputs, s *string) { in.LoopFile = s }), false},
	watchLoopPlaylist: {mpvplayer.LoopPlaylist, mpvplayer.FormatString, loopMode(func(in *LoopInputs, s *string) { in.LoopPlaylist = s }), false},
	watchSeekable:     {mpvplayer.Seekable, mpvplayer.FormatFlag, playerValue[bool]("CanSeek", 1), false},
	watchShuffle:      {mpvplayer.Shuffle, mpvplayer.FormatFlag, playerValue[bool]("Shuffle", 1), false},
	watchSpeed:        {mpvplayer.Speed, mpvplayer.FormatDouble, playerValue[float64]("Rate", 1), false},
	watchVolume:       {mpvplayer.Volume, mpvplayer.FormatDouble, playerValue[float64]("Volume", 100), false},
	watchFullscreen:   {mpvplayer.Fullscreen, mpvplayer.FormatFlag, fullscreen, false},
	watchMediaTitle:   {mpvplayer.MediaTitle, mpvplayer.FormatNone, metadataChanged, false},
	watchMetadata:     {mpvplayer.Metadata, mpvplayer.FormatNone, metadataChanged, false},
	watchDuration:     {mpvplayer.Duration, mpvplayer.FormatNone, metadataChanged, false},
}

func statusFlag(set func(*StatusInputs, *bool)) apply {
	return func(_ *EventLoop, p *pendingChanges, data interface{}) bool {
		b, ok := data.(bool)
		if !ok {
			return false
		}
		set(&p.status, &b)
		p.statusChanged = true
		return true
	}
}

func loopMode(set func(*LoopInputs, *string)) apply {
	return func(_ *EventLoop, p *pendingChanges, data interface{}) bool {
		s, ok := data.(string)
		if !ok {
			return false
		}
		set(&p.loop, &s)
		p.loopChanged = true
		return true
	}
}

// playerValue copies a value straight into the Player change set. divisor
// scales doubles, e.g. mpv's 0-100 volume to MPRIS's 0-1.
func playerValue[T bool | float64](name string, divisor float64) apply {
	return func(_ *EventLoop, p *pendingChanges, data interface{}) bool {
		v, ok := data.(T)
		if !ok {
			return false
		}
		if f, isFloat := any(v).(float64); isFloat {
			p.player[name] = dbus.MakeVariant(f / divisor)
			return true
		}
		p.player[name] = dbus.MakeVariant(v)
		return true
	}
}

func fullscreen(_ *EventLoop, p *pendingChanges, data interface{}) bool {
	b, ok := data.(bool)
	if ok {
		p.root["Fullscreen"] = dbus.MakeVariant(b)
	}
	return ok
}

func metadataChanged(_ *EventLoop, p *pendingChanges, _ interface{}) bool {
	p.metadata = true
	return true
}

// keepOpen follows keep-open: eof-reached only means "stopped at the end"
// while mpv holds the last frame, so it is observed only then.
func keepOpen(l *EventLoop, p *pendingChanges, data interface{}) bool {
	mode, ok := data.(string)
	if !ok {
		return false
	}
	held := mode != mpvplayer.Off
	l.observeEOF(held)
	if held {
		p.status.EOFReached = nil
	} else {
		eof := false
		p.status.EOFReached = &eof
	}
	p.statusChanged = true
	return true
}
