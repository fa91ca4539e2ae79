// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

// Property is an mpv property name.
type Property string

const (
	Pause              Property = "pause"
	Seekable           Property = "seekable"
	IdleActive         Property = "idle-active"
	EOFReached         Property = "eof-reached"
	KeepOpen           Property = "keep-open"
	LoopFile           Property = "loop-file"
	LoopPlaylist       Property = "loop-playlist"
	Speed              Property = "speed"
	SpeedMin           Property = "option-info/speed/min"
	SpeedMax           Property = "option-info/speed/max"
	Shuffle            Property = "shuffle"
	Metadata           Property = "metadata"
	MediaTitle         Property = "media-title"
	Duration           Property = "duration"
	Volume             Property = "volume"
	Fullscreen         Property = "fullscreen"
	Path               Property = "path"
	StreamOpenFilename Property = "stream-open-filename"
	WorkingDirectory   Property = "working-directory"
	ProtocolList       Property = "protocol-list"
	PlaybackTime       Property = "playback-time"
	PlaylistPlayingPos Property = "playlist-playing-pos"
)

// The "off" value of loop-file, loop-playlist and keep-open.
const Off = "no"

// Inf turns loop-file or loop-playlist on.
const Inf = "inf"
