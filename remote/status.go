// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import "github.com/spezifisch/mpv-mpris/mpvplayer"

type PlaybackStatus string

const (
	Playing PlaybackStatus = "Playing"
	Paused  PlaybackStatus = "Paused"
	Stopped PlaybackStatus = "Stopped"
)

type LoopStatus string

const (
	LoopNone     LoopStatus = "None"
	LoopTrack    LoopStatus = "Track"
	LoopPlaylist LoopStatus = "Playlist"
)

// PlaybackStatusFrom: idle or a held end of file means Stopped, then pause
// decides between Paused and Playing.
func PlaybackStatusFrom(idle, eof, pause bool) PlaybackStatus {
	switch {
	case idle || eof:
		return Stopped
	case pause:
		return Paused
	default:
		return Playing
	}
}

// LoopStatusFrom gives loop-file priority over loop-playlist.
func LoopStatusFrom(loopFile, loopPlaylist string) LoopStatus {
	switch {
	case loopFile != mpvplayer.Off:
		return LoopTrack
	case loopPlaylist != mpvplayer.Off:
		return LoopPlaylist
	default:
		return LoopNone
	}
}

// StatusInputs holds the values already known for a playback status; nil
// fields are read from mpv. EOFReached must only be set while keep-open is
// on.
type StatusInputs struct {
	IdleActive *bool
	EOFReached *bool
	Pause      *bool
}

type LoopInputs struct {
	LoopFile     *string
	LoopPlaylist *string
}

// Status derives the MPRIS status values from mpv properties.
type Status struct {
	player *mpvplayer.Player
}

func NewStatus(player *mpvplayer.Player) Status {
	return Status{player: player}
}

func known[T mpvplayer.Value](p *mpvplayer.Player, value *T, name mpvplayer.Property) (T, error) {
	if value != nil {
		return *value, nil
	}
	return mpvplayer.Get[T](p, name)
}

func (s Status) Playback(in StatusInputs) (PlaybackStatus, error) {
	idle, err := known(s.player, in.IdleActive, mpvplayer.IdleActive)
	if err != nil {
		return "", err
	}
	pause, err := known(s.player, in.Pause, mpvplayer.Pause)
	if err != nil {
		return "", err
	}
	var eof bool
	if in.EOFReached != nil {
		eof = *in.EOFReached
	} else {
		eof = s.heldAtEOF()
	}
	return PlaybackStatusFrom(idle, eof, pause), nil
}

// heldAtEOF reports eof-reached, but only while keep-open holds the last
// frame; otherwise mpv moves on and the flag is meaningless.
func (s Status) heldAtEOF() bool {
	keepOpen, err := s.player.GetString(mpvplayer.KeepOpen)
	if err != nil || keepOpen == mpvplayer.Off {
		return false
	}
	eof, err := s.player.GetBool(mpvplayer.EOFReached)
	return err == nil && eof
}

func (s Status) Loop(in LoopInputs) (LoopStatus, error) {
	loopFile, err := known(s.player, in.LoopFile, mpvplayer.LoopFile)
	if err != nil {
		return "", err
	}
	loopPlaylist, err := known(s.player, in.LoopPlaylist, mpvplayer.LoopPlaylist)
	if err != nil {
		return "", err
	}
	return LoopStatusFrom(loopFile, loopPlaylist), nil
}
