// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"context"
	"errors"

	"github.com/godbus/dbus/v5"
	"github.com/spezifisch/mpv-mpris/logger"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
)

// Controls implements the methods of org.mpris.MediaPlayer2.Player.
type Controls struct {
	player   *mpvplayer.Player
	status   Status
	metadata *MetadataBuilder
	logger   logger.LoggerInterface
}

func (c *Controls) fail(source string, err error) *dbus.Error {
	if err == nil {
		return nil
	}
	c.logger.PrintError(source, err)
	return dbus.MakeFailedError(err)
}

func (c *Controls) Next() *dbus.Error {
	return c.fail("mpp Next", c.player.NextTrack())
}

func (c *Controls) Previous() *dbus.Error {
	return c.fail("mpp Previous", c.player.PreviousTrack())
}

// set paused
func (c *Controls) Pause() *dbus.Error {
	return c.fail("mpp Pause", c.player.SetBool(mpvplayer.Pause, true))
}

func (c *Controls) PlayPause() *dbus.Error {
	return c.fail("mpp PlayPause", c.player.PlayPause())
}

func (c *Controls) Stop() *dbus.Error {
	return c.fail("mpp Stop", c.player.Stop())
}

// set playing
func (c *Controls) Play() *dbus.Error {
	return c.fail("mpp Play", c.player.SetBool(mpvplayer.Pause, false))
}

// Seek moves relative to the current position; offset is in microseconds.
func (c *Controls) Seek(offset int64) *dbus.Error {
	return c.fail("mpp Seek", c.player.Seek(OffsetToSeconds(offset)))
}

// SetPosition ignores requests for another track, negative positions and
// positions past the end, as MPRIS asks.
func (c *Controls) SetPosition(track dbus.ObjectPath, position int64) *dbus.Error {
	if track != TrackID {
		c.logger.Debugf("mpp SetPosition: ignoring stale track %s", track)
		return nil
	}
	if position < 0 {
		return nil
	}
	if duration, err := c.player.GetDouble(mpvplayer.Duration); err == nil && position > TimeFromSeconds(duration) {
		return nil
	}
	return c.fail("mpp SetPosition", c.player.SetDouble(mpvplayer.PlaybackTime, TimeToSeconds(position)))
}

func (c *Controls) OpenUri(uri string) *dbus.Error {
	return c.fail("mpp OpenUri", c.player.LoadFile(uri))
}

// setLoopStatus writes loop-file and then loop-playlist. If the second write
// fails, loop-file is restored.
func setLoopStatus(player *mpvplayer.Player, status LoopStatus) error {
	loopFile, loopPlaylist := mpvplayer.Off, mpvplayer.Off
	switch status {
	case LoopTrack:
		loopFile = mpvplayer.Inf
	case LoopPlaylist:
		loopPlaylist = mpvplayer.Inf
	case LoopNone:
	default:
		return invalid(status)
	}
	prev, err := player.GetString(mpvplayer.LoopFile)
	if err != nil {
		return err
	}
	if err := player.SetString(mpvplayer.LoopFile, loopFile); err != nil {
		return err
	}
	if err := player.SetString(mpvplayer.LoopPlaylist, loopPlaylist); err != nil {
		if rerr := player.SetString(mpvplayer.LoopFile, prev); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

func (c *Controls) properties() map[string]*Prop {
	return map[string]*Prop{
		"CanGoNext":     constant("b", true),
		"CanGoPrevious": constant("b", true),
		"CanPlay":       constant("b", true),
		"CanPause":      constant("b", true),
		"CanControl":    constant("b", true),
		"CanSeek": {
			Signature: "b",
			Get: func() (interface{}, error) {
				return c.player.GetBool(mpvplayer.Seekable)
			},
		},
		"PlaybackStatus": {
			Signature: "s",
			Get: func() (interface{}, error) {
				status, err := c.status.Playback(StatusInputs{})
				return string(status), err
			},
		},
		"LoopStatus": {
			Signature: "s",
			Get: func() (interface{}, error) {
				status, err := c.status.Loop(LoopInputs{})
				return string(status), err
			},
			Set: func(value interface{}) error {
				return setLoopStatus(c.player, LoopStatus(value.(string)))
			},
		},
		"Rate": {
			Signature: "d",
			Get: func() (interface{}, error) {
				return c.player.GetDouble(mpvplayer.Speed)
			},
			Set: func(value interface{}) error {
				return c.player.SetDouble(mpvplayer.Speed, value.(float64))
			},
		},
		"MinimumRate": {
			Signature: "d",
			Get: func() (interface{}, error) {
				return c.player.GetDouble(mpvplayer.SpeedMin)
			},
		},
		"MaximumRate": {
			Signature: "d",
			Get: func() (interface{}, error) {
				return c.player.GetDouble(mpvplayer.SpeedMax)
			},
		},
		"Shuffle": {
			Signature: "b",
			Get: func() (interface{}, error) {
				return c.player.GetBool(mpvplayer.Shuffle)
			},
			Set: func(value interface{}) error {
				return c.player.SetBool(mpvplayer.Shuffle, value.(bool))
			},
		},
		"Volume": {
			Signature: "d",
			Get: func() (interface{}, error) {
				volume, err := c.player.GetDouble(mpvplayer.Volume)
				return volume / 100, err
			},
			Set: func(value interface{}) error {
				return c.player.SetDouble(mpvplayer.Volume, max(value.(float64), 0)*100)
			},
		},
		"Position": {
			Signature: "x",
			Get: func() (interface{}, error) {
				secs, err := c.player.GetDouble(mpvplayer.PlaybackTime)
				return TimeFromSeconds(secs), err
			},
			Set: func(value interface{}) error {
				return c.player.SetDouble(mpvplayer.PlaybackTime, TimeToSeconds(value.(int64)))
			},
		},
		"Metadata": {
			Signature: "a{sv}",
			Get: func() (interface{}, error) {
				return c.metadata.Build(context.Background()), nil
			},
		},
	}
}
