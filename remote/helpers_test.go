// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"io"
	"sync"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/spezifisch/mpv-mpris/logger"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
	"github.com/spezifisch/mpv-mpris/mpvplayer/mpvtest"
	"github.com/stretchr/testify/require"
)

type signal struct {
	path   dbus.ObjectPath
	name   string
	values []interface{}
}

// recorder is an Emitter that keeps what it was asked to send.
type recorder struct {
	mu      sync.Mutex
	signals []signal
	err     error
}

func (r *recorder) Emit(path dbus.ObjectPath, name string, values ...interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, signal{path: path, name: name, values: values})
	return r.err
}

func (r *recorder) all() []signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]signal(nil), r.signals...)
}

// changed returns the PropertiesChanged maps sent for iface, in order.
func (r *recorder) changed(t *testing.T, iface string) []map[string]dbus.Variant {
	t.Helper()
	var out []map[string]dbus.Variant
	for _, s := range r.all() {
		if s.name != PropertiesInterface+".PropertiesChanged" {
			continue
		}
		require.Len(t, s.values, 3)
		if s.values[0] != iface {
			continue
		}
		m, ok := s.values[1].(map[string]dbus.Variant)
		require.True(t, ok)
		require.Equal(t, []string{}, s.values[2])
		out = append(out, m)
	}
	return out
}

func quiet() *logger.Logger {
	return logger.New(io.Discard, "test", "panic")
}

// idlePlayer is a fake mpv with nothing loaded.
func idlePlayer() (*mpvtest.FakeClient, *mpvplayer.Player) {
	client := mpvtest.NewFakeClient("mpris")
	client.Put(mpvplayer.IdleActive, true).
		Put(mpvplayer.Pause, false).
		Put(mpvplayer.KeepOpen, "no").
		Put(mpvplayer.LoopFile, "no").
		Put(mpvplayer.LoopPlaylist, "no").
		Put(mpvplayer.Volume, 100.0).
		Put(mpvplayer.Speed, 1.0).
		Put(mpvplayer.Shuffle, false).
		Put(mpvplayer.Fullscreen, false).
		Put(mpvplayer.ProtocolList, "http,https,file").
		Put(mpvplayer.SpeedMin, 0.01).
		Put(mpvplayer.SpeedMax, 100.0)
	return client, mpvplayer.NewPlayer(client)
}

// playingPlayer is a fake mpv playing a local file.
func playingPlayer() (*mpvtest.FakeClient, *mpvplayer.Player) {
	client, player := idlePlayer()
	client.Put(mpvplayer.IdleActive, false).
		Put(mpvplayer.Path, "music/song.flac").
		Put(mpvplayer.StreamOpenFilename, "music/song.flac").
		Put(mpvplayer.WorkingDirectory, "/home/user").
		Put(mpvplayer.MediaTitle, "song.flac").
		Put(mpvplayer.Metadata, `{"Title":"Song","Artist":"Band"}`).
		Put(mpvplayer.Duration, 200.5).
		Put(mpvplayer.PlaybackTime, 12.0).
		Put(mpvplayer.Seekable, true)
	return client, player
}

func ptr[T any](v T) *T {
	return &v
}
