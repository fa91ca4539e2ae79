// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProps(player *mpvplayer.Player) *Properties {
	return NewMprisPlayer(player, Options{
		BusName:      "org.mpris.MediaPlayer2.mpv.instance1",
		Identity:     "mpv Media Player",
		DesktopEntry: "mpv",
		MimeTypes:    []string{"audio/flac"},
	}, quiet()).Properties()
}

func get(t *testing.T, p *Properties, iface, name string) interface{} {
	t.Helper()
	v, derr := p.Get(iface, name)
	require.Nil(t, derr)
	return v.Value()
}

func TestRootProperties(t *testing.T) {
	client, player := idlePlayer()
	p := newProps(player)

	assert.Equal(t, true, get(t, p, RootInterface, "CanQuit"))
	assert.Equal(t, false, get(t, p, RootInterface, "CanRaise"))
	assert.Equal(t, true, get(t, p, RootInterface, "CanSetFullscreen"))
	assert.Equal(t, false, get(t, p, RootInterface, "HasTrackList"))
	assert.Equal(t, "mpv Media Player", get(t, p, RootInterface, "Identity"))
	assert.Equal(t, "mpv", get(t, p, RootInterface, "DesktopEntry"))
	assert.Equal(t, []string{"audio/flac"}, get(t, p, RootInterface, "SupportedMimeTypes"))

	t.Run("uri schemes are read once", func(t *testing.T) {
		assert.Equal(t, []string{"http", "https", "file"}, get(t, p, RootInterface, "SupportedUriSchemes"))
		client.Put(mpvplayer.ProtocolList, "ftp")
		assert.Equal(t, []string{"http", "https", "file"}, get(t, p, RootInterface, "SupportedUriSchemes"))
	})

	t.Run("fullscreen", func(t *testing.T) {
		require.Nil(t, p.Set(RootInterface, "Fullscreen", dbus.MakeVariant(true)))
		v, _ := client.Value(mpvplayer.Fullscreen)
		assert.Equal(t, true, v)
		assert.Equal(t, true, get(t, p, RootInterface, "Fullscreen"))
	})

	t.Run("nil mime types are an empty list", func(t *testing.T) {
		props := NewMprisPlayer(player, Options{}, quiet()).Properties()
		assert.Equal(t, []string{}, get(t, props, RootInterface, "SupportedMimeTypes"))
	})
}

func TestUriSchemesRetryAfterFailure(t *testing.T) {
	client, player := idlePlayer()
	client.Delete(mpvplayer.ProtocolList)
	p := newProps(player)

	_, derr := p.Get(RootInterface, "SupportedUriSchemes")
	require.NotNil(t, derr)
	assert.Equal(t, "org.freedesktop.DBus.Error.Failed", derr.Name)

	client.Put(mpvplayer.ProtocolList, "file")
	assert.Equal(t, []string{"file"}, get(t, p, RootInterface, "SupportedUriSchemes"))
}

func TestPlayerProperties(t *testing.T) {
	_, player := playingPlayer()
	p := newProps(player)

	for _, name := range []string{"CanGoNext", "CanGoPrevious", "CanPlay", "CanPause", "CanControl", "CanSeek"} {
		assert.Equal(t, true, get(t, p, PlayerInterface, name), name)
	}
	assert.Equal(t, "Playing", get(t, p, PlayerInterface, "PlaybackStatus"))
	assert.Equal(t, "None", get(t, p, PlayerInterface, "LoopStatus"))
	assert.Equal(t, 1.0, get(t, p, PlayerInterface, "Rate"))
	assert.Equal(t, 0.01, get(t, p, PlayerInterface, "MinimumRate"))
	assert.Equal(t, 100.0, get(t, p, PlayerInterface, "MaximumRate"))
	assert.Equal(t, false, get(t, p, PlayerInterface, "Shuffle"))
	assert.Equal(t, 1.0, get(t, p, PlayerInterface, "Volume"))
	assert.Equal(t, int64(12_000_000), get(t, p, PlayerInterface, "Position"))

	metadata, ok := get(t, p, PlayerInterface, "Metadata").(map[string]dbus.Variant)
	require.True(t, ok)
	assert.Equal(t, dbus.MakeVariant(TrackID), metadata["mpris:trackid"])
}

func TestSetProperties(t *testing.T) {
	t.Run("volume", func(t *testing.T) {
		client, player := playingPlayer()
		p := newProps(player)
		require.Nil(t, p.Set(PlayerInterface, "Volume", dbus.MakeVariant(0.42)))
		v, _ := client.Value(mpvplayer.Volume)
		assert.InDelta(t, 42.0, v, 1e-9)
		assert.InDelta(t, 0.42, get(t, p, PlayerInterface, "Volume"), 1e-9)

		require.Nil(t, p.Set(PlayerInterface, "Volume", dbus.MakeVariant(-1.0)))
		v, _ = client.Value(mpvplayer.Volume)
		assert.Equal(t, 0.0, v)
	})

	t.Run("position", func(t *testing.T) {
		client, player := playingPlayer()
		p := newProps(player)
		require.Nil(t, p.Set(PlayerInterface, "Position", dbus.MakeVariant(int64(30_000_000))))
		v, _ := client.Value(mpvplayer.PlaybackTime)
		assert.Equal(t, 30.0, v)
		assert.Equal(t, int64(30_000_000), get(t, p, PlayerInterface, "Position"))
	})

	t.Run("rate and shuffle", func(t *testing.T) {
		_, player := playingPlayer()
		p := newProps(player)
		require.Nil(t, p.Set(PlayerInterface, "Rate", dbus.MakeVariant(1.5)))
		require.Nil(t, p.Set(PlayerInterface, "Shuffle", dbus.MakeVariant(true)))
		assert.Equal(t, 1.5, get(t, p, PlayerInterface, "Rate"))
		assert.Equal(t, true, get(t, p, PlayerInterface, "Shuffle"))
	})

	t.Run("loop status", func(t *testing.T) {
		client, player := playingPlayer()
		p := newProps(player)
		for _, tt := range []struct {
			status     LoopStatus
			file, list string
		}{
			{LoopTrack, "inf", "no"},
			{LoopPlaylist, "no", "inf"},
			{LoopNone, "no", "no"},
		} {
			require.Nil(t, p.Set(PlayerInterface, "LoopStatus", dbus.MakeVariant(string(tt.status))))
			file, _ := client.Value(mpvplayer.LoopFile)
			list, _ := client.Value(mpvplayer.LoopPlaylist)
			assert.Equal(t, tt.file, file, tt.status)
			assert.Equal(t, tt.list, list, tt.status)
			assert.Equal(t, string(tt.status), get(t, p, PlayerInterface, "LoopStatus"))
		}

		assert.Equal(t, prop.ErrInvalidArg, p.Set(PlayerInterface, "LoopStatus", dbus.MakeVariant("Forever")))
		assert.Equal(t, 3, client.SetCount(mpvplayer.LoopFile))
	})

	t.Run("loop status rolls back", func(t *testing.T) {
		client, player := playingPlayer()
		p := newProps(player)
		client.FailSet(mpvplayer.LoopPlaylist, errors.New("rejected"))

		derr := p.Set(PlayerInterface, "LoopStatus", dbus.MakeVariant(string(LoopTrack)))
		require.NotNil(t, derr)
		assert.Equal(t, "org.freedesktop.DBus.Error.Failed", derr.Name)
		file, _ := client.Value(mpvplayer.LoopFile)
		assert.Equal(t, "no", file)
		assert.Equal(t, 2, client.SetCount(mpvplayer.LoopFile))
		assert.Equal(t, "None", get(t, p, PlayerInterface, "LoopStatus"))
	})

	t.Run("errors", func(t *testing.T) {
		client, player := playingPlayer()
		p := newProps(player)
		assert.Equal(t, prop.ErrReadOnly, p.Set(PlayerInterface, "CanSeek", dbus.MakeVariant(false)))
		assert.Equal(t, prop.ErrReadOnly, p.Set(RootInterface, "Identity", dbus.MakeVariant("x")))
		assert.Equal(t, prop.ErrInvalidArg, p.Set(PlayerInterface, "Volume", dbus.MakeVariant("loud")))
		assert.Equal(t, prop.ErrInvalidArg, p.Set(PlayerInterface, "Position", dbus.MakeVariant(1.0)))
		assert.Equal(t, prop.ErrPropNotFound, p.Set(PlayerInterface, "Bogus", dbus.MakeVariant(1.0)))
		assert.Equal(t, prop.ErrIfaceNotFound, p.Set("org.example.Nope", "Volume", dbus.MakeVariant(1.0)))

		_, derr := p.Get(PlayerInterface, "Bogus")
		assert.Equal(t, prop.ErrPropNotFound, derr)
		_, derr = p.GetAll("org.example.Nope")
		assert.Equal(t, prop.ErrIfaceNotFound, derr)

		client.FailSet(mpvplayer.Speed, errors.New("rejected"))
		derr = p.Set(PlayerInterface, "Rate", dbus.MakeVariant(2.0))
		require.NotNil(t, derr)
		assert.Equal(t, "org.freedesktop.DBus.Error.Failed", derr.Name)
	})
}

func TestGetAll(t *testing.T) {
	_, player := idlePlayer()
	p := newProps(player)

	all, derr := p.GetAll(PlayerInterface)
	require.Nil(t, derr)
	assert.NotContains(t, all, "Position")
	assert.NotContains(t, all, "CanSeek")
	assert.Equal(t, dbus.MakeVariant("Stopped"), all["PlaybackStatus"])
	assert.Equal(t, dbus.MakeVariant(1.0), all["Volume"])
	assert.Contains(t, all, "Metadata")

	root, derr := p.GetAll(RootInterface)
	require.Nil(t, derr)
	assert.Len(t, root, 9)
}

func TestIntrospection(t *testing.T) {
	_, player := idlePlayer()
	p := newProps(player)

	access := func(iface string) map[string]string {
		out := make(map[string]string)
		for _, pr := range p.Introspection(iface) {
			out[pr.Name] = pr.Access
		}
		return out
	}
	root := access(RootInterface)
	assert.Equal(t, "readwrite", root["Fullscreen"])
	assert.Equal(t, "read", root["Identity"])

	playerAccess := access(PlayerInterface)
	for _, name := range []string{"LoopStatus", "Rate", "Shuffle", "Volume", "Position"} {
		assert.Equal(t, "readwrite", playerAccess[name], name)
	}
	assert.Equal(t, "read", playerAccess["Metadata"])

	list := p.Introspection(PlayerInterface)
	assert.Equal(t, introspect.Property{Name: "CanControl", Type: "b", Access: "read"}, list[0])
	assert.Empty(t, p.Introspection("org.example.Nope"))
}
