// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"context"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestTranslateTags(t *testing.T) {
	t.Run("numbers and lists", func(t *testing.T) {
		m := make(map[string]dbus.Variant)
		translateTags(parseTags(`{"Track": "3/12", "BPM": "128", "Artist": "X"}`), m)
		assert.Equal(t, dbus.MakeVariant(int32(3)), m["xesam:trackNumber"])
		assert.Equal(t, dbus.MakeVariant(int32(128)), m["xesam:audioBPM"])
		assert.Equal(t, dbus.MakeVariant([]string{"X"}), m["xesam:artist"])
	})

	t.Run("all fields", func(t *testing.T) {
		m := make(map[string]dbus.Variant)
		translateTags(parseTags(`{
			"album": "A", "TITLE": "T", "album_artist": "AA", "comment": "C",
			"composer": "Co", "genre": "G", "lyricist": "L", "TBPM": "90",
			"disc": "2/2", "LYRICS-eng": "la la", "encoder": "lavf"
		}`), m)
		assert.Equal(t, map[string]dbus.Variant{
			"xesam:album":       dbus.MakeVariant("A"),
			"xesam:title":       dbus.MakeVariant("T"),
			"xesam:albumArtist": dbus.MakeVariant([]string{"AA"}),
			"xesam:comment":     dbus.MakeVariant([]string{"C"}),
			"xesam:composer":    dbus.MakeVariant([]string{"Co"}),
			"xesam:genre":       dbus.MakeVariant([]string{"G"}),
			"xesam:lyricist":    dbus.MakeVariant([]string{"L"}),
			"xesam:audioBPM":    dbus.MakeVariant(int32(90)),
			"xesam:discNumber":  dbus.MakeVariant(int32(2)),
			"xesam:asText":      dbus.MakeVariant("la la"),
		}, m)
	})

	t.Run("unparsable numbers are zero", func(t *testing.T) {
		assert.Equal(t, int32(0), tagNumber("side A"))
		assert.Equal(t, int32(0), tagNumber(""))
		assert.Equal(t, int32(7), tagNumber(" 7 / 9"))
		assert.Equal(t, int32(0), tagNumber("99999999999"))
	})

	t.Run("invalid json", func(t *testing.T) {
		assert.Empty(t, parseTags(`{"Track": `))
		assert.Empty(t, parseTags(""))
		assert.Empty(t, parseTags(`["a"]`))
	})
}

func TestMediaURL(t *testing.T) {
	tests := []struct {
		name, path, wd, want string
	}{
		{"url", "https://example.com/a.ogg", "/home", "https://example.com/a.ogg"},
		{"absolute", "/music/a b.flac", "/home", "file:///music/a%20b.flac"},
		{"relative", "music/a.flac", "/home/user", "file:///home/user/music/a.flac"},
		{"relative without wd", "a.flac", "", ""},
		{"empty", "", "/home", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mediaURL(tt.path, tt.wd))
		})
	}
}

func TestBuildMetadata(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("playing local file", func(t *testing.T) {
		_, player := playingPlayer()
		runner := newFakeRunner()
		runner.outputs["ffmpegthumbnailer"] = "jpeg"
		b := NewMetadataBuilder(player, NewThumbnailer(thumbConfig(), runner.run, quiet()))

		m := b.Build(context.Background())
		assert.Equal(t, dbus.MakeVariant(TrackID), m["mpris:trackid"])
		assert.Equal(t, dbus.MakeVariant(int64(200_500_000)), m["mpris:length"])
		assert.Equal(t, dbus.MakeVariant("Song"), m["xesam:title"])
		assert.Equal(t, dbus.MakeVariant([]string{"Band"}), m["xesam:artist"])
		assert.Equal(t, dbus.MakeVariant("file:///home/user/music/song.flac"), m["mpris:url"])
		assert.Equal(t, dbus.MakeVariant("data:image/jpeg;base64,anBlZw=="), m["mpris:artUrl"])
	})

	t.Run("stream uses remote helper", func(t *testing.T) {
		client, player := playingPlayer()
		client.Put(mpvplayer.Path, "https://video.example/v").
			Put(mpvplayer.StreamOpenFilename, "https://cdn.example/v.m3u8")
		runner := newFakeRunner()
		runner.outputs["yt-dlp"] = "https://img.example/t.jpg\n"
		b := NewMetadataBuilder(player, NewThumbnailer(thumbConfig(), runner.run, quiet()))

		m := b.Build(context.Background())
		assert.Equal(t, dbus.MakeVariant("https://img.example/t.jpg"), m["mpris:artUrl"])
		assert.Equal(t, dbus.MakeVariant("https://video.example/v"), m["mpris:url"])
	})

	t.Run("title falls back to media-title", func(t *testing.T) {
		client, player := playingPlayer()
		client.Put(mpvplayer.Metadata, `{"Artist":"Band"}`)
		m := NewMetadataBuilder(player, nil).Build(context.Background())
		assert.Equal(t, dbus.MakeVariant("song.flac"), m["xesam:title"])
	})

	t.Run("invalid blob keeps fixed fields", func(t *testing.T) {
		client, player := playingPlayer()
		client.Put(mpvplayer.Metadata, `not json`).Put(mpvplayer.MediaTitle, "")
		m := NewMetadataBuilder(player, nil).Build(context.Background())
		assert.Equal(t, map[string]dbus.Variant{
			"mpris:trackid": dbus.MakeVariant(TrackID),
			"mpris:length":  dbus.MakeVariant(int64(200_500_000)),
			"mpris:url":     dbus.MakeVariant("file:///home/user/music/song.flac"),
		}, m)
	})

	t.Run("idle", func(t *testing.T) {
		_, player := idlePlayer()
		runner := newFakeRunner()
		m := NewMetadataBuilder(player, NewThumbnailer(thumbConfig(), runner.run, quiet())).Build(context.Background())
		assert.Equal(t, map[string]dbus.Variant{
			"mpris:trackid": dbus.MakeVariant(TrackID),
			"mpris:length":  dbus.MakeVariant(int64(0)),
		}, m)
		assert.Empty(t, runner.called())
	})
}
