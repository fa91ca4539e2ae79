// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"context"
	"encoding/json"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
)

type tagKind int

const (
	tagString tagKind = iota
	tagList
	tagInt
)

type tagField struct {
	key  string
	kind tagKind
}

// tagFields maps lower-cased mpv metadata keys to xesam fields.
var tagFields = map[string]tagField{
	"album":        {"xesam:album", tagString},
	"title":        {"xesam:title", tagString},
	"album_artist": {"xesam:albumArtist", tagList},
	"artist":       {"xesam:artist", tagList},
	"comment":      {"xesam:comment", tagList},
	"composer":     {"xesam:composer", tagList},
	"genre":        {"xesam:genre", tagList},
	"lyricist":     {"xesam:lyricist", tagList},
	"tbp":          {"xesam:audioBPM", tagInt},
	"tbpm":         {"xesam:audioBPM", tagInt},
	"bpm":          {"xesam:audioBPM", tagInt},
	"disc":         {"xesam:discNumber", tagInt},
	"track":        {"xesam:trackNumber", tagInt},
}

const lyricsPrefix = "lyrics"

// parseTags decodes mpv's metadata JSON. Anything unreadable yields no tags.
func parseTags(blob string) map[string]string {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil
	}
	tags := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			tags[k] = s
		}
	}
	return tags
}

// tagNumber reads "3" and "3/12" as 3. Anything else is 0.
func tagNumber(s string) int32 {
	s, _, _ = strings.Cut(s, "/")
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}

func translateTags(tags map[string]string, into map[string]dbus.Variant) {
	for k, v := range tags {
		k = strings.ToLower(k)
		field, ok := tagFields[k]
		if !ok {
			if strings.HasPrefix(k, lyricsPrefix) {
				into["xesam:asText"] = dbus.MakeVariant(v)
			}
			continue
		}
		switch field.kind {
		case tagString:
			into[field.key] = dbus.MakeVariant(v)
		case tagList:
			into[field.key] = dbus.MakeVariant([]string{v})
		case tagInt:
			into[field.key] = dbus.MakeVariant(tagNumber(v))
		}
	}
}

// mediaURL turns mpv's path into a URL. Paths that are not URLs already are
// resolved against the working directory and become file URLs.
func mediaURL(path, workingDir string) string {
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		return u.String()
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workingDir, path)
	}
	if !filepath.IsAbs(path) {
		return ""
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// MetadataBuilder assembles the Metadata property.
type MetadataBuilder struct {
	player *mpvplayer.Player
	thumbs *Thumbnailer
}

// NewMetadataBuilder returns a builder; thumbs may be nil to skip artwork.
func NewMetadataBuilder(player *mpvplayer.Player, thumbs *Thumbnailer) *MetadataBuilder {
	return &MetadataBuilder{player: player, thumbs: thumbs}
}

// Build rebuilds the whole map from mpv. Artwork lookup runs alongside the
// property reads and is waited for at the end.
func (b *MetadataBuilder) Build(ctx context.Context) map[string]dbus.Variant {
	path := b.player.OptionalString(mpvplayer.Path)

	var art chan string
	if b.thumbs != nil && path != "" {
		local := path == b.player.OptionalString(mpvplayer.StreamOpenFilename)
		art = make(chan string, 1)
		go func() {
			art <- b.thumbs.ArtURL(ctx, path, local)
		}()
	}

	m := make(map[string]dbus.Variant)
	translateTags(parseTags(b.player.OptionalString(mpvplayer.Metadata)), m)
	if _, ok := m["xesam:title"]; !ok {
		if title := b.player.OptionalString(mpvplayer.MediaTitle); title != "" {
			m["xesam:title"] = dbus.MakeVariant(title)
		}
	}

	m["mpris:trackid"] = dbus.MakeVariant(TrackID)
	var length int64
	if duration, err := b.player.GetDouble(mpvplayer.Duration); err == nil {
		length = TimeFromSeconds(duration)
	}
	m["mpris:length"] = dbus.MakeVariant(length)

	if u := mediaURL(path, b.player.OptionalString(mpvplayer.WorkingDirectory)); u != "" {
		m["mpris:url"] = dbus.MakeVariant(u)
	}

	if art != nil {
		if u := <-art; u != "" {
			m["mpris:artUrl"] = dbus.MakeVariant(u)
		}
	}
	return m
}
