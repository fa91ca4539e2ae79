// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package config reads the plugin's script-opts file. Like other mpv
// scripts, the plugin looks for <client name>.conf holding key=value lines
// in mpv's script-opts directories.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const EnvPrefix = "MPV_MPRIS"

// EnvKeyReplacer maps option keys to environment variable names,
// e.g. thumbnails.enabled to MPV_MPRIS_THUMBNAILS_ENABLED.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

const (
	KeyIdentity              = "identity"
	KeyDesktopEntry          = "desktop_entry"
	KeyBusNamePrefix         = "bus_name_prefix"
	KeyLogLevel              = "log.level"
	KeyThumbnailsEnabled     = "thumbnails.enabled"
	KeyThumbnailsLocal       = "thumbnails.local_command"
	KeyThumbnailsRemote      = "thumbnails.remote_commands"
	KeyThumbnailsLocalWait   = "thumbnails.local_timeout"
	KeyThumbnailsRemoteWait  = "thumbnails.remote_timeout"
	KeyThumbnailsCacheSize   = "thumbnails.cache_size"
	DefaultBusNamePrefix     = "org.mpris.MediaPlayer2.mpv.instance"
	defaultRemoteThumbnailer = "yt-dlp,yt-dlp_x86,youtube-dl"
)

// Default maps every key to its value when neither file nor environment
// sets it.
var Default = map[string]any{
	KeyIdentity:             "mpv Media Player",
	KeyDesktopEntry:         "mpv",
	KeyBusNamePrefix:        DefaultBusNamePrefix,
	KeyLogLevel:             "warn",
	KeyThumbnailsEnabled:    "yes",
	KeyThumbnailsLocal:      "ffmpegthumbnailer",
	KeyThumbnailsRemote:     defaultRemoteThumbnailer,
	KeyThumbnailsLocalWait:  "1s",
	KeyThumbnailsRemoteWait: "5s",
	KeyThumbnailsCacheSize:  8,
}

type Thumbnails struct {
	Enabled       bool
	LocalCommand  string
	RemoteCmds    []string
	LocalTimeout  time.Duration
	RemoteTimeout time.Duration
	CacheSize     int
}

type Config struct {
	Identity      string
	DesktopEntry  string
	BusNamePrefix string
	LogLevel      string
	Thumbnails    Thumbnails

	// File is the config file that was read, or "" when none was found.
	File string
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	c, _ := decode(newViper(afero.NewMemMapFs()))
	return c
}

func newViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("properties")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()
	for key, value := range Default {
		v.SetDefault(key, value)
	}
	return v
}

// SearchPaths lists the script-opts directories in lookup order.
func SearchPaths() []string {
	var dirs []string
	if home := os.Getenv("MPV_HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, "script-opts"))
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "mpv", "script-opts"))
	}
	if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", "mpv", "script-opts"))
	}
	return lo.Uniq(dirs)
}

func find(fs afero.Fs, name string) string {
	for _, dir := range SearchPaths() {
		path := filepath.Join(dir, name+".conf")
		if ok, _ := afero.Exists(fs, path); ok {
			return path
		}
	}
	return ""
}

// Load reads file, or <name>.conf from the search paths when file is empty.
// A missing search-path file is not an error; a missing explicit file is.
// The returned Config is always usable: keys that fail to parse keep their
// defaults.
func Load(fs afero.Fs, name, file string) (*Config, error) {
	v := newViper(fs)
	if file == "" {
		file = find(fs, name)
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Defaults(), fmt.Errorf("read %s: %w", file, err)
		}
	}

	c, err := decode(v)
	c.File = file
	if err != nil {
		return c, fmt.Errorf("%s: %w", file, err)
	}
	return c, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var errs []error
	enabled, err := parseBool(v.GetString(KeyThumbnailsEnabled))
	errs = append(errs, err)
	localWait, err := parseDuration(v.GetString(KeyThumbnailsLocalWait), time.Second)
	errs = append(errs, err)
	remoteWait, err := parseDuration(v.GetString(KeyThumbnailsRemoteWait), 5*time.Second)
	errs = append(errs, err)
	cacheSize, err := strconv.Atoi(strings.TrimSpace(v.GetString(KeyThumbnailsCacheSize)))
	if err != nil {
		cacheSize = Default[KeyThumbnailsCacheSize].(int)
		errs = append(errs, fmt.Errorf("%s: %w", KeyThumbnailsCacheSize, err))
	}

	return &Config{
		Identity:      v.GetString(KeyIdentity),
		DesktopEntry:  v.GetString(KeyDesktopEntry),
		BusNamePrefix: v.GetString(KeyBusNamePrefix),
		LogLevel:      v.GetString(KeyLogLevel),
		Thumbnails: Thumbnails{
			Enabled:       enabled,
			LocalCommand:  strings.TrimSpace(v.GetString(KeyThumbnailsLocal)),
			RemoteCmds:    SplitList(v.GetString(KeyThumbnailsRemote)),
			LocalTimeout:  localWait,
			RemoteTimeout: remoteWait,
			CacheSize:     max(cacheSize, 0),
		},
	}, errors.Join(errs...)
}

// SplitList splits a comma separated option, dropping blanks.
func SplitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}

// parseBool accepts mpv's yes/no as well as Go boolean spellings.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return true, fmt.Errorf("%s: %q is not yes or no", KeyThumbnailsEnabled, s)
	}
	return b, nil
}

// parseDuration accepts Go durations and plain seconds.
func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback, fmt.Errorf("timeout %q: %w", s, err)
	}
	return d, nil
}
