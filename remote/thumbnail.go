// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spezifisch/mpv-mpris/cache"
	"github.com/spezifisch/mpv-mpris/config"
	"github.com/spezifisch/mpv-mpris/logger"
)

// Runner runs a helper program and returns its stdout. The process must be
// killed when ctx ends.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs helpers with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = 100 * time.Millisecond
	return cmd.Output()
}

var errNoThumbnail = errors.New("no thumbnail")

const (
	localKey  = "local:"
	remoteKey = "remote:"
)

// Thumbnailer finds artwork for the current media with external helpers:
// ffmpegthumbnailer for local files, yt-dlp and friends for streams.
type Thumbnailer struct {
	run    Runner
	cfg    config.Thumbnails
	cache  *cache.Cache[string]
	logger logger.LoggerInterface
}

func NewThumbnailer(cfg config.Thumbnails, run Runner, logger logger.LoggerInterface) *Thumbnailer {
	t := &Thumbnailer{run: run, cfg: cfg, logger: logger}
	t.cache = cache.NewCache("", t.fetch, cfg.CacheSize, logger)
	return t
}

// ArtURL returns an artwork URL for path, or "" if no helper produced one.
// Local files get a data: URL holding a JPEG frame.
func (t *Thumbnailer) ArtURL(ctx context.Context, path string, local bool) string {
	key := remoteKey + path
	if local {
		key = localKey + path
	}
	url, _ := t.cache.Get(ctx, key)
	return url
}

// Close drops every cached artwork URL.
func (t *Thumbnailer) Close() {
	t.cache.Close()
}

func (t *Thumbnailer) fetch(ctx context.Context, key string) (string, error) {
	if path, ok := strings.CutPrefix(key, localKey); ok {
		return t.local(ctx, path)
	}
	return t.remote(ctx, strings.TrimPrefix(key, remoteKey))
}

func (t *Thumbnailer) local(ctx context.Context, path string) (string, error) {
	if t.cfg.LocalCommand == "" {
		return "", errNoThumbnail
	}
	ctx, cancel := context.WithTimeout(ctx, t.cfg.LocalTimeout)
	defer cancel()

	out, err := t.run(ctx, t.cfg.LocalCommand, "-m", "-cjpeg", "-s0", "-o-", "-i", path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.cfg.LocalCommand, err)
	}
	if len(out) == 0 {
		return "", errNoThumbnail
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(out), nil
}

func (t *Thumbnailer) remote(ctx context.Context, path string) (string, error) {
	var errs []error
	for _, helper := range t.cfg.RemoteCmds {
		url, err := t.remoteWith(ctx, helper, path)
		if err == nil {
			return url, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", errNoThumbnail
	}
	return "", errors.Join(errs...)
}

func (t *Thumbnailer) remoteWith(ctx context.Context, helper, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.RemoteTimeout)
	defer cancel()

	out, err := t.run(ctx, helper, "--no-warnings", "--get-thumbnail", path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", helper, err)
	}
	url := strings.TrimRight(string(out), "\r\n")
	if url == "" || !utf8.ValidString(url) {
		return "", fmt.Errorf("%s: %w", helper, errNoThumbnail)
	}
	return url, nil
}
