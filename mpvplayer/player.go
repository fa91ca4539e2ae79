// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

import (
	"fmt"
	"strconv"
)

// Player is the typed view of one mpv client. It does not own the client.
type Player struct {
	client Client
}

func NewPlayer(client Client) *Player {
	return &Player{client: client}
}

func (p *Player) ClientName() string {
	return p.client.ClientName()
}

func (p *Player) command(args ...string) error {
	if err := p.client.Command(args); err != nil {
		return fmt.Errorf("command %s: %w", args[0], err)
	}
	return nil
}

func (p *Player) Quit() error {
	return p.command("quit")
}

func (p *Player) Stop() error {
	return p.command("stop")
}

func (p *Player) PlayPause() error {
	return p.command("cycle", "pause")
}

func (p *Player) NextTrack() error {
	return p.command("playlist-next")
}

func (p *Player) PreviousTrack() error {
	return p.command("playlist-prev")
}

// Seek moves the playback position by offset seconds, which may be negative.
func (p *Player) Seek(offset float64) error {
	return p.command("seek", strconv.FormatFloat(offset, 'f', -1, 64))
}

func (p *Player) LoadFile(uri string) error {
	return p.command("loadfile", uri)
}

func (p *Player) Observe(tag uint64, name Property, format Format) error {
	if err := p.client.ObserveProperty(tag, string(name), format); err != nil {
		return fmt.Errorf("observe %s: %w", name, err)
	}
	return nil
}

func (p *Player) Unobserve(tag uint64) error {
	if err := p.client.UnobserveProperty(tag); err != nil {
		return fmt.Errorf("unobserve %d: %w", tag, err)
	}
	return nil
}

func (p *Player) WaitEvent(timeout float64) *Event {
	return p.client.WaitEvent(timeout)
}
