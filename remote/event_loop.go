// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"context"
	"sort"

	"github.com/godbus/dbus/v5"
	"github.com/spezifisch/mpv-mpris/logger"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
)

// EventLoop turns mpv events into MPRIS signals. Each iteration blocks for
// one event, drains whatever else is queued, then emits one
// PropertiesChanged per interface for the whole batch.
type EventLoop struct {
	player   *mpvplayer.Player
	emitter  Emitter
	status   Status
	metadata *MetadataBuilder
	logger   logger.LoggerInterface

	seeking     bool
	eofObserved bool
}

func NewEventLoop(player *mpvplayer.Player, emitter Emitter, status Status, metadata *MetadataBuilder, logger_ logger.LoggerInterface) *EventLoop {
	return &EventLoop{
		player:   player,
		emitter:  emitter,
		status:   status,
		metadata: metadata,
		logger:   logger_,
	}
}

// Observe registers every unconditional watch with mpv. mpv answers each
// with an initial property-change event, which also sets up eof-reached.
func (l *EventLoop) Observe() error {
	ids := make([]watchID, 0, len(watches))
	for id, w := range watches {
		if !w.conditional {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		w := watches[id]
		if err := l.player.Observe(uint64(id), w.property, w.format); err != nil {
			return err
		}
	}
	return nil
}

// observeEOF keeps the eof-reached observation in line with keep-open and
// never registers it twice.
func (l *EventLoop) observeEOF(on bool) {
	if on == l.eofObserved {
		return
	}
	if on {
		if err := l.player.Observe(uint64(watchEOFReached), mpvplayer.EOFReached, mpvplayer.FormatFlag); err != nil {
			l.logger.PrintError("mpv.EventLoop: observe eof-reached", err)
			return
		}
	} else if err := l.player.Unobserve(uint64(watchEOFReached)); err != nil {
		l.logger.PrintError("mpv.EventLoop: unobserve eof-reached", err)
		return
	}
	l.eofObserved = on
}

// Run processes events until mpv shuts down.
func (l *EventLoop) Run(ctx context.Context) {
	for {
		pending := newPendingChanges()
		for evt := l.player.WaitEvent(-1); evt.ID != mpvplayer.EventNone; evt = l.player.WaitEvent(0) {
			if evt.ID == mpvplayer.EventShutdown {
				l.flush(ctx, pending)
				return
			}
			l.handle(evt, pending)
		}
		l.flush(ctx, pending)
	}
}

func (l *EventLoop) handle(evt *mpvplayer.Event, pending *pendingChanges) {
	switch evt.ID {
	case mpvplayer.EventSeek:
		l.seeking = true
	case mpvplayer.EventPlaybackRestart:
		if l.seeking {
			l.seeking = false
			l.emitSeeked()
		}
	case mpvplayer.EventPropertyChange:
		w, ok := watches[watchID(evt.ReplyUserdata)]
		if !ok || evt.Property == nil {
			return
		}
		if !w.apply(l, pending, evt.Property.Data) {
			l.logger.Debugf("mpv.EventLoop: dropping %s with %T", w.property, evt.Property.Data)
		}
	default:
		if evt.Error != nil {
			l.logger.PrintError("mpv.EventLoop ("+evt.ID.String()+")", evt.Error)
		}
	}
}

func (l *EventLoop) emitSeeked() {
	secs, err := l.player.GetDouble(mpvplayer.PlaybackTime)
	if err != nil {
		l.logger.PrintError("mpv.EventLoop: Seeked", err)
		return
	}
	if err := l.emitter.Emit(ObjectPath, PlayerInterface+".Seeked", TimeFromSeconds(secs)); err != nil {
		l.logger.PrintError("mpris: Emit Seeked", err)
	}
}

// flush computes the derived properties this batch touched, in the order
// PlaybackStatus, LoopStatus, Metadata, and emits both change sets.
func (l *EventLoop) flush(ctx context.Context, pending *pendingChanges) {
	if pending.statusChanged {
		if status, err := l.status.Playback(pending.status); err != nil {
			l.logger.PrintError("mpv.EventLoop: PlaybackStatus", err)
		} else {
			pending.player["PlaybackStatus"] = dbus.MakeVariant(string(status))
		}
	}
	if pending.loopChanged {
		if status, err := l.status.Loop(pending.loop); err != nil {
			l.logger.PrintError("mpv.EventLoop: LoopStatus", err)
		} else {
			pending.player["LoopStatus"] = dbus.MakeVariant(string(status))
		}
	}
	if pending.metadata {
		pending.player["Metadata"] = dbus.MakeVariant(l.metadata.Build(ctx))
	}

	l.emitChanged(RootInterface, pending.root)
	l.emitChanged(PlayerInterface, pending.player)
}

func (l *EventLoop) emitChanged(iface string, changed map[string]dbus.Variant) {
	if len(changed) == 0 {
		return
	}
	err := l.emitter.Emit(ObjectPath, PropertiesInterface+".PropertiesChanged", iface, changed, []string{})
	if err != nil {
		l.logger.PrintError("mpris: Emit PropertiesChanged", err)
	}
}
