// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/samber/oops"
	"github.com/spezifisch/mpv-mpris/logger"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
)

type Options struct {
	// BusName is the well-known name to own, unique per mpv process.
	BusName      string
	Identity     string
	DesktopEntry string
	MimeTypes    []string
	// Thumbnailer finds artwork; nil leaves mpris:artUrl out.
	Thumbnailer *Thumbnailer
}

type MprisPlayer struct {
	dbus   *dbus.Conn
	player *mpvplayer.Player
	logger logger.LoggerInterface
	name   string

	root     *Root
	controls *Controls
	props    *Properties
	metadata *MetadataBuilder
	status   Status
}

// NewMprisPlayer builds the MPRIS objects for player without touching the
// bus.
func NewMprisPlayer(player *mpvplayer.Player, opts Options, logger_ logger.LoggerInterface) *MprisPlayer {
	mpp := &MprisPlayer{
		player:   player,
		logger:   logger_,
		name:     opts.BusName,
		status:   NewStatus(player),
		metadata: NewMetadataBuilder(player, opts.Thumbnailer),
	}
	mpp.root = &Root{player: player, logger: logger_}
	mpp.controls = &Controls{
		player:   player,
		status:   mpp.status,
		metadata: mpp.metadata,
		logger:   logger_,
	}

	mimeTypes := opts.MimeTypes
	if mimeTypes == nil {
		mimeTypes = []string{}
	}
	mpp.props = NewProperties(map[string]map[string]*Prop{
		RootInterface:   mpp.root.properties(opts.Identity, opts.DesktopEntry, mimeTypes),
		PlayerInterface: mpp.controls.properties(),
	}, logger_)
	return mpp
}

// RegisterMprisPlayer exports the MPRIS objects on conn and then claims
// opts.BusName, so clients that react to the name see a complete object.
func RegisterMprisPlayer(conn *dbus.Conn, player *mpvplayer.Player, opts Options, logger_ logger.LoggerInterface) (mpp *MprisPlayer, err error) {
	mpp = NewMprisPlayer(player, opts, logger_)
	mpp.dbus = conn
	errs := oops.Code("BUS_EXPORT").With("path", ObjectPath)

	if err = conn.Export(mpp.root, ObjectPath, RootInterface); err != nil {
		return nil, errs.With("interface", RootInterface).Wrap(err)
	}
	if err = conn.Export(mpp.controls, ObjectPath, PlayerInterface); err != nil {
		return nil, errs.With("interface", PlayerInterface).Wrap(err)
	}
	if err = conn.Export(mpp.props, ObjectPath, PropertiesInterface); err != nil {
		return nil, errs.With("interface", PropertiesInterface).Wrap(err)
	}
	if err = conn.Export(introspect.NewIntrospectable(mpp.introspection()), ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, errs.With("interface", "org.freedesktop.DBus.Introspectable").Wrap(err)
	}

	reply, err := conn.RequestName(opts.BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, oops.Code("BUS_NAME").With("name", opts.BusName).Wrap(err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, oops.Code("BUS_NAME").With("name", opts.BusName).Errorf("name already owned")
	}
	return mpp, nil
}

func (m *MprisPlayer) introspection() *introspect.Node {
	return &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       RootInterface,
				Methods:    introspect.Methods(m.root),
				Properties: m.props.Introspection(RootInterface),
			},
			{
				Name:       PlayerInterface,
				Methods:    introspect.Methods(m.controls),
				Properties: m.props.Introspection(PlayerInterface),
				Signals: []introspect.Signal{
					{
						Name: "Seeked",
						Args: []introspect.Arg{{Name: "Position", Type: "x"}},
					},
				},
			},
		},
	}
}

// EventLoop returns the loop that mirrors mpv's state onto the bus.
func (m *MprisPlayer) EventLoop() *EventLoop {
	return NewEventLoop(m.player, m.dbus, m.status, m.metadata, m.logger)
}

// Serve watches the bus connection until ctx ends. Losing the name is logged;
// a closed connection is returned as an error.
func (m *MprisPlayer) Serve(ctx context.Context) error {
	signals := make(chan *dbus.Signal, 8)
	m.dbus.Signal(signals)
	defer m.dbus.RemoveSignal(signals)

	if err := m.dbus.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameLost"),
	); err != nil {
		return oops.Code("BUS_MATCH").Wrap(err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-m.dbus.Context().Done():
			return oops.Code("BUS_CLOSED").With("name", m.name).Errorf("session bus connection closed")
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			if sig.Name == "org.freedesktop.DBus.NameLost" && len(sig.Body) > 0 && sig.Body[0] == m.name {
				m.logger.Printf("mpris: lost bus name %s", m.name)
			}
		}
	}
}

func (m *MprisPlayer) Close() {
	if m.dbus == nil {
		return
	}
	if _, err := m.dbus.ReleaseName(m.name); err != nil {
		m.logger.PrintError("mpp ReleaseName", err)
	}
	if err := m.dbus.Close(); err != nil {
		m.logger.PrintError("mpp Close", err)
	}
}

// Properties is the org.freedesktop.DBus.Properties object, for callers that
// need property values without going through the bus.
func (m *MprisPlayer) Properties() *Properties {
	return m.props
}

func (m *MprisPlayer) Root() *Root {
	return m.root
}

func (m *MprisPlayer) Controls() *Controls {
	return m.controls
}
