// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/spezifisch/mpv-mpris/mpvplayer"
	"github.com/spezifisch/mpv-mpris/mpvplayer/mpvtest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func noHelpers(context.Context, string, ...string) ([]byte, error) {
	return nil, errors.New("no helpers in tests")
}

func TestBusName(t *testing.T) {
	assert.Equal(t, "org.mpris.MediaPlayer2.mpv.instance4242", BusName("org.mpris.MediaPlayer2.mpv.instance", 4242))
}

func TestRunWithoutBus(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out bytes.Buffer
	client := mpvtest.NewFakeClient("mpris")
	code := Run(client, Options{
		Fs:        afero.NewMemMapFs(),
		LogOutput: &out,
		Connect: func() (*dbus.Conn, error) {
			return nil, errors.New("no session bus")
		},
		Runner: noHelpers,
	})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "no session bus")
	assert.Contains(t, out.String(), "client=mpris")
	assert.Empty(t, client.History())
}

func TestRunReportsConfigErrors(t *testing.T) {
	var out bytes.Buffer
	connected := false
	code := Run(mpvtest.NewFakeClient("mpris"), Options{
		Fs:         afero.NewMemMapFs(),
		ConfigFile: "/nowhere/mpris.conf",
		LogOutput:  &out,
		Connect: func() (*dbus.Conn, error) {
			connected = true
			return nil, errors.New("no session bus")
		},
	})

	assert.Equal(t, 1, code)
	assert.True(t, connected)
	assert.Contains(t, out.String(), "/nowhere/mpris.conf")
}

func TestRunLogLevelFromConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/mpris.conf", []byte("log.level=error\n"), 0o644))

	var out bytes.Buffer
	Run(mpvtest.NewFakeClient("mpris"), Options{
		Fs:         fs,
		ConfigFile: "/etc/mpris.conf",
		LogOutput:  &out,
		Connect: func() (*dbus.Conn, error) {
			return nil, errors.New("no session bus")
		},
	})
	assert.Contains(t, out.String(), "level=error")
	assert.NotContains(t, out.String(), "level=debug")

	out.Reset()
	Run(mpvtest.NewFakeClient("mpris"), Options{
		Fs:         fs,
		ConfigFile: "/etc/mpris.conf",
		LogLevel:   "debug",
		LogOutput:  &out,
		Connect: func() (*dbus.Conn, error) {
			return nil, errors.New("no session bus")
		},
	})
	assert.Contains(t, out.String(), "config: using /etc/mpris.conf")
}

// sessionBus returns a private session bus connection or skips the test.
func sessionBus(t *testing.T) *dbus.Conn {
	t.Helper()
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		t.Skipf("no session bus: %s", err)
	}
	return conn
}

func nameHasOwner(t *testing.T, conn *dbus.Conn, name string) bool {
	t.Helper()
	var has bool
	require.NoError(t, conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, name).Store(&has))
	return has
}

func TestRunOnSessionBus(t *testing.T) {
	observer := sessionBus(t)
	defer observer.Close()
	conn := sessionBus(t)

	name := fmt.Sprintf("org.mpris.MediaPlayer2.mpv.test%d", os.Getpid())
	client := mpvtest.NewFakeClient("mpris")
	client.Put(mpvplayer.IdleActive, true).Put(mpvplayer.Pause, false).Put(mpvplayer.KeepOpen, "no")
	client.PushChange(1, mpvplayer.Pause, mpvplayer.FormatFlag, true)

	code := Run(client, Options{
		Fs:       afero.NewMemMapFs(),
		DataDirs: "/nowhere",
		BusName:  name,
		Connect:  func() (*dbus.Conn, error) { return conn, nil },
		Runner:   noHelpers,
	})

	assert.Equal(t, 0, code)
	assert.Zero(t, client.Pending())
	assert.NotEmpty(t, client.ObservedTags(mpvplayer.Pause))
	assert.False(t, nameHasOwner(t, observer, name))
}

func TestRunNameTaken(t *testing.T) {
	owner := sessionBus(t)
	defer owner.Close()
	conn := sessionBus(t)

	name := fmt.Sprintf("org.mpris.MediaPlayer2.mpv.taken%d", os.Getpid())
	reply, err := owner.RequestName(name, dbus.NameFlagDoNotQueue)
	require.NoError(t, err)
	require.Equal(t, dbus.RequestNameReplyPrimaryOwner, reply)

	var out bytes.Buffer
	client := mpvtest.NewFakeClient("mpris")
	code := Run(client, Options{
		Fs:        afero.NewMemMapFs(),
		LogOutput: &out,
		BusName:   name,
		Connect:   func() (*dbus.Conn, error) { return conn, nil },
		Runner:    noHelpers,
	})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "name already owned")
	assert.Empty(t, client.History())
}
