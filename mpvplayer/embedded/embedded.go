// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package embedded runs libmpv inside the current process through go-mpv
// and exposes it as an mpvplayer.Client.
package embedded

import (
	"fmt"

	"github.com/spezifisch/mpv-mpris/mpvplayer"
	"github.com/spezifisch/mpv-mpris/mpvplayer/cplugin"
	"github.com/supersonic-app/go-mpv"
)

// Instance owns a go-mpv handle.
type Instance struct {
	instance *mpv.Mpv
	name     string
}

var _ mpvplayer.Client = (*Instance)(nil)

// New creates and initializes mpv with the given options applied first.
func New(name string, options map[string]string) (*Instance, error) {
	instance := mpv.Create()
	for k, v := range options {
		if err := instance.SetOptionString(k, v); err != nil {
			instance.TerminateDestroy()
			return nil, fmt.Errorf("option %s=%s: %w", k, v, err)
		}
	}
	if err := instance.Initialize(); err != nil {
		instance.TerminateDestroy()
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return &Instance{instance: instance, name: name}, nil
}

func (i *Instance) Destroy() {
	i.instance.TerminateDestroy()
}

func (i *Instance) ClientName() string {
	return i.name
}

func toFormat(format mpvplayer.Format) (mpv.Format, error) {
	switch format {
	case mpvplayer.FormatNone:
		return mpv.FORMAT_NONE, nil
	case mpvplayer.FormatString:
		return mpv.FORMAT_STRING, nil
	case mpvplayer.FormatFlag:
		return mpv.FORMAT_FLAG, nil
	case mpvplayer.FormatInt64:
		return mpv.FORMAT_INT64, nil
	case mpvplayer.FormatDouble:
		return mpv.FORMAT_DOUBLE, nil
	}
	return mpv.FORMAT_NONE, &mpvplayer.Error{
		Code:    mpvplayer.ErrorPropertyFormat,
		Message: fmt.Sprintf("unsupported format %s", format),
	}
}

func (i *Instance) GetProperty(name string, format mpvplayer.Format) (interface{}, error) {
	f, err := toFormat(format)
	if err != nil {
		return nil, err
	}
	return i.instance.GetProperty(name, f)
}

func (i *Instance) SetProperty(name string, format mpvplayer.Format, value interface{}) error {
	f, err := toFormat(format)
	if err != nil {
		return err
	}
	return i.instance.SetProperty(name, f, value)
}

func (i *Instance) Command(args []string) error {
	return i.instance.Command(args)
}

func (i *Instance) ObserveProperty(tag uint64, name string, format mpvplayer.Format) error {
	f, err := toFormat(format)
	if err != nil {
		return err
	}
	return i.instance.ObserveProperty(tag, name, f)
}

func (i *Instance) UnobserveProperty(tag uint64) error {
	return i.instance.UnobserveProperty(tag)
}

// WaitEvent only distinguishes blocking, polling and a one second wait.
func (i *Instance) WaitEvent(timeout float64) *mpvplayer.Event {
	var ev *mpv.Event
	switch {
	case timeout < 0:
		ev = i.instance.WaitEvent(-1)
	case timeout == 0:
		ev = i.instance.WaitEvent(0)
	default:
		ev = i.instance.WaitEvent(1)
	}
	return convert(ev)
}

// convert copies a go-mpv event. Property changes carry the value mpv
// reported with the event, not whatever the property holds by now.
func convert(ev *mpv.Event) *mpvplayer.Event {
	if ev == nil {
		return &mpvplayer.Event{ID: mpvplayer.EventNone}
	}
	out := &mpvplayer.Event{
		ID:            mpvplayer.EventID(ev.Event_Id),
		Error:         ev.Error,
		ReplyUserdata: ev.Reply_Userdata,
	}
	if out.ID == mpvplayer.EventPropertyChange {
		out.Property = cplugin.PropertyFromEvent(ev.Data)
	}
	return out
}
