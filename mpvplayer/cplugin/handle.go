// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package cplugin implements mpvplayer.Client on the mpv_handle that mpv
// passes to a C plugin.
package cplugin

// #cgo pkg-config: mpv
// #include <stdlib.h>
// #include <mpv/client.h>
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/spezifisch/mpv-mpris/mpvplayer"
)

// Handle borrows an mpv_handle. mpv destroys the handle after the plugin
// entry point returns, so Handle has no Close and must not be used after
// EventShutdown.
type Handle struct {
	h *C.mpv_handle
}

var _ mpvplayer.Client = (*Handle)(nil)

// New wraps the mpv_handle* given to mpv_open_cplugin. ptr must not be nil.
func New(ptr unsafe.Pointer) *Handle {
	return &Handle{h: (*C.mpv_handle)(ptr)}
}

func newError(code C.int) error {
	if code >= 0 {
		return nil
	}
	return &mpvplayer.Error{Code: int(code), Message: C.GoString(C.mpv_error_string(code))}
}

func (h *Handle) ClientName() string {
	return C.GoString(C.mpv_client_name(h.h))
}

func (h *Handle) GetProperty(name string, format mpvplayer.Format) (interface{}, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	switch format {
	case mpvplayer.FormatFlag:
		var v C.int
		if err := newError(C.mpv_get_property(h.h, cname, C.mpv_format(format), unsafe.Pointer(&v))); err != nil {
			return nil, err
		}
		return v != 0, nil
	case mpvplayer.FormatInt64:
		var v C.int64_t
		if err := newError(C.mpv_get_property(h.h, cname, C.mpv_format(format), unsafe.Pointer(&v))); err != nil {
			return nil, err
		}
		return int64(v), nil
	case mpvplayer.FormatDouble:
		var v C.double
		if err := newError(C.mpv_get_property(h.h, cname, C.mpv_format(format), unsafe.Pointer(&v))); err != nil {
			return nil, err
		}
		return float64(v), nil
	case mpvplayer.FormatString, mpvplayer.FormatOSDString:
		var v *C.char
		if err := newError(C.mpv_get_property(h.h, cname, C.mpv_format(format), unsafe.Pointer(&v))); err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		defer C.mpv_free(unsafe.Pointer(v))
		return C.GoString(v), nil
	}
	return nil, &mpvplayer.Error{Code: mpvplayer.ErrorPropertyFormat, Message: fmt.Sprintf("unsupported format %s", format)}
}

func (h *Handle) SetProperty(name string, format mpvplayer.Format, value interface{}) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	invalid := &mpvplayer.Error{
		Code:    mpvplayer.ErrorPropertyFormat,
		Message: fmt.Sprintf("cannot set %T as %s", value, format),
	}
	switch format {
	case mpvplayer.FormatFlag:
		b, ok := value.(bool)
		if !ok {
			return invalid
		}
		var v C.int
		if b {
			v = 1
		}
		return newError(C.mpv_set_property(h.h, cname, C.mpv_format(format), unsafe.Pointer(&v)))
	case mpvplayer.FormatInt64:
		i, ok := value.(int64)
		if !ok {
			return invalid
		}
		v := C.int64_t(i)
		return newError(C.mpv_set_property(h.h, cname, C.mpv_format(format), unsafe.Pointer(&v)))
	case mpvplayer.FormatDouble:
		f, ok := value.(float64)
		if !ok {
			return invalid
		}
		v := C.double(f)
		return newError(C.mpv_set_property(h.h, cname, C.mpv_format(format), unsafe.Pointer(&v)))
	case mpvplayer.FormatString:
		s, ok := value.(string)
		if !ok {
			return invalid
		}
		v := C.CString(s)
		defer C.free(unsafe.Pointer(v))
		return newError(C.mpv_set_property(h.h, cname, C.mpv_format(format), unsafe.Pointer(&v)))
	}
	return invalid
}

func (h *Handle) Command(args []string) error {
	argv := newArgv(args)
	defer argv.free()
	return newError(C.mpv_command(h.h, argv.ptr))
}

func (h *Handle) ObserveProperty(tag uint64, name string, format mpvplayer.Format) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return newError(C.mpv_observe_property(h.h, C.uint64_t(tag), cname, C.mpv_format(format)))
}

func (h *Handle) UnobserveProperty(tag uint64) error {
	return newError(C.mpv_unobserve_property(h.h, C.uint64_t(tag)))
}

// WaitEvent copies the event out of mpv's buffer, which is reused by the
// next call.
func (h *Handle) WaitEvent(timeout float64) *mpvplayer.Event {
	ev := C.mpv_wait_event(h.h, C.double(timeout))
	out := &mpvplayer.Event{
		ID:            mpvplayer.EventID(ev.event_id),
		Error:         newError(ev.error),
		ReplyUserdata: uint64(ev.reply_userdata),
	}
	if out.ID == mpvplayer.EventPropertyChange {
		out.Property = PropertyFromEvent(ev.data)
	}
	return out
}

// PropertyFromEvent copies the mpv_event_property that data points to, as
// found in the data field of an MPV_EVENT_PROPERTY_CHANGE event.
func PropertyFromEvent(data unsafe.Pointer) *mpvplayer.PropertyEvent {
	if data == nil {
		return nil
	}
	p := (*C.mpv_event_property)(data)
	return &mpvplayer.PropertyEvent{
		Name:   C.GoString(p.name),
		Format: mpvplayer.Format(p.format),
		Data:   decode(p.format, p.data),
	}
}

func decode(format C.mpv_format, data unsafe.Pointer) interface{} {
	if data == nil {
		return nil
	}
	switch mpvplayer.Format(format) {
	case mpvplayer.FormatFlag:
		return *(*C.int)(data) != 0
	case mpvplayer.FormatInt64:
		return int64(*(*C.int64_t)(data))
	case mpvplayer.FormatDouble:
		return float64(*(*C.double)(data))
	case mpvplayer.FormatString, mpvplayer.FormatOSDString:
		s := *(**C.char)(data)
		if s == nil {
			return nil
		}
		return C.GoString(s)
	}
	return nil
}
