// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

import "fmt"

// Format mirrors mpv_format.
type Format int

const (
	FormatNone      Format = 0
	FormatString    Format = 1
	FormatOSDString Format = 2
	FormatFlag      Format = 3
	FormatInt64     Format = 4
	FormatDouble    Format = 5
	FormatNode      Format = 6
)

func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatString:
		return "string"
	case FormatOSDString:
		return "osd-string"
	case FormatFlag:
		return "flag"
	case FormatInt64:
		return "int64"
	case FormatDouble:
		return "double"
	case FormatNode:
		return "node"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// EventID mirrors mpv_event_id. Only the events the bridge reacts to are
// named; mpv may deliver others.
type EventID int

const (
	EventNone            EventID = 0
	EventShutdown        EventID = 1
	EventLogMessage      EventID = 2
	EventStartFile       EventID = 6
	EventEndFile         EventID = 7
	EventFileLoaded      EventID = 8
	EventIdle            EventID = 11
	EventSeek            EventID = 20
	EventPlaybackRestart EventID = 21
	EventPropertyChange  EventID = 22
)

func (e EventID) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventShutdown:
		return "shutdown"
	case EventLogMessage:
		return "log-message"
	case EventStartFile:
		return "start-file"
	case EventEndFile:
		return "end-file"
	case EventFileLoaded:
		return "file-loaded"
	case EventIdle:
		return "idle"
	case EventSeek:
		return "seek"
	case EventPlaybackRestart:
		return "playback-restart"
	case EventPropertyChange:
		return "property-change"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// PropertyEvent is the payload of an EventPropertyChange. Data is nil when
// the property is unavailable or Format is FormatNone.
type PropertyEvent struct {
	Name   string
	Format Format
	Data   interface{}
}

type Event struct {
	ID            EventID
	Error         error
	ReplyUserdata uint64
	Property      *PropertyEvent
}

// Error is a failed mpv API call: the negative mpv_error code and the text
// mpv_error_string gives for it.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("mpv error %d: %s", e.Code, e.Message)
}

// Codes from mpv/client.h used outside the bindings.
const (
	ErrorPropertyNotFound    = -8
	ErrorPropertyFormat      = -9
	ErrorPropertyUnavailable = -10
	ErrorCommand             = -12
)
