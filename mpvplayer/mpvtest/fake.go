// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package mpvtest provides an in-memory mpvplayer.Client for tests.
package mpvtest

import (
	"sort"
	"sync"

	"github.com/spezifisch/mpv-mpris/mpvplayer"
)

type Observation struct {
	Tag    uint64
	Name   string
	Format mpvplayer.Format
}

// FakeClient stores properties in a map, records commands and observations,
// and replays queued events. A blocking WaitEvent on an empty queue returns
// EventShutdown so loops under test always terminate.
type FakeClient struct {
	mu sync.Mutex

	name     string
	props    map[string]interface{}
	getErrs  map[string]error
	setErrs  map[string]error
	cmdErr   error
	commands [][]string
	sets     map[string]int
	observed map[uint64][]Observation
	history  []Observation
	events   []*mpvplayer.Event
}

var _ mpvplayer.Client = (*FakeClient)(nil)

func NewFakeClient(name string) *FakeClient {
	return &FakeClient{
		name:     name,
		props:    make(map[string]interface{}),
		getErrs:  make(map[string]error),
		setErrs:  make(map[string]error),
		sets:     make(map[string]int),
		observed: make(map[uint64][]Observation),
	}
}

// Put stores a property value without recording a set.
func (f *FakeClient) Put(name mpvplayer.Property, value interface{}) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.props[string(name)] = value
	return f
}

func (f *FakeClient) Value(name mpvplayer.Property) (interface{}, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.props[string(name)]
	return v, ok
}

func (f *FakeClient) Delete(name mpvplayer.Property) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.props, string(name))
}

func (f *FakeClient) FailGet(name mpvplayer.Property, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErrs[string(name)] = err
}

func (f *FakeClient) FailSet(name mpvplayer.Property, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErrs[string(name)] = err
}

func (f *FakeClient) FailCommands(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cmdErr = err
}

// Commands returns a copy of every command run so far.
func (f *FakeClient) Commands() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.commands))
	for i, c := range f.commands {
		out[i] = append([]string(nil), c...)
	}
	return out
}

// SetCount reports how often name was written through SetProperty.
func (f *FakeClient) SetCount(name mpvplayer.Property) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[string(name)]
}

// ObservedTags lists the live tags observing name, in ascending order.
func (f *FakeClient) ObservedTags(name mpvplayer.Property) []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tags []uint64
	for tag, obs := range f.observed {
		for _, o := range obs {
			if o.Name == string(name) {
				tags = append(tags, tag)
			}
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// History returns every ObserveProperty call, including ones later removed.
func (f *FakeClient) History() []Observation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Observation(nil), f.history...)
}

func (f *FakeClient) Push(events ...*mpvplayer.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
}

// PushChange queues a property-change event. Like mpv, the new value becomes
// visible to GetProperty once the event is handed out by WaitEvent.
func (f *FakeClient) PushChange(tag uint64, name mpvplayer.Property, format mpvplayer.Format, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, &mpvplayer.Event{
		ID:            mpvplayer.EventPropertyChange,
		ReplyUserdata: tag,
		Property:      &mpvplayer.PropertyEvent{Name: string(name), Format: format, Data: data},
	})
}

func (f *FakeClient) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *FakeClient) ClientName() string {
	return f.name
}

func (f *FakeClient) GetProperty(name string, format mpvplayer.Format) (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.getErrs[name]; ok {
		return nil, err
	}
	value, ok := f.props[name]
	if !ok {
		return nil, &mpvplayer.Error{Code: mpvplayer.ErrorPropertyUnavailable, Message: "property unavailable"}
	}
	return value, nil
}

func (f *FakeClient) SetProperty(name string, format mpvplayer.Format, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.setErrs[name]; ok {
		return err
	}
	f.props[name] = value
	f.sets[name]++
	return nil
}

func (f *FakeClient) Command(args []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, append([]string(nil), args...))
	if f.cmdErr != nil {
		return f.cmdErr
	}
	if len(args) == 2 && args[0] == "cycle" {
		if v, ok := f.props[args[1]].(bool); ok {
			f.props[args[1]] = !v
		}
	}
	return nil
}

func (f *FakeClient) ObserveProperty(tag uint64, name string, format mpvplayer.Format) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := Observation{Tag: tag, Name: name, Format: format}
	f.observed[tag] = append(f.observed[tag], o)
	f.history = append(f.history, o)
	return nil
}

func (f *FakeClient) UnobserveProperty(tag uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.observed, tag)
	return nil
}

func (f *FakeClient) WaitEvent(timeout float64) *mpvplayer.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		if timeout == 0 {
			return &mpvplayer.Event{ID: mpvplayer.EventNone}
		}
		return &mpvplayer.Event{ID: mpvplayer.EventShutdown}
	}
	ev := f.events[0]
	f.events = f.events[1:]
	if ev.ID == mpvplayer.EventPropertyChange && ev.Property != nil && ev.Property.Data != nil {
		f.props[ev.Property.Name] = ev.Property.Data
	}
	return ev
}
