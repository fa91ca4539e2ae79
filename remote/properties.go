// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"errors"
	"fmt"
	"sort"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/spezifisch/mpv-mpris/logger"
)

// errInvalidValue rejects a write whose type is right but whose value is not
// one the property accepts.
var errInvalidValue = errors.New("invalid value")

// Prop is one exported property. Values are read from mpv on every Get, so
// there is nothing to keep in sync. A nil Set makes the property read-only.
type Prop struct {
	Signature string
	Get       func() (interface{}, error)
	Set       func(value interface{}) error
}

func constant(signature string, value interface{}) *Prop {
	return &Prop{
		Signature: signature,
		Get:       func() (interface{}, error) { return value, nil },
	}
}

// Properties serves org.freedesktop.DBus.Properties for both MPRIS
// interfaces.
type Properties struct {
	ifaces map[string]map[string]*Prop
	logger logger.LoggerInterface
}

func NewProperties(ifaces map[string]map[string]*Prop, logger logger.LoggerInterface) *Properties {
	return &Properties{ifaces: ifaces, logger: logger}
}

func (p *Properties) lookup(iface, property string) (*Prop, *dbus.Error) {
	props, ok := p.ifaces[iface]
	if !ok {
		return nil, prop.ErrIfaceNotFound
	}
	pr, ok := props[property]
	if !ok {
		return nil, prop.ErrPropNotFound
	}
	return pr, nil
}

func (p *Properties) Get(iface, property string) (dbus.Variant, *dbus.Error) {
	pr, derr := p.lookup(iface, property)
	if derr != nil {
		return dbus.Variant{}, derr
	}
	value, err := pr.Get()
	if err != nil {
		p.logger.PrintError("Get "+property, err)
		return dbus.Variant{}, dbus.MakeFailedError(err)
	}
	return dbus.MakeVariant(value), nil
}

// GetAll leaves out properties mpv cannot answer right now, such as
// Position while idle, instead of failing the whole call.
func (p *Properties) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	props, ok := p.ifaces[iface]
	if !ok {
		return nil, prop.ErrIfaceNotFound
	}
	all := make(map[string]dbus.Variant, len(props))
	for name, pr := range props {
		value, err := pr.Get()
		if err != nil {
			p.logger.Debugf("GetAll %s: skipping %s: %s", iface, name, err)
			continue
		}
		all[name] = dbus.MakeVariant(value)
	}
	return all, nil
}

func (p *Properties) Set(iface, property string, value dbus.Variant) *dbus.Error {
	pr, derr := p.lookup(iface, property)
	if derr != nil {
		return derr
	}
	if pr.Set == nil {
		return prop.ErrReadOnly
	}
	if value.Signature().String() != pr.Signature {
		return prop.ErrInvalidArg
	}
	if err := pr.Set(value.Value()); err != nil {
		if errors.Is(err, errInvalidValue) {
			return prop.ErrInvalidArg
		}
		p.logger.PrintError("Set "+property, err)
		return dbus.MakeFailedError(err)
	}
	return nil
}

// Introspection describes the properties of iface in name order.
func (p *Properties) Introspection(iface string) []introspect.Property {
	props := p.ifaces[iface]
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]introspect.Property, 0, len(names))
	for _, name := range names {
		access := "read"
		if props[name].Set != nil {
			access = "readwrite"
		}
		out = append(out, introspect.Property{
			Name:   name,
			Type:   props[name].Signature,
			Access: access,
		})
	}
	return out
}

func invalid(value interface{}) error {
	return fmt.Errorf("%w: %v", errInvalidValue, value)
}
