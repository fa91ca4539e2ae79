// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

import (
	"errors"
	"fmt"
)

// ErrNilValue is returned when mpv answers a typed read without a value.
var ErrNilValue = errors.New("nil value")

// Value is any Go type a property can be read or written as.
type Value interface {
	bool | int64 | float64 | string
}

// FormatOf returns the mpv format used to transfer T.
func FormatOf[T Value]() Format {
	var zero T
	switch any(zero).(type) {
	case bool:
		return FormatFlag
	case int64:
		return FormatInt64
	case float64:
		return FormatDouble
	default:
		return FormatString
	}
}

// Get reads a property as T. An absent value is an error.
func Get[T Value](p *Player, name Property) (T, error) {
	var zero T
	value, err := p.client.GetProperty(string(name), FormatOf[T]())
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", name, err)
	} else if value == nil {
		return zero, fmt.Errorf("get %s: %w", name, ErrNilValue)
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("get %s: unexpected %T for %s", name, value, FormatOf[T]())
	}
	return typed, nil
}

// Set writes a property as T.
func Set[T Value](p *Player, name Property, value T) error {
	if err := p.client.SetProperty(string(name), FormatOf[T](), value); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

func (p *Player) GetBool(name Property) (bool, error) {
	return Get[bool](p, name)
}

func (p *Player) GetInt64(name Property) (int64, error) {
	return Get[int64](p, name)
}

func (p *Player) GetDouble(name Property) (float64, error) {
	return Get[float64](p, name)
}

func (p *Player) GetString(name Property) (string, error) {
	return Get[string](p, name)
}

// OptionalString reads a string property that may legitimately be missing,
// such as path while idle. Any failure reads as "".
func (p *Player) OptionalString(name Property) string {
	value, err := Get[string](p, name)
	if err != nil {
		return ""
	}
	return value
}

func (p *Player) SetBool(name Property, value bool) error {
	return Set(p, name, value)
}

func (p *Player) SetDouble(name Property, value float64) error {
	return Set(p, name, value)
}

func (p *Player) SetString(name Property, value string) error {
	return Set(p, name, value)
}
