// Copyright 2026 The WebProMedid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package visibility resolves per-breakpoint visibility of page units.
//
// A unit (a section, a field or a repeatable list item) carries either no
// visibility at all, a single boolean applying to every breakpoint, or a map
// with an optional entry per breakpoint. Anything not stated is visible.
package visibility

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Breakpoint is one of the independently controllable visibility axes.
type Breakpoint string

const (
	Desktop Breakpoint = "desktop"
	Mobile  Breakpoint = "mobile"
)

// Breakpoints lists every breakpoint in a stable order.
var Breakpoints = []Breakpoint{Desktop, Mobile}

// ErrInvalidBreakpoint is returned by ParseBreakpoint.
var ErrInvalidBreakpoint = errors.New("invalid breakpoint")

// ParseBreakpoint parses "desktop" or "mobile".
func ParseBreakpoint(s string) (Breakpoint, error) {
	switch Breakpoint(s) {
	case Desktop, Mobile:
		return Breakpoint(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBreakpoint, s)
}

type mode uint8

const (
	modeUnset mode = iota
	modeUniform
	modeSplit
)

// Value is the visibility of one unit. The zero Value is unset.
type Value struct {
	mode    mode
	all     bool
	desktop *bool
	mobile  *bool
}

// Uniform returns a value applying b to every breakpoint.
func Uniform(b bool) Value {
	return Value{mode: modeUniform, all: b}
}

// Split returns a value with both breakpoint entries set explicitly.
func Split(desktop, mobile bool) Value {
	return Value{mode: modeSplit, desktop: &desktop, mobile: &mobile}
}

// IsZero reports whether the value is unset.
func (v Value) IsZero() bool {
	return v.mode == modeUnset
}

// IsSplit reports whether the value is stored as a per-breakpoint map.
func (v Value) IsSplit() bool {
	return v.mode == modeSplit
}

// Entry returns the explicit entry for bp, if one is stored.
func (v Value) Entry(bp Breakpoint) (bool, bool) {
	switch v.mode {
	case modeUniform:
		return v.all, true
	case modeSplit:
		if p := v.ptr(bp); p != nil {
			return *p, true
		}
	}
	return false, false
}

func (v Value) ptr(bp Breakpoint) *bool {
	if bp == Mobile {
		return v.mobile
	}
	return v.desktop
}

// IsVisible resolves v for bp. Unset values and missing map entries are visible.
func IsVisible(v Value, bp Breakpoint) bool {
	if b, ok := v.Entry(bp); ok {
		return b
	}
	return true
}

// Set stores b for bp, normalizing v into a map that keeps the other
// breakpoint's effective value.
func Set(v Value, bp Breakpoint, b bool) Value {
	desktop := IsVisible(v, Desktop)
	mobile := IsVisible(v, Mobile)
	if bp == Mobile {
		mobile = b
	} else {
		desktop = b
	}
	return Split(desktop, mobile)
}

// Toggle flips the effective value for bp. The result is always a map, so
// narrowing one breakpoint never changes the other.
func Toggle(v Value, bp Breakpoint) Value {
	return Set(v, bp, !IsVisible(v, bp))
}

type splitJSON struct {
	Desktop *bool `json:"desktop,omitempty"`
	Mobile  *bool `json:"mobile,omitempty"`
}

// MarshalJSON encodes unset as null, uniform as a bool and split as an object.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.mode {
	case modeUniform:
		return json.Marshal(v.all)
	case modeSplit:
		return json.Marshal(splitJSON{Desktop: v.desktop, Mobile: v.mobile})
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts null, a bool or a {desktop, mobile} object.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("invalid visibility: %w", err)
		}
		*v = Uniform(b)
		return nil
	case '{':
		var s splitJSON
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid visibility: %w", err)
		}
		*v = Value{mode: modeSplit, desktop: s.Desktop, mobile: s.Mobile}
		return nil
	}
	return fmt.Errorf("invalid visibility: %s", data)
}

// Map holds visibility values keyed by unit id.
type Map map[string]Value

// Get returns the value for id; missing ids are unset.
func (m Map) Get(id string) Value {
	return m[id]
}

// IsVisible resolves id for bp.
func (m Map) IsVisible(id string, bp Breakpoint) bool {
	return IsVisible(m[id], bp)
}

// Toggle returns a copy of m with id toggled for bp.
func (m Map) Toggle(id string, bp Breakpoint) Map {
	out := m.Clone()
	out[id] = Toggle(m[id], bp)
	return out
}

// Clone returns a shallow copy; values are immutable.
func (m Map) Clone() Map {
	out := make(Map, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
