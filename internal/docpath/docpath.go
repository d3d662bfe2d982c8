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

// Package docpath reads and writes nested JSON-like values addressed by
// dot-separated paths.
//
// Documents are the shapes produced by encoding/json when decoding into any:
// map[string]any for objects, []any for arrays and scalars for everything
// else. Set never mutates its input; only the containers along the written
// path are copied.
package docpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPath is returned for empty paths or paths with empty segments.
	ErrInvalidPath = errors.New("invalid path")
	// ErrTypeConflict is matched by *ConflictError.
	ErrTypeConflict = errors.New("path type conflict")
	// ErrIndexOutOfRange is returned when a write would skip sequence slots.
	ErrIndexOutOfRange = errors.New("sequence index out of range")
)

// Path is a sequence of segments. Pure-numeric segments address sequence
// elements, every other segment addresses a map key.
type Path []string

// ConflictError reports an existing node whose kind does not match the
// container the path needs at that position.
type ConflictError struct {
	Path  Path
	Depth int
	Want  string
	Got   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("path type conflict at %q: want %s, found %s",
		strings.Join(e.Path[:e.Depth], "."), e.Want, e.Got)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrTypeConflict
}

// Parse splits a dot-joined path.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, ErrInvalidPath
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, s)
		}
	}
	return Path(parts), nil
}

// MustParse is Parse for static paths; it panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the dot-joined form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// index reports whether seg addresses a sequence element.
func index(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Get returns the value at p. Missing nodes at any depth yield (nil, false).
func Get(doc any, p Path) (any, bool) {
	node := doc
	for _, seg := range p {
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = v
		case []any:
			i, ok := index(seg)
			if !ok || i >= len(n) {
				return nil, false
			}
			node = n[i]
		default:
			return nil, false
		}
	}
	return node, true
}

// Set returns a copy of doc with v stored at p.
//
// Absent intermediates are created as []any when the segment addressing into
// them is numeric and as map[string]any otherwise. A numeric segment may
// address an existing element or append exactly one; any larger index
// returns ErrIndexOutOfRange. An existing node of the
// other container kind, or a scalar, is never overwritten: Set returns a
// *ConflictError and the original doc.
func Set(doc any, p Path, v any) (any, error) {
	if len(p) == 0 {
		return doc, ErrInvalidPath
	}
	for _, seg := range p {
		if seg == "" {
			return doc, ErrInvalidPath
		}
	}
	out, err := set(doc, p, 0, v)
	if err != nil {
		return doc, err
	}
	return out, nil
}

func set(node any, p Path, depth int, v any) (any, error) {
	if depth == len(p) {
		return v, nil
	}
	seg := p[depth]

	if i, ok := index(seg); ok {
		var list []any
		switch n := node.(type) {
		case nil:
			if i > 0 {
				return nil, fmt.Errorf("%w: %s", ErrIndexOutOfRange, p[:depth+1])
			}
			list = make([]any, 1)
		case []any:
			if i > len(n) {
				return nil, fmt.Errorf("%w: %s", ErrIndexOutOfRange, p[:depth+1])
			}
			size := len(n)
			if i == size {
				size++
			}
			list = make([]any, size)
			copy(list, n)
		default:
			return nil, &ConflictError{Path: p, Depth: depth, Want: "sequence", Got: kindOf(node)}
		}
		child, err := set(list[i], p, depth+1, v)
		if err != nil {
			return nil, err
		}
		list[i] = child
		return list, nil
	}

	var m map[string]any
	switch n := node.(type) {
	case nil:
		m = make(map[string]any, 1)
	case map[string]any:
		m = make(map[string]any, len(n)+1)
		for k, val := range n {
			m[k] = val
		}
	default:
		return nil, &ConflictError{Path: p, Depth: depth, Want: "map", Got: kindOf(node)}
	}
	child, err := set(m[seg], p, depth+1, v)
	if err != nil {
		return nil, err
	}
	m[seg] = child
	return m, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "map"
	case []any:
		return "sequence"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
