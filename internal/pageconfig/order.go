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

package pageconfig

import (
	"fmt"
	"slices"
)

// Direction is a single-step move in the render order.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection parses "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MoveSection swaps id with its neighbour in dir. The input is returned as is
// when id is absent or already at that boundary.
func MoveSection(order []SectionID, id SectionID, dir Direction) []SectionID {
	i := slices.Index(order, id)
	if i < 0 {
		return order
	}
	j := i - 1
	if dir == Down {
		j = i + 1
	}
	if j < 0 || j >= len(order) {
		return order
	}
	out := slices.Clone(order)
	out[i], out[j] = out[j], out[i]
	return out
}

// EnableSection appends id when it is orderable and not yet rendered.
func EnableSection(order []SectionID, id SectionID) []SectionID {
	if !id.IsOrderable() || slices.Contains(order, id) {
		return order
	}
	out := make([]SectionID, 0, len(order)+1)
	out = append(out, order...)
	return append(out, id)
}

// DisableSection removes id from the render order.
func DisableSection(order []SectionID, id SectionID) []SectionID {
	i := slices.Index(order, id)
	if i < 0 {
		return order
	}
	return slices.Delete(slices.Clone(order), i, i+1)
}

// NormalizeOrder drops unknown, fixed-region and duplicate ids. The first
// occurrence of an id wins.
func NormalizeOrder(order []SectionID) []SectionID {
	out := make([]SectionID, 0, len(order))
	seen := make(map[SectionID]bool, len(order))
	for _, id := range order {
		if !id.IsOrderable() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
