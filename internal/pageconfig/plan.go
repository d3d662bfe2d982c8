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

import "github.com/duvan51/webpromedid/internal/visibility"

// RenderPlan is the ordered list of sections shown on each breakpoint.
type RenderPlan struct {
	Desktop []SectionID `json:"desktop"`
	Mobile  []SectionID `json:"mobile"`
}

// SectionsFor returns the sections of doc rendered on bp, in order.
func SectionsFor(doc Document, bp visibility.Breakpoint) []SectionID {
	out := make([]SectionID, 0, len(doc.Order))
	for _, id := range doc.Order {
		if !id.IsOrderable() {
			continue
		}
		if doc.Visibility.IsVisible(string(id), bp) {
			out = append(out, id)
		}
	}
	return out
}

// Plans computes the plan for every breakpoint.
func Plans(doc Document) RenderPlan {
	return RenderPlan{
		Desktop: SectionsFor(doc, visibility.Desktop),
		Mobile:  SectionsFor(doc, visibility.Mobile),
	}
}

// FieldVisible resolves the visibility of a single field of a section.
func FieldVisible(doc Document, id SectionID, field string, bp visibility.Breakpoint) bool {
	return doc.Visibility.IsVisible(string(id)+"."+field, bp)
}

// VisibleItems returns the items of a list shown on bp.
func VisibleItems[T any, P Item[T]](items []T, bp visibility.Breakpoint) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		if visibility.IsVisible(*P(&items[i]).ItemVisibility(), bp) {
			out = append(out, items[i])
		}
	}
	return out
}
