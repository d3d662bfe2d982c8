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
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/duvan51/webpromedid/internal/docpath"
	"github.com/duvan51/webpromedid/internal/visibility"
)

// Edit transforms a document. Edits never mutate their input and are
// re-applied on a fresh document when a concurrent save wins.
type Edit func(Document) (Document, error)

// ListID addresses a repeatable list inside the document.
type ListID string

const (
	ListSolutions    ListID = "solutions"
	ListPricingPlans ListID = "pricing.plans"
	ListFAQItems     ListID = "faq.items"
	ListTestimonials ListID = "socialProof.testimonials"
)

// ParseListID validates a list identifier.
func ParseListID(s string) (ListID, error) {
	switch ListID(s) {
	case ListSolutions, ListPricingPlans, ListFAQItems, ListTestimonials:
		return ListID(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownList, s)
}

// Item is satisfied by pointers to repeatable list items.
type Item[T any] interface {
	*T
	ItemVisibility() *visibility.Value
}

// SetField writes value at path through the generic map form. Numeric
// segments must address existing list elements; items are only created by
// AddItem.
func SetField(path docpath.Path, value any) Edit {
	return func(doc Document) (Document, error) {
		if len(path) == 0 {
			return doc, docpath.ErrInvalidPath
		}
		m, err := doc.ToMap()
		if err != nil {
			return doc, err
		}
		if err := checkIndices(m, path); err != nil {
			return doc, err
		}
		out, err := docpath.Set(m, path, value)
		if err != nil {
			return doc, err
		}
		b, err := json.Marshal(out)
		if err != nil {
			return doc, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return decodeStrict(b)
	}
}

// checkIndices requires every numeric segment to address an existing
// element of an existing sequence.
func checkIndices(m map[string]any, path docpath.Path) error {
	for depth := 1; depth < len(path); depth++ {
		i, err := parseIndex(path[depth])
		if err != nil {
			continue
		}
		parent, ok := docpath.Get(m, path[:depth])
		if !ok || parent == nil {
			return fmt.Errorf("%w: %s", ErrIndexOutOfRange, path[:depth+1])
		}
		list, isList := parent.([]any)
		if !isList {
			continue
		}
		if i >= len(list) {
			return fmt.Errorf("%w: %s", ErrIndexOutOfRange, path[:depth+1])
		}
	}
	return nil
}

func parseIndex(seg string) (int, error) {
	if seg == "" {
		return 0, ErrIndexOutOfRange
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, ErrIndexOutOfRange
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return math.MaxInt, nil
	}
	return n, nil
}

// ToggleVisibility flips unit on bp. A unit is a section id or
// "<section>.<field>".
func ToggleVisibility(unit string, bp visibility.Breakpoint) Edit {
	return func(doc Document) (Document, error) {
		if err := validateUnit(doc, unit); err != nil {
			return doc, err
		}
		out := doc.Clone()
		out.Visibility = out.Visibility.Toggle(unit, bp)
		return out, nil
	}
}

func validateUnit(doc Document, unit string) error {
	sectionKey, field, hasField := strings.Cut(unit, ".")
	c, ok := codecFor(SectionID(sectionKey))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, sectionKey)
	}
	if !hasField {
		return nil
	}
	raw, err := c.encode(&doc)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("%w: %s has no fields", ErrUnknownField, sectionKey)
	}
	if _, ok := fields[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, unit)
	}
	return nil
}

// Move shifts id one step in the render order.
func Move(id SectionID, dir Direction) Edit {
	return func(doc Document) (Document, error) {
		if !id.IsKnown() {
			return doc, fmt.Errorf("%w: %q", ErrUnknownSection, id)
		}
		out := doc.Clone()
		out.Order = MoveSection(out.Order, id, dir)
		return out, nil
	}
}

// Enable adds id to the end of the render order.
func Enable(id SectionID) Edit {
	return func(doc Document) (Document, error) {
		if !id.IsKnown() {
			return doc, fmt.Errorf("%w: %q", ErrUnknownSection, id)
		}
		if !id.IsOrderable() {
			return doc, fmt.Errorf("%w: %s is not orderable", ErrInvalidValue, id)
		}
		out := doc.Clone()
		out.Order = EnableSection(out.Order, id)
		return out, nil
	}
}

// Disable removes id from the render order. Its content is kept.
func Disable(id SectionID) Edit {
	return func(doc Document) (Document, error) {
		if !id.IsKnown() {
			return doc, fmt.Errorf("%w: %q", ErrUnknownSection, id)
		}
		out := doc.Clone()
		out.Order = DisableSection(out.Order, id)
		return out, nil
	}
}

// AddItem appends an empty item to list.
func AddItem(list ListID) Edit {
	return func(doc Document) (Document, error) {
		out := doc.Clone()
		switch list {
		case ListSolutions:
			out.Solutions = append(out.Solutions, SolutionItem{})
		case ListPricingPlans:
			out.Pricing.Plans = append(out.Pricing.Plans, Plan{})
		case ListFAQItems:
			out.FAQ.Items = append(out.FAQ.Items, FAQItem{})
		case ListTestimonials:
			out.SocialProof.Testimonials = append(out.SocialProof.Testimonials, Testimonial{})
		default:
			return doc, fmt.Errorf("%w: %q", ErrUnknownList, list)
		}
		return out, nil
	}
}

// RemoveItem splices the item at index out of list.
func RemoveItem(list ListID, index int) Edit {
	return func(doc Document) (Document, error) {
		out := doc.Clone()
		var err error
		switch list {
		case ListSolutions:
			out.Solutions, err = removeAt(out.Solutions, index)
		case ListPricingPlans:
			out.Pricing.Plans, err = removeAt(out.Pricing.Plans, index)
		case ListFAQItems:
			out.FAQ.Items, err = removeAt(out.FAQ.Items, index)
		case ListTestimonials:
			out.SocialProof.Testimonials, err = removeAt(out.SocialProof.Testimonials, index)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownList, list)
		}
		if err != nil {
			return doc, err
		}
		return out, nil
	}
}

// ToggleItemVisibility flips the visibility of one list item on bp.
func ToggleItemVisibility(list ListID, index int, bp visibility.Breakpoint) Edit {
	return func(doc Document) (Document, error) {
		out := doc.Clone()
		var err error
		switch list {
		case ListSolutions:
			out.Solutions, err = toggleAt(out.Solutions, index, bp)
		case ListPricingPlans:
			out.Pricing.Plans, err = toggleAt(out.Pricing.Plans, index, bp)
		case ListFAQItems:
			out.FAQ.Items, err = toggleAt(out.FAQ.Items, index, bp)
		case ListTestimonials:
			out.SocialProof.Testimonials, err = toggleAt(out.SocialProof.Testimonials, index, bp)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownList, list)
		}
		if err != nil {
			return doc, err
		}
		return out, nil
	}
}

// ItemCount returns the number of items in list.
func ItemCount(doc Document, list ListID) int {
	switch list {
	case ListSolutions:
		return len(doc.Solutions)
	case ListPricingPlans:
		return len(doc.Pricing.Plans)
	case ListFAQItems:
		return len(doc.FAQ.Items)
	case ListTestimonials:
		return len(doc.SocialProof.Testimonials)
	}
	return 0
}

func removeAt[T any](items []T, i int) ([]T, error) {
	if i < 0 || i >= len(items) {
		return items, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return slices.Delete(items, i, i+1), nil
}

func toggleAt[T any, P Item[T]](items []T, i int, bp visibility.Breakpoint) ([]T, error) {
	if i < 0 || i >= len(items) {
		return items, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	v := P(&items[i]).ItemVisibility()
	*v = visibility.Toggle(*v, bp)
	return items, nil
}
