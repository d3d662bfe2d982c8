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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/duvan51/webpromedid/internal/visibility"
)

// Top-level keys besides the sections.
const (
	keyOrder      = "order"
	keyVisibility = "visibility"
)

// Document is the typed page configuration.
type Document struct {
	Order      []SectionID    `json:"order"`
	Visibility visibility.Map `json:"visibility"`

	Header         Header         `json:"header"`
	Hero           Hero           `json:"hero"`
	PAS            PAS            `json:"pas"`
	Solutions      Solutions      `json:"solutions"`
	Carousel       Carousel       `json:"carousel"`
	Collage        Collage        `json:"collage"`
	Pricing        Pricing        `json:"pricing"`
	FAQ            FAQ            `json:"faq"`
	SocialProof    SocialProof    `json:"socialProof"`
	CTA            CTA            `json:"cta"`
	Footer         Footer         `json:"footer"`
	FloatingAction FloatingAction `json:"floatingAction"`
}

// Section returns the typed record for id.
func (d Document) Section(id SectionID) (Section, bool) {
	switch id {
	case SectionHeader:
		return d.Header, true
	case SectionHero:
		return d.Hero, true
	case SectionPAS:
		return d.PAS, true
	case SectionSolutions:
		return d.Solutions, true
	case SectionCarousel:
		return d.Carousel, true
	case SectionCollage:
		return d.Collage, true
	case SectionPricing:
		return d.Pricing, true
	case SectionFAQ:
		return d.FAQ, true
	case SectionSocialProof:
		return d.SocialProof, true
	case SectionCTA:
		return d.CTA, true
	case SectionFooter:
		return d.Footer, true
	case SectionFloatingAction:
		return d.FloatingAction, true
	}
	return nil, false
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := d
	out.Order = slices.Clone(d.Order)
	if d.Visibility != nil {
		out.Visibility = d.Visibility.Clone()
	}
	out.Solutions = slices.Clone(d.Solutions)
	out.Carousel.Images = slices.Clone(d.Carousel.Images)
	out.Collage.Images = slices.Clone(d.Collage.Images)
	out.Pricing.Plans = slices.Clone(d.Pricing.Plans)
	for i := range out.Pricing.Plans {
		out.Pricing.Plans[i].Features = slices.Clone(d.Pricing.Plans[i].Features)
	}
	out.FAQ.Items = slices.Clone(d.FAQ.Items)
	out.SocialProof.Testimonials = slices.Clone(d.SocialProof.Testimonials)
	out.Footer.Links = slices.Clone(d.Footer.Links)
	return out
}

// Marshal encodes d as the persisted JSON document.
func (d Document) Marshal() (json.RawMessage, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page document: %w", err)
	}
	return b, nil
}

// ToMap returns the generic map form used by path-based edits.
func (d Document) ToMap() (map[string]any, error) {
	b, err := d.Marshal()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to decode page document: %w", err)
	}
	return m, nil
}

// FromMap decodes the generic form back into a Document. In strict mode
// unknown keys and mistyped values are rejected; otherwise m is treated like a
// raw stored document and merged over Defaults.
func FromMap(m map[string]any, strict bool) (Document, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if !strict {
		return Load(b, Defaults())
	}
	return decodeStrict(b)
}

func decodeStrict(data []byte) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	doc := Defaults()
	for key := range top {
		if key == keyOrder || key == keyVisibility {
			continue
		}
		if _, ok := codecFor(SectionID(key)); !ok {
			return Document{}, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
	}

	for _, c := range sectionCodecs {
		raw, ok := top[string(c.id)]
		if !ok || isNull(raw) {
			continue
		}
		if err := c.decode(&doc, raw, true); err != nil {
			return Document{}, classify(string(c.id), err)
		}
	}

	if raw, ok := top[keyVisibility]; ok && !isNull(raw) {
		var vis visibility.Map
		if err := json.Unmarshal(raw, &vis); err != nil {
			return Document{}, classify(keyVisibility, err)
		}
		for unit := range vis {
			if err := validateUnit(doc, unit); err != nil {
				return Document{}, err
			}
		}
		doc.Visibility = vis
	}

	if raw, ok := top[keyOrder]; ok && !isNull(raw) {
		var order []SectionID
		if err := json.Unmarshal(raw, &order); err != nil {
			return Document{}, classify(keyOrder, err)
		}
		seen := make(map[SectionID]bool, len(order))
		for _, id := range order {
			if !id.IsOrderable() || seen[id] {
				return Document{}, fmt.Errorf("%w: order entry %q", ErrInvalidValue, id)
			}
			seen[id] = true
		}
		doc.Order = order
	}

	if doc.Visibility == nil {
		doc.Visibility = visibility.Map{}
	}
	return doc, nil
}

// classify maps encoding/json failures onto the package's sentinel errors.
func classify(key string, err error) error {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		field := key
		if typeErr.Field != "" {
			field = key + "." + typeErr.Field
		}
		return fmt.Errorf("%w: %s expects %s", ErrInvalidValue, field, typeErr.Type)
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		return fmt.Errorf("%w: %s: %s", ErrUnknownField, key, strings.TrimPrefix(err.Error(), "json: unknown field "))
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidValue, key, err)
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

type sectionCodec struct {
	id     SectionID
	decode func(d *Document, data []byte, strict bool) error
	encode func(d *Document) (json.RawMessage, error)
}

func codec[T any](id SectionID, field func(*Document) *T) sectionCodec {
	return sectionCodec{
		id: id,
		decode: func(d *Document, data []byte, strict bool) error {
			var v T
			dec := json.NewDecoder(bytes.NewReader(data))
			if strict {
				dec.DisallowUnknownFields()
			}
			if err := dec.Decode(&v); err != nil {
				return err
			}
			*field(d) = v
			return nil
		},
		encode: func(d *Document) (json.RawMessage, error) {
			return json.Marshal(*field(d))
		},
	}
}

var sectionCodecs = []sectionCodec{
	codec(SectionHeader, func(d *Document) *Header { return &d.Header }),
	codec(SectionHero, func(d *Document) *Hero { return &d.Hero }),
	codec(SectionPAS, func(d *Document) *PAS { return &d.PAS }),
	codec(SectionSolutions, func(d *Document) *Solutions { return &d.Solutions }),
	codec(SectionCarousel, func(d *Document) *Carousel { return &d.Carousel }),
	codec(SectionCollage, func(d *Document) *Collage { return &d.Collage }),
	codec(SectionPricing, func(d *Document) *Pricing { return &d.Pricing }),
	codec(SectionFAQ, func(d *Document) *FAQ { return &d.FAQ }),
	codec(SectionSocialProof, func(d *Document) *SocialProof { return &d.SocialProof }),
	codec(SectionCTA, func(d *Document) *CTA { return &d.CTA }),
	codec(SectionFooter, func(d *Document) *Footer { return &d.Footer }),
	codec(SectionFloatingAction, func(d *Document) *FloatingAction { return &d.FloatingAction }),
}

func codecFor(id SectionID) (sectionCodec, bool) {
	for _, c := range sectionCodecs {
		if c.id == id {
			return c, true
		}
	}
	return sectionCodec{}, false
}
