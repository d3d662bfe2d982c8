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

	"github.com/duvan51/webpromedid/internal/visibility"
)

// Load merges a stored document over defaults.
//
// A section present in raw replaces the default wholesale, except that its
// styles are merged key-wise with the default styles. Visibility is merged
// key-wise. Order comes from raw when present and is always normalized.
// Unknown top-level keys are dropped.
//
// Sections that fail to decode keep their defaults; in that case the returned
// error is a *LoadWarning and the Document is still valid. Invalid JSON yields
// ErrMalformedDocument.
func Load(raw json.RawMessage, defaults Document) (Document, error) {
	if isNull(raw) {
		return defaults.Clone(), nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return defaults.Clone(), fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if top == nil {
		return defaults.Clone(), nil
	}

	doc := defaults.Clone()
	var skipped []string

	for _, c := range sectionCodecs {
		section, ok := top[string(c.id)]
		if !ok || isNull(section) {
			continue
		}
		def, err := c.encode(&defaults)
		if err != nil {
			return defaults.Clone(), err
		}
		if err := c.decode(&doc, mergeStyles(section, def), false); err != nil {
			skipped = append(skipped, string(c.id))
		}
	}

	if rv, ok := top[keyVisibility]; ok && !isNull(rv) {
		var vis visibility.Map
		if err := json.Unmarshal(rv, &vis); err != nil {
			skipped = append(skipped, keyVisibility)
		} else {
			merged := defaults.Visibility.Clone()
			for unit, v := range vis {
				merged[unit] = v
			}
			doc.Visibility = merged
		}
	}
	if doc.Visibility == nil {
		doc.Visibility = visibility.Map{}
	}

	if ro, ok := top[keyOrder]; ok && !isNull(ro) {
		var order []SectionID
		if err := json.Unmarshal(ro, &order); err != nil {
			skipped = append(skipped, keyOrder)
		} else {
			doc.Order = order
		}
	}
	doc.Order = NormalizeOrder(doc.Order)

	if len(skipped) > 0 {
		return doc, &LoadWarning{Keys: skipped}
	}
	return doc, nil
}

// mergeStyles fills styles keys missing from raw with the default's. Values
// that are not objects are returned untouched.
func mergeStyles(raw, def json.RawMessage) json.RawMessage {
	var rawObj, defObj map[string]json.RawMessage
	if json.Unmarshal(raw, &rawObj) != nil || json.Unmarshal(def, &defObj) != nil || rawObj == nil {
		return raw
	}
	defStyles, ok := defObj["styles"]
	if !ok {
		return raw
	}

	styles, ok := rawObj["styles"]
	if !ok || isNull(styles) {
		rawObj["styles"] = defStyles
	} else {
		var rs, ds map[string]json.RawMessage
		if json.Unmarshal(styles, &rs) != nil || json.Unmarshal(defStyles, &ds) != nil || rs == nil {
			return raw
		}
		for k, v := range ds {
			if _, ok := rs[k]; !ok {
				rs[k] = v
			}
		}
		b, err := json.Marshal(rs)
		if err != nil {
			return raw
		}
		rawObj["styles"] = b
	}

	b, err := json.Marshal(rawObj)
	if err != nil {
		return raw
	}
	return b
}
