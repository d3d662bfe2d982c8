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

// DefaultOrder is the render order of a fresh page.
var DefaultOrder = []SectionID{
	SectionHero,
	SectionPAS,
	SectionSolutions,
	SectionCarousel,
	SectionCollage,
	SectionPricing,
	SectionFAQ,
	SectionSocialProof,
	SectionCTA,
	SectionFooter,
}

// Defaults returns the structural skeleton every stored document is merged over.
func Defaults() Document {
	centered := Styles{Layout: "stacked", Alignment: "center"}
	return Document{
		Order:      append([]SectionID(nil), DefaultOrder...),
		Visibility: visibility.Map{},

		Header: Header{
			Styles: Styles{Layout: "inline", Alignment: "left"},
		},
		Hero: Hero{
			Title:      "Welcome",
			ButtonText: "Book now",
			Styles:     Styles{Layout: "split", Alignment: "left"},
		},
		PAS:       PAS{Styles: centered},
		Solutions: Solutions{},
		Carousel: Carousel{
			Images:          []string{},
			Autoplay:        true,
			IntervalSeconds: 5,
			Styles:          centered,
		},
		Collage: Collage{
			Images: []string{},
			Styles: Styles{Layout: "grid", Alignment: "center"},
		},
		Pricing: Pricing{
			Plans:  []Plan{},
			Styles: Styles{Layout: "cards", Alignment: "center"},
		},
		FAQ: FAQ{
			Title:  "Frequently asked questions",
			Items:  []FAQItem{},
			Styles: centered,
		},
		SocialProof: SocialProof{
			Testimonials: []Testimonial{},
			Styles:       Styles{Layout: "cards", Alignment: "center"},
		},
		CTA: CTA{
			ButtonText: "Contact us",
			Styles:     centered,
		},
		Footer: Footer{
			Links:  []FooterLink{},
			Styles: centered,
		},
		FloatingAction: FloatingAction{
			Icon: "whatsapp",
		},
	}
}
