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
	"github.com/duvan51/webpromedid/internal/visibility"
)

// SectionID identifies a region of a landing page.
type SectionID string

// Section identifiers
const (
	SectionHeader         SectionID = "header"
	SectionHero           SectionID = "hero"
	SectionPAS            SectionID = "pas"
	SectionSolutions      SectionID = "solutions"
	SectionCarousel       SectionID = "carousel"
	SectionCollage        SectionID = "collage"
	SectionPricing        SectionID = "pricing"
	SectionFAQ            SectionID = "faq"
	SectionSocialProof    SectionID = "socialProof"
	SectionCTA            SectionID = "cta"
	SectionFooter         SectionID = "footer"
	SectionFloatingAction SectionID = "floatingAction"
)

// AllSections lists every known section in document order.
var AllSections = []SectionID{
	SectionHeader,
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
	SectionFloatingAction,
}

// IsKnown reports whether id is one of the defined sections.
func (id SectionID) IsKnown() bool {
	for _, s := range AllSections {
		if s == id {
			return true
		}
	}
	return false
}

// IsOrderable reports whether id may appear in the render order. The header
// and the floating action button are fixed regions.
func (id SectionID) IsOrderable() bool {
	return id.IsKnown() && id != SectionHeader && id != SectionFloatingAction
}

// Section is implemented by every typed section record.
type Section interface {
	SectionID() SectionID
}

// Styles holds layout hints shared by most sections.
type Styles struct {
	Layout          string `json:"layout,omitempty"`
	Alignment       string `json:"alignment,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
}

type Header struct {
	LogoURL   string `json:"logoUrl"`
	BrandName string `json:"brandName"`
	Styles    Styles `json:"styles,omitzero"`
}

type Hero struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	ImageURL    string `json:"imageUrl"`
	ButtonText  string `json:"buttonText"`
	ButtonColor string `json:"buttonColor"`
	Styles      Styles `json:"styles,omitzero"`
}

// PAS is the problem / agitation / solution block.
type PAS struct {
	Title     string `json:"title"`
	Problem   string `json:"problem"`
	Agitation string `json:"agitation"`
	Solution  string `json:"solution"`
	ImageURL  string `json:"imageUrl"`
	Styles    Styles `json:"styles,omitzero"`
}

type SolutionItem struct {
	Title      string           `json:"title"`
	Text       string           `json:"text"`
	Icon       string           `json:"icon"`
	ImageURL   string           `json:"imageUrl"`
	Visibility visibility.Value `json:"visibility,omitzero"`
}

// Solutions is stored directly as an ordered list.
type Solutions []SolutionItem

type Carousel struct {
	Title           string   `json:"title"`
	Images          []string `json:"images"`
	Autoplay        bool     `json:"autoplay"`
	IntervalSeconds int      `json:"intervalSeconds"`
	Styles          Styles   `json:"styles,omitzero"`
}

type Collage struct {
	Title  string   `json:"title"`
	Images []string `json:"images"`
	Styles Styles   `json:"styles,omitzero"`
}

type Plan struct {
	Title       string           `json:"title"`
	Text        string           `json:"text"`
	Price       string           `json:"price"`
	Period      string           `json:"period"`
	Features    []string         `json:"features"`
	ButtonText  string           `json:"buttonText"`
	Highlighted bool             `json:"highlighted"`
	Visibility  visibility.Value `json:"visibility,omitzero"`
}

type Pricing struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Plans    []Plan `json:"plans"`
	Styles   Styles `json:"styles,omitzero"`
}

// FAQItem stores the question in Title and the answer in Text.
type FAQItem struct {
	Title      string           `json:"title"`
	Text       string           `json:"text"`
	Visibility visibility.Value `json:"visibility,omitzero"`
}

type FAQ struct {
	Title  string    `json:"title"`
	Items  []FAQItem `json:"items"`
	Styles Styles    `json:"styles,omitzero"`
}

// Testimonial stores the author in Title and the quote in Text.
type Testimonial struct {
	Title      string           `json:"title"`
	Text       string           `json:"text"`
	Role       string           `json:"role"`
	AvatarURL  string           `json:"avatarUrl"`
	Rating     int              `json:"rating"`
	Visibility visibility.Value `json:"visibility,omitzero"`
}

type SocialProof struct {
	Title        string        `json:"title"`
	Testimonials []Testimonial `json:"testimonials"`
	Styles       Styles        `json:"styles,omitzero"`
}

type CTA struct {
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	ButtonText     string `json:"buttonText"`
	ButtonColor    string `json:"buttonColor"`
	WhatsAppNumber string `json:"whatsappNumber"`
	Styles         Styles `json:"styles,omitzero"`
}

type FooterLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Footer struct {
	Text    string       `json:"text"`
	Address string       `json:"address"`
	Phone   string       `json:"phone"`
	Email   string       `json:"email"`
	Links   []FooterLink `json:"links"`
	Styles  Styles       `json:"styles,omitzero"`
}

type FloatingAction struct {
	Enabled bool   `json:"enabled"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

func (Header) SectionID() SectionID         { return SectionHeader }
func (Hero) SectionID() SectionID           { return SectionHero }
func (PAS) SectionID() SectionID            { return SectionPAS }
func (Solutions) SectionID() SectionID      { return SectionSolutions }
func (Carousel) SectionID() SectionID       { return SectionCarousel }
func (Collage) SectionID() SectionID        { return SectionCollage }
func (Pricing) SectionID() SectionID        { return SectionPricing }
func (FAQ) SectionID() SectionID            { return SectionFAQ }
func (SocialProof) SectionID() SectionID    { return SectionSocialProof }
func (CTA) SectionID() SectionID            { return SectionCTA }
func (Footer) SectionID() SectionID         { return SectionFooter }
func (FloatingAction) SectionID() SectionID { return SectionFloatingAction }

// ItemVisibility gives list helpers access to an item's visibility.
func (i *SolutionItem) ItemVisibility() *visibility.Value { return &i.Visibility }
func (i *Plan) ItemVisibility() *visibility.Value         { return &i.Visibility }
func (i *FAQItem) ItemVisibility() *visibility.Value      { return &i.Visibility }
func (i *Testimonial) ItemVisibility() *visibility.Value  { return &i.Visibility }
