package pageconfig

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duvan51/webpromedid/internal/visibility"
)

// TestPurpose: Validates that a stored document customising a single field keeps defaults for everything else.
// Scope: Unit Test
// Expected: hero.title is the stored value; hero styles and every other section equal the defaults.
// Test Case ID: DOC-01
func TestLoad_PartialDocumentKeepsDefaults(t *testing.T) {
	doc, err := Load(json.RawMessage(`{"hero":{"title":"Custom"}}`), Defaults())
	require.NoError(t, err)

	expected := Defaults()
	expected.Hero = Hero{Title: "Custom", Styles: Defaults().Hero.Styles}
	assert.Equal(t, expected, doc)
}

// TestPurpose: Validates that an empty or null stored document yields exactly the defaults.
// Scope: Unit Test
// Expected: Load returns Defaults() without error for nil, empty and null input.
// Test Case ID: DOC-02
func TestLoad_EmptyDocumentYieldsDefaults(t *testing.T) {
	for _, raw := range []string{"", "null", "  ", "{}"} {
		doc, err := Load(json.RawMessage(raw), Defaults())
		require.NoError(t, err, raw)
		assert.Equal(t, Defaults(), doc, raw)
	}
}

func TestLoad_MergesStylesKeyWise(t *testing.T) {
	doc, err := Load(json.RawMessage(`{"cta":{"title":"Go","styles":{"backgroundColor":"#000","alignment":"right"}}}`), Defaults())
	require.NoError(t, err)

	assert.Equal(t, "Go", doc.CTA.Title)
	assert.Equal(t, Styles{
		Layout:          "stacked",
		Alignment:       "right",
		BackgroundColor: "#000",
	}, doc.CTA.Styles)
	assert.Empty(t, doc.CTA.ButtonText, "a stored section wins wholesale")
}

func TestLoad_MergesVisibilityKeyWise(t *testing.T) {
	defaults := Defaults()
	defaults.Visibility = visibility.Map{
		"hero": visibility.Uniform(false),
		"faq":  visibility.Uniform(false),
	}

	doc, err := Load(json.RawMessage(`{"visibility":{"hero":true,"cta":{"mobile":false}}}`), defaults)
	require.NoError(t, err)

	assert.Equal(t, visibility.Uniform(true), doc.Visibility["hero"])
	assert.Equal(t, visibility.Uniform(false), doc.Visibility["faq"])
	assert.True(t, doc.Visibility.IsVisible("cta", visibility.Desktop))
	assert.False(t, doc.Visibility.IsVisible("cta", visibility.Mobile))
	assert.Len(t, defaults.Visibility, 2, "defaults are not mutated")
}

func TestLoad_NormalizesStoredOrder(t *testing.T) {
	doc, err := Load(json.RawMessage(`{"order":["faq","header","bogus","faq","hero"]}`), Defaults())
	require.NoError(t, err)
	assert.Equal(t, []SectionID{SectionFAQ, SectionHero}, doc.Order)
}

func TestLoad_DropsUnknownKeys(t *testing.T) {
	doc, err := Load(json.RawMessage(`{"legacy":{"x":1},"hero":{"title":"A","extra":true}}`), Defaults())
	require.NoError(t, err)
	assert.Equal(t, "A", doc.Hero.Title)
}

// TestPurpose: Validates that a section that cannot be decoded falls back to its default without failing the whole document.
// Scope: Unit Test
// Expected: A *LoadWarning naming the section; the other stored sections still apply.
// Test Case ID: DOC-03
func TestLoad_UndecodableSectionFallsBack(t *testing.T) {
	doc, err := Load(json.RawMessage(`{"hero":{"title":5},"faq":{"title":"Q"}}`), Defaults())

	var warn *LoadWarning
	require.True(t, errors.As(err, &warn))
	assert.Equal(t, []string{"hero"}, warn.Keys)
	assert.Equal(t, Defaults().Hero, doc.Hero)
	assert.Equal(t, "Q", doc.FAQ.Title)
}

func TestLoad_Malformed(t *testing.T) {
	doc, err := Load(json.RawMessage(`{not json`), Defaults())
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Equal(t, Defaults(), doc)
}

func TestLoad_ItemVisibility(t *testing.T) {
	raw := `{"faq":{"title":"FAQ","items":[{"title":"Q1","text":"A1"},{"title":"Q2","text":"A2","visibility":{"mobile":false}}]}}`
	doc, err := Load(json.RawMessage(raw), Defaults())
	require.NoError(t, err)

	require.Len(t, doc.FAQ.Items, 2)
	assert.True(t, doc.FAQ.Items[0].Visibility.IsZero())
	assert.False(t, visibility.IsVisible(doc.FAQ.Items[1].Visibility, visibility.Mobile))
	assert.True(t, visibility.IsVisible(doc.FAQ.Items[1].Visibility, visibility.Desktop))
}

func TestDocument_CloneIsDeep(t *testing.T) {
	doc := Defaults()
	doc.Pricing.Plans = []Plan{{Title: "Basic", Features: []string{"a"}}}

	c := doc.Clone()
	c.Pricing.Plans[0].Features[0] = "changed"
	c.Order[0] = SectionFooter
	c.Visibility["hero"] = visibility.Uniform(false)

	assert.Equal(t, "a", doc.Pricing.Plans[0].Features[0])
	assert.Equal(t, SectionHero, doc.Order[0])
	assert.Empty(t, doc.Visibility)
}

func TestDocument_Section(t *testing.T) {
	doc := Defaults()
	for _, id := range AllSections {
		s, ok := doc.Section(id)
		require.True(t, ok, id)
		assert.Equal(t, id, s.SectionID())
	}
	_, ok := doc.Section("bogus")
	assert.False(t, ok)
}
