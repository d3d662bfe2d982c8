package visibility

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Validates that a unit without any visibility entry is visible on every breakpoint.
// Scope: Unit Test
// Expected: IsVisible returns true for desktop and mobile.
// Test Case ID: VIS-01
func TestIsVisible_DefaultsToVisible(t *testing.T) {
	var v Value
	assert.True(t, v.IsZero())
	assert.True(t, IsVisible(v, Mobile))
	assert.True(t, IsVisible(v, Desktop))

	m := Map{}
	assert.True(t, m.IsVisible("hero", Mobile))
	assert.True(t, Map(nil).IsVisible("hero", Desktop))
}

func TestIsVisible_Resolution(t *testing.T) {
	f := false
	tests := []struct {
		name    string
		value   Value
		desktop bool
		mobile  bool
	}{
		{"uniform true", Uniform(true), true, true},
		{"uniform false", Uniform(false), false, false},
		{"split", Split(true, false), true, false},
		{"map missing desktop entry", Value{mode: modeSplit, mobile: &f}, true, false},
		{"empty map", Value{mode: modeSplit}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.desktop, IsVisible(tt.value, Desktop))
			assert.Equal(t, tt.mobile, IsVisible(tt.value, Mobile))
		})
	}
}

// TestPurpose: Validates the asymmetric normalize-on-write toggle.
// Scope: Unit Test
// Expected: Toggling mobile off a uniform true yields {desktop: true, mobile: false}.
// Test Case ID: VIS-02
func TestToggle_NormalizesAndPreservesOtherBreakpoint(t *testing.T) {
	got := Toggle(Uniform(true), Mobile)
	assert.Equal(t, Split(true, false), got)

	got = Toggle(Value{}, Desktop)
	assert.Equal(t, Split(false, true), got)

	got = Toggle(Uniform(false), Desktop)
	assert.Equal(t, Split(true, false), got)

	back := Toggle(Toggle(Uniform(true), Mobile), Mobile)
	assert.Equal(t, Split(true, true), back)
}

func TestSet(t *testing.T) {
	assert.Equal(t, Split(true, false), Set(Value{}, Mobile, false))
	assert.Equal(t, Split(false, false), Set(Uniform(false), Mobile, false))
}

func TestValue_JSON(t *testing.T) {
	tests := []struct {
		in   string
		want Value
		out  string
	}{
		{`null`, Value{}, `null`},
		{`true`, Uniform(true), `true`},
		{`false`, Uniform(false), `false`},
		{`{"desktop":true,"mobile":false}`, Split(true, false), `{"desktop":true,"mobile":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, tt.want, v)

			b, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.out, string(b))
		})
	}

	var v Value
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &v))
}

func TestMap_JSONPartialEntry(t *testing.T) {
	var m Map
	require.NoError(t, json.Unmarshal([]byte(`{"hero":{"mobile":false},"faq":false}`), &m))

	assert.True(t, m.IsVisible("hero", Desktop))
	assert.False(t, m.IsVisible("hero", Mobile))
	assert.False(t, m.IsVisible("faq", Desktop))
	assert.True(t, m.IsVisible("pricing", Mobile))
}

func TestMap_ToggleCopies(t *testing.T) {
	m := Map{"hero": Uniform(true)}
	out := m.Toggle("hero", Mobile)

	assert.Equal(t, Uniform(true), m["hero"])
	assert.Equal(t, Split(true, false), out["hero"])
}

func TestParseBreakpoint(t *testing.T) {
	bp, err := ParseBreakpoint("mobile")
	require.NoError(t, err)
	assert.Equal(t, Mobile, bp)

	_, err = ParseBreakpoint("tablet")
	assert.ErrorIs(t, err, ErrInvalidBreakpoint)
}
