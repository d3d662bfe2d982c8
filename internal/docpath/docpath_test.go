package docpath

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() map[string]any {
	return map[string]any{
		"config": map[string]any{
			"hero": map[string]any{
				"title":    "Original",
				"subtitle": "Sub",
			},
			"footer": map[string]any{"text": "(c) Acme"},
			"order":  []any{"hero", "footer"},
		},
		"name": "Acme",
	}
}

// TestPurpose: Validates that overwriting a field twice keeps only the last value and leaves every sibling untouched.
// Scope: Unit Test
// Expected: get(.., "config.hero.title") is "B" and the rest of the document deep-equals the original.
// Test Case ID: PTH-01
func TestSet_RoundTripPreservesSiblings(t *testing.T) {
	doc := sampleDoc()
	p := MustParse("config.hero.title")

	once, err := Set(doc, p, "A")
	require.NoError(t, err)
	twice, err := Set(once, p, "B")
	require.NoError(t, err)

	got, ok := Get(twice, p)
	require.True(t, ok)
	assert.Equal(t, "B", got)

	expected := sampleDoc()
	expected["config"].(map[string]any)["hero"].(map[string]any)["title"] = "B"
	assert.Equal(t, expected, twice)
}

// TestPurpose: Validates that Set never mutates its input document.
// Scope: Unit Test
// Expected: The original document still holds the original title after Set.
// Test Case ID: PTH-02
func TestSet_DoesNotMutateInput(t *testing.T) {
	doc := sampleDoc()
	_, err := Set(doc, MustParse("config.hero.title"), "Changed")
	require.NoError(t, err)

	assert.Equal(t, sampleDoc(), doc)
}

// TestPurpose: Validates container inference when creating intermediates.
// Scope: Unit Test
// Expected: A numeric next segment creates a sequence, not a map keyed "0".
// Test Case ID: PTH-03
func TestSet_InfersSequenceForNumericSegment(t *testing.T) {
	out, err := Set(map[string]any{}, MustParse("config.solutions.0.title"), "X")
	require.NoError(t, err)

	solutions, ok := Get(out, MustParse("config.solutions"))
	require.True(t, ok)
	list, isList := solutions.([]any)
	require.True(t, isList, "expected []any, got %T", solutions)
	assert.Len(t, list, 1)
	assert.Equal(t, map[string]any{"title": "X"}, list[0])
}

func TestSet_AppendsToSequence(t *testing.T) {
	doc := map[string]any{"items": []any{"a"}}
	out, err := Set(doc, MustParse("items.1"), "b")
	require.NoError(t, err)

	assert.Equal(t, []any{"a", "b"}, out.(map[string]any)["items"])
	assert.Equal(t, []any{"a"}, doc["items"])
}

// TestPurpose: Validates that a numeric segment cannot grow a sequence past its next free slot.
// Scope: Unit Test
// Security: Uncontrolled allocation (CWE-789)
// Expected: Indices beyond len on existing or absent sequences return ErrIndexOutOfRange and the input is returned unchanged.
// Test Case ID: PTH-06
func TestSet_RejectsSparseIndex(t *testing.T) {
	doc := map[string]any{"items": []any{"a"}}
	tests := []struct {
		name string
		path string
	}{
		{"Gap On Existing", "items.2"},
		{"Huge On Existing", "items.1000000000"},
		{"Huge On Absent", "hero.x.30000000"},
		{"Nonzero On Absent", "other.1.title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Set(doc, MustParse(tt.path), "v")
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			assert.Equal(t, doc, out)
		})
	}
	assert.Equal(t, map[string]any{"items": []any{"a"}}, doc)
}

func TestSet_NilRoot(t *testing.T) {
	out, err := Set(nil, MustParse("a.b"), 1.0)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": 1.0}}, out)
}

// TestPurpose: Validates that a write through a node of the wrong container kind is rejected instead of overwritten.
// Scope: Unit Test
// Expected: ErrTypeConflict is returned and the document is returned unchanged.
// Test Case ID: PTH-04
func TestSet_TypeConflict(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		path string
		want string
	}{
		{"map where sequence expected", map[string]any{"list": map[string]any{"k": "v"}}, "list.0", "sequence"},
		{"sequence where map expected", map[string]any{"list": []any{"x"}}, "list.title", "map"},
		{"scalar intermediate", map[string]any{"hero": map[string]any{"title": "A"}}, "hero.title.text", "map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Set(tt.doc, MustParse(tt.path), "new")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTypeConflict))

			var conflict *ConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, tt.want, conflict.Want)
			assert.Equal(t, tt.doc, out)
		})
	}
}

func TestSet_EmptyPath(t *testing.T) {
	_, err := Set(map[string]any{}, nil, "x")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = Set(map[string]any{}, Path{"a", ""}, "x")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestParse(t *testing.T) {
	p, err := Parse("config.solutions.0.title")
	require.NoError(t, err)
	assert.Equal(t, Path{"config", "solutions", "0", "title"}, p)
	assert.Equal(t, "config.solutions.0.title", p.String())

	for _, bad := range []string{"", ".", "a..b", "a."} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}
}

// TestPurpose: Validates that Get through missing or scalar nodes returns not-found at any depth without panicking.
// Scope: Unit Test
// Expected: (nil, false) for every unreachable path.
// Test Case ID: PTH-05
func TestGet_ThroughUndefined(t *testing.T) {
	doc := sampleDoc()
	for _, path := range []string{
		"missing.deeper.still",
		"config.hero.title.length",
		"config.order.5",
		"config.order.first",
		"name.0",
	} {
		v, ok := Get(doc, MustParse(path))
		assert.False(t, ok, path)
		assert.Nil(t, v, path)
	}

	v, ok := Get(nil, MustParse("a"))
	assert.False(t, ok)
	assert.Nil(t, v)

	v, ok = Get(doc, MustParse("config.order.1"))
	assert.True(t, ok)
	assert.Equal(t, "footer", v)
}

func TestGet_NumericKeyOnMap(t *testing.T) {
	doc := map[string]any{"m": map[string]any{"0": "zero"}}
	v, ok := Get(doc, MustParse("m.0"))
	assert.True(t, ok)
	assert.Equal(t, "zero", v)
}
