package record

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMatches tests the equality semantics of the query engine
func TestMatches(t *testing.T) {
	r := Record{
		"name":   "a",
		"age":    30.0,
		"active": true,
		"nick":   nil,
		"tags":   []any{"x"},
		"nested": map[string]any{"k": "v"},
	}

	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{name: "empty query", query: Query{}, want: true},
		{name: "nil query", query: nil, want: true},
		{name: "single string field", query: Query{"name": "a"}, want: true},
		{name: "wrong string", query: Query{"name": "b"}, want: false},
		{name: "number", query: Query{"age": 30.0}, want: true},
		{name: "int equals float", query: Query{"age": 30}, want: true},
		{name: "number vs string", query: Query{"age": "30"}, want: false},
		{name: "bool", query: Query{"active": true}, want: true},
		{name: "bool vs number", query: Query{"active": 1}, want: false},
		{name: "null equals null", query: Query{"nick": nil}, want: true},
		{name: "missing field with null", query: Query{"city": nil}, want: false},
		{name: "missing field", query: Query{"city": "x"}, want: false},
		{name: "conjunction", query: Query{"name": "a", "age": 30.0}, want: true},
		{name: "conjunction one wrong", query: Query{"name": "a", "age": 31.0}, want: false},
		{name: "sequence never equal", query: Query{"tags": []any{"x"}}, want: false},
		{name: "mapping never equal", query: Query{"nested": map[string]any{"k": "v"}}, want: false},
		{name: "no nested paths", query: Query{"nested.k": "v"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(r, tt.query))
		})
	}
}

// TestMatchesEmptyRecord checks that only the empty query matches an empty record
func TestMatchesEmptyRecord(t *testing.T) {
	assert.True(t, Matches(Record{}, Query{}))
	assert.False(t, Matches(Record{}, Query{"a": 1.0}))
}

func TestFilterPreservesOrder(t *testing.T) {
	records := []Record{
		{"a": 1.0, "i": 0.0},
		{"a": 2.0, "i": 1.0},
		{"a": 1.0, "i": 2.0},
	}

	got := Filter(records, Query{"a": 1.0})
	require.Len(t, got, 2)
	assert.Equal(t, 0.0, got[0]["i"])
	assert.Equal(t, 2.0, got[1]["i"])

	assert.NotNil(t, Filter(records, Query{"a": 3.0}))
	assert.Empty(t, Filter(records, Query{"a": 3.0}))
	assert.Equal(t, []int{0, 2}, MatchingIndices(records, Query{"a": 1.0}))
}

func TestCloneIsDeep(t *testing.T) {
	orig := Record{"nested": map[string]any{"k": "v"}, "list": []any{1.0, map[string]any{"x": true}}}
	cp := orig.Clone()

	cp["nested"].(map[string]any)["k"] = "changed"
	cp["list"].([]any)[1].(map[string]any)["x"] = false

	assert.Equal(t, "v", orig["nested"].(map[string]any)["k"])
	assert.Equal(t, true, orig["list"].([]any)[1].(map[string]any)["x"])
	assert.Nil(t, Record(nil).Clone())
}

func TestApply(t *testing.T) {
	r := Record{"a": 1.0, "b": 9.0}
	patch := Record{"b": 2.0, "c": map[string]any{"k": "v"}}
	r.Apply(patch)

	assert.Equal(t, Record{"a": 1.0, "b": 2.0, "c": map[string]any{"k": "v"}}, r)

	// the patch must not be shared with the record
	patch["c"].(map[string]any)["k"] = "changed"
	assert.Equal(t, "v", r["c"].(map[string]any)["k"])
}

func TestStrictEqual(t *testing.T) {
	assert.True(t, StrictEqual(nil, nil))
	assert.False(t, StrictEqual(nil, false))
	assert.False(t, StrictEqual("", nil))
	assert.True(t, StrictEqual(uint8(3), 3.0))
	assert.True(t, StrictEqual(float32(0.5), 0.5))
	assert.False(t, StrictEqual("true", true))
}

func TestStrictEqualLargeIntegers(t *testing.T) {
	const big = int64(1) << 53

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"Same int64", big + 1, big + 1, true},
		{"Different int64 beyond float precision", big, big + 1, false},
		{"Different uint64 beyond float precision", uint64(1<<63) + 1, uint64(1 << 63), false},
		{"Signed and unsigned", int64(7), uint32(7), true},
		{"Negative and unsigned", int64(-1), uint64(1<<64 - 1), false},
		{"Int and rounded float", big + 1, float64(big), false},
		{"Int and exact float", big, float64(big), true},
		{"Float and int", 2.0, int(2), true},
		{"Int and fraction", int(2), 2.5, false},
		{"Int and string", int(2), "2", false},
		{"Max int64", int64(math.MaxInt64), int64(math.MaxInt64), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StrictEqual(tc.a, tc.b))
			assert.Equal(t, tc.want, StrictEqual(tc.b, tc.a))
		})
	}
}
