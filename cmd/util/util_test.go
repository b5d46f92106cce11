package util

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"Empty", "", ""},
		{"Short", "a short text", "a short text"},
		{"Collapses whitespace", "a   b\n c", "a b c"},
		{"Wraps", "aaaaaaaaaa bbbbbbbbbb cccccccccc dddddddddd eeeeeeeeee ffff", "aaaaaaaaaa bbbbbbbbbb cccccccccc dddddddddd\neeeeeeeeee ffff"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WrapString(tc.in))
		})
	}
}

func TestParseRecord(t *testing.T) {
	r, err := ParseRecord(`{"name":"a","age":30,"tags":["x"]}`)
	require.NoError(t, err)
	assert.Equal(t, record.Record{"name": "a", "age": 30.0, "tags": []any{"x"}}, r)

	r, err = ParseRecord(`{}`)
	require.NoError(t, err)
	assert.Equal(t, record.Record{}, r)

	for _, bad := range []string{``, `null`, `[]`, `{"a":`, `"text"`} {
		_, err := ParseRecord(bad)
		assert.Error(t, err, bad)
	}

	q, err := ParseQuery(`{"age":30}`)
	require.NoError(t, err)
	assert.Equal(t, record.Query{"age": 30.0}, q)
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintRecords(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintRecords(&buf, []record.Record{{"a": 1.0}}))
	assert.JSONEq(t, `[{"a":1}]`, buf.String())
}
