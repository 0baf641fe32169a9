package jsonfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	key   string
	value string
}

func decode(t *testing.T, doc string) ([]member, error) {
	t.Helper()
	var got []member
	err := DecodeObject(strings.NewReader(doc), func(key string, value json.RawMessage) error {
		got = append(got, member{key: key, value: string(value)})
		return nil
	})
	return got, err
}

func TestDecodeObjectKeepsDocumentOrder(t *testing.T) {
	got, err := decode(t, `{
  "zeta": "Z",
  "@@locale": "en",
  "alpha": {"one": "1"},
  "zeta": 3
}`)
	require.NoError(t, err)
	assert.Equal(t, []member{
		{key: "zeta", value: `"Z"`},
		{key: "@@locale", value: `"en"`},
		{key: "alpha", value: `{"one": "1"}`},
		{key: "zeta", value: `3`},
	}, got)
}

func TestDecodeObjectEmptyObject(t *testing.T) {
	got, err := decode(t, " {} \n")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeObjectErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "empty", doc: "", wantErr: ErrEmpty},
		{name: "whitespace", doc: "  \n", wantErr: ErrEmpty},
		{name: "array", doc: `["a"]`, wantErr: ErrNotObject},
		{name: "string", doc: `"a"`, wantErr: ErrNotObject},
		{name: "null", doc: `null`, wantErr: ErrNotObject},
		{name: "second object", doc: `{"a": "b"} {}`, wantErr: ErrTrailingData},
		{name: "garbage after", doc: `{"a": "b"} x`, wantErr: ErrTrailingData},
		{name: "invalid utf8 value", doc: "{\"k\": \"bad\xff\"}", wantErr: ErrInvalidUTF8},
		{name: "invalid utf8 key", doc: "{\"\xc3\x28\": \"v\"}", wantErr: ErrInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.doc)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeObjectSyntaxError(t *testing.T) {
	_, err := decode(t, `{"a": "b",}`)
	assert.Error(t, err)

	_, err = decode(t, `{"a": `)
	assert.Error(t, err)
}

func TestDecodeObjectStopsOnCallbackError(t *testing.T) {
	calls := 0
	err := DecodeObject(strings.NewReader(`{"a": 1, "b": 2}`), func(string, json.RawMessage) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"a<b>&c"`, string(Quote("a<b>&c")))
	assert.Equal(t, `"line\nbreak \"q\""`, string(Quote("line\nbreak \"q\"")))
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(json.RawMessage(`{"@@locale":"en","a":{"b":"<c>"}}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"@@locale\": \"en\",\n  \"a\": {\n    \"b\": \"<c>\"\n  }\n}\n", string(data))
}
