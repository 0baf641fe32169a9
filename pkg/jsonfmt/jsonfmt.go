package jsonfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	ErrEmpty        = errors.New("document is empty")
	ErrNotObject    = errors.New("root value is not an object")
	ErrTrailingData = errors.New("unexpected data after root object")
	ErrInvalidUTF8  = errors.New("document is not valid UTF-8")
)

// Indent is the indentation used for human-readable output.
const Indent = "  "

// DecodeObject reads a single JSON object from r and calls fn for each
// member in document order. Values are handed over raw, without decoding.
// Repeated keys are reported as many times as they appear. The whole
// document must be UTF-8: the decoder would otherwise hand invalid bytes
// through inside raw values.
func DecodeObject(r io.Reader, fn func(key string, value json.RawMessage) error) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmpty
		}
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("object key: unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

// Quote returns s as a JSON string literal without HTML escaping.
func Quote(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// strings always encode
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// MarshalIndent encodes v as indented JSON terminated by a newline.
// HTML characters are left as they are.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
