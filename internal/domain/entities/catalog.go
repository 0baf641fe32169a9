package entities

import (
	"bytes"
	"encoding/json"
	"strings"

	"arbmerge/pkg/jsonfmt"
)

const (
	// MetadataPrefix marks catalog-level keys (ARB "@@" keys).
	MetadataPrefix = "@@"
	// LocaleKey is the only metadata key written to a merged catalog.
	LocaleKey = "@@locale"
)

// IsMetadataKey reports whether key carries catalog metadata rather than
// a translatable message.
func IsMetadataKey(key string) bool {
	return strings.HasPrefix(key, MetadataPrefix)
}

// Entry is a single key with its raw JSON value. The value is opaque: a
// string, a nested object or anything else is carried over byte for byte.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Fragment is the content of one feature-module source file, in file order.
type Fragment struct {
	Path    string
	Entries []Entry
}

// Catalog is an insertion-ordered key/value mapping for one locale.
type Catalog struct {
	entries []Entry
	index   map[string]int
	origins map[string]string
}

// NewCatalog returns a catalog holding only the locale metadata key.
func NewCatalog(locale string) *Catalog {
	c := &Catalog{
		index:   make(map[string]int),
		origins: make(map[string]string),
	}
	c.put(LocaleKey, jsonfmt.Quote(locale), "")
	return c
}

// Has reports whether key is already present.
func (c *Catalog) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Origin returns the source path that introduced key.
func (c *Catalog) Origin(key string) string {
	return c.origins[key]
}

// Add inserts key with value, recording source as its origin. It returns
// false, leaving the catalog unchanged, when key is already present.
func (c *Catalog) Add(key string, value json.RawMessage, source string) bool {
	if c.Has(key) {
		return false
	}
	c.put(key, value, source)
	return true
}

func (c *Catalog) put(key string, value json.RawMessage, source string) {
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Entry{Key: key, Value: value})
	c.origins[key] = source
}

// Get returns the raw value stored under key.
func (c *Catalog) Get(key string) (json.RawMessage, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.entries[i].Value, true
}

// Locale returns the value of the locale metadata key.
func (c *Catalog) Locale() string {
	raw, ok := c.Get(LocaleKey)
	if !ok {
		return ""
	}
	var locale string
	_ = json.Unmarshal(raw, &locale)
	return locale
}

// Keys returns every key in insertion order, the locale key first.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON encodes the catalog as an object in insertion order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(jsonfmt.Quote(e.Key))
		buf.WriteByte(':')
		if err := json.Compact(&buf, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
