package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrParse         = errors.New("source file is not a valid catalog")
	ErrDuplicateKey  = errors.New("duplicate translation key")
	ErrInvalidLocale = errors.New("invalid locale")
	ErrWrite         = errors.New("cannot write catalog")
)

// Error codes, used to pick the user-facing message.
const (
	CodeParse         = "parse_error"
	CodeDuplicateKey  = "duplicate_key"
	CodeInvalidLocale = "invalid_locale"
	CodeWrite         = "write_error"
)

// ParseError reports a source file that could not be loaded as a catalog
// fragment: missing, unreadable, malformed, or not an object at the root.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// DuplicateKeyError reports a non-metadata key seen a second time.
// FirstPath is the file that introduced the key; it equals Path when the
// key is repeated inside a single file.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstPath string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %q already exists (from %s), duplicate in %s", e.Key, e.FirstPath, e.Path)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// Code returns the stable code of a domain error, or "" for anything else.
// A duplicate key wins when err carries several domain errors.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateKey):
		return CodeDuplicateKey
	case errors.Is(err, ErrParse):
		return CodeParse
	case errors.Is(err, ErrInvalidLocale):
		return CodeInvalidLocale
	case errors.Is(err, ErrWrite):
		return CodeWrite
	default:
		return ""
	}
}

// DuplicateKeys unpacks every DuplicateKeyError carried by err, including
// the members of a joined error.
func DuplicateKeys(err error) []*DuplicateKeyError {
	if err == nil {
		return nil
	}
	var dupe *DuplicateKeyError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*DuplicateKeyError
		for _, e := range joined.Unwrap() {
			out = append(out, DuplicateKeys(e)...)
		}
		if len(out) > 0 {
			return out
		}
	}
	if errors.As(err, &dupe) {
		return []*DuplicateKeyError{dupe}
	}
	return nil
}
