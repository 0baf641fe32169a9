package cli

import (
	"errors"

	"arbmerge/internal/domain"
	"arbmerge/internal/ports/output"
)

// errorMessages maps a failed run to the lines printed on stderr, one per
// duplicate key when several were collected.
func errorMessages(t output.T, lang string, err error, destination string) []string {
	if err == nil {
		return nil
	}

	if dupes := domain.DuplicateKeys(err); len(dupes) > 0 {
		lines := make([]string, 0, len(dupes)+1)
		for _, d := range dupes {
			lines = append(lines, t.T(lang, "error.duplicate_key", map[string]any{
				"Key":       d.Key,
				"Path":      d.Path,
				"FirstPath": d.FirstPath,
			}))
		}
		if len(dupes) > 1 {
			lines = append(lines, t.T(lang, "error.duplicate_summary", map[string]any{
				"Count": len(dupes),
				"Path":  destination,
			}))
		}
		return lines
	}

	return []string{t.T(lang, messageKey(err), map[string]any{"Reason": reason(err)})}
}

func messageKey(err error) string {
	switch domain.Code(err) {
	case domain.CodeParse:
		return "error.parse"
	case domain.CodeInvalidLocale:
		return "error.invalid_locale"
	case domain.CodeWrite:
		return "error.write"
	default:
		return "error.generic"
	}
}

// reason prefers the ParseError text, which names the file.
func reason(err error) string {
	var parseErr *domain.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Error()
	}
	return err.Error()
}
