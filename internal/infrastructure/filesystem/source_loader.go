package filesystem

import (
	"context"
	"encoding/json"
	"os"

	"arbmerge/internal/domain"
	"arbmerge/internal/domain/entities"
	"arbmerge/internal/ports/output"
	"arbmerge/pkg/jsonfmt"
)

// Ensure SourceLoader implements the output.FragmentLoader port.
var _ output.FragmentLoader = (*SourceLoader)(nil)

// SourceLoader reads ARB/JSON source files from disk.
type SourceLoader struct{}

func NewSourceLoader() *SourceLoader {
	return &SourceLoader{}
}

// Load decodes the object at the root of path, keeping keys in file order.
func (l *SourceLoader) Load(ctx context.Context, path string) (*entities.Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	defer f.Close()

	fragment := &entities.Fragment{Path: path}
	err = jsonfmt.DecodeObject(f, func(key string, value json.RawMessage) error {
		fragment.Entries = append(fragment.Entries, entities.Entry{Key: key, Value: value})
		return nil
	})
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	return fragment, nil
}
