package output

import (
	"context"

	"arbmerge/internal/domain/entities"
)

// SourceDiscoverer finds the feature-module source files matching a pattern.
type SourceDiscoverer interface {
	Discover(ctx context.Context, pattern string) ([]string, error)
}

// FragmentLoader reads one source file. Failures are *domain.ParseError.
type FragmentLoader interface {
	Load(ctx context.Context, path string) (*entities.Fragment, error)
}

// CatalogWriter persists a merged catalog, replacing any previous content.
type CatalogWriter interface {
	Write(ctx context.Context, path string, catalog *entities.Catalog) error
}
