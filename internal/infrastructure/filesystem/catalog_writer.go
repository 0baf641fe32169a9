package filesystem

import (
	"context"
	"fmt"
	"os"

	"arbmerge/internal/domain"
	"arbmerge/internal/domain/entities"
	"arbmerge/internal/ports/output"
	"arbmerge/pkg/atomicfile"
	"arbmerge/pkg/jsonfmt"
)

// Ensure CatalogWriter implements the output.CatalogWriter port.
var _ output.CatalogWriter = (*CatalogWriter)(nil)

// CatalogWriter writes merged catalogs as indented JSON, atomically.
type CatalogWriter struct {
	perm os.FileMode
}

func NewCatalogWriter() *CatalogWriter {
	return &CatalogWriter{perm: 0o644}
}

func (w *CatalogWriter) Write(ctx context.Context, path string, catalog *entities.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := jsonfmt.MarshalIndent(catalog)
	if err != nil {
		return fmt.Errorf("%w %s: %w", domain.ErrWrite, path, err)
	}
	if err := atomicfile.WriteFile(path, data, w.perm); err != nil {
		return fmt.Errorf("%w %s: %w", domain.ErrWrite, path, err)
	}
	return nil
}
