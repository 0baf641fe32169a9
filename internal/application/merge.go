package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"

	"arbmerge/internal/domain"
	"arbmerge/internal/domain/entities"
	"arbmerge/internal/ports/input"
	"arbmerge/internal/ports/output"
)

// Ensure MergeService implements the input.MergeUseCase port.
var _ input.MergeUseCase = (*MergeService)(nil)

// Progress configures the informational lines printed during a run.
// A nil Logger silences them.
type Progress struct {
	Logger *log.Logger
	Lang   string
	// Quiet drops the per-key lines and keeps one line per file.
	Quiet bool
}

type MergeService struct {
	discoverer output.SourceDiscoverer
	loader     output.FragmentLoader
	writer     output.CatalogWriter
	translator output.T
	progress   Progress
}

func NewMergeService(
	discoverer output.SourceDiscoverer,
	loader output.FragmentLoader,
	writer output.CatalogWriter,
	translator output.T,
	progress Progress,
) *MergeService {
	if progress.Logger == nil {
		progress.Logger = log.New(io.Discard, "", 0)
	}
	return &MergeService{
		discoverer: discoverer,
		loader:     loader,
		writer:     writer,
		translator: translator,
		progress:   progress,
	}
}

// Run merges every source file matching req.Pattern into one catalog for
// req.Locale and writes it to req.Destination. Sources are processed in
// lexicographic order. The destination is only touched once every source
// has been loaded and integrated without error.
func (s *MergeService) Run(ctx context.Context, req input.MergeRequest) (*input.MergeResult, error) {
	catalog := entities.NewCatalog(req.Locale)

	paths, err := s.discoverer.Discover(ctx, req.Pattern)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", req.Pattern, err)
	}
	paths = slices.Clone(paths)
	slices.Sort(paths)

	result := &input.MergeResult{
		Files:       paths,
		Destination: req.Destination,
		Catalog:     catalog,
	}

	var duplicates []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.info("merge.parsing", map[string]any{"Path": path})
		fragment, err := s.loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		added, skipped, dupes := s.integrate(catalog, fragment, req.CollectDuplicates)
		result.Added += added
		result.Skipped += skipped
		if len(dupes) > 0 {
			if !req.CollectDuplicates {
				return nil, dupes[0]
			}
			duplicates = append(duplicates, dupes...)
		}
	}
	if len(duplicates) > 0 {
		return nil, errors.Join(duplicates...)
	}

	if req.DryRun {
		return result, nil
	}
	if err := s.writer.Write(ctx, req.Destination, catalog); err != nil {
		return nil, err
	}
	result.Written = true
	return result, nil
}

// integrate copies the non-metadata entries of fragment into catalog.
// Without collect it stops at the first duplicate.
func (s *MergeService) integrate(catalog *entities.Catalog, fragment *entities.Fragment, collect bool) (added, skipped int, dupes []error) {
	for _, entry := range fragment.Entries {
		if entities.IsMetadataKey(entry.Key) {
			skipped++
			s.detail("merge.skipping", map[string]any{"Key": entry.Key, "Path": fragment.Path})
			continue
		}
		if !catalog.Add(entry.Key, entry.Value, fragment.Path) {
			dupes = append(dupes, &domain.DuplicateKeyError{
				Key:       entry.Key,
				Path:      fragment.Path,
				FirstPath: catalog.Origin(entry.Key),
			})
			if !collect {
				return added, skipped, dupes
			}
			continue
		}
		added++
		s.detail("merge.adding", map[string]any{"Key": entry.Key, "Path": fragment.Path})
	}
	return added, skipped, dupes
}

func (s *MergeService) info(key string, data map[string]any) {
	s.progress.Logger.Println(s.message(key, data))
}

func (s *MergeService) detail(key string, data map[string]any) {
	if s.progress.Quiet {
		return
	}
	s.progress.Logger.Println(s.message(key, data))
}

func (s *MergeService) message(key string, data map[string]any) string {
	if s.translator == nil {
		return key
	}
	return s.translator.T(s.progress.Lang, key, data)
}
