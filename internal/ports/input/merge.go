package input

import (
	"context"

	"arbmerge/internal/domain/entities"
)

// MergeRequest describes one merge run.
type MergeRequest struct {
	Pattern           string
	Destination       string
	Locale            string
	CollectDuplicates bool
	DryRun            bool
}

// MergeResult summarizes a successful run.
type MergeResult struct {
	Files       []string
	Added       int
	Skipped     int
	Destination string
	Written     bool
	Catalog     *entities.Catalog
}

type MergeUseCase interface {
	Run(ctx context.Context, req MergeRequest) (*MergeResult, error)
}
