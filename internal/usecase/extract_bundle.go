package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/coscup/sessiongen/internal/bundle"
	"github.com/coscup/sessiongen/internal/repository"
	"github.com/coscup/sessiongen/internal/source"
	"github.com/coscup/sessiongen/pkg/logger"
)

// ExtractBundleUseCase downloads the website data script and recovers its
// submission records.
type ExtractBundleUseCase struct {
	Repo   repository.BundleRepository
	Locale string
}

func (uc *ExtractBundleUseCase) Execute(ctx context.Context) (source.Batch, error) {
	log := logger.FromContext(ctx)
	script, err := uc.Repo.Fetch(ctx)
	if err != nil {
		return source.Batch{}, err
	}
	batch, err := bundle.Extract(script, uc.Locale)
	if err != nil {
		var perr *bundle.ParseError
		if errors.As(err, &perr) {
			log.Error("Bundle payload could not be parsed", "reason", perr.Reason, "preview", perr.Preview)
		}
		return source.Batch{}, fmt.Errorf("failed to extract bundle: %w", err)
	}
	log.Info("Extracted bundle", "records", len(batch.Records), "rooms", len(batch.Lookup.Rooms))
	return batch, nil
}
