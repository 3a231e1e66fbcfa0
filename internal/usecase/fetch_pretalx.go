package usecase

import (
	"context"
	"fmt"

	"github.com/coscup/sessiongen/internal/repository"
	"github.com/coscup/sessiongen/internal/source"
)

// FetchPretalxUseCase pulls one complete snapshot from pretalx. Any failed
// endpoint fails the whole fetch.
type FetchPretalxUseCase struct {
	Repo repository.PretalxRepository
}

func (uc *FetchPretalxUseCase) Execute(ctx context.Context) (source.Batch, error) {
	records, err := uc.Repo.Submissions(ctx)
	if err != nil {
		return source.Batch{}, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	lookup := source.NewLookup()
	if lookup.Speakers, err = uc.Repo.Speakers(ctx); err != nil {
		return source.Batch{}, fmt.Errorf("failed to fetch speakers: %w", err)
	}
	if lookup.Rooms, err = uc.Repo.Rooms(ctx); err != nil {
		return source.Batch{}, fmt.Errorf("failed to fetch rooms: %w", err)
	}
	if lookup.Tracks, err = uc.Repo.Tracks(ctx); err != nil {
		return source.Batch{}, fmt.Errorf("failed to fetch tracks: %w", err)
	}
	return source.Batch{Records: records, Lookup: lookup}, nil
}
