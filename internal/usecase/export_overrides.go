package usecase

import (
	"bytes"
	"context"

	"github.com/coscup/sessiongen/internal/domain"
	"github.com/coscup/sessiongen/internal/overrides"
	"github.com/coscup/sessiongen/internal/repository"
	"github.com/coscup/sessiongen/pkg/logger"
)

// ExportOverridesUseCase freezes the tags of a schedule into an override
// table, so that curated tags survive the next regeneration.
type ExportOverridesUseCase struct {
	FsRepo repository.FileSystemRepository
}

func (uc *ExportOverridesUseCase) Execute(ctx context.Context, schedule domain.Schedule, path string) error {
	table := overrides.FromSchedule(schedule)
	var buf bytes.Buffer
	if err := table.Encode(&buf); err != nil {
		return err
	}
	if err := writeFile(uc.FsRepo, path, buf.Bytes()); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Exported override table", "path", path, "sessions", table.Len())
	return nil
}
