package usecase

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/coscup/sessiongen/internal/codegen"
	"github.com/coscup/sessiongen/internal/domain"
	"github.com/coscup/sessiongen/internal/repository"
	"github.com/coscup/sessiongen/pkg/logger"
)

// LoadSnapshotUseCase reads a JSON snapshot written by WriteOutputsUseCase.
type LoadSnapshotUseCase struct {
	FsRepo repository.FileSystemRepository
	// Vocabulary resolves tag labels; nil means domain.DefaultVocabulary.
	Vocabulary *domain.Vocabulary
}

func (uc *LoadSnapshotUseCase) Execute(ctx context.Context, path string) (domain.Schedule, error) {
	data, err := afero.ReadFile(uc.FsRepo, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	doc, err := codegen.DecodeJSON(data, uc.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.FromContext(ctx).Debug("Loaded snapshot", "path", path, "sessions", doc.TotalSessions)
	return doc.Structure, nil
}
