package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/coscup/sessiongen/internal/codegen"
	"github.com/coscup/sessiongen/internal/domain"
	"github.com/coscup/sessiongen/internal/repository"
	"github.com/coscup/sessiongen/pkg/logger"
)

const FilePermissionsReadWrite = 0o644

// WriteOutputsUseCase writes the JSON snapshot and/or the Go source file.
// Empty paths are skipped.
type WriteOutputsUseCase struct {
	FsRepo     repository.FileSystemRepository
	JSONPath   string
	GoPath     string
	Conference string
	GoOptions  codegen.GoOptions
}

func (uc *WriteOutputsUseCase) Execute(ctx context.Context, schedule domain.Schedule) error {
	log := logger.FromContext(ctx)
	if uc.JSONPath == "" && uc.GoPath == "" {
		return fmt.Errorf("no output path configured")
	}
	if uc.JSONPath != "" {
		data, err := codegen.EncodeJSON(codegen.NewDocument(uc.Conference, schedule), uc.GoOptions.Vocabulary)
		if err != nil {
			return err
		}
		if err := writeFile(uc.FsRepo, uc.JSONPath, data); err != nil {
			return err
		}
		log.Info("Wrote JSON snapshot", "path", uc.JSONPath, "sessions", schedule.Count())
	}
	if uc.GoPath != "" {
		opts := uc.GoOptions
		if opts.Conference == "" {
			opts.Conference = uc.Conference
		}
		data, err := codegen.EncodeGo(schedule, opts)
		if err != nil {
			return err
		}
		if err := writeFile(uc.FsRepo, uc.GoPath, data); err != nil {
			return err
		}
		log.Info("Wrote Go source", "path", uc.GoPath, "package", opts.Package)
	}
	return nil
}

// writeFile replaces path through a sibling temp file, so a failed run
// leaves the previous output in place.
func writeFile(fs afero.Fs, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, FilePermissionsReadWrite); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
