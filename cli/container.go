package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/coscup/sessiongen/internal/classifier"
	"github.com/coscup/sessiongen/internal/codegen"
	"github.com/coscup/sessiongen/internal/domain"
	"github.com/coscup/sessiongen/internal/normalizer"
	"github.com/coscup/sessiongen/internal/overrides"
	"github.com/coscup/sessiongen/internal/repository"
	"github.com/coscup/sessiongen/internal/source"
	"github.com/coscup/sessiongen/internal/usecase"
	"github.com/coscup/sessiongen/pkg/config"
	"github.com/coscup/sessiongen/pkg/version"
)

// container holds all the dependencies for one command run.
type container struct {
	cfg    *config.Config
	fsRepo repository.FileSystemRepository
	vocab  *domain.Vocabulary
}

// newContainer creates a new container with all the dependencies.
func newContainer(cfg *config.Config, fs afero.Fs) *container {
	return &container{
		cfg:    cfg,
		fsRepo: repository.FileSystemRepository(fs),
		vocab:  domain.DefaultVocabulary,
	}
}

func (c *container) clientOptions() repository.ClientOptions {
	userAgent := c.cfg.Pretalx.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	return repository.ClientOptions{
		BaseURL:    c.cfg.Pretalx.BaseURL,
		Timeout:    c.cfg.Pretalx.Timeout,
		UserAgent:  userAgent,
		RetryCount: c.cfg.Pretalx.RetryCount,
		RetryDelay: c.cfg.Pretalx.RetryDelay,
	}
}

func (c *container) fetchPretalx() *usecase.FetchPretalxUseCase {
	repo := repository.NewPretalxRepository(repository.PretalxOptions{
		ClientOptions: c.clientOptions(),
		Event:         c.cfg.Pretalx.Event,
		State:         c.cfg.Pretalx.State,
		PageSize:      c.cfg.Pretalx.PageSize,
	})
	return &usecase.FetchPretalxUseCase{Repo: repo}
}

func (c *container) extractBundle() *usecase.ExtractBundleUseCase {
	opts := c.clientOptions()
	opts.BaseURL = ""
	return &usecase.ExtractBundleUseCase{
		Repo:   repository.NewBundleRepository(c.cfg.Bundle.URL, opts),
		Locale: c.cfg.Bundle.Locale,
	}
}

func (c *container) buildSchedule(ctx context.Context) (*usecase.BuildScheduleUseCase, error) {
	loc, err := c.cfg.Location()
	if err != nil {
		return nil, err
	}
	table, err := overrides.Load(ctx, c.fsRepo, c.vocab, c.cfg.Overrides.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load override tables: %w", err)
	}
	cls, err := classifier.New(c.vocab, classifier.DefaultRules, table, classifier.Options{
		MaxTags:         c.cfg.Classifier.MaxTags,
		IncludeAbstract: c.cfg.Classifier.IncludeAbstract,
	})
	if err != nil {
		return nil, err
	}
	n := c.cfg.Normalizer
	norm := normalizer.New(normalizer.Options{
		Location:           loc,
		AbstractLimit:      n.AbstractLimit,
		RoomLocales:        n.RoomLocales,
		TrackLocales:       n.TrackLocales,
		DefaultTrack:       n.DefaultTrack,
		DifficultyQuestion: source.ID(n.DifficultyQuestion),
		LanguageQuestion:   source.ID(n.LanguageQuestion),
		DefaultDifficulty:  n.DefaultDifficulty,
		DefaultLanguage:    n.DefaultLanguage,
		SessionURLBase:     c.cfg.Conference.SessionURLBase,
	})
	return &usecase.BuildScheduleUseCase{Normalizer: norm, Classifier: cls}, nil
}

// writeOutputs writes to the given paths. stamp adds the generation time to
// the Go header.
func (c *container) writeOutputs(jsonPath, goPath string, stamp bool) *usecase.WriteOutputsUseCase {
	opts := codegen.GoOptions{
		Package:    c.cfg.Output.GoPackage,
		Var:        c.cfg.Output.GoVar,
		Conference: c.cfg.Conference.Name,
		Vocabulary: c.vocab,
	}
	if stamp {
		opts.Now = time.Now
	}
	return &usecase.WriteOutputsUseCase{
		FsRepo:     c.fsRepo,
		JSONPath:   jsonPath,
		GoPath:     goPath,
		Conference: c.cfg.Conference.Name,
		GoOptions:  opts,
	}
}

// outputPaths returns the configured writer targets. With none configured
// the JSON snapshot goes to the name derived from the conference.
func (c *container) outputPaths() (string, string) {
	jsonPath, goPath := c.cfg.Output.JSONPath, c.cfg.Output.GoPath
	if jsonPath == "" && goPath == "" {
		jsonPath = c.cfg.DefaultJSONPath()
	}
	return jsonPath, goPath
}

// snapshotPath resolves the JSON snapshot read by generate, verify and
// overrides export.
func (c *container) snapshotPath(input string) string {
	switch {
	case input != "":
		return input
	case c.cfg.Output.JSONPath != "":
		return c.cfg.Output.JSONPath
	default:
		return c.cfg.DefaultJSONPath()
	}
}

func (c *container) loadSnapshot() *usecase.LoadSnapshotUseCase {
	return &usecase.LoadSnapshotUseCase{FsRepo: c.fsRepo, Vocabulary: c.vocab}
}

func (c *container) exportOverrides() *usecase.ExportOverridesUseCase {
	return &usecase.ExportOverridesUseCase{FsRepo: c.fsRepo}
}

func (c *container) verify() *usecase.VerifyUseCase {
	return &usecase.VerifyUseCase{}
}
