package usecase

import (
	"context"

	"github.com/coscup/sessiongen/internal/aggregator"
	"github.com/coscup/sessiongen/internal/classifier"
	"github.com/coscup/sessiongen/internal/domain"
	"github.com/coscup/sessiongen/internal/normalizer"
	"github.com/coscup/sessiongen/internal/source"
	"github.com/coscup/sessiongen/pkg/logger"
)

// BuildScheduleUseCase runs normalization, classification and aggregation
// over one snapshot of raw records.
type BuildScheduleUseCase struct {
	Normalizer *normalizer.Normalizer
	Classifier *classifier.Classifier
}

// Execute never fails: records that cannot be normalized are counted in the
// returned stats and left out of the schedule.
func (uc *BuildScheduleUseCase) Execute(
	ctx context.Context,
	records []source.RawRecord,
	lookup source.Lookup,
) (domain.Schedule, *aggregator.RunStats) {
	log := logger.FromContext(ctx)
	stats := aggregator.NewRunStats()
	sessions := make([]domain.Session, 0, len(records))
	for _, rec := range records {
		session, reason := uc.Normalizer.Normalize(rec, lookup)
		if reason != normalizer.SkipNone {
			log.Debug("Skipping record", "code", rec.Code, "reason", reason)
			stats.RecordSkip(rec.Code, reason)
			continue
		}
		tagged, origin := uc.Classifier.Assign(session)
		stats.RecordSession(tagged, origin)
		sessions = append(sessions, tagged)
	}
	for _, w := range stats.Warnings {
		log.Warn("Data quality", "code", w.Code, "issue", w.Message)
	}
	schedule := aggregator.Build(sessions)
	log.Info("Built schedule",
		"submissions", stats.Submissions,
		"sessions", stats.Emitted,
		"skipped", stats.Skipped(),
		"days", len(schedule),
		"override_tagged", stats.OverrideTagged,
		"keyword_tagged", stats.KeywordTagged,
		"default_tagged", stats.DefaultTagged,
	)
	return schedule, stats
}
