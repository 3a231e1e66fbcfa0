package aggregator

import (
	"fmt"
	"maps"
	"slices"

	"github.com/coscup/sessiongen/internal/classifier"
	"github.com/coscup/sessiongen/internal/domain"
	"github.com/coscup/sessiongen/internal/normalizer"
)

// Warning is a data-quality finding about an emitted session.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunStats summarizes one pipeline run.
type RunStats struct {
	Submissions    int                           `json:"submissions"`
	Emitted        int                           `json:"emitted"`
	Skips          map[normalizer.SkipReason]int `json:"skips"`
	SkippedCodes   []string                      `json:"skipped_codes"`
	OverrideTagged int                           `json:"override_tagged"`
	KeywordTagged  int                           `json:"keyword_tagged"`
	DefaultTagged  int                           `json:"default_tagged"`
	// DerivedCodes lists the sessions whose tags were not in the override
	// table, i.e. the ones a curator may want to review.
	DerivedCodes []string  `json:"derived_codes"`
	Warnings     []Warning `json:"warnings"`

	seen map[string]struct{}
}

// NewRunStats returns empty statistics.
func NewRunStats() *RunStats {
	return &RunStats{
		Skips: make(map[normalizer.SkipReason]int),
		seen:  make(map[string]struct{}),
	}
}

// RecordSkip counts a record that produced no session.
func (r *RunStats) RecordSkip(code string, reason normalizer.SkipReason) {
	r.Submissions++
	r.Skips[reason]++
	if code != "" {
		r.SkippedCodes = append(r.SkippedCodes, code)
	}
}

// RecordSession counts an emitted session and collects quality warnings.
func (r *RunStats) RecordSession(s domain.Session, origin classifier.Origin) {
	r.Submissions++
	r.Emitted++
	switch origin {
	case classifier.OriginOverride:
		r.OverrideTagged++
	case classifier.OriginKeywords:
		r.KeywordTagged++
		r.DerivedCodes = append(r.DerivedCodes, s.Code)
	case classifier.OriginDefault:
		r.DefaultTagged++
		r.DerivedCodes = append(r.DerivedCodes, s.Code)
	}
	if _, dup := r.seen[s.Code]; dup {
		r.warn(s.Code, "duplicate session code")
	}
	r.seen[s.Code] = struct{}{}
	if !s.TimeOrderValid() {
		r.warn(s.Code, fmt.Sprintf("end %s is before start %s", s.End, s.Start))
	}
}

func (r *RunStats) warn(code, msg string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: msg})
}

// Skipped totals the skipped records.
func (r *RunStats) Skipped() int {
	total := 0
	for _, n := range r.Skips {
		total += n
	}
	return total
}

// SkipReasons returns the reasons that occurred, sorted.
func (r *RunStats) SkipReasons() []normalizer.SkipReason {
	return slices.Sorted(maps.Keys(r.Skips))
}
