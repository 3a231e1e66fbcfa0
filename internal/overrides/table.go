// Package overrides loads and writes the versioned table of known session
// tags. Sessions listed in the table keep their tags verbatim; everything
// else is classified by keywords.
package overrides

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/coscup/sessiongen/internal/domain"
	"github.com/coscup/sessiongen/pkg/logger"
)

// CurrentVersion is written into exported tables.
const CurrentVersion = "1.0.0"

// supportedVersions is the range of table versions this build understands.
const supportedVersions = "^1"

var (
	ErrMissingVersion      = errors.New("override table: version is required")
	ErrIncompatibleVersion = errors.New("override table: incompatible version")
)

type document struct {
	Version string              `yaml:"version"`
	Tags    map[string][]string `yaml:"tags"`
}

// Table maps session codes to authoritative tags.
type Table struct {
	version *semver.Version
	entries map[string][]domain.Tag
}

// New returns an empty table at CurrentVersion.
func New() *Table {
	return &Table{
		version: semver.MustParse(CurrentVersion),
		entries: make(map[string][]domain.Tag),
	}
}

// Tags returns the known tags for code.
func (t *Table) Tags(code string) ([]domain.Tag, bool) {
	if t == nil {
		return nil, false
	}
	tags, ok := t.entries[code]
	return slices.Clone(tags), ok
}

// Set records tags for code. Empty lists remove the entry.
func (t *Table) Set(code string, tags []domain.Tag) {
	if len(tags) == 0 {
		delete(t.entries, code)
		return
	}
	t.entries[code] = slices.Clone(tags)
}

// Len returns the number of codes in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Codes returns the known codes in sorted order.
func (t *Table) Codes() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

// Version returns the table version.
func (t *Table) Version() *semver.Version {
	return t.version
}

// Merge copies other's entries into t; other wins on conflicts.
func (t *Table) Merge(other *Table) {
	for code, tags := range other.entries {
		t.entries[code] = slices.Clone(tags)
	}
	if other.version != nil && other.version.GreaterThan(t.version) {
		t.version = other.version
	}
}

// Decode parses a YAML or JSON table and resolves its tags through vocab.
// Codes listed with no tags are dropped.
func Decode(data []byte, vocab *domain.Vocabulary) (*Table, error) {
	table, _, err := decode(data, vocab)
	return table, err
}

func decode(data []byte, vocab *domain.Vocabulary) (*Table, []string, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("override table: %w", err)
	}
	if strings.TrimSpace(doc.Version) == "" {
		return nil, nil, ErrMissingVersion
	}
	version, err := semver.NewVersion(doc.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("override table: invalid version %q: %w", doc.Version, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return nil, nil, err
	}
	if !constraint.Check(version) {
		return nil, nil, fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleVersion, version, supportedVersions)
	}
	table := &Table{version: version, entries: make(map[string][]domain.Tag, len(doc.Tags))}
	var empty []string
	for code, values := range doc.Tags {
		code = strings.TrimSpace(code)
		if len(values) == 0 {
			empty = append(empty, code)
			continue
		}
		tags, err := vocab.Resolve(values)
		if err != nil {
			return nil, nil, fmt.Errorf("override table: session %s: %w", code, err)
		}
		table.Set(code, tags)
	}
	slices.Sort(empty)
	return table, empty, nil
}

// Encode writes the table as YAML with codes sorted and tags as identifiers.
func (t *Table) Encode(w io.Writer) error {
	tags := make(yaml.MapSlice, 0, len(t.entries))
	for _, code := range t.Codes() {
		ids := make([]string, 0, len(t.entries[code]))
		for _, tag := range t.entries[code] {
			ids = append(ids, string(tag))
		}
		tags = append(tags, yaml.MapItem{Key: code, Value: ids})
	}
	doc := yaml.MapSlice{
		{Key: "version", Value: t.version.String()},
		{Key: "tags", Value: tags},
	}
	data, err := yaml.MarshalWithOptions(doc, yaml.IndentSequence(true))
	if err != nil {
		return fmt.Errorf("override table: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Load reads every file matching patterns, in order, and merges them. Later
// files win per code. Patterns may use doublestar globs.
func Load(ctx context.Context, fs afero.Fs, vocab *domain.Vocabulary, patterns ...string) (*Table, error) {
	log := logger.FromContext(ctx)
	table := New()
	for _, pattern := range patterns {
		paths, err := expand(fs, pattern)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			log.Warn("Override pattern matched no files", "pattern", pattern)
		}
		for _, path := range paths {
			data, err := afero.ReadFile(fs, path)
			if err != nil {
				return nil, fmt.Errorf("override table %s: %w", path, err)
			}
			loaded, empty, err := decode(data, vocab)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			for _, code := range empty {
				log.Warn("Ignoring override with no tags", "path", path, "code", code)
			}
			table.Merge(loaded)
			log.Debug("Loaded override table", "path", path, "sessions", loaded.Len(), "version", loaded.Version())
		}
	}
	return table, nil
}

// expand resolves a doublestar pattern against fs. Literal paths are
// returned as-is so that a missing file surfaces as a read error.
func expand(fs afero.Fs, pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}
	base, rel := doublestar.SplitPattern(filepath.ToSlash(pattern))
	root := fs
	if base != "." {
		root = afero.NewBasePathFs(fs, base)
	}
	matches, err := doublestar.Glob(afero.NewIOFS(root), rel)
	if err != nil {
		return nil, fmt.Errorf("override pattern %q: %w", pattern, err)
	}
	slices.Sort(matches)
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(base, filepath.FromSlash(m)))
	}
	return paths, nil
}

// FromSchedule builds a table from the tags already present in s.
func FromSchedule(s domain.Schedule) *Table {
	table := New()
	for _, session := range s.Sessions() {
		table.Set(session.Code, session.Tags)
	}
	return table
}
