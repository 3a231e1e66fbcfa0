package overrides

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coscup/sessiongen/internal/domain"
)

const known = `version: 1.0.0
tags:
  JPADKC:
    - AI
    - "🗣️ Languages"
  QWERTY: [TagSecurity]
  EMPTY: []
`

func TestDecode(t *testing.T) {
	vocab := domain.DefaultVocabulary

	t.Run("Should resolve identifiers, labels and constant names", func(t *testing.T) {
		table, err := Decode([]byte(known), vocab)

		require.NoError(t, err)
		tags, ok := table.Tags("JPADKC")
		require.True(t, ok)
		assert.Equal(t, []domain.Tag{domain.TagAI, domain.TagLanguages}, tags)
		tags, _ = table.Tags("QWERTY")
		assert.Equal(t, []domain.Tag{domain.TagSecurity}, tags)
		assert.Equal(t, 2, table.Len())
		assert.Equal(t, "1.0.0", table.Version().String())
	})

	t.Run("Should ignore codes listed without tags", func(t *testing.T) {
		table, empty, err := decode([]byte(known), vocab)

		require.NoError(t, err)
		_, ok := table.Tags("EMPTY")
		assert.False(t, ok)
		assert.Equal(t, []string{"EMPTY"}, empty)
	})

	t.Run("Should accept JSON tables", func(t *testing.T) {
		table, err := Decode([]byte(`{"version":"1.2.0","tags":{"A":["Data"]}}`), vocab)

		require.NoError(t, err)
		tags, _ := table.Tags("A")
		assert.Equal(t, []domain.Tag{domain.TagData}, tags)
	})

	t.Run("Should reject missing and incompatible versions", func(t *testing.T) {
		_, err := Decode([]byte("tags:\n  A: [AI]\n"), vocab)
		assert.ErrorIs(t, err, ErrMissingVersion)

		_, err = Decode([]byte("version: 2.0.0\ntags:\n  A: [AI]\n"), vocab)
		assert.ErrorIs(t, err, ErrIncompatibleVersion)

		_, err = Decode([]byte("version: banana\n"), vocab)
		assert.Error(t, err)
	})

	t.Run("Should reject unknown tags", func(t *testing.T) {
		_, err := Decode([]byte("version: 1.0.0\ntags:\n  A: [Cooking]\n"), vocab)
		assert.ErrorIs(t, err, domain.ErrUnknownTag)
	})
}

func TestTable(t *testing.T) {
	t.Run("Should return copies of stored tags", func(t *testing.T) {
		table := New()
		table.Set("A", []domain.Tag{domain.TagAI})

		tags, _ := table.Tags("A")
		tags[0] = domain.TagData

		again, _ := table.Tags("A")
		assert.Equal(t, []domain.Tag{domain.TagAI}, again)
	})

	t.Run("Should be safe to query a nil table", func(t *testing.T) {
		var table *Table
		_, ok := table.Tags("A")
		assert.False(t, ok)
		assert.Zero(t, table.Len())
	})

	t.Run("Should let merged entries win and keep the newest version", func(t *testing.T) {
		base, err := Decode([]byte("version: 1.0.0\ntags:\n  A: [AI]\n  B: [Data]\n"), domain.DefaultVocabulary)
		require.NoError(t, err)
		newer, err := Decode([]byte("version: 1.1.0\ntags:\n  A: [Security]\n"), domain.DefaultVocabulary)
		require.NoError(t, err)

		base.Merge(newer)

		tags, _ := base.Tags("A")
		assert.Equal(t, []domain.Tag{domain.TagSecurity}, tags)
		assert.Equal(t, []string{"A", "B"}, base.Codes())
		assert.Equal(t, "1.1.0", base.Version().String())
	})
}

func TestEncode(t *testing.T) {
	t.Run("Should round-trip a table built from a schedule", func(t *testing.T) {
		schedule := domain.Schedule{
			"Aug.9": {
				"RB101": {
					{Code: "ZED", Tags: []domain.Tag{domain.TagKeynote}},
					{Code: "ABC", Tags: []domain.Tag{domain.TagAI, domain.TagData}},
					{Code: "NOTAGS"},
				},
			},
		}
		var buf bytes.Buffer

		require.NoError(t, FromSchedule(schedule).Encode(&buf))

		out := buf.String()
		assert.Contains(t, out, "1.0.0")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte("ABC")), bytes.Index(buf.Bytes(), []byte("ZED")))
		assert.NotContains(t, out, "NOTAGS")

		table, err := Decode(buf.Bytes(), domain.DefaultVocabulary)
		require.NoError(t, err)
		tags, _ := table.Tags("ABC")
		assert.Equal(t, []domain.Tag{domain.TagAI, domain.TagData}, tags)
		assert.Equal(t, 2, table.Len())
	})
}

func TestLoad(t *testing.T) {
	vocab := domain.DefaultVocabulary

	t.Run("Should merge files matched by globs in order", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "known/2025/a.yaml", []byte("version: 1.0.0\ntags:\n  A: [AI]\n  B: [Data]\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, "known/2025/b.yaml", []byte("version: 1.0.0\ntags:\n  A: [Gaming]\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, "known/notes.txt", []byte("ignored"), 0o644))

		table, err := Load(t.Context(), fs, vocab, "known/**/*.yaml")

		require.NoError(t, err)
		tags, _ := table.Tags("A")
		assert.Equal(t, []domain.Tag{domain.TagGaming}, tags)
		assert.Equal(t, 2, table.Len())
	})

	t.Run("Should let later patterns win", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "local.yaml", []byte("version: 1.0.0\ntags:\n  A: [Policy]\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, "tables/base.yaml", []byte("version: 1.0.0\ntags:\n  A: [AI]\n"), 0o644))

		table, err := Load(t.Context(), fs, vocab, "tables/*.yaml", "local.yaml")

		require.NoError(t, err)
		tags, _ := table.Tags("A")
		assert.Equal(t, []domain.Tag{domain.TagPolicy}, tags)
	})

	t.Run("Should tolerate globs with no match but fail on missing literal paths", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		table, err := Load(t.Context(), fs, vocab, "nothing/*.yaml")
		require.NoError(t, err)
		assert.Zero(t, table.Len())

		_, err = Load(t.Context(), fs, vocab, "missing.yaml")
		assert.Error(t, err)
	})

	t.Run("Should name the offending file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("version: 3.0.0\n"), 0o644))

		_, err := Load(t.Context(), fs, vocab, "bad.yaml")

		assert.ErrorIs(t, err, ErrIncompatibleVersion)
		assert.ErrorContains(t, err, "bad.yaml")
	})
}
