package codegen

import (
	"bytes"
	"go/parser"
	"go/token"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coscup/sessiongen/internal/domain"
)

func sampleSchedule() domain.Schedule {
	return domain.Schedule{
		"Aug.10": {
			"TR211": {
				{Code: "ZZZ111", Title: "Closing", Speakers: []string{}, Start: "16:00", End: "16:30",
					Track: "General", Language: "漢語", Difficulty: "入門", Room: "TR211", Day: "Aug.10",
					Tags: []domain.Tag{domain.TagKeynote}},
			},
		},
		"Aug.9": {
			"RB101": {
				{Code: "AAA111", Title: `Agents <& "quotes">`, Speakers: []string{"Alice", "Bob"},
					Start: "09:30", End: "10:00", Track: "AI", Abstract: "LLM agents\nin prod",
					Language: "英語", Difficulty: "進階", Room: "RB101", Day: "Aug.9",
					URL: "https://coscup.org/2025/sessions/AAA111",
					Tags: []domain.Tag{domain.TagAI, domain.TagLanguages}},
				{Code: "BBB222", Title: "Go", Speakers: []string{"Carol"}, Start: "10:00", End: "10:30",
					Track: "Golang", Language: "漢語", Difficulty: "入門", Room: "RB101", Day: "Aug.9",
					Tags: []domain.Tag{domain.TagLanguages}},
			},
		},
	}
}

func TestJSON(t *testing.T) {
	t.Run("Should be idempotent through decode and re-encode", func(t *testing.T) {
		first, err := EncodeJSON(NewDocument("COSCUP 2025", sampleSchedule()), nil)
		require.NoError(t, err)

		doc, err := DecodeJSON(first, nil)
		require.NoError(t, err)
		second, err := EncodeJSON(doc, nil)
		require.NoError(t, err)

		assert.Equal(t, string(first), string(second))
		assert.Equal(t, sampleSchedule(), doc.Structure)
		assert.Equal(t, 3, doc.TotalSessions)
	})

	t.Run("Should write labels, raw HTML characters and a trailing newline", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteJSON(&buf, NewDocument("COSCUP 2025", sampleSchedule()), nil))

		out := buf.String()
		assert.Contains(t, out, `"🧠 AI"`)
		assert.Contains(t, out, `Agents <& \"quotes\">`)
		assert.Contains(t, out, "\n  \"conference\": \"COSCUP 2025\"")
		assert.True(t, strings.HasSuffix(out, "}\n"))
		assert.Less(t, strings.Index(out, `"conference"`), strings.Index(out, `"structure"`))
	})

	t.Run("Should spell tags through the given vocabulary", func(t *testing.T) {
		vocab, err := domain.NewVocabulary(
			domain.TagEntry{Tag: domain.TagAI, Label: "Artificial Intelligence"},
			domain.TagEntry{Tag: domain.TagLanguages, Label: "Programming Languages"},
			domain.TagEntry{Tag: domain.TagKeynote, Label: "Keynote"},
		)
		require.NoError(t, err)

		out, err := EncodeJSON(NewDocument("COSCUP 2025", sampleSchedule()), vocab)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"Artificial Intelligence"`)
		assert.NotContains(t, string(out), `"🧠 AI"`)

		doc, err := DecodeJSON(out, vocab)
		require.NoError(t, err)
		assert.Equal(t, sampleSchedule(), doc.Structure)

		_, err = DecodeJSON(out, nil)
		assert.ErrorIs(t, err, domain.ErrUnknownTag)
	})

	t.Run("Should accept a bare day map", func(t *testing.T) {
		doc, err := ReadJSON(strings.NewReader(`{"Aug.9":{"RB101":[{"code":"X","tags":["AI","TagData","📊 Data"]}]}}`), nil)

		require.NoError(t, err)
		s := doc.Structure["Aug.9"]["RB101"][0]
		assert.Equal(t, []domain.Tag{domain.TagAI, domain.TagData, domain.TagData}, s.Tags)
		assert.Equal(t, 1, doc.TotalSessions)
	})

	t.Run("Should reject invalid documents and unknown tags", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`{"structure":`), nil)
		assert.Error(t, err)

		_, err = DecodeJSON([]byte(`{"structure":{"Aug.9":{"RB101":[{"code":"X","tags":["Cooking"]}]}}}`), nil)
		assert.ErrorIs(t, err, domain.ErrUnknownTag)
	})
}

func TestGo(t *testing.T) {
	opts := GoOptions{Package: "mcp", Var: "COSCUPData", Conference: "COSCUP 2025"}

	t.Run("Should render a parseable file with tag constants", func(t *testing.T) {
		out, err := EncodeGo(sampleSchedule(), opts)
		require.NoError(t, err)

		_, err = parser.ParseFile(token.NewFileSet(), "data.go", out, parser.ParseComments)
		require.NoError(t, err)

		src := string(out)
		assert.True(t, strings.HasPrefix(src, "// Code generated by sessiongen. DO NOT EDIT.\n\npackage mcp\n"))
		assert.Contains(t, src, `TagAI          = "🧠 AI"`)
		assert.Contains(t, src, `TagSideProject = "💡 SideProject"`)
		assert.Contains(t, src, "var COSCUPData = map[string]map[string][]Session{")
		assert.Contains(t, src, `Title:      "Agents <& \"quotes\">",`)
		assert.Contains(t, src, `Abstract:   "LLM agents\nin prod",`)
		assert.Contains(t, src, `Speakers:   []string{"Alice", "Bob"},`)
		assert.Contains(t, src, `Speakers:   []string{},`)
		assert.Contains(t, src, "Tags:       []string{TagAI, TagLanguages},")
		assert.Contains(t, src, `URL:        "https://coscup.org/2025/sessions/AAA111",`)
		assert.Less(t, strings.Index(src, `"Aug.9": {`), strings.Index(src, `"Aug.10": {`))
		assert.Less(t, strings.Index(src, `"AAA111"`), strings.Index(src, `"BBB222"`))
		assert.NotContains(t, src, "Generated at")
	})

	t.Run("Should stamp the injected generation time", func(t *testing.T) {
		withClock := opts
		withClock.Now = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }

		out, err := EncodeGo(sampleSchedule(), withClock)

		require.NoError(t, err)
		assert.Contains(t, string(out), "// Generated at 2025-07-01T12:00:00Z.\n")
	})

	t.Run("Should quote tags missing from the vocabulary", func(t *testing.T) {
		schedule := domain.Schedule{"Aug.9": {"RB101": {{Code: "X", Tags: []domain.Tag{"Cooking"}}}}}

		out, err := EncodeGo(schedule, opts)

		require.NoError(t, err)
		assert.Contains(t, string(out), `Tags:       []string{"Cooking"},`)
	})

	t.Run("Should fail on an invalid package name", func(t *testing.T) {
		bad := opts
		bad.Package = "not valid"

		_, err := EncodeGo(sampleSchedule(), bad)
		assert.Error(t, err)
	})
}
