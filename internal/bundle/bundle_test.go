package bundle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coscup/sessiongen/internal/source"
)

func script(payload string) string {
	return "const e=JSON.parse(`" + payload + "`);export{e as default};"
}

func TestPayload(t *testing.T) {
	t.Run("Should capture the first embedded array", func(t *testing.T) {
		raw, err := Payload(script(`[{"code":"A"}]`) + script(`[{"code":"B"}]`))

		require.NoError(t, err)
		assert.Equal(t, `[{"code":"A"}]`, raw)
	})

	t.Run("Should span lines", func(t *testing.T) {
		raw, err := Payload(script("[\n{\"code\":\"A\"}\n]"))

		require.NoError(t, err)
		assert.Equal(t, "[\n{\"code\":\"A\"}\n]", raw)
	})

	t.Run("Should report a missing payload", func(t *testing.T) {
		_, err := Payload("const e={};")
		assert.ErrorIs(t, err, ErrNoPayload)
	})
}

func TestDecode(t *testing.T) {
	t.Run("Should unescape template literal sequences", func(t *testing.T) {
		out, err := Decode("[{\"title\":\"Use \\`go vet\\` for \\$HOME and C:\\\\\\\\tmp\"}]")

		require.NoError(t, err)
		assert.Equal(t, "[{\"title\":\"Use `go vet` for $HOME and C:\\\\tmp\"}]", out)
	})

	t.Run("Should keep JSON escapes produced by the literal", func(t *testing.T) {
		out, err := Decode(`[{"title":"say \\"hi\\"\\n"}]`)

		require.NoError(t, err)
		assert.Equal(t, `[{"title":"say \"hi\"\n"}]`, out)
	})

	t.Run("Should drop backslashes that are not JSON escapes", func(t *testing.T) {
		out, err := Decode(`[{"title":"regex \d+ and \u00e9"}]`)

		require.NoError(t, err)
		assert.Equal(t, `[{"title":"regex d+ and \u00e9"}]`, out)
	})

	t.Run("Should return a ParseError with a bounded preview", func(t *testing.T) {
		broken := `[{"title":"` + strings.Repeat("長", 600) + `"`

		_, err := Decode(broken)

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.NotEmpty(t, perr.Reason)
		assert.Equal(t, 500, len([]rune(perr.Preview)))
		assert.True(t, strings.HasPrefix(perr.Preview, `[{"title":"長`))
	})
}

func TestExtract(t *testing.T) {
	t.Run("Should build records and lookup tables from inline values", func(t *testing.T) {
		js := script(`[
			{"code":"JPADKC","title":"AI Agents","abstract":"Agents in \` + "`" + `prod\` + "`" + `",
			 "speakers":[{"code":"SPK1","name":"Alice"},{"name":"Bob"}],
			 "room":{"id":12,"name":"RB101"},"track":{"id":"t1","name":{"zh-tw":"AI 軌","en":"AI Track"}},
			 "start":"2025-08-09T09:30:00+08:00","end":"2025-08-09T10:00:00+08:00",
			 "language":"English","difficulty":"Advanced"},
			{"code":"NOSLOT","title":"Unscheduled","room":null},
			{"id":"NOROOM","title":"No room","start":"2025-08-09T11:00:00+08:00","end":"2025-08-09T11:30:00+08:00","room":"TR211"}
		]`)

		batch, err := Extract(js, "zh-tw")

		require.NoError(t, err)
		require.Len(t, batch.Records, 3)

		first := batch.Records[0]
		assert.Equal(t, "JPADKC", first.Code)
		assert.Equal(t, "Agents in `prod`", first.Abstract)
		assert.Equal(t, []source.ID{"SPK1", "Bob"}, first.SpeakerCodes)
		assert.Equal(t, "Alice", batch.Lookup.Speakers["SPK1"])
		assert.Equal(t, "Bob", batch.Lookup.Speakers["Bob"])
		require.Len(t, first.Slots, 1)
		require.NotNil(t, first.Slots[0].RoomID)
		assert.Equal(t, source.ID("12"), *first.Slots[0].RoomID)
		assert.Equal(t, "RB101", batch.Lookup.Rooms["12"].Pick("zh-tw"))
		require.NotNil(t, first.TrackID)
		assert.Equal(t, "AI 軌", batch.Lookup.Tracks["t1"].Pick("zh-tw"))
		assert.Equal(t, "English", first.Language)
		assert.Equal(t, "Advanced", first.Difficulty)

		assert.Empty(t, batch.Records[1].Slots)
		assert.Nil(t, batch.Records[1].TrackID)

		third := batch.Records[2]
		assert.Equal(t, "NOROOM", third.Code)
		require.Len(t, third.Slots, 1)
		assert.Equal(t, source.ID("TR211"), *third.Slots[0].RoomID)
	})

	t.Run("Should yield no data when the payload is unrecoverable", func(t *testing.T) {
		batch, err := Extract(script(`[{"code":"A",}]`), "zh-tw")

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Empty(t, batch.Records)
	})
}
