package normalizer

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/coscup/sessiongen/internal/domain"
	"github.com/coscup/sessiongen/internal/source"
)

// SkipReason explains why a record produced no session. Empty means the
// record was normalized.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipMissingCode    SkipReason = "missing_code"
	SkipNoSlot         SkipReason = "no_slot"
	SkipIncompleteSlot SkipReason = "incomplete_slot"
	SkipInvalidTime    SkipReason = "invalid_time"
)

const ellipsis = "..."

// Options configures a Normalizer.
type Options struct {
	Location           *time.Location
	DayLayout          string
	ClockLayout        string
	AbstractLimit      int
	RoomLocales        []string
	TrackLocales       []string
	DefaultTrack       string
	DifficultyQuestion source.ID
	LanguageQuestion   source.ID
	DefaultDifficulty  string
	DefaultLanguage    string
	Difficulties       ValueMap
	Languages          ValueMap
	SessionURLBase     string
}

// DefaultOptions mirrors the COSCUP 2025 conventions.
func DefaultOptions() Options {
	return Options{
		Location:           time.FixedZone("Asia/Taipei", 8*60*60),
		DayLayout:          domain.DayLayout,
		ClockLayout:        "15:04",
		AbstractLimit:      200,
		RoomLocales:        []string{"en", "zh-tw"},
		TrackLocales:       []string{"zh-tw", "en"},
		DefaultTrack:       "General",
		DifficultyQuestion: "59",
		LanguageQuestion:   "57",
		DefaultDifficulty:  "入門",
		DefaultLanguage:    "漢語",
		Difficulties:       DefaultDifficulties,
		Languages:          DefaultLanguages,
		SessionURLBase:     "https://coscup.org/2025/sessions/",
	}
}

// Normalizer converts raw records into canonical sessions.
type Normalizer struct {
	opts Options
}

// New returns a Normalizer. Zero-valued options fall back to DefaultOptions.
func New(opts Options) *Normalizer {
	def := DefaultOptions()
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if opts.DayLayout == "" {
		opts.DayLayout = def.DayLayout
	}
	if opts.ClockLayout == "" {
		opts.ClockLayout = def.ClockLayout
	}
	if opts.AbstractLimit <= 0 {
		opts.AbstractLimit = def.AbstractLimit
	}
	if len(opts.RoomLocales) == 0 {
		opts.RoomLocales = def.RoomLocales
	}
	if len(opts.TrackLocales) == 0 {
		opts.TrackLocales = def.TrackLocales
	}
	if opts.DefaultTrack == "" {
		opts.DefaultTrack = def.DefaultTrack
	}
	if opts.Difficulties == nil {
		opts.Difficulties = def.Difficulties
	}
	if opts.Languages == nil {
		opts.Languages = def.Languages
	}
	return &Normalizer{opts: opts}
}

// Normalize produces one session from rec, or a skip reason. Tags are left
// empty; the classifier assigns them.
func (n *Normalizer) Normalize(rec source.RawRecord, lookup source.Lookup) (domain.Session, SkipReason) {
	code := strings.TrimSpace(rec.Code)
	if code == "" {
		return domain.Session{}, SkipMissingCode
	}
	if len(rec.Slots) == 0 {
		return domain.Session{}, SkipNoSlot
	}
	slot := rec.Slots[0]
	if !slot.Complete() {
		return domain.Session{}, SkipIncompleteSlot
	}
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(slot.Start))
	if err != nil {
		return domain.Session{}, SkipInvalidTime
	}
	end, err := time.Parse(time.RFC3339, strings.TrimSpace(slot.End))
	if err != nil {
		return domain.Session{}, SkipInvalidTime
	}
	start, end = start.In(n.opts.Location), end.In(n.opts.Location)

	return domain.Session{
		Code:       code,
		Title:      clean(rec.Title),
		Speakers:   n.speakers(rec.SpeakerCodes, lookup.Speakers),
		Start:      start.Format(n.opts.ClockLayout),
		End:        end.Format(n.opts.ClockLayout),
		Track:      n.trackName(rec.TrackID, lookup.Tracks),
		Abstract:   Truncate(clean(rec.Abstract), n.opts.AbstractLimit),
		Language:   n.opts.Languages.Apply(n.answer(rec.Language, rec, n.opts.LanguageQuestion, n.opts.DefaultLanguage)),
		Difficulty: n.opts.Difficulties.Apply(n.answer(rec.Difficulty, rec, n.opts.DifficultyQuestion, n.opts.DefaultDifficulty)),
		Room:       n.roomName(*slot.RoomID, lookup.Rooms),
		Day:        start.Format(n.opts.DayLayout),
		URL:        domain.SessionURL(n.opts.SessionURLBase, code),
	}, SkipNone
}

func (n *Normalizer) roomName(id source.ID, rooms map[source.ID]source.LocalizedText) string {
	if name := rooms[id].Pick(n.opts.RoomLocales...); name != "" {
		return clean(name)
	}
	return fmt.Sprintf("Room%s", id)
}

func (n *Normalizer) trackName(id *source.ID, tracks map[source.ID]source.LocalizedText) string {
	if id == nil {
		return n.opts.DefaultTrack
	}
	if name := tracks[*id].Pick(n.opts.TrackLocales...); name != "" {
		return clean(name)
	}
	return n.opts.DefaultTrack
}

func (n *Normalizer) speakers(codes []source.ID, table map[string]string) []string {
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		if name := strings.TrimSpace(table[string(code)]); name != "" {
			names = append(names, clean(name))
			continue
		}
		names = append(names, string(code))
	}
	return names
}

// answer prefers an explicit record value, then the form answer, then the
// fallback.
func (n *Normalizer) answer(explicit string, rec source.RawRecord, question source.ID, fallback string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if question != "" {
		if v, ok := rec.AnswerTo(question); ok && v != "" {
			return v
		}
	}
	return fallback
}

// Truncate cuts s to limit runes and appends an ellipsis when it was longer.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + ellipsis
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
