// Package source holds the raw record shapes shared by the pretalx and
// script-bundle adapters, before normalization.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an opaque identifier that pretalx emits as a number in some
// endpoints and as a string in others.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID   *ID    `json:"id"`
			Code string `json:"code"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		switch {
		case obj.ID != nil:
			*id = *obj.ID
		default:
			*id = ID(obj.Code)
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Ptr returns a pointer to id, or nil when it is empty.
func (id ID) Ptr() *ID {
	if id == "" {
		return nil
	}
	return &id
}

// LocalizedText is a locale -> text map. It also decodes from a bare string,
// which is stored under the empty locale.
type LocalizedText map[string]string

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = LocalizedText{"": s}
		return nil
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*t = m
	return nil
}

// Pick returns the first non-blank text among locales, then the bare string.
func (t LocalizedText) Pick(locales ...string) string {
	for _, locale := range locales {
		if s := strings.TrimSpace(t[locale]); s != "" {
			return s
		}
	}
	return strings.TrimSpace(t[""])
}

// RawSlot is a scheduled time/room assignment in source form.
type RawSlot struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	RoomID *ID    `json:"room"`
}

// Complete reports whether the slot carries start, end and room.
func (s RawSlot) Complete() bool {
	return strings.TrimSpace(s.Start) != "" &&
		strings.TrimSpace(s.End) != "" &&
		s.RoomID != nil && *s.RoomID != ""
}

// Answer is a free-form answer to a submission form question.
type Answer struct {
	Question ID     `json:"question"`
	Answer   string `json:"answer"`
}

// RawRecord is one submission as delivered by a source.
type RawRecord struct {
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Abstract     string    `json:"abstract"`
	SpeakerCodes []ID      `json:"speakers"`
	TrackID      *ID       `json:"track"`
	Slots        []RawSlot `json:"slots"`
	Answers      []Answer  `json:"answers"`
	// Language and Difficulty are set when the source carries them directly.
	Language   string `json:"-"`
	Difficulty string `json:"-"`
}

// AnswerTo returns the trimmed answer for a question.
func (r RawRecord) AnswerTo(question ID) (string, bool) {
	for _, a := range r.Answers {
		if a.Question == question {
			return strings.TrimSpace(a.Answer), true
		}
	}
	return "", false
}

// Lookup holds the reference tables a record is resolved against.
type Lookup struct {
	Rooms    map[ID]LocalizedText
	Tracks   map[ID]LocalizedText
	Speakers map[string]string
}

// NewLookup returns a Lookup with empty tables.
func NewLookup() Lookup {
	return Lookup{
		Rooms:    make(map[ID]LocalizedText),
		Tracks:   make(map[ID]LocalizedText),
		Speakers: make(map[string]string),
	}
}

// Batch is one complete snapshot from a source.
type Batch struct {
	Records []RawRecord
	Lookup  Lookup
}
