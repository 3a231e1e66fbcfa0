package bundle

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/coscup/sessiongen/internal/source"
)

// Extract locates, repairs and reads the submission array of a script.
func Extract(script, locale string) (source.Batch, error) {
	raw, err := Payload(script)
	if err != nil {
		return source.Batch{}, err
	}
	payload, err := Decode(raw)
	if err != nil {
		return source.Batch{}, err
	}
	return Read(payload, locale), nil
}

// Read converts a valid JSON array of bundle submissions into raw records.
// Rooms, tracks and speakers are inlined in the bundle, so the lookup tables
// are built from the values seen, under locale.
func Read(payload, locale string) source.Batch {
	batch := source.Batch{Lookup: source.NewLookup()}
	gjson.Parse(payload).ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			batch.Records = append(batch.Records, readRecord(item, locale, batch.Lookup))
		}
		return true
	})
	return batch
}

func readRecord(item gjson.Result, locale string, lookup source.Lookup) source.RawRecord {
	rec := source.RawRecord{
		Code:       firstString(item, "code", "id"),
		Title:      localized(item.Get("title"), locale),
		Abstract:   localized(item.Get("abstract"), locale),
		Language:   localized(item.Get("language"), locale),
		Difficulty: localized(item.Get("difficulty"), locale),
	}
	item.Get("speakers").ForEach(func(_, sp gjson.Result) bool {
		code, name := entity(sp, locale)
		if code == "" {
			return true
		}
		if name != "" {
			lookup.Speakers[code] = name
		}
		rec.SpeakerCodes = append(rec.SpeakerCodes, source.ID(code))
		return true
	})
	if id, name := entity(item.Get("track"), locale); id != "" {
		rec.TrackID = source.ID(id).Ptr()
		if name != "" {
			lookup.Tracks[source.ID(id)] = source.LocalizedText{locale: name}
		}
	}
	start, end := item.Get("start").String(), item.Get("end").String()
	if start == "" && end == "" {
		return rec
	}
	slot := source.RawSlot{Start: start, End: end}
	if id, name := entity(item.Get("room"), locale); id != "" {
		slot.RoomID = source.ID(id).Ptr()
		if name != "" {
			lookup.Rooms[source.ID(id)] = source.LocalizedText{locale: name}
		}
	}
	rec.Slots = []source.RawSlot{slot}
	return rec
}

// entity reads a value that is either a bare name or an object with an
// id/code and a (possibly localized) name. The name doubles as the id when
// no id is present.
func entity(v gjson.Result, locale string) (id, name string) {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return "", ""
	case v.IsObject():
		name = localized(v.Get("name"), locale)
		id = firstString(v, "code", "id")
		if id == "" {
			id = name
		}
		return id, name
	default:
		name = strings.TrimSpace(v.String())
		return name, name
	}
}

// localized returns a string value, or the locale entry of a locale map
// falling back to "en" and then to any entry.
func localized(v gjson.Result, locale string) string {
	if !v.IsObject() {
		if v.Type == gjson.Null {
			return ""
		}
		return v.String()
	}
	for _, key := range []string{locale, "en"} {
		if s := v.Get(gjson.Escape(key)); s.Exists() && s.String() != "" {
			return s.String()
		}
	}
	var out string
	v.ForEach(func(_, s gjson.Result) bool {
		out = s.String()
		return out == ""
	})
	return out
}

func firstString(v gjson.Result, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(v.Get(key).String()); s != "" {
			return s
		}
	}
	return ""
}
